// Copyright 2026 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fake

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cheri"
	"github.com/tock/libtock-go/pkg/platform"
)

const (
	defaultMemorySize   = 64 << 10
	defaultInitialBreak = 16 << 10
	defaultFlashStart   = 0x2000_0000
	defaultFlashEnd     = 0x2004_0000
)

// memory is the process RAM, an anonymous mapping created on first use so
// that the addresses handed out lie outside the Go heap.
type memory struct {
	size         uintptr
	initialBreak uintptr
	flashStart   uintptr
	flashEnd     uintptr

	mapping []byte
	brk     uintptr
}

func defaultMemory() memory {
	return memory{
		size:         defaultMemorySize,
		initialBreak: defaultInitialBreak,
		flashStart:   defaultFlashStart,
		flashEnd:     defaultFlashEnd,
	}
}

func (m *memory) start() uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(m.mapping)))
}

func (m *memory) end() uintptr {
	return m.start() + uintptr(len(m.mapping))
}

// ensure maps the process RAM if needed.
func (m *memory) ensure() error {
	if m.mapping != nil {
		return nil
	}
	b, err := unix.Mmap(-1, 0, int(m.size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return err
	}
	m.mapping = b
	m.brk = m.start() + m.initialBreak
	return nil
}

func (m *memory) release() error {
	if m.mapping == nil {
		return nil
	}
	b := m.mapping
	m.mapping = nil
	return unix.Munmap(b)
}

func memopFailure(e tock.ErrorCode) [2]platform.Register {
	return [2]platform.Register{platform.RegisterFromUint32(uint32(tock.Failure)), platform.RegisterFromErrorCode(e)}
}

func memopSuccess(r1 platform.Register) [2]platform.Register {
	return [2]platform.Register{platform.RegisterFromUint32(uint32(tock.SuccessU32)), r1}
}

// breakCapability returns a capability for [start, brk) pointing at addr.
func (m *memory) breakCapability(addr uintptr) platform.Register {
	c := cheri.Root(m.start(), m.brk-m.start(), cheri.PermData).WithAddr(addr)
	return platform.RegisterFromCapability(c)
}

func (k *Kernel) memop(op tock.MemopOp, arg platform.Register) [2]platform.Register {
	m := &k.memory
	if err := m.ensure(); err != nil {
		k.log.Warningf("Mapping %d bytes of process memory: %v", m.size, err)
		return memopFailure(tock.NoMem)
	}
	switch op {
	case tock.MemopBrk:
		addr := arg.Uintptr()
		if addr < m.start() || addr > m.end() {
			return memopFailure(tock.NoMem)
		}
		m.brk = addr
		return memopSuccess(platform.Register{})
	case tock.MemopSbrk:
		// The increment is signed.
		old := m.brk
		next := old + arg.Uintptr()
		if next < m.start() || next > m.end() {
			return memopFailure(tock.NoMem)
		}
		m.brk = next
		return memopSuccess(m.breakCapability(old))
	case tock.MemopMemoryStart:
		return memopSuccess(platform.RegisterFromUintptr(m.start()))
	case tock.MemopMemoryEnd:
		return memopSuccess(platform.RegisterFromUintptr(m.end()))
	case tock.MemopFlashStart:
		return memopSuccess(platform.RegisterFromUintptr(m.flashStart))
	case tock.MemopFlashEnd:
		return memopSuccess(platform.RegisterFromUintptr(m.flashEnd))
	case tock.MemopGrantStart:
		return memopSuccess(platform.RegisterFromUintptr(m.end()))
	case tock.MemopFlashRegions:
		return memopSuccess(platform.RegisterFromUint32(0))
	case tock.MemopStackStart:
		k.stackStart = arg.Uintptr()
		return memopSuccess(platform.Register{})
	case tock.MemopHeapStart:
		k.heapStart = arg.Uintptr()
		return memopSuccess(platform.Register{})
	default:
		return memopFailure(tock.NoSupport)
	}
}

// Break returns the current process break, or 0 if no Memop has been made.
func (k *Kernel) Break() uintptr {
	if k.memory.mapping == nil {
		return 0
	}
	return k.memory.brk
}

// DebugAddresses returns the stack and heap start addresses reported by the
// process.
func (k *Kernel) DebugAddresses() (stack, heap uintptr) {
	return k.stackStart, k.heapStart
}
