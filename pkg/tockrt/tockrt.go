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

// Package tockrt is the process runtime: the trap layer that implements
// platform.RawSyscalls on real hardware (built with the "tock" tag), process
// startup and the heap break.
package tockrt

import (
	"sync/atomic"
	"unsafe"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/apis/lowleveldebug"
	"github.com/tock/libtock-go/pkg/platform"
)

var started atomic.Bool

// Start runs main and terminates the process with its result. It must be
// called exactly once per process; a second call panics.
func Start(s *platform.Syscalls, main func() error) {
	if !started.CompareAndSwap(false, true) {
		panic("tockrt: Start called twice")
	}
	platform.Terminate(s, main())
	panic("unreachable")
}

// Heap grows the process break.
type Heap struct {
	s     *platform.Syscalls
	debug lowleveldebug.LowLevelDebug
}

// NewHeap returns a Heap that moves the break through s.
func NewHeap(s *platform.Syscalls) *Heap {
	return &Heap{s: s, debug: lowleveldebug.New(s)}
}

// Sbrk moves the break by n bytes and returns the previous break, or 0 if
// the kernel refused. It follows the contract of the C library's _sbrk.
func (h *Heap) Sbrk(n uintptr) uintptr {
	prev, err := h.s.Sbrk(n)
	if err != nil {
		return 0
	}
	return prev
}

// Alloc returns n fresh bytes at the break, aligned to align, which must be
// a power of two. It calls OOM if the kernel has no memory left.
func (h *Heap) Alloc(n, align uintptr) []byte {
	cur := h.Sbrk(0)
	if cur == 0 {
		h.OOM()
	}
	pad := -cur & (align - 1)
	prev := h.Sbrk(pad + n)
	if prev == 0 {
		h.OOM()
	}
	return unsafe.Slice((*byte)(platform.RegisterFromUintptr(prev+pad).Pointer()), n)
}

// OOM reports heap exhaustion through the low-level debug capsule and
// terminates the process with NoMem. It does not return.
func (h *Heap) OOM() {
	h.debug.PrintAlertCode(lowleveldebug.AlertHeapOOM)
	h.s.ExitTerminate(uint32(tock.NoMem))
}
