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

// Package platform provides the safe syscall interface used by Tock
// processes: the Register and CommandReturn codecs, the Syscalls facade over
// a RawSyscalls trap implementation, scoped Subscribe/Allow guards and the
// Upcall abstraction.
//
// Processes are single threaded and cooperative. A Syscalls value and the
// guards it hands out must only be used from the goroutine that runs the
// process.
package platform

import (
	"reflect"
	"unsafe"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cheri"
	"github.com/tock/libtock-go/pkg/cleanup"
	"github.com/tock/libtock-go/pkg/log"
)

// UpcallEntryPoint is implemented by RawSyscalls whose kernel enters upcalls
// through a fixed machine-level trampoline. The trampoline must call
// DispatchUpcall with the kernel-supplied arguments.
type UpcallEntryPoint interface {
	UpcallEntry() uintptr
}

// YieldNoWaitReturn reports the outcome of YieldNoWait.
type YieldNoWaitReturn struct {
	// Upcall is true if the kernel ran an upcall.
	Upcall bool

	// Driver and Subscribe identify the slot of the upcall that ran. They
	// are only set when the upcall was registered through this Syscalls.
	Driver    uint32
	Subscribe uint32
}

// Syscalls is the safe syscall facade.
type Syscalls struct {
	raw RawSyscalls
	log log.Logger

	// entry is the function register passed to Subscribe.
	entry Register

	// capabilityDDC is true if Sbrk must re-derive the DDC.
	capabilityDDC bool

	// slots holds the live guards, at most one per slot.
	slots map[slotKey]struct{}

	// pinned holds buffers and upcalls whose revocation failed. The kernel
	// may still use them, so they are kept reachable forever.
	pinned []any

	// last is the slot of the most recent upcall dispatched for this
	// Syscalls; dispatched is set when it changes.
	last       slotKey
	dispatched bool

	exitHooks cleanup.Cleanup
}

// Option configures a Syscalls.
type Option func(*Syscalls)

// WithLogger sets the logger used for protocol anomalies.
func WithLogger(l log.Logger) Option {
	return func(s *Syscalls) { s.log = l }
}

// WithCapabilityDDC controls whether Sbrk re-derives the ambient DDC from the
// capability returned by the kernel. It defaults to cheri.Enabled.
func WithCapabilityDDC(enabled bool) Option {
	return func(s *Syscalls) { s.capabilityDDC = enabled }
}

// New returns a Syscalls issuing traps through raw.
func New(raw RawSyscalls, opts ...Option) *Syscalls {
	s := &Syscalls{
		raw:           raw,
		log:           log.Log(),
		capabilityDDC: cheri.Enabled,
		slots:         make(map[slotKey]struct{}),
	}
	if ep, ok := raw.(UpcallEntryPoint); ok {
		s.entry = RegisterFromFunction(ep.UpcallEntry())
	} else {
		s.entry = RegisterFromFunction(reflect.ValueOf(DispatchUpcall).Pointer())
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Raw returns the underlying trap implementation.
func (s *Syscalls) Raw() RawSyscalls {
	return s.raw
}

// UpcallEntry returns the function register passed to the kernel on
// Subscribe. Simulated kernels compare against it before dispatching.
func (s *Syscalls) UpcallEntry() Register {
	return s.entry
}

// checkResult interprets the result of Subscribe and Allow, which the ABI
// guarantees is either Success2U32 or Failure2U32. Only Failure2U32 is
// decoded as an error; anything else is taken as success.
func checkResult(r0, r1 Register) error {
	if tock.ReturnVariant(r0.AsU32()) == tock.Failure2U32 {
		return decodeErrorCode(r1.Uintptr())
	}
	return nil
}

// YieldNoWait runs the next pending upcall, if any, and returns
// immediately.
func (s *Syscalls) YieldNoWait() YieldNoWaitReturn {
	// The kernel writes the flag before returning and never reads it.
	var flag uint8
	s.dispatched = false
	s.raw.Yield2(RegisterFromUintptr(tock.YieldNoWait), RegisterFromPointer(unsafe.Pointer(&flag)))
	if flag == 0 {
		return YieldNoWaitReturn{}
	}
	ret := YieldNoWaitReturn{Upcall: true}
	if s.dispatched {
		ret.Driver, ret.Subscribe = s.last.driver, s.last.num
	}
	return ret
}

// YieldWait puts the process to sleep until an upcall is pending, runs it,
// then returns.
func (s *Syscalls) YieldWait() {
	s.raw.Yield1(RegisterFromUintptr(tock.YieldWait))
}

// Unsubscribe replaces the upcall in the given slot with the null upcall.
// It does nothing if no upcall is registered.
func (s *Syscalls) Unsubscribe(driver, subscribe uint32) {
	s.raw.Syscall4(tock.Subscribe, [4]Register{
		RegisterFromUint32(driver),
		RegisterFromUint32(subscribe),
		{},
		{},
	})
}

// Command issues a Command syscall.
func (s *Syscalls) Command(driver, command uint32, arg0, arg1 uintptr) CommandReturn {
	r := s.raw.Syscall4(tock.Command, [4]Register{
		RegisterFromUint32(driver),
		RegisterFromUint32(command),
		RegisterFromUintptr(arg0),
		RegisterFromUintptr(arg1),
	})
	// r comes straight from the kernel, so a failure variant implies r1 is
	// an error code.
	return NewCommandReturnUnchecked(tock.ReturnVariant(r[0].AsU32()), r[1].Uintptr(), r[2].Uintptr(), r[3].Uintptr())
}

// UnallowRW revokes the kernel's access to the read-write buffer in the
// given slot by sharing a zero-length buffer at address 0. It does nothing
// if no buffer is shared.
func (s *Syscalls) UnallowRW(driver, buffer uint32) error {
	return s.unallow(tock.AllowRW, driver, buffer)
}

// UnallowRO is UnallowRW for read-only buffers.
func (s *Syscalls) UnallowRO(driver, buffer uint32) error {
	return s.unallow(tock.AllowRO, driver, buffer)
}

func (s *Syscalls) unallow(class tock.SyscallClass, driver, buffer uint32) error {
	r := s.raw.Syscall4(class, [4]Register{
		RegisterFromUint32(driver),
		RegisterFromUint32(buffer),
		{},
		{},
	})
	return checkResult(r[0], r[1])
}

// Memop performs a memory operation. On success it returns r1 unchanged,
// which may be a capability.
func (s *Syscalls) Memop(op tock.MemopOp, arg uintptr) (Register, error) {
	r := s.raw.Syscall2(tock.Memop, [2]Register{
		RegisterFromUint32(uint32(op)),
		RegisterFromUintptr(arg),
	})
	if tock.ReturnVariant(r[0].AsU32()).IsFailure() {
		return Register{}, decodeErrorCode(r[1].Uintptr())
	}
	return r[1], nil
}

// Sbrk moves the process break by offset bytes and returns the absolute
// address of the previous break. With capability DDC enabled, the DDC is
// replaced by the capability the kernel returned, which authorises at least
// up to the new break.
func (s *Syscalls) Sbrk(offset uintptr) (uintptr, error) {
	r, err := s.Memop(tock.MemopSbrk, offset)
	if err != nil {
		return 0, err
	}
	if s.capabilityDDC && r.Tagged() {
		cheri.SetDDC(r.Capability())
	}
	return r.Uintptr(), nil
}

// Brk sets the process break to addr.
func (s *Syscalls) Brk(addr uintptr) error {
	_, err := s.Memop(tock.MemopBrk, addr)
	return err
}

func (s *Syscalls) memopAddr(op tock.MemopOp) (uintptr, error) {
	r, err := s.Memop(op, 0)
	return r.Uintptr(), err
}

// MemoryStart returns the start of the process's RAM.
func (s *Syscalls) MemoryStart() (uintptr, error) { return s.memopAddr(tock.MemopMemoryStart) }

// MemoryEnd returns the end of the process's accessible RAM.
func (s *Syscalls) MemoryEnd() (uintptr, error) { return s.memopAddr(tock.MemopMemoryEnd) }

// FlashStart returns the start of the process's flash region.
func (s *Syscalls) FlashStart() (uintptr, error) { return s.memopAddr(tock.MemopFlashStart) }

// FlashEnd returns the end of the process's flash region.
func (s *Syscalls) FlashEnd() (uintptr, error) { return s.memopAddr(tock.MemopFlashEnd) }

// GrantStart returns the lowest address of the kernel's grant region.
func (s *Syscalls) GrantStart() (uintptr, error) { return s.memopAddr(tock.MemopGrantStart) }

// FlashRegions returns the number of writeable flash regions.
func (s *Syscalls) FlashRegions() (uint32, error) {
	r, err := s.Memop(tock.MemopFlashRegions, 0)
	return r.AsU32(), err
}

// StackStart tells the kernel where the stack begins, for debugging.
func (s *Syscalls) StackStart(addr uintptr) error {
	_, err := s.Memop(tock.MemopStackStart, addr)
	return err
}

// HeapStart tells the kernel where the heap begins, for debugging.
func (s *Syscalls) HeapStart(addr uintptr) error {
	_, err := s.Memop(tock.MemopHeapStart, addr)
	return err
}

// OnExit registers f to run before the process exits through ExitTerminate
// or ExitRestart. Hooks run in reverse order of registration.
func (s *Syscalls) OnExit(f func()) {
	s.exitHooks.Add(f)
}

// ExitTerminate terminates the process. It does not return.
func (s *Syscalls) ExitTerminate(code uint32) {
	s.exit(tock.ExitTerminate, code)
}

// ExitRestart terminates the process and asks the kernel to restart it. It
// does not return.
func (s *Syscalls) ExitRestart(code uint32) {
	s.exit(tock.ExitRestart, code)
}

func (s *Syscalls) exit(id uintptr, code uint32) {
	s.exitHooks.Clean()
	s.raw.Syscall2(tock.Exit, [2]Register{
		RegisterFromUintptr(id),
		RegisterFromUint32(code),
	})
	// The kernel must never return from exit; getting here means the kernel
	// or the trap layer broke the ABI.
	panic("exit returned")
}
