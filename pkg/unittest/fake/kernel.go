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

// Package fake provides a simulated Tock kernel that implements
// platform.RawSyscalls in-process. It is used by unit tests and by the
// tocksim command.
//
// A Kernel is not safe for concurrent use; like a real process, the code
// under test runs on a single goroutine. Independent Kernels may run
// concurrently.
package fake

import (
	"fmt"
	"unsafe"

	"github.com/google/btree"
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/log"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest"
)

// Driver is a simulated capsule.
type Driver interface {
	// ID returns the driver number.
	ID() uint32

	// NumUpcalls returns the number of subscribe slots.
	NumUpcalls() uint32

	// Command handles a Command syscall.
	Command(command uint32, arg0, arg1 uintptr) platform.CommandReturn
}

// Attacher is implemented by drivers that need the kernel after being
// added, for example to schedule upcalls.
type Attacher interface {
	Attach(k *Kernel)
}

// Syscall is an entry of the syscall log. Args holds the integer value of
// each argument register; pointer arguments are not recorded.
type Syscall struct {
	Class tock.SyscallClass
	Args  [4]uintptr
}

// String implements fmt.Stringer.
func (s Syscall) String() string {
	return fmt.Sprintf("%v%#x", s.Class, s.Args)
}

// ExpectedSyscall describes a syscall the kernel must receive next.
type ExpectedSyscall struct {
	Class tock.SyscallClass

	// Driver and Num are compared with the first two arguments: driver and
	// subscribe/command/buffer number, the Yield or Exit identifier and
	// code, or the Memop operation and argument.
	Driver uint32
	Num    uint32

	// Return, if set, replaces the result of a Command.
	Return *platform.CommandReturn

	// Fail, if set, makes a Subscribe, Allow or Memop fail with it.
	Fail tock.ErrorCode
}

// ExitCall is the panic value raised by an Exit syscall.
type ExitCall struct {
	ID   uintptr
	Code uint32
}

// ExitCode implements platform.ExitPanic.ExitCode.
func (e *ExitCall) ExitCode() uint32 { return e.Code }

// Restart reports whether the process asked to be restarted.
func (e *ExitCall) Restart() bool { return e.ID == tock.ExitRestart }

// Error implements error.Error.
func (e *ExitCall) Error() string {
	if e.Restart() {
		return fmt.Sprintf("exit-restart(%d)", e.Code)
	}
	return fmt.Sprintf("exit-terminate(%d)", e.Code)
}

// slot is an entry of the upcall and allow tables.
type slot struct {
	driver uint32
	num    uint32

	// r0 and r1 are the function and data registers of an upcall, or the
	// address and length of a buffer.
	r0, r1 platform.Register
}

func slotLess(a, b *slot) bool {
	if a.driver != b.driver {
		return a.driver < b.driver
	}
	return a.num < b.num
}

// pendingUpcall is a queued upcall.
type pendingUpcall struct {
	driver uint32
	num    uint32
	args   [3]uintptr
}

// Kernel is a simulated kernel.
type Kernel struct {
	log log.Logger

	drivers    map[uint32]Driver
	upcalls    *btree.BTreeG[*slot]
	allowRW    *btree.BTreeG[*slot]
	allowRO    *btree.BTreeG[*slot]
	queue      []pendingUpcall
	syscalls   []Syscall
	expected   []ExpectedSyscall
	checkCaps  bool
	memory     memory
	stackStart uintptr
	heapStart  uintptr
	onYield    []func()
}

// Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the logger syscalls are traced to at Debug level.
func WithLogger(l log.Logger) Option {
	return func(k *Kernel) { k.log = l }
}

// CheckCapabilities makes Allow reject non-empty buffers whose address
// register is not a valid capability, as a CHERI kernel does.
func CheckCapabilities() Option {
	return func(k *Kernel) { k.checkCaps = true }
}

// WithMemory sets the size of the process RAM and the initial break offset.
func WithMemory(size, initialBreak uintptr) Option {
	return func(k *Kernel) {
		k.memory.size = size
		k.memory.initialBreak = initialBreak
	}
}

// WithFlash sets the flash region reported by Memop.
func WithFlash(start, end uintptr) Option {
	return func(k *Kernel) {
		k.memory.flashStart = start
		k.memory.flashEnd = end
	}
}

// New returns a Kernel with no drivers.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		log:     log.Prefixed(log.Log(), "fake"),
		drivers: make(map[uint32]Driver),
		upcalls: btree.NewG(2, slotLess),
		allowRW: btree.NewG(2, slotLess),
		allowRO: btree.NewG(2, slotLess),
		memory:  defaultMemory(),
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Close releases the process RAM.
func (k *Kernel) Close() error {
	return k.memory.release()
}

// AddDriver installs d, replacing any driver with the same ID.
func (k *Kernel) AddDriver(d Driver) {
	k.drivers[d.ID()] = d
	if a, ok := d.(Attacher); ok {
		a.Attach(k)
	}
}

// AddExpected queues a syscall the process must make. Expectations are
// consumed in order; a mismatch panics.
func (k *Kernel) AddExpected(e ExpectedSyscall) {
	k.expected = append(k.expected, e)
}

// PendingExpected returns the number of expectations not yet met.
func (k *Kernel) PendingExpected() int {
	return len(k.expected)
}

// TakeSyscalls returns the syscall log and clears it.
func (k *Kernel) TakeSyscalls() []Syscall {
	s := k.syscalls
	k.syscalls = nil
	return s
}

// Run calls f and returns the Exit it ended with, or nil if it returned.
func (k *Kernel) Run(f func()) (exit *ExitCall) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(*ExitCall)
			if !ok {
				panic(r)
			}
			exit = e
		}
	}()
	f()
	return nil
}

// ScheduleUpcall queues an upcall for the given slot. It is delivered by a
// later Yield if an upcall is registered in the slot at that time.
func (k *Kernel) ScheduleUpcall(driver, subscribe uint32, args [3]uintptr) error {
	d, ok := k.drivers[driver]
	if !ok {
		return tock.NoDevice
	}
	if subscribe >= d.NumUpcalls() {
		return tock.Invalid
	}
	k.queue = append(k.queue, pendingUpcall{driver, subscribe, args})
	return nil
}

// OnYield registers f to run whenever the process yields, before pending
// upcalls are considered. It stands in for events that happen while the
// process sleeps.
func (k *Kernel) OnYield(f func()) {
	k.onYield = append(k.onYield, f)
}

func (k *Kernel) yielded() {
	for _, f := range k.onYield {
		f()
	}
}

// PendingUpcalls returns the number of queued upcalls.
func (k *Kernel) PendingUpcalls() int {
	return len(k.queue)
}

// Subscribed reports whether a non-null upcall is registered in the slot.
func (k *Kernel) Subscribed(driver, subscribe uint32) bool {
	_, ok := k.upcalls.Get(&slot{driver: driver, num: subscribe})
	return ok
}

// SharedRW returns the read-write buffer shared in the slot, or nil.
func (k *Kernel) SharedRW(driver, buffer uint32) []byte {
	return shared(k.allowRW, driver, buffer)
}

// SharedRO returns the read-only buffer shared in the slot, or nil.
func (k *Kernel) SharedRO(driver, buffer uint32) []byte {
	return shared(k.allowRO, driver, buffer)
}

func shared(t *btree.BTreeG[*slot], driver, buffer uint32) []byte {
	s, ok := t.Get(&slot{driver: driver, num: buffer})
	if !ok {
		return nil
	}
	return unsafe.Slice((*byte)(s.r0.Pointer()), s.r1.Uintptr())
}

// record logs a syscall and consumes the matching expectation.
func (k *Kernel) record(class tock.SyscallClass, args ...platform.Register) *ExpectedSyscall {
	var s Syscall
	s.Class = class
	for i, a := range args {
		s.Args[i] = a.Uintptr()
	}
	k.syscalls = append(k.syscalls, s)
	k.log.Debugf("%v", s)

	if len(k.expected) == 0 {
		return nil
	}
	e := k.expected[0]
	k.expected = k.expected[1:]
	if e.Class != class || uintptr(e.Driver) != s.Args[0] || uintptr(e.Num) != s.Args[1] {
		panic(fmt.Sprintf("unexpected syscall %v; expected %v(%#x, %d)", s, e.Class, e.Driver, e.Num))
	}
	return &e
}

// Yield1 implements platform.RawSyscalls.Yield1.
func (k *Kernel) Yield1(r0 platform.Register) {
	k.record(tock.Yield, r0)
	if r0.Uintptr() != tock.YieldWait {
		panic(fmt.Sprintf("Yield1 with unsupported id %d", r0.Uintptr()))
	}
	k.yielded()
	if !k.deliver() {
		panic("yield-wait with no upcall pending would block forever")
	}
}

// Yield2 implements platform.RawSyscalls.Yield2.
func (k *Kernel) Yield2(r0, r1 platform.Register) {
	k.record(tock.Yield, r0)
	if r0.Uintptr() != tock.YieldNoWait {
		panic(fmt.Sprintf("Yield2 with unsupported id %d", r0.Uintptr()))
	}
	flag := (*uint8)(r1.Pointer())
	*flag = 0
	k.yielded()
	if k.deliver() {
		*flag = 1
	}
}

// deliver runs the first queued upcall whose slot is subscribed, dropping
// the ones before it. It reports whether an upcall ran.
func (k *Kernel) deliver() bool {
	for len(k.queue) > 0 {
		u := k.queue[0]
		k.queue = k.queue[1:]
		s, ok := k.upcalls.Get(&slot{driver: u.driver, num: u.num})
		if !ok {
			k.log.Debugf("Dropping upcall for unsubscribed driver %#x slot %d", u.driver, u.num)
			continue
		}
		platform.DispatchUpcall(u.args[0], u.args[1], u.args[2], s.r1)
		return true
	}
	return false
}

// Syscall1 implements platform.RawSyscalls.Syscall1. No class takes a single
// argument, so every call fails.
func (k *Kernel) Syscall1(class tock.SyscallClass, r0 platform.Register) [2]platform.Register {
	k.record(class, r0)
	return [2]platform.Register{platform.RegisterFromUint32(uint32(tock.Failure)), platform.RegisterFromErrorCode(tock.NoSupport)}
}

// Syscall2 implements platform.RawSyscalls.Syscall2.
func (k *Kernel) Syscall2(class tock.SyscallClass, args [2]platform.Register) [2]platform.Register {
	e := k.record(class, args[0], args[1])
	switch class {
	case tock.Memop:
		if e != nil && e.Fail != 0 {
			return memopFailure(e.Fail)
		}
		return k.memop(tock.MemopOp(args[0].AsU32()), args[1])
	case tock.Exit:
		panic(&ExitCall{ID: args[0].Uintptr(), Code: args[1].AsU32()})
	default:
		panic(fmt.Sprintf("%v does not take two arguments", class))
	}
}

// Syscall4 implements platform.RawSyscalls.Syscall4.
func (k *Kernel) Syscall4(class tock.SyscallClass, args [4]platform.Register) [4]platform.Register {
	e := k.record(class, args[0], args[1], args[2], args[3])
	driver, num := args[0].AsU32(), args[1].AsU32()
	switch class {
	case tock.Subscribe:
		if e != nil && e.Fail != 0 {
			return failure2U32(e.Fail, args[2], args[3])
		}
		return k.subscribe(driver, num, args[2], args[3])
	case tock.Command:
		var ret platform.CommandReturn
		if e != nil && e.Return != nil {
			ret = *e.Return
		} else {
			ret = k.command(driver, num, args[2].Uintptr(), args[3].Uintptr())
		}
		r1, r2, r3 := ret.Registers()
		return [4]platform.Register{
			platform.RegisterFromUint32(uint32(ret.ReturnVariant())),
			platform.RegisterFromUintptr(r1),
			platform.RegisterFromUintptr(r2),
			platform.RegisterFromUintptr(r3),
		}
	case tock.AllowRW, tock.AllowRO:
		if e != nil && e.Fail != 0 {
			return failure2U32(e.Fail, args[2], args[3])
		}
		t := k.allowRW
		if class == tock.AllowRO {
			t = k.allowRO
		}
		return k.allow(t, driver, num, args[2], args[3])
	default:
		panic(fmt.Sprintf("%v does not take four arguments", class))
	}
}

func success2U32(r1, r2 platform.Register) [4]platform.Register {
	return [4]platform.Register{platform.RegisterFromUint32(uint32(tock.Success2U32)), r1, r2, {}}
}

// failure2U32 hands the caller's arguments back, as the kernel does when it
// refuses a Subscribe or Allow.
func failure2U32(e tock.ErrorCode, r2, r3 platform.Register) [4]platform.Register {
	return [4]platform.Register{platform.RegisterFromUint32(uint32(tock.Failure2U32)), platform.RegisterFromErrorCode(e), r2, r3}
}

func (k *Kernel) subscribe(driver, num uint32, fn, data platform.Register) [4]platform.Register {
	d, ok := k.drivers[driver]
	if !ok {
		return failure2U32(tock.NoDevice, fn, data)
	}
	if num >= d.NumUpcalls() {
		return failure2U32(tock.Invalid, fn, data)
	}

	// Upcalls queued for the previous registration are never delivered.
	q := k.queue[:0]
	for _, u := range k.queue {
		if u.driver != driver || u.num != num {
			q = append(q, u)
		}
	}
	k.queue = q

	var prev *slot
	if fn.Uintptr() == 0 {
		prev, _ = k.upcalls.Delete(&slot{driver: driver, num: num})
	} else {
		prev, _ = k.upcalls.ReplaceOrInsert(&slot{driver: driver, num: num, r0: fn, r1: data})
	}
	if prev == nil {
		return success2U32(platform.Register{}, platform.Register{})
	}
	return success2U32(prev.r0, prev.r1)
}

func (k *Kernel) allow(t *btree.BTreeG[*slot], driver, num uint32, addr, length platform.Register) [4]platform.Register {
	if _, ok := k.drivers[driver]; !ok {
		return failure2U32(tock.NoDevice, addr, length)
	}
	if k.checkCaps && length.Uintptr() != 0 && !addr.Tagged() {
		return failure2U32(tock.Invalid, addr, length)
	}
	var prev *slot
	if length.Uintptr() == 0 && addr.Uintptr() == 0 {
		prev, _ = t.Delete(&slot{driver: driver, num: num})
	} else {
		prev, _ = t.ReplaceOrInsert(&slot{driver: driver, num: num, r0: addr, r1: length})
	}
	if prev == nil {
		return success2U32(platform.Register{}, platform.Register{})
	}
	return success2U32(prev.r0, prev.r1)
}

func (k *Kernel) command(driver, cmd uint32, arg0, arg1 uintptr) platform.CommandReturn {
	d, ok := k.drivers[driver]
	if !ok {
		return unittest.Failure(tock.NoDevice)
	}
	return d.Command(cmd, arg0, arg1)
}
