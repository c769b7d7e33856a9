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

package platform

import (
	"errors"
	"unsafe"

	"github.com/tock/libtock-go/pkg/abi/tock"
)

// ErrUnsupportedID is returned by Subscribe when the upcall's IDConstraint
// rejects the slot. No syscall is issued.
var ErrUnsupportedID = errors.New("upcall does not support this driver/subscribe id")

// upcallEntry is the data register of a registered upcall. The kernel hands
// it back to DispatchUpcall, which finds the Upcall and its owner through it.
type upcallEntry struct {
	s      *Syscalls
	key    slotKey
	upcall Upcall
}

// Subscribe registers upcall in the slot owned by g. Re-subscribing through
// the same guard replaces the previous upcall. Whenever the kernel hands back
// a non-null upcall, cfg is told.
func (s *Syscalls) Subscribe(g *Subscribe, upcall Upcall, cfg SubscribeConfig) error {
	if err := g.check(s); err != nil {
		return err
	}
	if c, ok := upcall.(IDConstraint); ok && !c.SupportsID(g.key.driver, g.key.num) {
		return ErrUnsupportedID
	}
	e := &upcallEntry{s: s, key: g.key, upcall: upcall}
	r := s.raw.Syscall4(tock.Subscribe, [4]Register{
		RegisterFromUint32(g.key.driver),
		RegisterFromUint32(g.key.num),
		s.entry,
		RegisterFromPointer(unsafe.Pointer(e)),
	})
	if err := checkResult(r[0], r[1]); err != nil {
		// The kernel kept whatever was registered before, which g still
		// references.
		return err
	}
	g.entry = e
	if r[1].Uintptr() != 0 {
		cfg.ReturnedNonnullUpcall(g.key.driver, g.key.num)
	}
	return nil
}

// DispatchUpcall is the Go side of the upcall trampoline. data is the data
// register passed to Subscribe, handed back unchanged by the kernel.
// DispatchUpcall never lets a panic escape to the kernel: a panicking upcall
// terminates the process with Fail.
func DispatchUpcall(arg0, arg1, arg2 uintptr, data Register) {
	e := (*upcallEntry)(data.Pointer())
	if e == nil {
		return
	}
	e.s.last = e.key
	e.s.dispatched = true
	defer e.s.exitOnPanic(e)
	e.upcall.Upcall(arg0, arg1, arg2)
}

// exitOnPanic must be deferred directly by DispatchUpcall.
func (s *Syscalls) exitOnPanic(e *upcallEntry) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(ExitPanic); ok {
		// The upcall asked to exit and the kernel implements exit by
		// unwinding. Exit hooks have already run.
		panic(r)
	}
	s.log.Warningf("Upcall for %v panicked: %v", e.key, r)
	s.ExitTerminate(uint32(tock.Fail))
}
