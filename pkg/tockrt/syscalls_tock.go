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

//go:build tock

package tockrt

import (
	"runtime"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cheri"
	"github.com/tock/libtock-go/pkg/platform"
)

// TockSyscalls traps into the Tock kernel.
type TockSyscalls struct{}

var _ platform.RawSyscalls = TockSyscalls{}

// Run builds the process's Syscalls and runs main through Start.
func Run(main func(s *platform.Syscalls) error) {
	s := platform.New(TockSyscalls{})
	Start(s, func() error { return main(s) })
}

// UpcallEntry implements platform.UpcallEntryPoint.UpcallEntry.
func (TockSyscalls) UpcallEntry() uintptr {
	return upcallEntryPC()
}

// dispatch is called by the upcall trampoline.
//
// data is the address of the *upcallEntry passed to Subscribe, which the
// kernel returns as a bare integer. Rebuilding a pointer from it is sound
// because the entry is not collectable while the registration exists: the
// Subscribe guard holds it in g.entry until Release unsubscribes, and a guard
// whose unsubscribe fails is pinned by Syscalls. The kernel only delivers
// upcalls for live registrations, and the Go heap does not move objects.
func dispatch(arg0, arg1, arg2, data uintptr) {
	platform.DispatchUpcall(arg0, arg1, arg2, platform.RegisterFromUintptr(data))
}

// Yield1 implements platform.RawSyscalls.Yield1.
func (TockSyscalls) Yield1(r0 platform.Register) {
	yield1(r0.Uintptr())
}

// Yield2 implements platform.RawSyscalls.Yield2.
func (TockSyscalls) Yield2(r0, r1 platform.Register) {
	yield2(r0.Uintptr(), r1.Uintptr())
	runtime.KeepAlive(r1)
}

// Syscall1 implements platform.RawSyscalls.Syscall1.
func (TockSyscalls) Syscall1(class tock.SyscallClass, r0 platform.Register) [2]platform.Register {
	o0, o1 := syscall1(class, r0.Uintptr())
	return [2]platform.Register{platform.RegisterFromUintptr(o0), platform.RegisterFromUintptr(o1)}
}

// Syscall2 implements platform.RawSyscalls.Syscall2. The second result may
// address process memory (Sbrk), so it is derived from the DDC.
func (TockSyscalls) Syscall2(class tock.SyscallClass, args [2]platform.Register) [2]platform.Register {
	o0, o1 := syscall2(class, args[0].Uintptr(), args[1].Uintptr())
	runtime.KeepAlive(args)
	return [2]platform.Register{platform.RegisterFromUintptr(o0), platform.RegisterFromCapability(cheri.FromDDC(o1))}
}

// Syscall4 implements platform.RawSyscalls.Syscall4.
func (TockSyscalls) Syscall4(class tock.SyscallClass, args [4]platform.Register) [4]platform.Register {
	o0, o1, o2, o3 := syscall4(class, args[0].Uintptr(), args[1].Uintptr(), args[2].Uintptr(), args[3].Uintptr())
	// The pointers in args stay live until the guard that owns them is
	// released; they only need to survive the trap here.
	runtime.KeepAlive(args)
	return [4]platform.Register{
		platform.RegisterFromUintptr(o0),
		platform.RegisterFromUintptr(o1),
		platform.RegisterFromUintptr(o2),
		platform.RegisterFromUintptr(o3),
	}
}
