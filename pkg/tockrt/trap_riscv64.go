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

import "github.com/tock/libtock-go/pkg/abi/tock"

// The class is passed in a4. All other registers are clobbered by the trap
// as far as ABI0 is concerned; the stubs spill ra because a yield may run an
// upcall, which returns to the stub with ra pointing at the trap.

func yield1(r0 uintptr)

func yield2(r0, r1 uintptr)

func trap1(class, r0 uintptr) (o0, o1 uintptr)

func trap2(class, r0, r1 uintptr) (o0, o1 uintptr)

func trap4(class, r0, r1, r2, r3 uintptr) (o0, o1, o2, o3 uintptr)

// upcallEntry is the trampoline the kernel jumps to with a0-a3 holding the
// upcall arguments and the data register, and ra the resume address.
func upcallEntry()

func upcallEntryPC() uintptr

func syscall1(class tock.SyscallClass, r0 uintptr) (uintptr, uintptr) {
	return trap1(uintptr(class), r0)
}

func syscall2(class tock.SyscallClass, r0, r1 uintptr) (uintptr, uintptr) {
	return trap2(uintptr(class), r0, r1)
}

func syscall4(class tock.SyscallClass, r0, r1, r2, r3 uintptr) (uintptr, uintptr, uintptr, uintptr) {
	return trap4(uintptr(class), r0, r1, r2, r3)
}
