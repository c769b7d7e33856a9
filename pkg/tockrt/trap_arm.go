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
	"fmt"

	"github.com/tock/libtock-go/pkg/abi/tock"
)

// The class is the immediate of the svc instruction, so there is one stub
// per class.

func yield1(r0 uintptr)

func yield2(r0, r1 uintptr)

func subscribe4(r0, r1, r2, r3 uintptr) (o0, o1, o2, o3 uintptr)

func command4(r0, r1, r2, r3 uintptr) (o0, o1, o2, o3 uintptr)

func allowRW4(r0, r1, r2, r3 uintptr) (o0, o1, o2, o3 uintptr)

func allowRO4(r0, r1, r2, r3 uintptr) (o0, o1, o2, o3 uintptr)

func memop2(r0, r1 uintptr) (o0, o1 uintptr)

func exit2(r0, r1 uintptr) (o0, o1 uintptr)

// upcallEntry is the trampoline the kernel jumps to with r0-r3 holding the
// upcall arguments and the data register, and lr the resume address.
func upcallEntry()

func upcallEntryPC() uintptr

func syscall1(class tock.SyscallClass, r0 uintptr) (uintptr, uintptr) {
	panic(fmt.Sprintf("no one-argument syscall in class %v", class))
}

func syscall2(class tock.SyscallClass, r0, r1 uintptr) (uintptr, uintptr) {
	switch class {
	case tock.Memop:
		return memop2(r0, r1)
	case tock.Exit:
		return exit2(r0, r1)
	default:
		panic(fmt.Sprintf("no two-argument syscall in class %v", class))
	}
}

func syscall4(class tock.SyscallClass, r0, r1, r2, r3 uintptr) (uintptr, uintptr, uintptr, uintptr) {
	switch class {
	case tock.Subscribe:
		return subscribe4(r0, r1, r2, r3)
	case tock.Command:
		return command4(r0, r1, r2, r3)
	case tock.AllowRW:
		return allowRW4(r0, r1, r2, r3)
	case tock.AllowRO:
		return allowRO4(r0, r1, r2, r3)
	default:
		panic(fmt.Sprintf("no four-argument syscall in class %v", class))
	}
}
