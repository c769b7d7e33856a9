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

import "github.com/tock/libtock-go/pkg/abi/tock"

// RawSyscalls is the architecture-specific trap layer. Implementations are
// the per-architecture TockSyscalls in package tockrt and the simulated
// kernel in package unittest/fake. Drivers never use RawSyscalls directly;
// they go through Syscalls.
//
// Calling convention, shared by every implementation:
//
//   - The class selector is passed in a4 on RISC-V and as the svc immediate
//     on ARM.
//   - Arguments are placed in a0-a3 (r0-r3) and results are read back from
//     the same registers: two results for Syscall1 and Syscall2, four for
//     Syscall4.
//   - Every other register that is caller-saved in the platform C ABI is
//     clobbered by the trap. Callee-saved registers survive it.
//   - Registers that may carry a capability are round-tripped through
//     memory immediately around the trap so their tags survive it.
//
// The methods are unsafe in the sense that the caller must pass arguments
// that satisfy the ABI of the invoked class: pointers handed to the kernel
// must stay valid for as long as the kernel may use them.
type RawSyscalls interface {
	// Yield1 performs a Yield with one argument. The kernel returns nothing;
	// it may run one pending upcall before returning.
	Yield1(r0 Register)

	// Yield2 performs a Yield with two arguments. The kernel may write
	// through r1 (yield-no-wait uses it for its result flag).
	Yield2(r0, r1 Register)

	// Syscall1 performs a one-argument syscall of the given class.
	Syscall1(class tock.SyscallClass, r0 Register) [2]Register

	// Syscall2 performs a two-argument syscall of the given class. It is
	// used for Memop and Exit; r1 of the result may be a capability.
	Syscall2(class tock.SyscallClass, args [2]Register) [2]Register

	// Syscall4 performs a four-argument syscall of the given class. It is
	// used for Subscribe, Command, and both Allows.
	Syscall4(class tock.SyscallClass, args [4]Register) [4]Register
}
