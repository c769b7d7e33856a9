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

// Package tock contains the constants of the Tock userspace/kernel system call
// ABI (TRD 104): syscall classes, return variants, error codes and the
// identifiers used by Yield, Exit and Memop.
package tock

import "fmt"

// SyscallClass selects the kernel service invoked by a trap. On RISC-V it is
// passed in a4; on ARM it is the immediate of the svc instruction.
type SyscallClass uint8

// Syscall classes.
const (
	Yield     SyscallClass = 0
	Subscribe SyscallClass = 1
	Command   SyscallClass = 2
	AllowRW   SyscallClass = 3
	AllowRO   SyscallClass = 4
	Memop     SyscallClass = 5
	Exit      SyscallClass = 6
)

// String implements fmt.Stringer.
func (c SyscallClass) String() string {
	switch c {
	case Yield:
		return "yield"
	case Subscribe:
		return "subscribe"
	case Command:
		return "command"
	case AllowRW:
		return "allow-rw"
	case AllowRO:
		return "allow-ro"
	case Memop:
		return "memop"
	case Exit:
		return "exit"
	default:
		return fmt.Sprintf("SyscallClass(%d)", uint8(c))
	}
}

// Yield identifiers, passed in the first register of a Yield call.
const (
	YieldNoWait = 0
	YieldWait   = 1
)

// Exit identifiers, passed in the first register of an Exit call.
const (
	ExitTerminate = 0
	ExitRestart   = 1
)

// MemopOp is the operation selector of the Memop syscall.
type MemopOp uint32

// Memop operations.
const (
	MemopBrk              MemopOp = 0
	MemopSbrk             MemopOp = 1
	MemopMemoryStart      MemopOp = 2
	MemopMemoryEnd        MemopOp = 3
	MemopFlashStart       MemopOp = 4
	MemopFlashEnd         MemopOp = 5
	MemopGrantStart       MemopOp = 6
	MemopFlashRegions     MemopOp = 7
	MemopFlashRegionStart MemopOp = 8
	MemopFlashRegionEnd   MemopOp = 9
	MemopStackStart       MemopOp = 10
	MemopHeapStart        MemopOp = 11
)

var memopNames = [...]string{
	MemopBrk:              "brk",
	MemopSbrk:             "sbrk",
	MemopMemoryStart:      "memory-start",
	MemopMemoryEnd:        "memory-end",
	MemopFlashStart:       "flash-start",
	MemopFlashEnd:         "flash-end",
	MemopGrantStart:       "grant-start",
	MemopFlashRegions:     "flash-regions",
	MemopFlashRegionStart: "flash-region-start",
	MemopFlashRegionEnd:   "flash-region-end",
	MemopStackStart:       "stack-start",
	MemopHeapStart:        "heap-start",
}

// String implements fmt.Stringer.
func (op MemopOp) String() string {
	if int(op) < len(memopNames) {
		return memopNames[op]
	}
	return fmt.Sprintf("MemopOp(%d)", uint32(op))
}
