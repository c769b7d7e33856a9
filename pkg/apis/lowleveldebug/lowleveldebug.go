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

// Package lowleveldebug prints through the low-level debug capsule, which
// needs no buffers or upcalls and so works even when the rest of the process
// is broken.
package lowleveldebug

import "github.com/tock/libtock-go/pkg/platform"

// DriverNum is the driver number of the low-level debug capsule.
const DriverNum = 0x8

const (
	commandAlertCode = 1
	commandPrint1    = 2
	commandPrint2    = 3
)

// AlertCode is a predefined message printed by the kernel.
type AlertCode uint32

// Alert codes.
const (
	AlertPanic         AlertCode = 1
	AlertWrongLocation AlertCode = 2
	AlertHeapOOM       AlertCode = 3
)

// LowLevelDebug is the low-level debug capsule.
type LowLevelDebug struct {
	s *platform.Syscalls
}

// New returns the low-level debug capsule reached through s.
func New(s *platform.Syscalls) LowLevelDebug {
	return LowLevelDebug{s: s}
}

// PrintAlertCode prints a predefined alert. Failures are ignored; there is
// nowhere left to report them.
func (d LowLevelDebug) PrintAlertCode(code AlertCode) {
	d.s.Command(DriverNum, commandAlertCode, uintptr(code), 0)
}

// Print1 prints a number.
func (d LowLevelDebug) Print1(x uint32) {
	d.s.Command(DriverNum, commandPrint1, uintptr(x), 0)
}

// Print2 prints two numbers.
func (d LowLevelDebug) Print2(x, y uint32) {
	d.s.Command(DriverNum, commandPrint2, uintptr(x), uintptr(y))
}
