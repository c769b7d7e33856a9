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

package tock

import "fmt"

// ErrorCode is a kernel error code. The values are fixed by the kernel and
// must not be renumbered.
type ErrorCode uint32

// Error codes.
const (
	Fail        ErrorCode = 1
	Busy        ErrorCode = 2
	Already     ErrorCode = 3
	Off         ErrorCode = 4
	Reserve     ErrorCode = 5
	Invalid     ErrorCode = 6
	Size        ErrorCode = 7
	Cancel      ErrorCode = 8
	NoMem       ErrorCode = 9
	NoSupport   ErrorCode = 10
	NoDevice    ErrorCode = 11
	Uninstalled ErrorCode = 12
	NoAck       ErrorCode = 13

	// BadRVal is not returned by the kernel. It is produced in userspace
	// when a syscall returns a variant other than the one the caller
	// expected.
	BadRVal ErrorCode = 1024
)

// errorNames holds the kernel's error codes by value. Index 0 is not an
// error and has no name; everything above NoAck is not a valid kernel error.
var errorNames = [...]string{
	Fail:        "FAIL",
	Busy:        "BUSY",
	Already:     "ALREADY",
	Off:         "OFF",
	Reserve:     "RESERVE",
	Invalid:     "INVAL",
	Size:        "SIZE",
	Cancel:      "CANCEL",
	NoMem:       "NOMEM",
	NoSupport:   "NOSUPPORT",
	NoDevice:    "NODEVICE",
	Uninstalled: "UNINSTALLED",
	NoAck:       "NOACK",
}

// ErrorCodeFromRaw converts a raw kernel value into an ErrorCode. It returns
// false for 0 and for values outside the kernel's enumeration.
func ErrorCodeFromRaw(v uint32) (ErrorCode, bool) {
	if v == uint32(BadRVal) {
		return BadRVal, true
	}
	if v == 0 || v >= uint32(len(errorNames)) {
		return 0, false
	}
	return ErrorCode(v), true
}

// DecodeErrorCode converts a raw register value that the kernel reported as
// an error. A value outside the enumeration violates the ABI; it is mapped
// to Fail so that callers always observe a valid ErrorCode.
func DecodeErrorCode(v uint32) ErrorCode {
	if e, ok := ErrorCodeFromRaw(v); ok {
		return e
	}
	return Fail
}

// Error implements error.Error.
func (e ErrorCode) Error() string {
	return e.String()
}

// String implements fmt.Stringer.
func (e ErrorCode) String() string {
	if e == BadRVal {
		return "BADRVAL"
	}
	if int(e) < len(errorNames) && errorNames[e] != "" {
		return errorNames[e]
	}
	return fmt.Sprintf("ErrorCode(%d)", uint32(e))
}

// ParseErrorCode returns the ErrorCode whose String is name.
func ParseErrorCode(name string) (ErrorCode, bool) {
	if name == "BADRVAL" {
		return BadRVal, true
	}
	for i, n := range errorNames {
		if n != "" && n == name {
			return ErrorCode(i), true
		}
	}
	return 0, false
}
