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

	"github.com/tock/libtock-go/pkg/abi/tock"
)

// ExitPanic is implemented by values a RawSyscalls panics with to implement
// Exit when it cannot stop the process outright, as the simulated kernel in
// package unittest/fake does. DispatchUpcall lets such panics through.
type ExitPanic interface {
	ExitCode() uint32
}

// Termination is a value that knows how to end the process.
type Termination interface {
	Complete(s *Syscalls)
}

// ExitCode returns the exit code for a main function result: 0 for nil, the
// error code's value for a tock.ErrorCode and Fail for anything else.
func ExitCode(err error) uint32 {
	if err == nil {
		return 0
	}
	var ec tock.ErrorCode
	if errors.As(err, &ec) {
		return uint32(ec)
	}
	return uint32(tock.Fail)
}

// Terminate ends the process with ExitCode(err). It does not return.
func Terminate(s *Syscalls, err error) {
	s.ExitTerminate(ExitCode(err))
}

// Exit is a Termination that exits with a fixed code.
type Exit uint32

// Complete implements Termination.Complete.
func (e Exit) Complete(s *Syscalls) {
	s.ExitTerminate(uint32(e))
}

// ErrorTermination is a Termination for an error result.
type ErrorTermination struct {
	Err error
}

// Complete implements Termination.Complete.
func (t ErrorTermination) Complete(s *Syscalls) {
	Terminate(s, t.Err)
}
