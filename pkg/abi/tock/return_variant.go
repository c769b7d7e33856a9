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

// ReturnVariant is the tag in r0 of a syscall result. It selects how many of
// r1-r3 carry data and whether r1 is an ErrorCode.
type ReturnVariant uint32

// Return variants.
const (
	Failure       ReturnVariant = 0
	FailureU32    ReturnVariant = 1
	Failure2U32   ReturnVariant = 2
	FailureU64    ReturnVariant = 3
	Success       ReturnVariant = 128
	SuccessU32    ReturnVariant = 129
	Success2U32   ReturnVariant = 130
	SuccessU64    ReturnVariant = 131
	Success3U32   ReturnVariant = 132
	SuccessU32U64 ReturnVariant = 133
)

// IsFailure returns true for the four failure variants.
func (rv ReturnVariant) IsFailure() bool {
	return rv <= FailureU64
}

// IsSuccess returns true for the six success variants.
func (rv ReturnVariant) IsSuccess() bool {
	return rv >= Success && rv <= SuccessU32U64
}

// String implements fmt.Stringer.
func (rv ReturnVariant) String() string {
	switch rv {
	case Failure:
		return "Failure"
	case FailureU32:
		return "FailureU32"
	case Failure2U32:
		return "Failure2U32"
	case FailureU64:
		return "FailureU64"
	case Success:
		return "Success"
	case SuccessU32:
		return "SuccessU32"
	case Success2U32:
		return "Success2U32"
	case SuccessU64:
		return "SuccessU64"
	case Success3U32:
		return "Success3U32"
	case SuccessU32U64:
		return "SuccessU32U64"
	default:
		return fmt.Sprintf("ReturnVariant(%d)", uint32(rv))
	}
}

// ReturnVariants lists every variant defined by the ABI.
var ReturnVariants = []ReturnVariant{
	Failure, FailureU32, Failure2U32, FailureU64,
	Success, SuccessU32, Success2U32, SuccessU64, Success3U32, SuccessU32U64,
}

// ParseReturnVariant returns the ReturnVariant whose String is name.
func ParseReturnVariant(name string) (ReturnVariant, bool) {
	for _, rv := range ReturnVariants {
		if rv.String() == name {
			return rv, true
		}
	}
	return 0, false
}
