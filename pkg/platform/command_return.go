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
	"fmt"
	"math"

	"github.com/tock/libtock-go/pkg/abi/tock"
)

// CommandReturn is the decoded result of a Command syscall. It is a tagged
// union over the ten return variants; only the accessor matching the tag
// returns data.
type CommandReturn struct {
	rv tock.ReturnVariant

	// r1, r2 and r3 are only meaningful as selected by rv.
	r1 uintptr
	r2 uintptr
	r3 uintptr
}

// NewCommandReturnUnchecked builds a CommandReturn from raw result
// registers. The caller asserts that the registers obey the ABI: in
// particular, if rv is a failure variant then r1 is a kernel ErrorCode.
// Values coming straight from the kernel satisfy this; anything else should
// be built through the constructors in package unittest.
func NewCommandReturnUnchecked(rv tock.ReturnVariant, r1, r2, r3 uintptr) CommandReturn {
	return CommandReturn{rv: rv, r1: r1, r2: r2, r3: r3}
}

// ReturnVariant returns the tag.
func (c CommandReturn) ReturnVariant() tock.ReturnVariant {
	return c.rv
}

// Registers returns the raw r1-r3 values.
func (c CommandReturn) Registers() (r1, r2, r3 uintptr) {
	return c.r1, c.r2, c.r3
}

// IsFailure returns true if this is a Failure with no payload.
func (c CommandReturn) IsFailure() bool { return c.rv == tock.Failure }

// IsFailureU32 returns true if this is a FailureU32.
func (c CommandReturn) IsFailureU32() bool { return c.rv == tock.FailureU32 }

// IsFailure2U32 returns true if this is a Failure2U32.
func (c CommandReturn) IsFailure2U32() bool { return c.rv == tock.Failure2U32 }

// IsFailureU64 returns true if this is a FailureU64.
func (c CommandReturn) IsFailureU64() bool { return c.rv == tock.FailureU64 }

// IsSuccess returns true if this is a Success with no payload.
func (c CommandReturn) IsSuccess() bool { return c.rv == tock.Success }

// IsSuccessU32 returns true if this is a SuccessU32.
func (c CommandReturn) IsSuccessU32() bool { return c.rv == tock.SuccessU32 }

// IsSuccess2U32 returns true if this is a Success2U32.
func (c CommandReturn) IsSuccess2U32() bool { return c.rv == tock.Success2U32 }

// IsSuccessU64 returns true if this is a SuccessU64.
func (c CommandReturn) IsSuccessU64() bool { return c.rv == tock.SuccessU64 }

// IsSuccess3U32 returns true if this is a Success3U32.
func (c CommandReturn) IsSuccess3U32() bool { return c.rv == tock.Success3U32 }

// IsSuccessU32U64 returns true if this is a SuccessU32U64.
func (c CommandReturn) IsSuccessU32U64() bool { return c.rv == tock.SuccessU32U64 }

// IsFailureAny returns true for every failure variant.
func (c CommandReturn) IsFailureAny() bool { return c.rv.IsFailure() }

// IsSuccessAny returns true for every success variant.
func (c CommandReturn) IsSuccessAny() bool { return c.rv.IsSuccess() }

func (c CommandReturn) errorCode() tock.ErrorCode {
	return decodeErrorCode(c.r1)
}

// decodeErrorCode decodes a register-width error value. Values that do not
// fit in 32 bits are outside the enumeration and decode to Fail.
func decodeErrorCode(v uintptr) tock.ErrorCode {
	if uint64(v) > math.MaxUint32 {
		return tock.Fail
	}
	return tock.DecodeErrorCode(uint32(v))
}

// Failure returns the error code of a Failure.
func (c CommandReturn) Failure() (tock.ErrorCode, bool) {
	if !c.IsFailure() {
		return 0, false
	}
	return c.errorCode(), true
}

// FailureU32 returns the payload of a FailureU32.
func (c CommandReturn) FailureU32() (tock.ErrorCode, uint32, bool) {
	if !c.IsFailureU32() {
		return 0, 0, false
	}
	return c.errorCode(), uint32(c.r2), true
}

// Failure2U32 returns the payload of a Failure2U32.
func (c CommandReturn) Failure2U32() (tock.ErrorCode, uint32, uint32, bool) {
	if !c.IsFailure2U32() {
		return 0, 0, 0, false
	}
	return c.errorCode(), uint32(c.r2), uint32(c.r3), true
}

// FailureU64 returns the payload of a FailureU64.
func (c CommandReturn) FailureU64() (tock.ErrorCode, uint64, bool) {
	if !c.IsFailureU64() {
		return 0, 0, false
	}
	return c.errorCode(), JoinU64(uint32(c.r2), uint32(c.r3)), true
}

// SuccessU32 returns the payload of a SuccessU32.
func (c CommandReturn) SuccessU32() (uint32, bool) {
	if !c.IsSuccessU32() {
		return 0, false
	}
	return uint32(c.r1), true
}

// Success2U32 returns the payload of a Success2U32.
func (c CommandReturn) Success2U32() (uint32, uint32, bool) {
	if !c.IsSuccess2U32() {
		return 0, 0, false
	}
	return uint32(c.r1), uint32(c.r2), true
}

// Success3U32 returns the payload of a Success3U32.
func (c CommandReturn) Success3U32() (uint32, uint32, uint32, bool) {
	if !c.IsSuccess3U32() {
		return 0, 0, 0, false
	}
	return uint32(c.r1), uint32(c.r2), uint32(c.r3), true
}

// SuccessU64 returns the payload of a SuccessU64.
func (c CommandReturn) SuccessU64() (uint64, bool) {
	if !c.IsSuccessU64() {
		return 0, false
	}
	return JoinU64(uint32(c.r1), uint32(c.r2)), true
}

// SuccessU32U64 returns the payload of a SuccessU32U64.
func (c CommandReturn) SuccessU32U64() (uint32, uint64, bool) {
	if !c.IsSuccessU32U64() {
		return 0, 0, false
	}
	return uint32(c.r1), JoinU64(uint32(c.r2), uint32(c.r3)), true
}

// Err returns the error code carried by any failure variant, BadRVal for an
// unexpected success variant, and nil for a plain Success.
func (c CommandReturn) Err() error {
	switch {
	case c.rv.IsFailure():
		return c.errorCode()
	case c.rv == tock.Success:
		return nil
	default:
		return tock.BadRVal
	}
}

// ToResult interprets c as a call expected to return Success.
func (c CommandReturn) ToResult() error {
	return c.Err()
}

// ToResultU32 interprets c as a call expected to return SuccessU32.
func (c CommandReturn) ToResultU32() (uint32, error) {
	if v, ok := c.SuccessU32(); ok {
		return v, nil
	}
	return 0, c.unexpected()
}

// ToResult2U32 interprets c as a call expected to return Success2U32.
func (c CommandReturn) ToResult2U32() (uint32, uint32, error) {
	if v0, v1, ok := c.Success2U32(); ok {
		return v0, v1, nil
	}
	return 0, 0, c.unexpected()
}

// ToResultU64 interprets c as a call expected to return SuccessU64.
func (c CommandReturn) ToResultU64() (uint64, error) {
	if v, ok := c.SuccessU64(); ok {
		return v, nil
	}
	return 0, c.unexpected()
}

func (c CommandReturn) unexpected() error {
	if c.rv.IsFailure() {
		return c.errorCode()
	}
	return tock.BadRVal
}

// String implements fmt.Stringer.
func (c CommandReturn) String() string {
	return fmt.Sprintf("%v(%#x, %#x, %#x)", c.rv, c.r1, c.r2, c.r3)
}

// SplitU64 splits v into the (low, high) register halves used by the ABI.
func SplitU64(v uint64) (lo, hi uint32) {
	return uint32(v), uint32(v >> 32)
}

// JoinU64 is the inverse of SplitU64.
func JoinU64(lo, hi uint32) uint64 {
	return uint64(hi)<<32 | uint64(lo)
}
