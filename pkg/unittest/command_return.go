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

// Package unittest contains helpers for testing code built on package
// platform. The simulated kernel lives in the fake subpackage.
package unittest

import (
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
)

// Failure returns a Failure CommandReturn.
func Failure(e tock.ErrorCode) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.Failure, uintptr(e), 0, 0)
}

// FailureU32 returns a FailureU32 CommandReturn.
func FailureU32(e tock.ErrorCode, v uint32) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.FailureU32, uintptr(e), uintptr(v), 0)
}

// Failure2U32 returns a Failure2U32 CommandReturn.
func Failure2U32(e tock.ErrorCode, v0, v1 uint32) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.Failure2U32, uintptr(e), uintptr(v0), uintptr(v1))
}

// FailureU64 returns a FailureU64 CommandReturn.
func FailureU64(e tock.ErrorCode, v uint64) platform.CommandReturn {
	lo, hi := platform.SplitU64(v)
	return platform.NewCommandReturnUnchecked(tock.FailureU64, uintptr(e), uintptr(lo), uintptr(hi))
}

// Success returns a Success CommandReturn.
func Success() platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.Success, 0, 0, 0)
}

// SuccessU32 returns a SuccessU32 CommandReturn.
func SuccessU32(v uint32) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.SuccessU32, uintptr(v), 0, 0)
}

// Success2U32 returns a Success2U32 CommandReturn.
func Success2U32(v0, v1 uint32) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.Success2U32, uintptr(v0), uintptr(v1), 0)
}

// SuccessU64 returns a SuccessU64 CommandReturn.
func SuccessU64(v uint64) platform.CommandReturn {
	lo, hi := platform.SplitU64(v)
	return platform.NewCommandReturnUnchecked(tock.SuccessU64, uintptr(lo), uintptr(hi), 0)
}

// Success3U32 returns a Success3U32 CommandReturn.
func Success3U32(v0, v1, v2 uint32) platform.CommandReturn {
	return platform.NewCommandReturnUnchecked(tock.Success3U32, uintptr(v0), uintptr(v1), uintptr(v2))
}

// SuccessU32U64 returns a SuccessU32U64 CommandReturn.
func SuccessU32U64(v0 uint32, v1 uint64) platform.CommandReturn {
	lo, hi := platform.SplitU64(v1)
	return platform.NewCommandReturnUnchecked(tock.SuccessU32U64, uintptr(v0), uintptr(lo), uintptr(hi))
}
