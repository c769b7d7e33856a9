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

package unittest

import (
	"math"
	"testing"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
)

// accessorHits returns, for each variant, whether its accessor matched.
func accessorHits(c platform.CommandReturn) map[tock.ReturnVariant]bool {
	_, f := c.Failure()
	_, _, fu32 := c.FailureU32()
	_, _, _, f2u32 := c.Failure2U32()
	_, _, fu64 := c.FailureU64()
	_, su32 := c.SuccessU32()
	_, _, s2u32 := c.Success2U32()
	_, _, _, s3u32 := c.Success3U32()
	_, su64 := c.SuccessU64()
	_, _, su32u64 := c.SuccessU32U64()
	return map[tock.ReturnVariant]bool{
		tock.Failure:       f,
		tock.FailureU32:    fu32,
		tock.Failure2U32:   f2u32,
		tock.FailureU64:    fu64,
		tock.Success:       c.IsSuccess(),
		tock.SuccessU32:    su32,
		tock.Success2U32:   s2u32,
		tock.Success3U32:   s3u32,
		tock.SuccessU64:    su64,
		tock.SuccessU32U64: su32u64,
	}
}

func TestAccessorMatrix(t *testing.T) {
	for _, tc := range []struct {
		ret     platform.CommandReturn
		variant tock.ReturnVariant
		err     error
	}{
		{Failure(tock.Reserve), tock.Failure, tock.Reserve},
		{FailureU32(tock.Off, 1002), tock.FailureU32, tock.Off},
		{Failure2U32(tock.Already, 1002, 1003), tock.Failure2U32, tock.Already},
		{FailureU64(tock.Busy, 0x1002_0000_0003), tock.FailureU64, tock.Busy},
		{Success(), tock.Success, nil},
		{SuccessU32(1001), tock.SuccessU32, tock.BadRVal},
		{Success2U32(1001, 1002), tock.Success2U32, tock.BadRVal},
		{Success3U32(1001, 1002, 1003), tock.Success3U32, tock.BadRVal},
		{SuccessU64(0x1001_0000_0002), tock.SuccessU64, tock.BadRVal},
		{SuccessU32U64(1001, 0x1002_0000_0003), tock.SuccessU32U64, tock.BadRVal},
	} {
		t.Run(tc.variant.String(), func(t *testing.T) {
			if got := tc.ret.ReturnVariant(); got != tc.variant {
				t.Errorf("ReturnVariant() got %v, want %v", got, tc.variant)
			}
			for v, hit := range accessorHits(tc.ret) {
				if want := v == tc.variant; hit != want {
					t.Errorf("%v accessor matched = %t, want %t", v, hit, want)
				}
			}
			if got := tc.ret.Err(); got != tc.err {
				t.Errorf("Err() got %v, want %v", got, tc.err)
			}
		})
	}
}

func TestPayloads(t *testing.T) {
	if e, v, ok := FailureU32(tock.Off, 1002).FailureU32(); !ok || e != tock.Off || v != 1002 {
		t.Errorf("FailureU32 got (%v, %d, %t), want (OFF, 1002, true)", e, v, ok)
	}
	if e, v0, v1, ok := Failure2U32(tock.Already, 1002, 1003).Failure2U32(); !ok || e != tock.Already || v0 != 1002 || v1 != 1003 {
		t.Errorf("Failure2U32 got (%v, %d, %d, %t)", e, v0, v1, ok)
	}
	if e, v, ok := FailureU64(tock.Busy, 0x1002_0000_0003).FailureU64(); !ok || e != tock.Busy || v != 0x1002_0000_0003 {
		t.Errorf("FailureU64 got (%v, %#x, %t)", e, v, ok)
	}
	if v0, v1, v2, ok := Success3U32(1001, 1002, 1003).Success3U32(); !ok || v0 != 1001 || v1 != 1002 || v2 != 1003 {
		t.Errorf("Success3U32 got (%d, %d, %d, %t)", v0, v1, v2, ok)
	}
	if v, ok := SuccessU64(math.MaxUint64).SuccessU64(); !ok || v != math.MaxUint64 {
		t.Errorf("SuccessU64 got (%#x, %t)", v, ok)
	}
	if v0, v1, ok := SuccessU32U64(1001, 0x1002_0000_0003).SuccessU32U64(); !ok || v0 != 1001 || v1 != 0x1002_0000_0003 {
		t.Errorf("SuccessU32U64 got (%d, %#x, %t)", v0, v1, ok)
	}
}

func TestToResult(t *testing.T) {
	if v, err := SuccessU32(7).ToResultU32(); err != nil || v != 7 {
		t.Errorf("ToResultU32 got (%d, %v), want (7, nil)", v, err)
	}
	if _, err := Success().ToResultU32(); err != tock.BadRVal {
		t.Errorf("ToResultU32 on Success got %v, want BADRVAL", err)
	}
	if _, err := Failure(tock.NoSupport).ToResultU32(); err != tock.NoSupport {
		t.Errorf("ToResultU32 on Failure got %v, want NOSUPPORT", err)
	}
	if _, _, err := FailureU32(tock.Size, 3).ToResult2U32(); err != tock.Size {
		t.Errorf("ToResult2U32 on FailureU32 got %v, want SIZE", err)
	}
	if v, err := SuccessU64(1 << 40).ToResultU64(); err != nil || v != 1<<40 {
		t.Errorf("ToResultU64 got (%#x, %v)", v, err)
	}
}

func TestUnknownErrorCodeDecodesAsFail(t *testing.T) {
	ret := platform.NewCommandReturnUnchecked(tock.Failure, 999, 0, 0)
	if e, ok := ret.Failure(); !ok || e != tock.Fail {
		t.Errorf("Failure() got (%v, %t), want (FAIL, true)", e, ok)
	}
}

func TestClassPredicates(t *testing.T) {
	for _, rv := range tock.ReturnVariants {
		c := platform.NewCommandReturnUnchecked(rv, 0, 0, 0)
		if got, want := c.IsFailureAny(), rv <= tock.FailureU64; got != want {
			t.Errorf("%v: IsFailureAny() = %t, want %t", rv, got, want)
		}
		if got, want := c.IsSuccessAny(), rv >= tock.Success; got != want {
			t.Errorf("%v: IsSuccessAny() = %t, want %t", rv, got, want)
		}
	}
}
