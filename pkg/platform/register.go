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
	"unsafe"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cheri"
)

// Register is a register-width syscall argument or result.
//
// A Register built from a pointer keeps both the capability derived from the
// ambient DDC and the original unsafe.Pointer. Converting through uintptr
// loses both: the capability tag and the garbage collector's knowledge that
// the referent is live. Code that passes memory to the kernel must therefore
// build the Register directly from the pointer, never from its address.
//
// The zero Register is the integer 0.
type Register struct {
	cap cheri.Capability
	ptr unsafe.Pointer
}

// RegisterFromUintptr returns a Register holding v.
func RegisterFromUintptr(v uintptr) Register {
	return Register{cap: cheri.FromAddr(v)}
}

// RegisterFromUint32 returns a Register holding v.
func RegisterFromUint32(v uint32) Register {
	return RegisterFromUintptr(uintptr(v))
}

// RegisterFromErrorCode returns a Register holding the numeric value of e.
func RegisterFromErrorCode(e tock.ErrorCode) Register {
	return RegisterFromUintptr(uintptr(e))
}

// RegisterFromPointer returns a Register referring to p. The capability is
// derived from the ambient DDC; the length is left at the DDC's bounds
// because callers reinterpret the pointee type freely.
func RegisterFromPointer(p unsafe.Pointer) Register {
	return Register{cap: cheri.FromDDC(uintptr(p)), ptr: p}
}

// RegisterFromFunction is like RegisterFromPointer, but derives from the
// ambient PCC. It is only used for the upcall entry point.
func RegisterFromFunction(pc uintptr) Register {
	return Register{cap: cheri.FromPCC(pc)}
}

// RegisterFromCapability returns a Register holding c. Raw syscall
// implementations use it to hand back capabilities returned by the kernel.
func RegisterFromCapability(c cheri.Capability) Register {
	return Register{cap: c}
}

// Uintptr returns the address or integer value of r.
func (r Register) Uintptr() uintptr {
	return r.cap.Addr()
}

// AsU32 casts r to a uint32, truncating it if it is larger than
// math.MaxUint32. This conversion is for the syscall fast path only; tests
// and any code that cannot prove the value fits must use TryU32.
func (r Register) AsU32() uint32 {
	return uint32(r.cap.Addr())
}

// ErrRegisterOverflow is returned by TryU32 when the value does not fit.
type ErrRegisterOverflow struct {
	Value uintptr
}

// Error implements error.Error.
func (e *ErrRegisterOverflow) Error() string {
	return fmt.Sprintf("register value %#x overflows uint32", e.Value)
}

// TryU32 converts r to a uint32, failing if the value exceeds
// math.MaxUint32.
func (r Register) TryU32() (uint32, error) {
	v := r.cap.Addr()
	if uint64(v) > math.MaxUint32 {
		return 0, &ErrRegisterOverflow{Value: v}
	}
	return uint32(v), nil
}

// Pointer returns the pointer r was built from. Registers that came from an
// integer or from the kernel have no Go pointer; for those the address is
// reinterpreted. That is only valid for memory outside the Go heap (for
// example the process break returned by Sbrk) or for Go objects that another
// reference keeps reachable, such as the upcall entry held by a Subscribe
// guard while the kernel may hand its address back.
func (r Register) Pointer() unsafe.Pointer {
	if r.ptr != nil {
		return r.ptr
	}
	return unsafe.Pointer(r.cap.Addr())
}

// Capability returns the capability held by r.
func (r Register) Capability() cheri.Capability {
	return r.cap
}

// Tagged reports whether r holds a valid capability.
func (r Register) Tagged() bool {
	return r.cap.Tag()
}

// String implements fmt.Stringer.
func (r Register) String() string {
	return r.cap.String()
}
