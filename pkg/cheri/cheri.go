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

// Package cheri models capability pointers: an address together with bounds,
// permissions and a validity tag. On capability hardware the tag can only be
// obtained by deriving from another valid capability; an address that was
// round-tripped through a plain integer is untagged.
//
// Go has no capability hardware backend, so this package keeps the ambient
// roots (DDC and PCC) in process state and applies the derivation rules in
// software. Registers built from pointers carry a Capability so that the
// raw syscall layer and simulated kernels can check provenance.
package cheri

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Perms is a capability permission mask.
type Perms uint32

// Permission bits.
const (
	PermLoad Perms = 1 << iota
	PermStore
	PermExecute

	PermData = PermLoad | PermStore
	PermCode = PermLoad | PermExecute
)

// String implements fmt.Stringer.
func (p Perms) String() string {
	b := []byte("---")
	if p&PermLoad != 0 {
		b[0] = 'r'
	}
	if p&PermStore != 0 {
		b[1] = 'w'
	}
	if p&PermExecute != 0 {
		b[2] = 'x'
	}
	return string(b)
}

// Capability is a tagged pointer value.
type Capability struct {
	addr   uintptr
	base   uintptr
	length uintptr
	perms  Perms
	tag    bool
}

// FromAddr returns an untagged capability holding addr. This is what a plain
// integer becomes when placed in a capability register.
func FromAddr(addr uintptr) Capability {
	return Capability{addr: addr}
}

// Root returns a valid capability covering [base, base+length) with perms.
func Root(base, length uintptr, perms Perms) Capability {
	return Capability{addr: base, base: base, length: length, perms: perms, tag: true}
}

// Addr returns the address of c.
func (c Capability) Addr() uintptr { return c.addr }

// Base returns the lower bound of c.
func (c Capability) Base() uintptr { return c.base }

// Len returns the length of the bounds of c.
func (c Capability) Len() uintptr { return c.length }

// Perms returns the permissions of c.
func (c Capability) Perms() Perms { return c.perms }

// Tag reports whether c is a valid capability.
func (c Capability) Tag() bool { return c.tag }

// InBounds reports whether [addr, addr+n) lies within the bounds of c.
func (c Capability) InBounds(addr, n uintptr) bool {
	if addr < c.base {
		return false
	}
	off := addr - c.base
	return off <= c.length && n <= c.length-off
}

// WithAddr returns c with its address set to addr. The tag is cleared if
// addr is outside the bounds of c (inclusive of the one-past-the-end
// address).
func (c Capability) WithAddr(addr uintptr) Capability {
	c.addr = addr
	if c.tag && !c.InBounds(addr, 0) {
		c.tag = false
	}
	return c
}

// WithBounds narrows c to [base, base+length). Bounds can only shrink: the
// result is untagged if the requested range is not contained in c.
func (c Capability) WithBounds(base, length uintptr) Capability {
	n := c
	n.addr = base
	n.base = base
	n.length = length
	if !c.tag || !c.InBounds(base, length) {
		n.tag = false
	}
	return n
}

// WithPerms returns c with its permissions intersected with p.
func (c Capability) WithPerms(p Perms) Capability {
	c.perms &= p
	return c
}

// String implements fmt.Stringer.
func (c Capability) String() string {
	if !c.tag {
		return fmt.Sprintf("%#x (untagged)", c.addr)
	}
	return fmt.Sprintf("%#x [%#x-%#x] %v", c.addr, c.base, c.base+c.length, c.perms)
}

var (
	ddc atomic.Pointer[Capability]
	pcc atomic.Pointer[Capability]
)

func init() {
	d := Root(0, math.MaxUint, PermData)
	p := Root(0, math.MaxUint, PermCode)
	ddc.Store(&d)
	pcc.Store(&p)
}

// DDC returns the ambient default data capability.
func DDC() Capability { return *ddc.Load() }

// SetDDC replaces the ambient default data capability.
func SetDDC(c Capability) { ddc.Store(&c) }

// PCC returns the ambient program counter capability.
func PCC() Capability { return *pcc.Load() }

// FromDDC derives a data capability for addr from the ambient DDC.
func FromDDC(addr uintptr) Capability { return DDC().WithAddr(addr) }

// FromPCC derives a code capability for pc from the ambient PCC.
func FromPCC(pc uintptr) Capability { return PCC().WithAddr(pc) }
