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

package cheri

import (
	"math"
	"testing"
)

func TestFromAddrUntagged(t *testing.T) {
	c := FromAddr(0x1000)
	if c.Tag() {
		t.Errorf("FromAddr(0x1000) is tagged: %v", c)
	}
	if c.Addr() != 0x1000 {
		t.Errorf("Addr() = %#x, want 0x1000", c.Addr())
	}
}

func TestWithAddr(t *testing.T) {
	root := Root(0x1000, 0x100, PermData)
	for _, tc := range []struct {
		addr uintptr
		tag  bool
	}{
		{0x1000, true},
		{0x1080, true},
		{0x1100, true}, // One past the end.
		{0x1101, false},
		{0xfff, false},
	} {
		if got := root.WithAddr(tc.addr).Tag(); got != tc.tag {
			t.Errorf("WithAddr(%#x).Tag() = %t, want %t", tc.addr, got, tc.tag)
		}
	}
}

func TestWithBoundsMonotonic(t *testing.T) {
	root := Root(0x1000, 0x100, PermData)
	if c := root.WithBounds(0x1010, 0x10); !c.Tag() || c.Base() != 0x1010 || c.Len() != 0x10 {
		t.Errorf("narrowing failed: %v", c)
	}
	if c := root.WithBounds(0x1000, 0x200); c.Tag() {
		t.Errorf("widening kept the tag: %v", c)
	}
	if c := FromAddr(0).WithBounds(0, 1); c.Tag() {
		t.Errorf("untagged capability gained a tag: %v", c)
	}
}

func TestAmbientRoots(t *testing.T) {
	old := DDC()
	defer SetDDC(old)

	if !FromDDC(0xdead).Tag() {
		t.Errorf("default DDC does not cover 0xdead")
	}
	if DDC().Len() != math.MaxUint {
		t.Errorf("default DDC length = %#x", DDC().Len())
	}
	SetDDC(Root(0x2000, 0x1000, PermData))
	if FromDDC(0x1000).Tag() {
		t.Errorf("derived a tag outside the DDC")
	}
	if !FromDDC(0x2800).Tag() {
		t.Errorf("could not derive a tag inside the DDC")
	}
	if got := FromPCC(0x40).Perms(); got != PermCode {
		t.Errorf("FromPCC perms = %v, want %v", got, PermCode)
	}
}

func TestPermsString(t *testing.T) {
	if got := PermData.String(); got != "rw-" {
		t.Errorf("PermData = %q", got)
	}
	if got := PermCode.String(); got != "r-x" {
		t.Errorf("PermCode = %q", got)
	}
}
