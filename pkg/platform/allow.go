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

import "unsafe"

// allow shares ptr/length in the slot owned by g.
func (s *Syscalls) allow(g *guard, ptr unsafe.Pointer, length uintptr) (prevNonzero bool, err error) {
	if err := g.check(s); err != nil {
		return false, err
	}
	r := s.raw.Syscall4(g.key.class, [4]Register{
		RegisterFromUint32(g.key.driver),
		RegisterFromUint32(g.key.num),
		RegisterFromPointer(ptr),
		RegisterFromUintptr(length),
	})
	if err := checkResult(r[0], r[1]); err != nil {
		return false, err
	}
	return r[1].Uintptr() != 0 || r[2].Uintptr() != 0, nil
}

// AllowRW shares buf with the kernel for reading and writing until g is
// released. The process must not touch buf while it is shared.
func (s *Syscalls) AllowRW(g *AllowRW, buf []byte, cfg AllowRWConfig) error {
	prev, err := s.allow(&g.guard, unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)))
	if err != nil {
		return err
	}
	g.buf = buf
	if prev {
		cfg.ReturnedNonzeroRWBuffer(g.key.driver, g.key.num)
	}
	return nil
}

// AllowRO shares buf with the kernel for reading until g is released.
func (s *Syscalls) AllowRO(g *AllowRO, buf []byte, cfg AllowROConfig) error {
	return s.allowRO(g, buf, unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf)), cfg)
}

// AllowRO32 is AllowRO for a slice of words. The kernel sees the same memory
// as 4*len(buf) bytes.
func (s *Syscalls) AllowRO32(g *AllowRO, buf []uint32, cfg AllowROConfig) error {
	return s.allowRO(g, buf, unsafe.Pointer(unsafe.SliceData(buf)), uintptr(len(buf))*4, cfg)
}

func (s *Syscalls) allowRO(g *AllowRO, buf any, ptr unsafe.Pointer, length uintptr, cfg AllowROConfig) error {
	prev, err := s.allow(&g.guard, ptr, length)
	if err != nil {
		return err
	}
	g.buf = buf
	if prev {
		cfg.ReturnedNonzeroROBuffer(g.key.driver, g.key.num)
	}
	return nil
}
