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

// Upcall is a callback the kernel may invoke on the process's goroutine
// while it is blocked in Yield.
type Upcall interface {
	Upcall(arg0, arg1, arg2 uintptr)
}

// IDConstraint is implemented by upcalls that may only be registered in
// particular slots. Upcalls that do not implement it accept any slot.
type IDConstraint interface {
	SupportsID(driver, subscribe uint32) bool
}

// AnyID accepts every slot. It can be embedded to document that intent.
type AnyID struct{}

// SupportsID implements IDConstraint.SupportsID.
func (AnyID) SupportsID(uint32, uint32) bool { return true }

// OneID restricts an upcall to a single slot. Embed it and set its fields.
type OneID struct {
	Driver    uint32
	Subscribe uint32
}

// SupportsID implements IDConstraint.SupportsID.
func (o OneID) SupportsID(driver, subscribe uint32) bool {
	return driver == o.Driver && subscribe == o.Subscribe
}

// UpcallFunc adapts a function to the Upcall interface.
type UpcallFunc func(arg0, arg1, arg2 uintptr)

// Upcall implements Upcall.Upcall.
func (f UpcallFunc) Upcall(arg0, arg1, arg2 uintptr) { f(arg0, arg1, arg2) }

// Flag is set to true when the upcall runs. Arguments are ignored.
type Flag bool

// Upcall implements Upcall.Upcall.
func (f *Flag) Upcall(uintptr, uintptr, uintptr) { *f = true }

// Get reports whether the upcall has run.
func (f *Flag) Get() bool { return bool(*f) }

// Reset clears the flag.
func (f *Flag) Reset() { *f = false }

// Cell0 records that the upcall ran.
type Cell0 struct {
	ok bool
}

// Upcall implements Upcall.Upcall.
func (c *Cell0) Upcall(uintptr, uintptr, uintptr) { c.ok = true }

// Get reports whether the upcall has run.
func (c *Cell0) Get() bool { return c.ok }

// Take is Get followed by Reset.
func (c *Cell0) Take() bool {
	ok := c.ok
	c.Reset()
	return ok
}

// Reset forgets the recorded invocation.
func (c *Cell0) Reset() { *c = Cell0{} }

// Cell1 records the first argument of the most recent invocation.
type Cell1 struct {
	v0 uintptr
	ok bool
}

// Upcall implements Upcall.Upcall.
func (c *Cell1) Upcall(arg0, _, _ uintptr) { *c = Cell1{arg0, true} }

// Get returns the recorded argument and whether the upcall has run.
func (c *Cell1) Get() (uintptr, bool) { return c.v0, c.ok }

// Take is Get followed by Reset.
func (c *Cell1) Take() (uintptr, bool) {
	v0, ok := c.Get()
	c.Reset()
	return v0, ok
}

// Reset forgets the recorded invocation.
func (c *Cell1) Reset() { *c = Cell1{} }

// Cell2 records the first two arguments of the most recent invocation.
type Cell2 struct {
	v0, v1 uintptr
	ok     bool
}

// Upcall implements Upcall.Upcall.
func (c *Cell2) Upcall(arg0, arg1, _ uintptr) { *c = Cell2{arg0, arg1, true} }

// Get returns the recorded arguments and whether the upcall has run.
func (c *Cell2) Get() (uintptr, uintptr, bool) { return c.v0, c.v1, c.ok }

// Take is Get followed by Reset.
func (c *Cell2) Take() (uintptr, uintptr, bool) {
	v0, v1, ok := c.Get()
	c.Reset()
	return v0, v1, ok
}

// Reset forgets the recorded invocation.
func (c *Cell2) Reset() { *c = Cell2{} }

// Cell3 records all arguments of the most recent invocation.
type Cell3 struct {
	v0, v1, v2 uintptr
	ok         bool
}

// Upcall implements Upcall.Upcall.
func (c *Cell3) Upcall(arg0, arg1, arg2 uintptr) { *c = Cell3{arg0, arg1, arg2, true} }

// Get returns the recorded arguments and whether the upcall has run.
func (c *Cell3) Get() (uintptr, uintptr, uintptr, bool) { return c.v0, c.v1, c.v2, c.ok }

// Take is Get followed by Reset.
func (c *Cell3) Take() (uintptr, uintptr, uintptr, bool) {
	v0, v1, v2, ok := c.Get()
	c.Reset()
	return v0, v1, v2, ok
}

// Reset forgets the recorded invocation.
func (c *Cell3) Reset() { *c = Cell3{} }

// Cell1U32 is Cell1 with the argument truncated to 32 bits.
type Cell1U32 struct {
	Cell1
}

// Get returns the recorded argument and whether the upcall has run.
func (c *Cell1U32) Get() (uint32, bool) {
	v0, ok := c.Cell1.Get()
	return uint32(v0), ok
}

// Take is Get followed by Reset.
func (c *Cell1U32) Take() (uint32, bool) {
	v0, ok := c.Cell1.Take()
	return uint32(v0), ok
}

// Cell2U32 is Cell2 with the arguments truncated to 32 bits.
type Cell2U32 struct {
	Cell2
}

// Get returns the recorded arguments and whether the upcall has run.
func (c *Cell2U32) Get() (uint32, uint32, bool) {
	v0, v1, ok := c.Cell2.Get()
	return uint32(v0), uint32(v1), ok
}

// Take is Get followed by Reset.
func (c *Cell2U32) Take() (uint32, uint32, bool) {
	v0, v1, ok := c.Cell2.Take()
	return uint32(v0), uint32(v1), ok
}

// Cell3U32 is Cell3 with the arguments truncated to 32 bits.
type Cell3U32 struct {
	Cell3
}

// Get returns the recorded arguments and whether the upcall has run.
func (c *Cell3U32) Get() (uint32, uint32, uint32, bool) {
	v0, v1, v2, ok := c.Cell3.Get()
	return uint32(v0), uint32(v1), uint32(v2), ok
}

// Take is Get followed by Reset.
func (c *Cell3U32) Take() (uint32, uint32, uint32, bool) {
	v0, v1, v2, ok := c.Cell3.Take()
	return uint32(v0), uint32(v1), uint32(v2), ok
}

// UpcallResult is an upcall sink that drivers following the standard
// convention (arg0 is 0 on success, otherwise an ErrorCode) can be waited on.
type UpcallResult[T any] interface {
	Upcall

	// UpcallResult returns the decoded result and whether the upcall has
	// run.
	UpcallResult() (T, bool, error)

	// Reset forgets the recorded invocation.
	Reset()
}

// StandardResult is the sink for upcalls that carry only a status.
type StandardResult = Cell1

// StandardResultArg1 is the sink for upcalls that carry a status and one
// value.
type StandardResultArg1 = Cell2

// StandardResultArg2 is the sink for upcalls that carry a status and two
// values.
type StandardResultArg2 = Cell3

func statusErr(status uintptr) error {
	if status == 0 {
		return nil
	}
	return decodeErrorCode(status)
}

// UpcallResult implements UpcallResult.UpcallResult.
func (c *Cell1) UpcallResult() (struct{}, bool, error) {
	if !c.ok {
		return struct{}{}, false, nil
	}
	return struct{}{}, true, statusErr(c.v0)
}

// UpcallResult implements UpcallResult.UpcallResult.
func (c *Cell2) UpcallResult() (uintptr, bool, error) {
	if !c.ok {
		return 0, false, nil
	}
	if err := statusErr(c.v0); err != nil {
		return 0, true, err
	}
	return c.v1, true, nil
}

// UpcallResult implements UpcallResult.UpcallResult.
func (c *Cell3) UpcallResult() ([2]uintptr, bool, error) {
	if !c.ok {
		return [2]uintptr{}, false, nil
	}
	if err := statusErr(c.v0); err != nil {
		return [2]uintptr{}, true, err
	}
	return [2]uintptr{c.v1, c.v2}, true, nil
}

// WaitResult calls YieldWait until r has been invoked and returns its
// result.
func WaitResult[T any](s *Syscalls, r UpcallResult[T]) (T, error) {
	for {
		if v, ok, err := r.UpcallResult(); ok {
			return v, err
		}
		s.YieldWait()
	}
}

// Wait blocks in YieldWait until c's upcall has run and returns its status.
func (c *Cell1) Wait(s *Syscalls) error {
	_, err := WaitResult[struct{}](s, c)
	return err
}

// Wait blocks in YieldWait until c's upcall has run and returns its value.
func (c *Cell2) Wait(s *Syscalls) (uintptr, error) {
	return WaitResult[uintptr](s, c)
}

// Wait blocks in YieldWait until c's upcall has run and returns its values.
func (c *Cell3) Wait(s *Syscalls) (uintptr, uintptr, error) {
	v, err := WaitResult[[2]uintptr](s, c)
	return v[0], v[1], err
}
