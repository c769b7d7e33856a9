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
	"fmt"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cleanup"
)

// Errors returned by guard acquisition and use.
var (
	// ErrSlotInUse is returned when a live guard already owns the slot.
	ErrSlotInUse = errors.New("slot already owned by a live guard")

	// ErrReleased is returned when a released guard is used.
	ErrReleased = errors.New("guard released")

	// ErrScopeClosed is returned when a Handle is used after its Scope
	// returned.
	ErrScopeClosed = errors.New("scope closed")

	// ErrForeignGuard is returned when a guard is passed to a Syscalls other
	// than the one it was acquired from.
	ErrForeignGuard = errors.New("guard belongs to another Syscalls")
)

// noCopy may be embedded into structs which must not be copied after first
// use. It is recognised by the copylocks check of go vet.
type noCopy struct{}

// Lock is a no-op used by go vet.
func (*noCopy) Lock() {}

// Unlock is a no-op used by go vet.
func (*noCopy) Unlock() {}

// slotKey identifies a kernel-side slot.
type slotKey struct {
	class  tock.SyscallClass
	driver uint32
	num    uint32
}

// String implements fmt.Stringer.
func (k slotKey) String() string {
	return fmt.Sprintf("%v(driver=%#x, num=%d)", k.class, k.driver, k.num)
}

// guard is the state shared by Subscribe, AllowRW and AllowRO.
type guard struct {
	noCopy noCopy

	s        *Syscalls
	key      slotKey
	released bool
}

// check verifies that g may be used to register through s.
func (g *guard) check(s *Syscalls) error {
	if g.released {
		return ErrReleased
	}
	if g.s != s {
		return ErrForeignGuard
	}
	return nil
}

// Driver returns the driver number of the guarded slot.
func (g *guard) Driver() uint32 { return g.key.driver }

// Num returns the subscribe or buffer number of the guarded slot.
func (g *guard) Num() uint32 { return g.key.num }

// Released reports whether Release has been called.
func (g *guard) Released() bool { return g.released }

// finish removes g from the registry. pinned is kept reachable forever if the
// kernel refused to revoke it.
func (g *guard) finish(revokeErr error, pinned any) {
	g.released = true
	delete(g.s.slots, g.key)
	if revokeErr != nil {
		g.s.log.Warningf("Revoking %v failed: %v; keeping shared memory pinned", g.key, revokeErr)
		g.s.pinned = append(g.s.pinned, pinned)
	}
}

// Subscribe owns an upcall registration. The registered upcall stays
// reachable until Release, which unsubscribes it.
type Subscribe struct {
	guard
	entry *upcallEntry
}

// Release unsubscribes the upcall. It is idempotent.
func (g *Subscribe) Release() {
	if g.released {
		return
	}
	g.s.Unsubscribe(g.key.driver, g.key.num)
	g.entry = nil
	g.finish(nil, nil)
}

// AllowRW owns a read-write buffer share. The buffer must not be accessed by
// the process while it is shared.
type AllowRW struct {
	guard
	buf []byte
}

// Release revokes the share by sharing (0, 0). It is idempotent.
func (g *AllowRW) Release() {
	if g.released {
		return
	}
	err := g.s.UnallowRW(g.key.driver, g.key.num)
	buf := g.buf
	g.buf = nil
	g.finish(err, buf)
}

// AllowRO owns a read-only buffer share.
type AllowRO struct {
	guard
	buf any
}

// Release revokes the share by sharing (0, 0). It is idempotent.
func (g *AllowRO) Release() {
	if g.released {
		return
	}
	err := g.s.UnallowRO(g.key.driver, g.key.num)
	buf := g.buf
	g.buf = nil
	g.finish(err, buf)
}

// Handle hands out guards whose lifetime is bounded by a Scope.
type Handle struct {
	s      *Syscalls
	cu     cleanup.Cleanup
	closed bool
}

// Scope calls fn with a fresh Handle. Every guard acquired through the handle
// is released, in reverse order of acquisition, before Scope returns. This
// holds when fn panics, too.
func Scope(s *Syscalls, fn func(h *Handle) error) error {
	h := &Handle{s: s}
	defer h.cu.Clean()
	defer func() { h.closed = true }()
	return fn(h)
}

// claim reserves key for a new guard.
func (h *Handle) claim(key slotKey) error {
	if h.closed {
		return ErrScopeClosed
	}
	if _, ok := h.s.slots[key]; ok {
		return fmt.Errorf("%v: %w", key, ErrSlotInUse)
	}
	h.s.slots[key] = struct{}{}
	return nil
}

// Subscribe acquires the guard for the given upcall slot.
func (h *Handle) Subscribe(driver, subscribe uint32) (*Subscribe, error) {
	key := slotKey{tock.Subscribe, driver, subscribe}
	if err := h.claim(key); err != nil {
		return nil, err
	}
	sub := &Subscribe{guard: guard{s: h.s, key: key}}
	h.cu.Add(sub.Release)
	return sub, nil
}

// AllowRW acquires the guard for the given read-write buffer slot.
func (h *Handle) AllowRW(driver, buffer uint32) (*AllowRW, error) {
	key := slotKey{tock.AllowRW, driver, buffer}
	if err := h.claim(key); err != nil {
		return nil, err
	}
	a := &AllowRW{guard: guard{s: h.s, key: key}}
	h.cu.Add(a.Release)
	return a, nil
}

// AllowRO acquires the guard for the given read-only buffer slot.
func (h *Handle) AllowRO(driver, buffer uint32) (*AllowRO, error) {
	key := slotKey{tock.AllowRO, driver, buffer}
	if err := h.claim(key); err != nil {
		return nil, err
	}
	a := &AllowRO{guard: guard{s: h.s, key: key}}
	h.cu.Add(a.Release)
	return a, nil
}
