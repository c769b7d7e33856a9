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

package tockrt

import (
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest/fake"
)

func newProcess(t *testing.T, opts ...fake.Option) (*fake.Kernel, *fake.LowLevelDebug, *platform.Syscalls) {
	t.Helper()
	k := fake.New(opts...)
	d := fake.NewLowLevelDebug()
	k.AddDriver(d)
	t.Cleanup(func() { k.Close() })
	return k, d, platform.New(k, platform.WithCapabilityDDC(false))
}

func TestStart(t *testing.T) {
	k, _, s := newProcess(t)
	calls := 0
	exit := k.Run(func() {
		Start(s, func() error {
			calls++
			return tock.Busy
		})
	})
	if calls != 1 {
		t.Errorf("main called %d times, want 1", calls)
	}
	if exit == nil || exit.ExitCode() != uint32(tock.Busy) {
		t.Errorf("exit got %v, want exit-terminate(%d)", exit, tock.Busy)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("second Start did not panic")
		}
	}()
	Start(s, func() error { return nil })
}

func TestHeapSbrk(t *testing.T) {
	k, _, s := newProcess(t, fake.WithMemory(4<<10, 1<<10))
	h := NewHeap(s)
	start, err := s.MemoryStart()
	if err != nil {
		t.Fatalf("MemoryStart got %v", err)
	}
	if got := h.Sbrk(100); got != start+1<<10 {
		t.Errorf("Sbrk(100) got %#x, want %#x", got, start+1<<10)
	}
	if got := h.Sbrk(8 << 10); got != 0 {
		t.Errorf("Sbrk past the end got %#x, want 0", got)
	}
	if got := k.Break(); got != start+1<<10+100 {
		t.Errorf("Break got %#x, want %#x", got, start+1<<10+100)
	}
}

func TestHeapAlloc(t *testing.T) {
	_, _, s := newProcess(t, fake.WithMemory(4<<10, 3))
	h := NewHeap(s)
	b := h.Alloc(16, 8)
	if len(b) != 16 {
		t.Fatalf("Alloc got %d bytes, want 16", len(b))
	}
	if addr := uintptr(unsafe.Pointer(unsafe.SliceData(b))); addr%8 != 0 {
		t.Errorf("Alloc returned unaligned address %#x", addr)
	}
	for i := range b {
		b[i] = byte(i)
	}
}

func TestHeapOOM(t *testing.T) {
	k, d, s := newProcess(t, fake.WithMemory(4<<10, 0))
	h := NewHeap(s)
	exit := k.Run(func() { h.Alloc(8<<10, 1) })
	if exit == nil || exit.ExitCode() != uint32(tock.NoMem) {
		t.Errorf("exit got %v, want exit-terminate(%d)", exit, tock.NoMem)
	}
	want := []string{"alert code 0x3 (heap out of memory)"}
	if diff := cmp.Diff(want, d.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}
