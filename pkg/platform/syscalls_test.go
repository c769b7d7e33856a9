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

package platform_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/cheri"
	"github.com/tock/libtock-go/pkg/log"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest/fake"
)

const (
	buttons = fake.ButtonsDriverNum
	leds    = fake.LedsDriverNum
)

func newKernel(t *testing.T) (*fake.Kernel, *platform.Syscalls) {
	t.Helper()
	k := fake.New()
	k.AddDriver(fake.NewLeds(10))
	k.AddDriver(fake.NewButtons(2))
	t.Cleanup(func() { k.Close() })
	return k, platform.New(k)
}

// countingConfig counts anomaly reports.
type countingConfig struct {
	upcalls, rw, ro int
}

func (c *countingConfig) ReturnedNonnullUpcall(uint32, uint32)   { c.upcalls++ }
func (c *countingConfig) ReturnedNonzeroRWBuffer(uint32, uint32) { c.rw++ }
func (c *countingConfig) ReturnedNonzeroROBuffer(uint32, uint32) { c.ro++ }

func TestSubscribeReleaseUnsubscribes(t *testing.T) {
	k, s := newKernel(t)
	var cell platform.Cell2
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		if err := s.Subscribe(g, &cell, platform.DefaultConfig{}); err != nil {
			return err
		}
		if !k.Subscribed(buttons, 0) {
			t.Errorf("slot not subscribed inside scope")
		}
		if _, err := h.Subscribe(buttons, 0); !errors.Is(err, platform.ErrSlotInUse) {
			t.Errorf("second acquisition got %v, want ErrSlotInUse", err)
		}
		k.TakeSyscalls()
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	want := []fake.Syscall{{Class: tock.Subscribe, Args: [4]uintptr{buttons, 0, 0, 0}}}
	if diff := cmp.Diff(want, k.TakeSyscalls()); diff != "" {
		t.Errorf("release syscalls mismatch (-want +got):\n%s", diff)
	}
	if k.Subscribed(buttons, 0) {
		t.Errorf("slot still subscribed after scope")
	}

	// The slot is free again once the guard is gone.
	err = platform.Scope(s, func(h *platform.Handle) error {
		_, err := h.Subscribe(buttons, 0)
		return err
	})
	if err != nil {
		t.Errorf("acquisition after release got %v", err)
	}
}

func TestUpcallDispatch(t *testing.T) {
	k, s := newKernel(t)
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		var cell platform.Cell3
		if err := s.Subscribe(g, &cell, platform.DefaultConfig{}); err != nil {
			return err
		}
		if err := k.ScheduleUpcall(buttons, 0, [3]uintptr{1, 2, 3}); err != nil {
			return err
		}
		got := s.YieldNoWait()
		want := platform.YieldNoWaitReturn{Upcall: true, Driver: buttons, Subscribe: 0}
		if got != want {
			t.Errorf("YieldNoWait got %+v, want %+v", got, want)
		}
		if v0, v1, v2, ok := cell.Get(); !ok || v0 != 1 || v1 != 2 || v2 != 3 {
			t.Errorf("cell got (%d, %d, %d, %t), want (1, 2, 3, true)", v0, v1, v2, ok)
		}
		if got := s.YieldNoWait(); got.Upcall {
			t.Errorf("second YieldNoWait got %+v, want no upcall", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
}

func TestNoUpcallAfterRelease(t *testing.T) {
	k, s := newKernel(t)
	var flag platform.Flag
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		if err := s.Subscribe(g, &flag, platform.DefaultConfig{}); err != nil {
			return err
		}
		return k.ScheduleUpcall(buttons, 0, [3]uintptr{})
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	if got := s.YieldNoWait(); got.Upcall || flag.Get() {
		t.Errorf("upcall delivered after release: %+v, flag %t", got, flag.Get())
	}
}

func TestWaitResult(t *testing.T) {
	k, s := newKernel(t)
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		var r platform.StandardResultArg1
		if err := s.Subscribe(g, &r, platform.DefaultConfig{}); err != nil {
			return err
		}
		k.ScheduleUpcall(buttons, 0, [3]uintptr{0, 7, 0})
		v, err := r.Wait(s)
		if err != nil || v != 7 {
			t.Errorf("Wait got (%d, %v), want (7, nil)", v, err)
		}

		r.Reset()
		k.ScheduleUpcall(buttons, 0, [3]uintptr{uintptr(tock.Busy), 0, 0})
		if _, err := platform.WaitResult[uintptr](s, &r); err != tock.Busy {
			t.Errorf("WaitResult got %v, want BUSY", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
}

func TestAllowRevocation(t *testing.T) {
	k, s := newKernel(t)
	buf := []byte("hello")
	words := []uint32{1, 2, 3}
	err := platform.Scope(s, func(h *platform.Handle) error {
		rw, err := h.AllowRW(leds, 0)
		if err != nil {
			return err
		}
		ro, err := h.AllowRO(leds, 1)
		if err != nil {
			return err
		}
		if err := s.AllowRW(rw, buf, platform.DefaultConfig{}); err != nil {
			return err
		}
		if err := s.AllowRO32(ro, words, platform.DefaultConfig{}); err != nil {
			return err
		}
		if got := k.SharedRO(leds, 1); len(got) != 12 {
			t.Errorf("AllowRO32 shared %d bytes, want 12", len(got))
		}
		k.TakeSyscalls()
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	// Guards are released in reverse order of acquisition.
	want := []fake.Syscall{
		{Class: tock.AllowRO, Args: [4]uintptr{leds, 1, 0, 0}},
		{Class: tock.AllowRW, Args: [4]uintptr{leds, 0, 0, 0}},
	}
	if diff := cmp.Diff(want, k.TakeSyscalls()); diff != "" {
		t.Errorf("revocation syscalls mismatch (-want +got):\n%s", diff)
	}
	if k.SharedRW(leds, 0) != nil || k.SharedRO(leds, 1) != nil {
		t.Errorf("buffers still shared after scope")
	}
}

func TestReleasedGuard(t *testing.T) {
	_, s := newKernel(t)
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.AllowRW(leds, 0)
		if err != nil {
			return err
		}
		g.Release()
		g.Release()
		if !g.Released() {
			t.Errorf("Released got false")
		}
		if err := s.AllowRW(g, make([]byte, 1), platform.DefaultConfig{}); err != platform.ErrReleased {
			t.Errorf("AllowRW with released guard got %v, want ErrReleased", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
}

func TestForeignGuardAndClosedScope(t *testing.T) {
	_, s := newKernel(t)
	_, other := newKernel(t)
	var escaped *platform.Handle
	err := platform.Scope(s, func(h *platform.Handle) error {
		escaped = h
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		if err := other.Subscribe(g, new(platform.Flag), platform.DefaultConfig{}); err != platform.ErrForeignGuard {
			t.Errorf("Subscribe through another Syscalls got %v, want ErrForeignGuard", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	if _, err := escaped.Subscribe(buttons, 0); err != platform.ErrScopeClosed {
		t.Errorf("Subscribe on closed scope got %v, want ErrScopeClosed", err)
	}
}

type onlyButtonZero struct {
	platform.OneID
	platform.Flag
}

func TestUnsupportedID(t *testing.T) {
	k, s := newKernel(t)
	u := &onlyButtonZero{OneID: platform.OneID{Driver: buttons, Subscribe: 0}}
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(leds, 0)
		if err != nil {
			return err
		}
		k.TakeSyscalls()
		if err := s.Subscribe(g, u, platform.DefaultConfig{}); err != platform.ErrUnsupportedID {
			t.Errorf("Subscribe got %v, want ErrUnsupportedID", err)
		}
		if got := k.TakeSyscalls(); len(got) != 0 {
			t.Errorf("Subscribe with unsupported id issued %v", got)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
}

func TestSubscribeKernelError(t *testing.T) {
	k, s := newKernel(t)
	k.AddExpected(fake.ExpectedSyscall{Class: tock.Subscribe, Driver: buttons, Num: 0, Fail: tock.NoMem})
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		return s.Subscribe(g, new(platform.Flag), platform.DefaultConfig{})
	})
	if err != tock.NoMem {
		t.Errorf("Scope got %v, want NOMEM", err)
	}
}

func TestAnomalyHook(t *testing.T) {
	k, s := newKernel(t)
	// Somebody else registered an upcall in the slot.
	k.Syscall4(tock.Subscribe, [4]platform.Register{
		platform.RegisterFromUint32(buttons),
		platform.RegisterFromUint32(0),
		platform.RegisterFromUintptr(0x1000),
		{},
	})
	var cfg countingConfig
	err := platform.Scope(s, func(h *platform.Handle) error {
		g, err := h.Subscribe(buttons, 0)
		if err != nil {
			return err
		}
		if err := s.Subscribe(g, new(platform.Flag), &cfg); err != nil {
			return err
		}
		if cfg.upcalls != 1 {
			t.Errorf("ReturnedNonnullUpcall called %d times after first Subscribe, want 1", cfg.upcalls)
		}
		// The kernel hands back the upcall registered above.
		return s.Subscribe(g, new(platform.Flag), &cfg)
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	if cfg.upcalls != 2 {
		t.Errorf("ReturnedNonnullUpcall called %d times, want 2", cfg.upcalls)
	}
}

func TestAnomalyHookOnReshare(t *testing.T) {
	_, s := newKernel(t)
	var cfg countingConfig
	err := platform.Scope(s, func(h *platform.Handle) error {
		rw, err := h.AllowRW(leds, 0)
		if err != nil {
			return err
		}
		ro, err := h.AllowRO(leds, 1)
		if err != nil {
			return err
		}
		if err := s.AllowRW(rw, make([]byte, 4), &cfg); err != nil {
			return err
		}
		if err := s.AllowRO(ro, make([]byte, 4), &cfg); err != nil {
			return err
		}
		if cfg.rw != 0 || cfg.ro != 0 {
			t.Errorf("hooks called on first share: rw=%d ro=%d", cfg.rw, cfg.ro)
		}
		if err := s.AllowRW(rw, make([]byte, 8), &cfg); err != nil {
			return err
		}
		return s.AllowRO32(ro, []uint32{1}, &cfg)
	})
	if err != nil {
		t.Fatalf("Scope got %v", err)
	}
	if cfg.rw != 1 || cfg.ro != 1 {
		t.Errorf("hooks after re-share: rw=%d ro=%d, want 1 and 1", cfg.rw, cfg.ro)
	}
}

func TestPanickingUpcallTerminates(t *testing.T) {
	k, s := newKernel(t)
	var hookRan bool
	s.OnExit(func() { hookRan = true })
	exit := k.Run(func() {
		platform.Scope(s, func(h *platform.Handle) error {
			g, err := h.Subscribe(buttons, 0)
			if err != nil {
				return err
			}
			if err := s.Subscribe(g, platform.UpcallFunc(func(uintptr, uintptr, uintptr) { panic("boom") }), platform.DefaultConfig{}); err != nil {
				return err
			}
			k.ScheduleUpcall(buttons, 0, [3]uintptr{})
			s.YieldWait()
			return nil
		})
	})
	if exit == nil || exit.Restart() || exit.ExitCode() != uint32(tock.Fail) {
		t.Errorf("Run got %v, want exit-terminate(%d)", exit, tock.Fail)
	}
	if !hookRan {
		t.Errorf("exit hook did not run")
	}
	if k.Subscribed(buttons, 0) {
		t.Errorf("slot still subscribed after exit unwound the scope")
	}
}

func TestExitInsideUpcall(t *testing.T) {
	k, s := newKernel(t)
	exit := k.Run(func() {
		platform.Scope(s, func(h *platform.Handle) error {
			g, err := h.Subscribe(buttons, 0)
			if err != nil {
				return err
			}
			s.Subscribe(g, platform.UpcallFunc(func(uintptr, uintptr, uintptr) { s.ExitTerminate(5) }), platform.DefaultConfig{})
			k.ScheduleUpcall(buttons, 0, [3]uintptr{})
			s.YieldWait()
			return nil
		})
	})
	if exit == nil || exit.ExitCode() != 5 {
		t.Errorf("Run got %v, want exit-terminate(5)", exit)
	}
}

func TestTerminate(t *testing.T) {
	k, s := newKernel(t)
	exit := k.Run(func() { platform.Terminate(s, tock.Size) })
	if exit == nil || exit.ExitCode() != uint32(tock.Size) {
		t.Errorf("Run got %v, want exit-terminate(%d)", exit, tock.Size)
	}
	exit = k.Run(func() { platform.Exit(0).Complete(s) })
	if exit == nil || exit.ExitCode() != 0 {
		t.Errorf("Run got %v, want exit-terminate(0)", exit)
	}
}

func TestSbrkRederivesDDC(t *testing.T) {
	old := cheri.DDC()
	t.Cleanup(func() { cheri.SetDDC(old) })

	k := fake.New(fake.WithMemory(4<<10, 0))
	defer k.Close()
	s := platform.New(k, platform.WithCapabilityDDC(true))
	prev, err := s.Sbrk(256)
	if err != nil {
		t.Fatalf("Sbrk got %v", err)
	}
	ddc := cheri.DDC()
	if !ddc.Tag() || !ddc.InBounds(prev, 256) {
		t.Errorf("DDC %v does not cover [%#x, %#x)", ddc, prev, prev+256)
	}
}

func TestLogConfigWarnsOncePerPeriod(t *testing.T) {
	var buf bytes.Buffer
	cfg := platform.NewLogConfig(&log.BasicLogger{Level: log.Warning, Emitter: &log.Writer{Next: &buf}}, time.Hour)
	cfg.ReturnedNonzeroRWBuffer(leds, 1)
	cfg.ReturnedNonzeroROBuffer(leds, 2)
	got := buf.String()
	if !strings.Contains(got, "AllowRW to driver 0x2 slot 1") {
		t.Errorf("missing AllowRW warning: %q", got)
	}
	if strings.Contains(got, "AllowRO") {
		t.Errorf("rate limit let a second warning through: %q", got)
	}
}
