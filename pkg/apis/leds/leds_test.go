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

package leds

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest/fake"
)

func TestNoDriver(t *testing.T) {
	k := fake.New()
	if n, ok := New(platform.New(k)).Count(); ok {
		t.Errorf("Count without driver got (%d, true), want not ok", n)
	}
}

func TestLeds(t *testing.T) {
	k := fake.New()
	driver := fake.NewLeds(10)
	k.AddDriver(driver)
	l := New(platform.New(k))

	if n, ok := l.Count(); !ok || n != 10 {
		t.Fatalf("Count got (%d, %t), want (10, true)", n, ok)
	}
	for i := 0; i < 10; i++ {
		if driver.Get(i) {
			t.Errorf("LED %d on before any command", i)
		}
	}

	if err := l.On(0); err != nil {
		t.Errorf("On(0) got %v", err)
	}
	if err := l.Toggle(1); err != nil {
		t.Errorf("Toggle(1) got %v", err)
	}
	if err := l.Toggle(0); err != nil {
		t.Errorf("Toggle(0) got %v", err)
	}
	if err := l.On(2); err != nil {
		t.Errorf("On(2) got %v", err)
	}
	if err := l.Off(2); err != nil {
		t.Errorf("Off(2) got %v", err)
	}
	want := make([]bool, 10)
	want[1] = true
	if diff := cmp.Diff(want, driver.State()); diff != "" {
		t.Errorf("LED state mismatch (-want +got):\n%s", diff)
	}

	before := driver.State()
	if err := l.On(11); err != tock.Invalid {
		t.Errorf("On(11) got %v, want %v", err, tock.Invalid)
	}
	if diff := cmp.Diff(before, driver.State()); diff != "" {
		t.Errorf("On(11) changed the LEDs (-want +got):\n%s", diff)
	}
}

func TestLedsSingleSlot(t *testing.T) {
	k := fake.New()
	driver := fake.NewLeds(10)
	k.AddDriver(driver)
	l := New(platform.New(k))
	off := make([]bool, 10)

	if err := l.On(11); err != tock.Invalid {
		t.Errorf("On(11) got %v, want %v", err, tock.Invalid)
	}
	if diff := cmp.Diff(off, driver.State()); diff != "" {
		t.Errorf("On(11) changed the LEDs (-want +got):\n%s", diff)
	}

	if err := l.On(0); err != nil {
		t.Fatalf("On(0) got %v", err)
	}
	want := make([]bool, 10)
	want[0] = true
	if diff := cmp.Diff(want, driver.State()); diff != "" {
		t.Errorf("after On(0) (-want +got):\n%s", diff)
	}
	if err := l.Off(0); err != nil {
		t.Fatalf("Off(0) got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := l.Toggle(0); err != nil {
			t.Fatalf("Toggle(0) got %v", err)
		}
	}
	if driver.Get(0) {
		t.Errorf("LED 0 on after toggling twice from off")
	}
	if diff := cmp.Diff(off, driver.State()); diff != "" {
		t.Errorf("after two toggles (-want +got):\n%s", diff)
	}
}
