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

// Package leds controls the LEDs of a board through the LED capsule.
package leds

import "github.com/tock/libtock-go/pkg/platform"

// DriverNum is the driver number of the LED capsule.
const DriverNum = 0x2

// Commands.
const (
	commandCount  = 0
	commandOn     = 1
	commandOff    = 2
	commandToggle = 3
)

// Leds is the LED capsule.
type Leds struct {
	s *platform.Syscalls
}

// New returns the LED capsule reached through s.
func New(s *platform.Syscalls) Leds {
	return Leds{s: s}
}

// Count returns the number of LEDs on the board. ok is false if the capsule
// is missing.
func (l Leds) Count() (n uint32, ok bool) {
	n, err := l.s.Command(DriverNum, commandCount, 0, 0).ToResultU32()
	return n, err == nil
}

// On turns LED i on.
func (l Leds) On(i uint32) error {
	return l.s.Command(DriverNum, commandOn, uintptr(i), 0).ToResult()
}

// Off turns LED i off.
func (l Leds) Off(i uint32) error {
	return l.s.Command(DriverNum, commandOff, uintptr(i), 0).ToResult()
}

// Toggle flips LED i.
func (l Leds) Toggle(i uint32) error {
	return l.s.Command(DriverNum, commandToggle, uintptr(i), 0).ToResult()
}
