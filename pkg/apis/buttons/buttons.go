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

// Package buttons reads the buttons of a board through the button capsule.
package buttons

import "github.com/tock/libtock-go/pkg/platform"

// DriverNum is the driver number of the button capsule.
const DriverNum = 0x3

const (
	commandCount             = 0
	commandEnableInterrupts  = 1
	commandDisableInterrupts = 2
	commandRead              = 3
)

// subscribeChange is the upcall slot for state changes. The upcall carries
// the button index and its new state.
const subscribeChange = 0

// ButtonState is the state of a button.
type ButtonState uint32

// Button states.
const (
	Released ButtonState = 0
	Pressed  ButtonState = 1
)

// String implements fmt.Stringer.
func (b ButtonState) String() string {
	if b == Pressed {
		return "pressed"
	}
	return "released"
}

// Buttons is the button capsule.
type Buttons struct {
	s   *platform.Syscalls
	cfg platform.SubscribeConfig
}

// New returns the button capsule reached through s.
func New(s *platform.Syscalls) Buttons {
	return Buttons{s: s, cfg: platform.DefaultConfig{}}
}

// WithConfig returns b reporting subscribe anomalies to cfg.
func (b Buttons) WithConfig(cfg platform.SubscribeConfig) Buttons {
	b.cfg = cfg
	return b
}

// Count returns the number of buttons on the board.
func (b Buttons) Count() (uint32, error) {
	return b.s.Command(DriverNum, commandCount, 0, 0).ToResultU32()
}

// EnableInterrupts makes button i report state changes through upcalls.
func (b Buttons) EnableInterrupts(i uint32) error {
	return b.s.Command(DriverNum, commandEnableInterrupts, uintptr(i), 0).ToResult()
}

// DisableInterrupts stops button i from reporting state changes.
func (b Buttons) DisableInterrupts(i uint32) error {
	return b.s.Command(DriverNum, commandDisableInterrupts, uintptr(i), 0).ToResult()
}

// Read returns the current state of button i.
func (b Buttons) Read(i uint32) (ButtonState, error) {
	v, err := b.s.Command(DriverNum, commandRead, uintptr(i), 0).ToResultU32()
	return ButtonState(v), err
}

// Wait blocks until button i changes state and returns the new state. The
// upcall registration is owned by h and released before Wait returns.
func (b Buttons) Wait(h *platform.Handle, i uint32) (ButtonState, error) {
	g, err := h.Subscribe(DriverNum, subscribeChange)
	if err != nil {
		return Released, err
	}
	defer g.Release()

	var change platform.Cell2U32
	if err := b.s.Subscribe(g, &change, b.cfg); err != nil {
		return Released, err
	}
	if err := b.EnableInterrupts(i); err != nil {
		return Released, err
	}
	defer b.DisableInterrupts(i)

	for {
		b.s.YieldWait()
		if idx, state, ok := change.Take(); ok && idx == i {
			return ButtonState(state), nil
		}
	}
}
