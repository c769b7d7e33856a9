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

package fake

import (
	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest"
)

// ButtonsDriverNum is the driver number of the button capsule.
const ButtonsDriverNum = 0x3

type button struct {
	pressed    bool
	interrupts bool
}

// Buttons simulates the button capsule. Upcall 0 is scheduled with
// (index, pressed) when a button with interrupts enabled changes state.
type Buttons struct {
	k       *Kernel
	buttons []button
}

// NewButtons returns a Buttons driver with n released buttons.
func NewButtons(n int) *Buttons {
	return &Buttons{buttons: make([]button, n)}
}

// ID implements Driver.ID.
func (*Buttons) ID() uint32 { return ButtonsDriverNum }

// NumUpcalls implements Driver.NumUpcalls.
func (*Buttons) NumUpcalls() uint32 { return 1 }

// Attach implements Attacher.Attach.
func (b *Buttons) Attach(k *Kernel) { b.k = k }

// Command implements Driver.Command.
func (b *Buttons) Command(command uint32, arg0, _ uintptr) platform.CommandReturn {
	if command == 0 {
		return unittest.SuccessU32(uint32(len(b.buttons)))
	}
	if command > 3 {
		return unittest.Failure(tock.NoSupport)
	}
	if arg0 >= uintptr(len(b.buttons)) {
		return unittest.Failure(tock.Invalid)
	}
	btn := &b.buttons[arg0]
	switch command {
	case 1:
		btn.interrupts = true
	case 2:
		btn.interrupts = false
	case 3:
		if btn.pressed {
			return unittest.SuccessU32(1)
		}
		return unittest.SuccessU32(0)
	}
	return unittest.Success()
}

// Set changes the state of button i, scheduling an upcall if its interrupts
// are enabled and the state changed.
func (b *Buttons) Set(i int, pressed bool) error {
	if i < 0 || i >= len(b.buttons) {
		return tock.Invalid
	}
	btn := &b.buttons[i]
	if btn.pressed == pressed {
		return nil
	}
	btn.pressed = pressed
	if !btn.interrupts || b.k == nil {
		return nil
	}
	var state uintptr
	if pressed {
		state = 1
	}
	return b.k.ScheduleUpcall(ButtonsDriverNum, 0, [3]uintptr{uintptr(i), state, 0})
}

// InterruptsEnabled reports whether interrupts are enabled for button i.
func (b *Buttons) InterruptsEnabled(i int) bool {
	return b.buttons[i].interrupts
}

// Pressed reports whether button i is pressed.
func (b *Buttons) Pressed(i int) bool {
	return b.buttons[i].pressed
}
