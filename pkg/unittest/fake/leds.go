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

// LedsDriverNum is the driver number of the LED capsule.
const LedsDriverNum = 0x2

// Leds simulates the LED capsule.
type Leds struct {
	leds []bool
}

// NewLeds returns a Leds driver with n LEDs, all off.
func NewLeds(n int) *Leds {
	return &Leds{leds: make([]bool, n)}
}

// ID implements Driver.ID.
func (*Leds) ID() uint32 { return LedsDriverNum }

// NumUpcalls implements Driver.NumUpcalls.
func (*Leds) NumUpcalls() uint32 { return 0 }

// Command implements Driver.Command.
func (l *Leds) Command(command uint32, arg0, _ uintptr) platform.CommandReturn {
	if command == 0 {
		return unittest.SuccessU32(uint32(len(l.leds)))
	}
	if command > 3 {
		return unittest.Failure(tock.NoSupport)
	}
	if arg0 >= uintptr(len(l.leds)) {
		return unittest.Failure(tock.Invalid)
	}
	switch command {
	case 1:
		l.leds[arg0] = true
	case 2:
		l.leds[arg0] = false
	case 3:
		l.leds[arg0] = !l.leds[arg0]
	}
	return unittest.Success()
}

// Get returns the state of LED i.
func (l *Leds) Get(i int) bool {
	return l.leds[i]
}

// State returns a copy of every LED's state.
func (l *Leds) State() []bool {
	return append([]bool(nil), l.leds...)
}
