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
	"fmt"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest"
)

// LowLevelDebugDriverNum is the driver number of the low-level debug capsule.
const LowLevelDebugDriverNum = 0x8

var alertNames = map[uintptr]string{
	1: "panic",
	2: "wrong location",
	3: "heap out of memory",
}

// LowLevelDebug simulates the low-level debug capsule and records what it
// would print.
type LowLevelDebug struct {
	k        *Kernel
	messages []string
}

// NewLowLevelDebug returns an empty LowLevelDebug.
func NewLowLevelDebug() *LowLevelDebug {
	return &LowLevelDebug{}
}

// ID implements Driver.ID.
func (*LowLevelDebug) ID() uint32 { return LowLevelDebugDriverNum }

// NumUpcalls implements Driver.NumUpcalls.
func (*LowLevelDebug) NumUpcalls() uint32 { return 0 }

// Attach implements Attacher.Attach.
func (d *LowLevelDebug) Attach(k *Kernel) { d.k = k }

// Command implements Driver.Command.
func (d *LowLevelDebug) Command(command uint32, arg0, arg1 uintptr) platform.CommandReturn {
	var msg string
	switch command {
	case 0:
		return unittest.Success()
	case 1:
		if name, ok := alertNames[arg0]; ok {
			msg = fmt.Sprintf("alert code %#x (%s)", arg0, name)
		} else {
			msg = fmt.Sprintf("alert code %#x (unknown)", arg0)
		}
	case 2:
		msg = fmt.Sprintf("prints %#x", arg0)
	case 3:
		msg = fmt.Sprintf("prints %#x %#x", arg0, arg1)
	default:
		return unittest.Failure(tock.NoSupport)
	}
	d.messages = append(d.messages, msg)
	if d.k != nil {
		d.k.log.Infof("LowLevelDebug: %s", msg)
	}
	return unittest.Success()
}

// Messages returns the recorded messages and clears them.
func (d *LowLevelDebug) Messages() []string {
	m := d.messages
	d.messages = nil
	return m
}
