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

package scenario

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/apis/buttons"
	"github.com/tock/libtock-go/pkg/apis/leds"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/tockrt"
)

// errNoDevice is returned by scenarios run on a board lacking a device.
var errNoDevice = errors.New("board lacks the device")

func renderLeds(state []bool) string {
	var sb strings.Builder
	for _, on := range state {
		if on {
			sb.WriteByte('*')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Leds turns every LED on, toggles the odd ones off and checks that an LED
// past the end is rejected.
func Leds(p *Process, w io.Writer) error {
	l := leds.New(p.Syscalls)
	n, ok := l.Count()
	if !ok || p.Leds == nil {
		return fmt.Errorf("leds: %w", errNoDevice)
	}
	fmt.Fprintf(w, "leds: %d\n", n)
	for i := uint32(0); i < n; i++ {
		if err := l.On(i); err != nil {
			return fmt.Errorf("on(%d): %w", i, err)
		}
	}
	fmt.Fprintf(w, "all on:      %s\n", renderLeds(p.Leds.State()))
	for i := uint32(1); i < n; i += 2 {
		if err := l.Toggle(i); err != nil {
			return fmt.Errorf("toggle(%d): %w", i, err)
		}
	}
	fmt.Fprintf(w, "odd toggled: %s\n", renderLeds(p.Leds.State()))
	if err := l.On(n + 1); err != tock.Invalid {
		return fmt.Errorf("on(%d) past the end: got %v, want %v", n+1, err, tock.Invalid)
	}
	fmt.Fprintf(w, "on(%d): %v\n", n+1, tock.Invalid)
	return nil
}

// Buttons waits for each press listed by the board. Presses happen while the
// process sleeps in yield.
func Buttons(p *Process, w io.Writer) error {
	if p.Buttons == nil {
		return fmt.Errorf("buttons: %w", errNoDevice)
	}
	b := buttons.New(p.Syscalls).WithConfig(p.Config)
	pending := -1
	p.Kernel.OnYield(func() {
		if pending < 0 || !p.Buttons.InterruptsEnabled(pending) {
			return
		}
		p.Buttons.Set(pending, !p.Buttons.Pressed(pending))
		pending = -1
	})

	for len(p.Board.Presses) > 0 {
		i := p.Board.Presses[0]
		p.Board.Presses = p.Board.Presses[1:]
		pending = i
		err := platform.Scope(p.Syscalls, func(h *platform.Handle) error {
			state, err := b.Wait(h, uint32(i))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "button %d %v\n", i, state)
			return nil
		})
		if err != nil {
			return fmt.Errorf("waiting for button %d: %w", i, err)
		}
	}
	return nil
}

// Heap allocates from the process break until the kernel runs out of memory,
// which ends the process.
func Heap(p *Process, w io.Writer) error {
	start, err := p.Syscalls.MemoryStart()
	if err != nil {
		return fmt.Errorf("memory start: %w", err)
	}
	end, err := p.Syscalls.MemoryEnd()
	if err != nil {
		return fmt.Errorf("memory end: %w", err)
	}
	fmt.Fprintf(w, "memory: %#x bytes\n", end-start)

	h := tockrt.NewHeap(p.Syscalls)
	const chunk = 1 << 10
	for n := 1; ; n++ {
		b := h.Alloc(chunk, 8)
		b[0] = byte(n)
		fmt.Fprintf(w, "chunk %d at offset %#x\n", n, p.Kernel.Break()-chunk-start)
	}
}
