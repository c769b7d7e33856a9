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

// Package config holds the board description used by tocksim.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/tock/libtock-go/pkg/log"
)

// Board describes the simulated board a scenario runs on.
type Board struct {
	// Name is used in log messages only.
	Name string `toml:"name"`

	// Leds is the number of LEDs. Zero leaves the LED capsule out.
	Leds int `toml:"leds"`

	// Buttons is the number of buttons. Zero leaves the button capsule out.
	Buttons int `toml:"buttons"`

	// Presses lists the buttons pressed, one per yield, while a scenario
	// waits for a button.
	Presses []int `toml:"presses"`

	// LowLevelDebug installs the low-level debug capsule.
	LowLevelDebug bool `toml:"low_level_debug"`

	// CheckCapabilities makes the kernel reject untagged buffers.
	CheckCapabilities bool `toml:"check_capabilities"`

	Memory Memory `toml:"memory"`
}

// Memory describes the process's memory.
type Memory struct {
	Size         uint64 `toml:"size"`
	InitialBreak uint64 `toml:"initial_break"`
	FlashStart   uint64 `toml:"flash_start"`
	FlashEnd     uint64 `toml:"flash_end"`
}

// Default returns the board used when no file is given: ten LEDs, two
// buttons and low-level debug.
func Default() *Board {
	return &Board{
		Name:          "default",
		Leds:          10,
		Buttons:       2,
		Presses:       []int{1},
		LowLevelDebug: true,
		Memory: Memory{
			Size:         64 << 10,
			InitialBreak: 16 << 10,
			FlashStart:   0x2000_0000,
			FlashEnd:     0x2004_0000,
		},
	}
}

// Load reads a board file. Fields missing from the file keep their default
// values.
func Load(path string) (*Board, error) {
	b := Default()
	if _, err := toml.DecodeFile(path, b); err != nil {
		return nil, fmt.Errorf("decoding board file %q: %w", path, err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("board file %q: %w", path, err)
	}
	return b, nil
}

// Validate checks that b describes a board that can be simulated.
func (b *Board) Validate() error {
	if b.Leds < 0 || b.Buttons < 0 {
		return fmt.Errorf("negative device count (leds=%d, buttons=%d)", b.Leds, b.Buttons)
	}
	for _, p := range b.Presses {
		if p < 0 || p >= b.Buttons {
			return fmt.Errorf("press of button %d, board has %d buttons", p, b.Buttons)
		}
	}
	if b.Memory.Size == 0 {
		return fmt.Errorf("memory size must not be zero")
	}
	if b.Memory.InitialBreak > b.Memory.Size {
		return fmt.Errorf("initial break %#x beyond memory size %#x", b.Memory.InitialBreak, b.Memory.Size)
	}
	if b.Memory.FlashEnd < b.Memory.FlashStart {
		return fmt.Errorf("flash end %#x below flash start %#x", b.Memory.FlashEnd, b.Memory.FlashStart)
	}
	return nil
}

// Log logs the board at Info level.
func (b *Board) Log() {
	log.Infof("Board: %s", b.Name)
	log.Infof("\t\tleds: %d, buttons: %d, low-level debug: %t", b.Leds, b.Buttons, b.LowLevelDebug)
	log.Infof("\t\tmemory: %#x bytes, initial break %#x, flash [%#x, %#x)", b.Memory.Size, b.Memory.InitialBreak, b.Memory.FlashStart, b.Memory.FlashEnd)
	log.Infof("\t\tcheck capabilities: %t", b.CheckCapabilities)
}
