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

// Package scenario contains the programs tocksim runs against the simulated
// kernel.
package scenario

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/tock/libtock-go/cmd/tocksim/config"
	"github.com/tock/libtock-go/pkg/log"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest/fake"
)

// Process is a simulated process together with the board it runs on.
type Process struct {
	Board    *config.Board
	Kernel   *fake.Kernel
	Syscalls *platform.Syscalls

	// Config reports protocol anomalies to the process log.
	Config platform.LogConfig

	// Devices installed according to Board; nil when absent.
	Leds          *fake.Leds
	Buttons       *fake.Buttons
	LowLevelDebug *fake.LowLevelDebug
}

// NewProcess builds a kernel for b. l receives the kernel's trace and the
// process's protocol warnings.
func NewProcess(b *config.Board, l log.Logger) *Process {
	opts := []fake.Option{
		fake.WithLogger(log.Prefixed(l, "kernel")),
		fake.WithMemory(uintptr(b.Memory.Size), uintptr(b.Memory.InitialBreak)),
		fake.WithFlash(uintptr(b.Memory.FlashStart), uintptr(b.Memory.FlashEnd)),
	}
	if b.CheckCapabilities {
		opts = append(opts, fake.CheckCapabilities())
	}
	p := &Process{Board: b, Kernel: fake.New(opts...)}
	if b.Leds > 0 {
		p.Leds = fake.NewLeds(b.Leds)
		p.Kernel.AddDriver(p.Leds)
	}
	if b.Buttons > 0 {
		p.Buttons = fake.NewButtons(b.Buttons)
		p.Kernel.AddDriver(p.Buttons)
	}
	if b.LowLevelDebug {
		p.LowLevelDebug = fake.NewLowLevelDebug()
		p.Kernel.AddDriver(p.LowLevelDebug)
	}
	pl := log.Prefixed(l, "process")
	p.Syscalls = platform.New(p.Kernel, platform.WithLogger(pl))
	p.Config = platform.NewLogConfig(pl, time.Second)
	return p
}

// Close releases the process's memory.
func (p *Process) Close() error {
	return p.Kernel.Close()
}

// Func is a scenario. It writes its report to w.
type Func func(p *Process, w io.Writer) error

// registry holds the built-in scenarios by name.
var registry = map[string]Func{
	"leds":    Leds,
	"buttons": Buttons,
	"heap":    Heap,
}

// Names returns the names of the built-in scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the built-in scenario called name.
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return f, nil
}

// Run builds a process for b, runs f in it and closes it. An exit from the
// process is not an error; it is reported in w.
func Run(b *config.Board, l log.Logger, f Func, w io.Writer) error {
	p := NewProcess(b, l)
	defer p.Close()
	var err error
	exit := p.Kernel.Run(func() { err = f(p, w) })
	if p.LowLevelDebug != nil {
		for _, m := range p.LowLevelDebug.Messages() {
			fmt.Fprintf(w, "low-level debug: %s\n", m)
		}
	}
	if exit != nil {
		fmt.Fprintf(w, "process exited: %v\n", exit)
	}
	return err
}
