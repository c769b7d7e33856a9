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

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tock/libtock-go/cmd/tocksim/scenario"
	"github.com/tock/libtock-go/pkg/log"
)

// Scenario implements subcommands.Command for a built-in scenario. The
// scenario is selected by the command name.
type Scenario struct {
	name     string
	synopsis string
}

// NewScenario returns the command running the built-in scenario name.
func NewScenario(name, synopsis string) *Scenario {
	return &Scenario{name: name, synopsis: synopsis}
}

// Name implements subcommands.Command.Name.
func (s *Scenario) Name() string {
	return s.name
}

// Synopsis implements subcommands.Command.Synopsis.
func (s *Scenario) Synopsis() string {
	return s.synopsis
}

// Usage implements subcommands.Command.Usage.
func (s *Scenario) Usage() string {
	return fmt.Sprintf("%s - %s.\n", s.name, s.synopsis)
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Scenario) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (s *Scenario) Execute(_ context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	board := boardFrom(args)
	f, err := scenario.Lookup(s.name)
	if err != nil {
		Fatalf("%v", err)
	}
	return exitStatus(scenario.Run(board, log.Log(), f, os.Stdout))
}
