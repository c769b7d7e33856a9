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
	"os"

	"github.com/google/subcommands"

	"github.com/tock/libtock-go/cmd/tocksim/scenario"
	"github.com/tock/libtock-go/pkg/log"
)

// Script implements subcommands.Command for the "script" command.
type Script struct{}

// Name implements subcommands.Command.Name.
func (*Script) Name() string {
	return "script"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*Script) Synopsis() string {
	return "run the commands of a YAML script and check their results"
}

// Usage implements subcommands.Command.Usage.
func (*Script) Usage() string {
	return `script <file.yaml> - run the commands of a YAML script and check their results.

EXAMPLE:
    name: leds
    steps:
      - driver: 2
        command: 0
        expect: {variant: SuccessU32, values: [10]}
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*Script) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (s *Script) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	board := boardFrom(args)
	sc, err := scenario.LoadScript(f.Arg(0))
	if err != nil {
		Fatalf("loading script: %v", err)
	}
	return exitStatus(scenario.Run(board, log.Log(), sc.Run, os.Stdout))
}
