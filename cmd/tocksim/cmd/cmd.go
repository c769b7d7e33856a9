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

// Package cmd holds implementations of the tocksim commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tock/libtock-go/cmd/tocksim/config"
	"github.com/tock/libtock-go/pkg/log"
)

// Fatalf logs the message, prints it to stderr and exits with 128, which no
// scenario uses.
func Fatalf(format string, args ...any) {
	log.Warningf("FATAL ERROR: "+format, args...)
	fmt.Fprintf(os.Stderr, "tocksim: "+format+"\n", args...)
	os.Exit(128)
}

// boardFrom extracts the board passed to subcommands.Execute.
func boardFrom(args []any) *config.Board {
	if len(args) == 0 {
		Fatalf("no board passed to command")
	}
	b, ok := args[0].(*config.Board)
	if !ok {
		Fatalf("command argument is %T, not a board", args[0])
	}
	return b
}

// exitStatus converts a scenario error into a subcommand status.
func exitStatus(err error) subcommands.ExitStatus {
	if err != nil {
		fmt.Fprintf(os.Stderr, "tocksim: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
