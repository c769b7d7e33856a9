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

// Package cli is the main entrypoint for tocksim.
package cli

import (
	"context"
	"flag"
	"io"
	"os"
	"runtime"

	"github.com/google/subcommands"

	"github.com/tock/libtock-go/cmd/tocksim/cmd"
	"github.com/tock/libtock-go/cmd/tocksim/config"
	"github.com/tock/libtock-go/pkg/log"
)

var (
	boardFile = flag.String("board", "", "TOML file describing the simulated board. Defaults are used when empty.")
	debug     = flag.Bool("debug", false, "log every trap taken by the simulated kernel.")
	logFormat = flag.String("log-format", "text", "log format: text (default) or json.")
	logFile   = flag.String("log", "", "file to append logs to. Logs go to stderr when empty.")
)

// Main is the main entrypoint.
func Main() {
	forEachCmd(subcommands.Register)
	flag.Parse()

	var w io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
		if err != nil {
			cmd.Fatalf("error opening log file %q: %v", *logFile, err)
		}
		w = f
	}
	log.SetTarget(newEmitter(*logFormat, w))
	if *debug {
		log.SetLevel(log.Debug)
	}

	board := config.Default()
	if *boardFile != "" {
		var err error
		if board, err = config.Load(*boardFile); err != nil {
			cmd.Fatalf("%v", err)
		}
	}

	log.Debugf("%s %s/%s, args: %v", runtime.Version(), runtime.GOOS, runtime.GOARCH, os.Args)
	board.Log()

	code := subcommands.Execute(context.Background(), board)
	if code != subcommands.ExitSuccess {
		log.Debugf("Command failed with status: %v", code)
	}
	os.Exit(int(code))
}

// forEachCmd invokes the passed callback for each command supported by
// tocksim.
func forEachCmd(cb func(cmd subcommands.Command, group string)) {
	cb(subcommands.HelpCommand(), "")
	cb(subcommands.FlagsCommand(), "")
	cb(subcommands.CommandsCommand(), "")

	const scenarioGroup = "scenarios"
	cb(cmd.NewScenario("leds", "count the LEDs, switch them all on and toggle the odd ones"), scenarioGroup)
	cb(cmd.NewScenario("buttons", "wait for the board's scripted button presses"), scenarioGroup)
	cb(cmd.NewScenario("heap", "grow the heap with sbrk until memory runs out"), scenarioGroup)
	cb(new(cmd.Script), scenarioGroup)
	cb(new(cmd.All), scenarioGroup)

	const debugGroup = "debug"
	cb(new(cmd.ABI), debugGroup)
}

func newEmitter(format string, logFile io.Writer) log.Emitter {
	switch format {
	case "text":
		return log.GoogleEmitter{Emitter: &log.Writer{Next: logFile}}
	case "json":
		return log.JSONEmitter{Writer: &log.Writer{Next: logFile}}
	}
	cmd.Fatalf("invalid log format %q, must be 'text' or 'json'", format)
	panic("unreachable")
}
