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
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/mohae/deepcopy"
	"golang.org/x/sync/errgroup"

	"github.com/tock/libtock-go/cmd/tocksim/config"
	"github.com/tock/libtock-go/cmd/tocksim/scenario"
	"github.com/tock/libtock-go/pkg/log"
)

// All implements subcommands.Command for the "all" command.
type All struct {
	scripts stringSlice
}

// stringSlice collects a repeated string flag.
type stringSlice []string

// String implements flag.Value.
func (s *stringSlice) String() string {
	return fmt.Sprintf("%v", *s)
}

// Set implements flag.Value.
func (s *stringSlice) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Name implements subcommands.Command.Name.
func (*All) Name() string {
	return "all"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*All) Synopsis() string {
	return "run every scenario concurrently, each on its own kernel"
}

// Usage implements subcommands.Command.Usage.
func (*All) Usage() string {
	return `all [-script file.yaml]... - run every scenario concurrently, each on its own kernel.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (a *All) SetFlags(f *flag.FlagSet) {
	f.Var(&a.scripts, "script", "also run this YAML script; may be repeated")
}

// Execute implements subcommands.Command.Execute.
func (a *All) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	board := boardFrom(args)
	jobs := make(map[string]scenario.Func)
	var names []string
	for _, n := range scenario.Names() {
		f, _ := scenario.Lookup(n)
		jobs[n] = f
		names = append(names, n)
	}
	for _, path := range a.scripts {
		sc, err := scenario.LoadScript(path)
		if err != nil {
			Fatalf("loading script %q: %v", path, err)
		}
		name := "script " + path
		jobs[name] = sc.Run
		names = append(names, name)
	}
	return exitStatus(runAll(ctx, board, names, jobs, os.Stdout))
}

// runAll runs the named jobs concurrently. Each job gets its own copy of the
// board, since scenarios consume parts of it. Reports are written to out in
// the order of names once every job has finished.
func runAll(ctx context.Context, board *config.Board, names []string, jobs map[string]scenario.Func, out io.Writer) error {
	reports := make([]bytes.Buffer, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		b := deepcopy.Copy(board).(*config.Board)
		f := jobs[name]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l := log.Prefixed(log.Log(), name)
			if err := scenario.Run(b, l, f, &reports[i]); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	err := g.Wait()
	for i, name := range names {
		fmt.Fprintf(out, "=== %s\n%s", name, reports[i].String())
	}
	return err
}
