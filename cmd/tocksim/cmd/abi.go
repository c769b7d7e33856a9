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
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/tock/libtock-go/pkg/abi/tock"
)

// ABI implements subcommands.Command for the "abi" command.
type ABI struct{}

// Name implements subcommands.Command.Name.
func (*ABI) Name() string {
	return "abi"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*ABI) Synopsis() string {
	return "print the syscall, return variant and error code tables"
}

// Usage implements subcommands.Command.Usage.
func (*ABI) Usage() string {
	return `abi - print the syscall, return variant and error code tables.
`
}

// SetFlags implements subcommands.Command.SetFlags.
func (*ABI) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*ABI) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	if err := writeABI(os.Stdout); err != nil {
		Fatalf("writing tables: %v", err)
	}
	return subcommands.ExitSuccess
}

func writeABI(out io.Writer) error {
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "CLASS\tNAME")
	for c := tock.Yield; c <= tock.Exit; c++ {
		fmt.Fprintf(w, "%d\t%v\n", c, c)
	}
	fmt.Fprintln(w, "\nMEMOP\tNAME")
	for op := tock.MemopBrk; op <= tock.MemopHeapStart; op++ {
		fmt.Fprintf(w, "%d\t%v\n", op, op)
	}
	fmt.Fprintln(w, "\nVARIANT\tNAME")
	for _, rv := range tock.ReturnVariants {
		fmt.Fprintf(w, "%d\t%v\n", rv, rv)
	}
	fmt.Fprintln(w, "\nERROR\tNAME")
	for v := uint32(1); ; v++ {
		e, ok := tock.ErrorCodeFromRaw(v)
		if !ok {
			break
		}
		fmt.Fprintf(w, "%d\t%v\n", e, e)
	}
	fmt.Fprintf(w, "%d\t%v\n", tock.BadRVal, tock.BadRVal)
	return w.Flush()
}
