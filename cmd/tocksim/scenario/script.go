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
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tock/libtock-go/pkg/abi/tock"
	"github.com/tock/libtock-go/pkg/platform"
)

// Script is a list of commands with expected results, read from YAML:
//
//	name: leds
//	steps:
//	  - driver: 2
//	    command: 1
//	    arg0: 11
//	    expect: {variant: Failure, error: INVAL}
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is a single Command and its expected result.
type Step struct {
	Driver  uint32 `yaml:"driver"`
	Command uint32 `yaml:"command"`
	Arg0    uint64 `yaml:"arg0"`
	Arg1    uint64 `yaml:"arg1"`
	Expect  Expect `yaml:"expect"`
}

// Expect is the expected result of a Step. Empty fields are not checked.
type Expect struct {
	// Variant is the name of the return variant, e.g. "SuccessU32".
	Variant string `yaml:"variant"`

	// Error is the name of the error code of a failure, e.g. "INVAL".
	Error string `yaml:"error"`

	// Values are the 32-bit payload registers following the error code of
	// a failure, or the payload of a success.
	Values []uint32 `yaml:"values"`
}

// ParseScript decodes a script. Unknown fields are rejected.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, st := range s.Steps {
		if err := st.Expect.validate(); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}
	return &s, nil
}

// LoadScript reads and decodes the script at path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func (e *Expect) validate() error {
	if e.Variant != "" {
		if _, ok := tock.ParseReturnVariant(e.Variant); !ok {
			return fmt.Errorf("unknown return variant %q", e.Variant)
		}
	}
	if e.Error != "" {
		if _, ok := tock.ParseErrorCode(e.Error); !ok {
			return fmt.Errorf("unknown error code %q", e.Error)
		}
	}
	if len(e.Values) > 3 {
		return fmt.Errorf("%d values, at most 3 registers carry a payload", len(e.Values))
	}
	return nil
}

// check compares ret against e and describes every mismatch.
func (e *Expect) check(ret platform.CommandReturn) []string {
	var problems []string
	rv := ret.ReturnVariant()
	if e.Variant != "" {
		if want, _ := tock.ParseReturnVariant(e.Variant); rv != want {
			problems = append(problems, fmt.Sprintf("variant %v, want %v", rv, want))
		}
	}
	r1, r2, r3 := ret.Registers()
	payload := []uintptr{r1, r2, r3}
	if rv.IsFailure() {
		if e.Error != "" {
			want, _ := tock.ParseErrorCode(e.Error)
			if got := tock.DecodeErrorCode(uint32(r1)); got != want {
				problems = append(problems, fmt.Sprintf("error %v, want %v", got, want))
			}
		}
		payload = payload[1:]
	} else if e.Error != "" {
		problems = append(problems, fmt.Sprintf("success, want error %s", e.Error))
	}
	for i, want := range e.Values {
		if i >= len(payload) {
			problems = append(problems, fmt.Sprintf("value %d missing, want %d", i, want))
			continue
		}
		if got := uint32(payload[i]); got != want {
			problems = append(problems, fmt.Sprintf("value %d is %d, want %d", i, got, want))
		}
	}
	return problems
}

// Run runs every step and reports each result to w. It fails if any step
// did not meet its expectation.
func (s *Script) Run(p *Process, w io.Writer) error {
	failed := 0
	for i, st := range s.Steps {
		ret := p.Syscalls.Command(st.Driver, st.Command, uintptr(st.Arg0), uintptr(st.Arg1))
		problems := st.Expect.check(ret)
		status := "ok"
		if len(problems) > 0 {
			status = "FAIL"
			failed++
		}
		fmt.Fprintf(w, "step %d: command(%#x, %d, %d, %d) = %v: %s\n", i, st.Driver, st.Command, st.Arg0, st.Arg1, ret, status)
		for _, pr := range problems {
			fmt.Fprintf(w, "\t%s\n", pr)
		}
	}
	if failed > 0 {
		return fmt.Errorf("script %q: %d of %d steps failed", s.Name, failed, len(s.Steps))
	}
	return nil
}
