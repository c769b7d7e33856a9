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

package lowleveldebug

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tock/libtock-go/pkg/platform"
	"github.com/tock/libtock-go/pkg/unittest/fake"
)

func TestPrint(t *testing.T) {
	k := fake.New()
	driver := fake.NewLowLevelDebug()
	k.AddDriver(driver)
	d := New(platform.New(k))

	d.PrintAlertCode(AlertPanic)
	d.PrintAlertCode(AlertWrongLocation)
	d.Print1(0x41)
	d.Print2(0x41, 0x42)
	want := []string{
		"alert code 0x1 (panic)",
		"alert code 0x2 (wrong location)",
		"prints 0x41",
		"prints 0x41 0x42",
	}
	if diff := cmp.Diff(want, driver.Messages()); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestMissingDriverIgnored(t *testing.T) {
	k := fake.New()
	New(platform.New(k)).Print1(1)
	if got := len(k.TakeSyscalls()); got != 1 {
		t.Errorf("got %d syscalls, want 1", got)
	}
}
