// Copyright 2020 The gVisor Authors.
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

package cleanup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanRunsAll(t *testing.T) {
	var released []int
	cu := Make(func() { released = append(released, 1) })
	cu.Add(func() { released = append(released, 2) })
	cu.Clean()
	if diff := cmp.Diff([]int{2, 1}, released); diff != "" {
		t.Errorf("released mismatch (-want +got):\n%s", diff)
	}
}

func TestReleaseHandsOver(t *testing.T) {
	var released []int
	cu := Make(func() { released = append(released, 1) })
	cu.Add(func() { released = append(released, 2) })
	later := cu.Release()
	cu.Clean()
	if len(released) != 0 {
		t.Fatalf("Clean after Release ran %v", released)
	}
	later()
	if diff := cmp.Diff([]int{2, 1}, released); diff != "" {
		t.Errorf("released mismatch (-want +got):\n%s", diff)
	}
}

func TestCleanupOrder(t *testing.T) {
	var got []string
	cu := Make(func() { got = append(got, "unsubscribe") })
	cu.Add(func() { got = append(got, "unallow-rw") })
	cu.Add(func() { got = append(got, "unallow-ro") })
	if cu.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", cu.Len())
	}
	cu.Clean()
	want := []string{"unallow-ro", "unallow-rw", "unsubscribe"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cleanup order mismatch (-want +got):\n%s", diff)
	}
	cu.Clean()
	if len(got) != 3 {
		t.Errorf("second Clean ran %d extra functions", len(got)-3)
	}
}

func TestCleanupPanicNotRepeated(t *testing.T) {
	calls := 0
	cu := Make(func() { calls++ })
	cu.Add(func() { panic("revocation failed") })
	func() {
		defer func() { recover() }()
		cu.Clean()
	}()
	cu.Clean()
	if calls != 1 {
		t.Errorf("remaining cleanup ran %d times, want 1", calls)
	}
}
