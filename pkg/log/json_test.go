// Copyright 2018 The gVisor Authors.
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

package log

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLevelJSON(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
	}{
		{`"warning"`, Warning},
		{`"info"`, Info},
		{`"debug"`, Debug},
		{`0`, Warning},
		{`1`, Info},
		{`2`, Debug},
	} {
		var lv Level
		if err := json.Unmarshal([]byte(tc.in), &lv); err != nil {
			t.Errorf("Unmarshal(%s) got %v", tc.in, err)
			continue
		}
		if lv != tc.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tc.in, lv, tc.want)
		}
	}
	if err := json.Unmarshal([]byte(`"trace"`), new(Level)); err == nil {
		t.Errorf("Unmarshal(\"trace\") succeeded")
	}
	if _, err := json.Marshal(Level(7)); err == nil {
		t.Errorf("Marshal(Level(7)) succeeded")
	}
}

func TestJSONLogRecord(t *testing.T) {
	in := jsonLog{Msg: "subscribe", Level: Debug, Caller: "share.go:10"}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal got %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal got %v", err)
	}
	delete(out, "time")
	want := map[string]any{"msg": "subscribe", "level": "debug", "caller": "share.go:10"}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}
