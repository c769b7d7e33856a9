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

// Package cleanup provides utilities to run revocation and teardown steps on
// defers, in reverse order of registration.
package cleanup

// Cleanup allows defers to be aborted when cleanup needs to happen
// conditionally. Usage:
//
//	cu := cleanup.Make(func() { s.Unsubscribe(driver, 0) })
//	defer cu.Clean() // Revokes the upcall on any early return.
//	...
//	cu.Add(func() { s.UnallowRW(driver, 0) }) // Runs before the first one.
//	...
//	cu.Release() // Hands the cleanups to the caller instead.
type Cleanup struct {
	cleaners []func()
}

// Make creates a new Cleanup object.
func Make(f func()) Cleanup {
	return Cleanup{cleaners: []func(){f}}
}

// Add adds a new function to be called on Clean().
func (c *Cleanup) Add(f func()) {
	c.cleaners = append(c.cleaners, f)
}

// Len returns the number of pending cleanup functions.
func (c *Cleanup) Len() int {
	return len(c.cleaners)
}

// Clean calls all cleanup functions in reverse order. Functions are removed
// before they run, so a cleanup that panics is not run a second time by a
// later Clean.
func (c *Cleanup) Clean() {
	for len(c.cleaners) > 0 {
		last := len(c.cleaners) - 1
		f := c.cleaners[last]
		c.cleaners = c.cleaners[:last]
		f()
	}
	c.cleaners = nil
}

// Release releases the cleanup from its duties, i.e. cleanup functions are not
// called after this point. Returns a function that calls all registered
// functions in case the caller has use for them.
func (c *Cleanup) Release() func() {
	old := c.cleaners
	c.cleaners = nil
	return func() {
		cu := Cleanup{cleaners: old}
		cu.Clean()
	}
}
