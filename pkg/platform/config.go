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

package platform

import (
	"time"

	"github.com/tock/libtock-go/pkg/log"
)

// SubscribeConfig receives protocol anomalies noticed by Subscribe.
type SubscribeConfig interface {
	// ReturnedNonnullUpcall is called whenever the kernel returns a
	// non-null upcall from a successful Subscribe.
	ReturnedNonnullUpcall(driver, subscribe uint32)
}

// AllowRWConfig receives protocol anomalies noticed by AllowRW.
type AllowRWConfig interface {
	// ReturnedNonzeroRWBuffer is called when the kernel returns a non-empty
	// buffer from a successful AllowRW.
	ReturnedNonzeroRWBuffer(driver, buffer uint32)
}

// AllowROConfig receives protocol anomalies noticed by AllowRO.
type AllowROConfig interface {
	// ReturnedNonzeroROBuffer is AllowRWConfig.ReturnedNonzeroRWBuffer for
	// read-only shares.
	ReturnedNonzeroROBuffer(driver, buffer uint32)
}

// AllConfig is implemented by configurations usable for every call.
type AllConfig interface {
	SubscribeConfig
	AllowRWConfig
	AllowROConfig
}

// DefaultConfig ignores every anomaly.
type DefaultConfig struct{}

// ReturnedNonnullUpcall implements SubscribeConfig.ReturnedNonnullUpcall.
func (DefaultConfig) ReturnedNonnullUpcall(uint32, uint32) {}

// ReturnedNonzeroRWBuffer implements AllowRWConfig.ReturnedNonzeroRWBuffer.
func (DefaultConfig) ReturnedNonzeroRWBuffer(uint32, uint32) {}

// ReturnedNonzeroROBuffer implements AllowROConfig.ReturnedNonzeroROBuffer.
func (DefaultConfig) ReturnedNonzeroROBuffer(uint32, uint32) {}

// LogConfig logs every anomaly as a warning.
type LogConfig struct {
	Logger log.Logger
}

// NewLogConfig returns a LogConfig that logs to l at most once per every.
func NewLogConfig(l log.Logger, every time.Duration) LogConfig {
	return LogConfig{Logger: log.RateLimitedLogger(l, every)}
}

// ReturnedNonnullUpcall implements SubscribeConfig.ReturnedNonnullUpcall.
func (c LogConfig) ReturnedNonnullUpcall(driver, subscribe uint32) {
	c.Logger.Warningf("Subscribe to driver %#x slot %d returned a non-null upcall", driver, subscribe)
}

// ReturnedNonzeroRWBuffer implements AllowRWConfig.ReturnedNonzeroRWBuffer.
func (c LogConfig) ReturnedNonzeroRWBuffer(driver, buffer uint32) {
	c.Logger.Warningf("AllowRW to driver %#x slot %d returned a non-empty buffer", driver, buffer)
}

// ReturnedNonzeroROBuffer implements AllowROConfig.ReturnedNonzeroROBuffer.
func (c LogConfig) ReturnedNonzeroROBuffer(driver, buffer uint32) {
	c.Logger.Warningf("AllowRO to driver %#x slot %d returned a non-empty buffer", driver, buffer)
}
