// Copyright 2026 The Prometheus Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metric

import (
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DisableCollectionEnv is the environment variable consulted by
// NewDefaultRegistry. A true value disables collection.
const DisableCollectionEnv = "METRICS_COLLECTION_DISABLE"

type registryConfig struct {
	disabled  bool
	runtime   bool
	factories map[Kind]Factory
	exporter  Exporter
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Registry constructed by NewRegistry.
type Option func(*registryConfig)

// WithCollectionDisabled replaces the counter, value and timed factories with
// no-op implementations and skips the runtime metrics.
func WithCollectionDisabled(disabled bool) Option {
	return func(c *registryConfig) { c.disabled = disabled }
}

// WithFactory overrides the factory of a counter, value or timed metric kind.
// Overrides of other kinds, nil factories and all overrides made while
// collection is disabled are ignored.
func WithFactory(kind Kind, f Factory) Option {
	return func(c *registryConfig) {
		if c.factories == nil {
			c.factories = map[Kind]Factory{}
		}
		c.factories[kind] = f
	}
}

// WithExporter sets the exporter notified about registered and removed
// metrics.
func WithExporter(e Exporter) Option {
	return func(c *registryConfig) { c.exporter = e }
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *zap.Logger) Option {
	return func(c *registryConfig) { c.logger = l }
}

// WithRuntimeMetrics controls whether the runtime and process metrics are
// registered. They are by default.
func WithRuntimeMetrics(enabled bool) Option {
	return func(c *registryConfig) { c.runtime = enabled }
}

// WithClock sets the time source of created metrics. A nil clock is ignored.
func WithClock(now func() time.Time) Option {
	return func(c *registryConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// CollectionDisabledFromEnv reports whether DisableCollectionEnv is set to a
// true value.
func CollectionDisabledFromEnv() bool {
	v, ok := os.LookupEnv(DisableCollectionEnv)
	if !ok {
		return false
	}
	disabled, err := strconv.ParseBool(v)
	return err == nil && disabled
}
