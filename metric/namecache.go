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

import "sync"

// NameCache memoizes names derived from a single base name, so hot code paths
// that build names from method or operation identifiers do not format the same
// key over and over.
type NameCache struct {
	base  MetricName
	names sync.Map // map[string]MetricName
}

// NewNameCache returns an empty cache deriving from base.
func NewNameCache(base MetricName) *NameCache {
	return &NameCache{base: base}
}

// Base returns the base name all entries are derived from.
func (c *NameCache) Base() MetricName {
	return c.base
}

// Get returns the name derived from the base with the given leaf. Repeated
// calls with the same leaf return the identical value.
func (c *NameCache) Get(leaf string) MetricName {
	if v, ok := c.names.Load(leaf); ok {
		return v.(MetricName)
	}
	v, _ := c.names.LoadOrStore(leaf, c.base.Derive(leaf))
	return v.(MetricName)
}
