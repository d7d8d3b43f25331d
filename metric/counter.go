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
	"sync/atomic"
	"time"
)

// Counter is a Metric that counts occurrences, e.g. cache misses or rejected
// requests. The count is reset on every collection, so a reported Counter
// holds the number of occurrences in the last reporting interval.
//
// To create Counter instances, use Registry.Counter.
type Counter interface {
	Metric

	// Inc increments the counter by 1.
	Inc()
	// Add adds the given non-negative value. Negative values are ignored.
	Add(int64)
	// Count returns the current count without resetting it.
	Count() int64
	// Statistics returns the count as Statistics, resetting it if reset
	// is true.
	Statistics(reset bool) Statistics
}

// NewCounter returns a standalone Counter. Counters obtained from a Registry
// are preferable as they are collected and reported.
func NewCounter(name MetricName) Counter {
	return newCounter(name, time.Now)
}

func newCounter(name MetricName, now func() time.Time) *counter {
	c := &counter{name: name, now: now}
	c.start.Store(now().UnixNano())
	return c
}

type counter struct {
	val   atomic.Int64
	start atomic.Int64 // unix nanos of the last reset

	name MetricName
	now  func() time.Time
}

func (c *counter) Name() MetricName { return c.name }

func (c *counter) Kind() Kind { return KindCounter }

func (c *counter) Inc() { c.val.Add(1) }

func (c *counter) Add(v int64) {
	if v <= 0 {
		return
	}
	c.val.Add(v)
}

func (c *counter) Count() int64 { return c.val.Load() }

func (c *counter) HasActivity() bool { return c.val.Load() > 0 }

// Rollover is a no-op, counters have no derived state.
func (c *counter) Rollover() error { return nil }

func (c *counter) Statistics(reset bool) Statistics {
	start := time.Unix(0, c.start.Load())
	var n int64
	if reset {
		n = c.val.Swap(0)
		c.start.Store(c.now().UnixNano())
	} else {
		n = c.val.Load()
	}
	return Statistics{Count: n, Total: n, Start: start}
}

func (c *counter) Snapshot() []Snapshot {
	return []Snapshot{{Name: c.name, Kind: KindCounter, Stats: c.Statistics(false)}}
}

func (c *counter) Collect() ([]Snapshot, bool) {
	if !c.HasActivity() {
		return nil, false
	}
	s := c.Statistics(true)
	if s.Count == 0 {
		return nil, false
	}
	return []Snapshot{{Name: c.name, Kind: KindCounter, Stats: s}}, true
}
