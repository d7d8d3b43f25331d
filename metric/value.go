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

import "time"

// Value is a Metric that aggregates arbitrary non-negative event values, e.g.
// payload sizes or batch lengths, into count, total, min and max.
//
// To create Value instances, use Registry.Value.
type Value interface {
	Metric

	// AddEvent records a single event value.
	AddEvent(int64)
	// Statistics returns the aggregated events, resetting them if reset is
	// true.
	Statistics(reset bool) Statistics
}

// NewValue returns a standalone Value metric.
func NewValue(name MetricName) Value {
	return newValueMetric(name, time.Now)
}

func newValueMetric(name MetricName, now func() time.Time) *valueMetric {
	return &valueMetric{name: name, acc: newAccumulator(now)}
}

type valueMetric struct {
	name MetricName
	acc  *accumulator
}

func (v *valueMetric) Name() MetricName { return v.name }

func (v *valueMetric) Kind() Kind { return KindValue }

func (v *valueMetric) AddEvent(val int64) { v.acc.record(val) }

func (v *valueMetric) HasActivity() bool { return v.acc.hasActivity() }

func (v *valueMetric) Rollover() error { return nil }

func (v *valueMetric) Statistics(reset bool) Statistics { return v.acc.snapshot(reset) }

func (v *valueMetric) Snapshot() []Snapshot {
	return []Snapshot{{Name: v.name, Kind: KindValue, Stats: v.acc.snapshot(false)}}
}

func (v *valueMetric) Collect() ([]Snapshot, bool) {
	if !v.acc.hasActivity() {
		return nil, false
	}
	s := v.acc.snapshot(true)
	if s.IsEmpty() {
		return nil, false
	}
	return []Snapshot{{Name: v.name, Kind: KindValue, Stats: s}}, true
}
