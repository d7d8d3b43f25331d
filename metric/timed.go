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

// Timed is a Metric that measures the duration of an operation. Successful and
// failed executions are accumulated separately.
//
// A typical use:
//
//	func (s *Service) Do() (err error) {
//		defer s.timed.OperationEnd(time.Now(), func() bool { return err == nil })
//		...
//	}
//
// To create Timed instances, use Registry.Timed.
type Timed interface {
	Metric

	// AddEventDuration records an execution that took d.
	AddEventDuration(success bool, d time.Duration)
	// AddEventSince records an execution that started at start.
	AddEventSince(success bool, start time.Time)
	// OperationEnd records an execution that started at start. ok is
	// evaluated at the time of the call and selects the partition.
	OperationEnd(start time.Time, ok func() bool)
	// SuccessStatistics returns the statistics of successful executions.
	SuccessStatistics(reset bool) Statistics
	// ErrorStatistics returns the statistics of failed executions.
	ErrorStatistics(reset bool) Statistics
}

// NewTimed returns a standalone Timed metric.
func NewTimed(name MetricName) Timed {
	return newTimedMetric(name, time.Now)
}

func newTimedMetric(name MetricName, now func() time.Time) *timedMetric {
	return &timedMetric{
		name:    name,
		now:     now,
		success: newAccumulator(now),
		errors:  newAccumulator(now),
	}
}

type timedMetric struct {
	name    MetricName
	now     func() time.Time
	success *accumulator
	errors  *accumulator
}

func (t *timedMetric) Name() MetricName { return t.name }

func (t *timedMetric) Kind() Kind { return KindTimed }

func (t *timedMetric) AddEventDuration(success bool, d time.Duration) {
	if success {
		t.success.record(int64(d))
		return
	}
	t.errors.record(int64(d))
}

func (t *timedMetric) AddEventSince(success bool, start time.Time) {
	t.AddEventDuration(success, t.now().Sub(start))
}

func (t *timedMetric) OperationEnd(start time.Time, ok func() bool) {
	success := true
	if ok != nil {
		success = ok()
	}
	t.AddEventSince(success, start)
}

func (t *timedMetric) SuccessStatistics(reset bool) Statistics { return t.success.snapshot(reset) }

func (t *timedMetric) ErrorStatistics(reset bool) Statistics { return t.errors.snapshot(reset) }

func (t *timedMetric) HasActivity() bool {
	return t.success.hasActivity() || t.errors.hasActivity()
}

func (t *timedMetric) Rollover() error { return nil }

func (t *timedMetric) Snapshot() []Snapshot {
	return []Snapshot{
		{Name: t.name, Kind: KindTimed, Partition: PartitionSuccess, Stats: t.success.snapshot(false)},
		{Name: t.name, Kind: KindTimed, Partition: PartitionError, Stats: t.errors.snapshot(false)},
	}
}

// Collect resets both partitions and returns the non-empty ones.
func (t *timedMetric) Collect() ([]Snapshot, bool) {
	if !t.HasActivity() {
		return nil, false
	}
	var out []Snapshot
	if s := t.success.snapshot(true); !s.IsEmpty() {
		out = append(out, Snapshot{Name: t.name, Kind: KindTimed, Partition: PartitionSuccess, Stats: s})
	}
	if s := t.errors.snapshot(true); !s.IsEmpty() {
		out = append(out, Snapshot{Name: t.name, Kind: KindTimed, Partition: PartitionError, Stats: s})
	}
	return out, len(out) > 0
}
