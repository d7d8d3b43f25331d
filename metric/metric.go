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

// Kind is the variant of a Metric.
type Kind int

// Possible values for Kind.
const (
	KindCounter Kind = iota
	KindValue
	KindTimed
	KindGauge
	KindGaugeCounter
	KindGaugeGroup
	KindGaugeCounterGroup
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindValue:
		return "value"
	case KindTimed:
		return "timed"
	case KindGauge:
		return "gauge"
	case KindGaugeCounter:
		return "gaugecounter"
	case KindGaugeGroup:
		return "gaugegroup"
	case KindGaugeCounterGroup:
		return "gaugecountergroup"
	default:
		return "unknown"
	}
}

// Partition distinguishes the success and error statistics of a timed metric.
type Partition string

// Partitions of a timed metric. Other kinds use PartitionNone.
const (
	PartitionNone    Partition = ""
	PartitionSuccess Partition = "success"
	PartitionError   Partition = "error"
)

// A Metric models a single named measurement owned by a Registry.
//
// Implementations must be safe for concurrent use: recording methods are
// called by any number of goroutines while Rollover and Collect are called by
// the scheduler goroutine.
type Metric interface {
	// Name returns the identity of the metric.
	Name() MetricName
	// Kind returns the variant of the metric.
	Kind() Kind
	// HasActivity reports whether anything was recorded since the last
	// call of Collect.
	HasActivity() bool
	// Rollover advances derived state once per scheduler tick. Gauges
	// sample their source here.
	Rollover() error
	// Snapshot returns the current statistics without resetting them.
	Snapshot() []Snapshot
	// Collect returns the statistics accumulated since the previous call
	// and resets them. The boolean is false if there was no activity, in
	// which case the returned slice is empty.
	Collect() ([]Snapshot, bool)
}

// Snapshot is an immutable view of a single series of a metric at the time of
// collection.
type Snapshot struct {
	Name      MetricName
	Kind      Kind
	Partition Partition

	// Stats is set for counters, value metrics and timed metrics. For
	// counters only Count is meaningful.
	Stats Statistics

	// Value is the last sampled value of a gauge.
	Value float64

	// Delta is the increase of a gauge counter since the last collection
	// and Total its latest cumulative reading.
	Delta int64
	Total int64
}

// Key returns the canonical key of the series, with the partition appended for
// timed metrics.
func (s Snapshot) Key() string {
	if s.Partition == PartitionNone {
		return s.Name.Key()
	}
	return s.Name.Derive(string(s.Partition)).Key()
}

// Field is a named numeric value of a Snapshot.
type Field struct {
	Name  string
	Value float64
}

// Fields returns the values reporters write for the snapshot: the count of a
// counter, count, total, min, max and mean of value and timed metrics, the
// value of a gauge and delta and total of a gauge counter.
func (s Snapshot) Fields() []Field {
	switch s.Kind {
	case KindCounter:
		return []Field{{"count", float64(s.Stats.Count)}}
	case KindGauge:
		return []Field{{"value", s.Value}}
	case KindGaugeCounter:
		return []Field{{"delta", float64(s.Delta)}, {"total", float64(s.Total)}}
	default:
		return []Field{
			{"count", float64(s.Stats.Count)},
			{"total", float64(s.Stats.Total)},
			{"min", float64(s.Stats.Min)},
			{"max", float64(s.Stats.Max)},
			{"mean", s.Stats.Mean()},
		}
	}
}
