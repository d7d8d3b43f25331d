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
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// GaugeFunc samples the current value of a gauge.
type GaugeFunc func() (float64, error)

// GaugeCounterFunc samples a monotonically increasing cumulative value, e.g.
// the number of garbage collections since process start.
type GaugeCounterFunc func() (int64, error)

// Gauge is a Metric whose value is sampled from an external source on every
// scheduler tick rather than accumulated from events.
type Gauge interface {
	Metric

	// Value returns the most recently sampled value.
	Value() float64
}

// GaugeCounter is a Metric sampling a cumulative source. It reports the
// increase since the previous collection.
type GaugeCounter interface {
	Metric

	// Delta returns the increase observed by the latest Rollover.
	Delta() int64
	// Total returns the latest cumulative reading.
	Total() int64
}

// NewGauge returns a Gauge sampling fn on every Rollover.
func NewGauge(name MetricName, fn GaugeFunc) Gauge {
	return &gaugeMetric{name: name, fn: fn}
}

type gaugeMetric struct {
	valBits atomic.Uint64
	// fresh is set by Rollover and cleared by Collect.
	fresh atomic.Bool

	name MetricName
	fn   GaugeFunc
}

func (g *gaugeMetric) Name() MetricName { return g.name }

func (g *gaugeMetric) Kind() Kind { return KindGauge }

func (g *gaugeMetric) Value() float64 { return math.Float64frombits(g.valBits.Load()) }

func (g *gaugeMetric) Rollover() error {
	v, err := g.fn()
	if err != nil {
		return errors.Wrapf(err, "sampling gauge %q", g.name.Key())
	}
	g.valBits.Store(math.Float64bits(v))
	g.fresh.Store(true)
	return nil
}

// HasActivity reports whether a non-zero value was sampled since the last
// collection.
func (g *gaugeMetric) HasActivity() bool {
	return g.fresh.Load() && g.Value() != 0
}

func (g *gaugeMetric) Snapshot() []Snapshot {
	return []Snapshot{{Name: g.name, Kind: KindGauge, Value: g.Value()}}
}

func (g *gaugeMetric) Collect() ([]Snapshot, bool) {
	if !g.fresh.Swap(false) {
		return nil, false
	}
	v := g.Value()
	if v == 0 {
		return nil, false
	}
	return []Snapshot{{Name: g.name, Kind: KindGauge, Value: v}}, true
}

// NewGaugeCounter returns a GaugeCounter sampling fn on every Rollover.
//
// The first sample only establishes the baseline. A sample lower than the
// previous one, e.g. after the source was reset, counts as no increase and
// becomes the new baseline.
func NewGaugeCounter(name MetricName, fn GaugeCounterFunc) GaugeCounter {
	return &gaugeCounterMetric{name: name, fn: fn}
}

type gaugeCounterMetric struct {
	pending atomic.Int64 // increase since the last collection
	delta   atomic.Int64
	total   atomic.Int64

	name MetricName
	fn   GaugeCounterFunc

	mtx    sync.Mutex // serializes Rollover
	last   int64
	primed bool
}

func (g *gaugeCounterMetric) Name() MetricName { return g.name }

func (g *gaugeCounterMetric) Kind() Kind { return KindGaugeCounter }

func (g *gaugeCounterMetric) Delta() int64 { return g.delta.Load() }

func (g *gaugeCounterMetric) Total() int64 { return g.total.Load() }

func (g *gaugeCounterMetric) Rollover() error {
	cur, err := g.fn()
	if err != nil {
		return errors.Wrapf(err, "sampling gauge counter %q", g.name.Key())
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	var d int64
	if g.primed && cur > g.last {
		d = cur - g.last
	}
	g.last = cur
	g.primed = true

	g.delta.Store(d)
	g.total.Store(cur)
	if d > 0 {
		g.pending.Add(d)
	}
	return nil
}

func (g *gaugeCounterMetric) HasActivity() bool { return g.pending.Load() > 0 }

func (g *gaugeCounterMetric) Snapshot() []Snapshot {
	return []Snapshot{{Name: g.name, Kind: KindGaugeCounter, Delta: g.pending.Load(), Total: g.Total()}}
}

func (g *gaugeCounterMetric) Collect() ([]Snapshot, bool) {
	d := g.pending.Swap(0)
	if d == 0 {
		return nil, false
	}
	return []Snapshot{{Name: g.name, Kind: KindGaugeCounter, Delta: d, Total: g.Total()}}, true
}

// GaugeGroup bundles related gauges, e.g. the parts of heap memory usage,
// under one base name. It is registered and rolled over as a single Metric.
type GaugeGroup struct {
	name    MetricName
	members []Gauge
}

// NewGaugeGroup returns a group of the given gauges.
func NewGaugeGroup(base MetricName, members ...Gauge) *GaugeGroup {
	return &GaugeGroup{name: base, members: members}
}

// Members returns the gauges of the group.
func (g *GaugeGroup) Members() []Gauge { return g.members }

func (g *GaugeGroup) Name() MetricName { return g.name }

func (g *GaugeGroup) Kind() Kind { return KindGaugeGroup }

func (g *GaugeGroup) HasActivity() bool {
	for _, m := range g.members {
		if m.HasActivity() {
			return true
		}
	}
	return false
}

func (g *GaugeGroup) Rollover() error {
	var errs MultiError
	for _, m := range g.members {
		errs.Append(m.Rollover())
	}
	return errs.MaybeUnwrap()
}

func (g *GaugeGroup) Snapshot() []Snapshot {
	return snapshotAll(g.members)
}

func (g *GaugeGroup) Collect() ([]Snapshot, bool) {
	return collectAll(g.members)
}

// GaugeCounterGroup bundles related gauge counters, e.g. the count and time of
// one garbage collector.
type GaugeCounterGroup struct {
	name    MetricName
	members []GaugeCounter
}

// NewGaugeCounterGroup returns a group of the given gauge counters.
func NewGaugeCounterGroup(base MetricName, members ...GaugeCounter) *GaugeCounterGroup {
	return &GaugeCounterGroup{name: base, members: members}
}

// Members returns the gauge counters of the group.
func (g *GaugeCounterGroup) Members() []GaugeCounter { return g.members }

func (g *GaugeCounterGroup) Name() MetricName { return g.name }

func (g *GaugeCounterGroup) Kind() Kind { return KindGaugeCounterGroup }

func (g *GaugeCounterGroup) HasActivity() bool {
	for _, m := range g.members {
		if m.HasActivity() {
			return true
		}
	}
	return false
}

func (g *GaugeCounterGroup) Rollover() error {
	var errs MultiError
	for _, m := range g.members {
		errs.Append(m.Rollover())
	}
	return errs.MaybeUnwrap()
}

func (g *GaugeCounterGroup) Snapshot() []Snapshot {
	return snapshotAll(g.members)
}

func (g *GaugeCounterGroup) Collect() ([]Snapshot, bool) {
	return collectAll(g.members)
}

func snapshotAll[M Metric](members []M) []Snapshot {
	var out []Snapshot
	for _, m := range members {
		out = append(out, m.Snapshot()...)
	}
	return out
}

func collectAll[M Metric](members []M) ([]Snapshot, bool) {
	var out []Snapshot
	for _, m := range members {
		if s, ok := m.Collect(); ok {
			out = append(out, s...)
		}
	}
	return out, len(out) > 0
}
