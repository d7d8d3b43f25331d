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
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Statistics is an immutable point in time view of accumulated events. For
// timed metrics the values are durations in nanoseconds.
type Statistics struct {
	Count int64
	Total int64
	Min   int64
	Max   int64
	// Start is the beginning of the window the statistics were accumulated
	// in, i.e. the time of the previous reset.
	Start time.Time
}

// Mean returns Total/Count, or 0 for empty statistics.
func (s Statistics) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Count)
}

// IsEmpty reports whether no event was recorded.
func (s Statistics) IsEmpty() bool {
	return s.Count == 0
}

// bucket holds one generation of accumulated values. All fields are accessed
// atomically.
type bucket struct {
	// count is incremented last by record and serves as the completion
	// marker of an event.
	count atomic.Uint64
	total atomic.Int64
	min   atomic.Int64
	max   atomic.Int64
}

func newBucket() *bucket {
	b := &bucket{}
	b.reset()
	return b
}

func (b *bucket) reset() {
	b.total.Store(0)
	b.min.Store(math.MaxInt64)
	b.max.Store(math.MinInt64)
	b.count.Store(0)
}

func (b *bucket) add(v int64) {
	b.total.Add(v)
	updateMin(&b.min, v)
	updateMax(&b.max, v)
	b.count.Add(1)
}

// accumulator collects count, total, min and max of int64 events.
//
// Writes are lock-free. Like the histogram of the prometheus client it keeps a
// hot and a cold bucket: countAndHotIdx has the hot index in the most
// significant bit and the number of started record calls in the remaining
// bits. snapshot flips the hot index under readMtx, waits until every event
// started on the now cold bucket has completed and then reads it. Each event
// is therefore part of exactly one snapshot.
type accumulator struct {
	countAndHotIdx atomic.Uint64
	// drained is the number of events handed out by resetting snapshots.
	drained atomic.Uint64

	readMtx sync.Mutex
	counts  [2]*bucket
	start   time.Time // guarded by readMtx

	now func() time.Time
}

func newAccumulator(now func() time.Time) *accumulator {
	if now == nil {
		now = time.Now
	}
	return &accumulator{
		counts: [2]*bucket{newBucket(), newBucket()},
		start:  now(),
		now:    now,
	}
}

// record adds one event. Negative values are recorded as 0.
func (a *accumulator) record(v int64) {
	if v < 0 {
		v = 0
	}
	n := a.countAndHotIdx.Add(1)
	a.counts[n>>63].add(v)
}

// hasActivity reports whether events were recorded since the last resetting
// snapshot.
func (a *accumulator) hasActivity() bool {
	started := a.countAndHotIdx.Load() & ((1 << 63) - 1)
	return started > a.drained.Load()
}

// snapshot returns the accumulated statistics. With reset the returned events
// are removed from the accumulator, otherwise they stay for the next call.
func (a *accumulator) snapshot(reset bool) Statistics {
	a.readMtx.Lock()
	defer a.readMtx.Unlock()

	// Adding 1<<63 flips the hot index and leaves the count bits alone.
	n := a.countAndHotIdx.Add(1 << 63)
	started := n & ((1 << 63) - 1)
	hot := a.counts[n>>63]
	cold := a.counts[(^n)>>63]

	// Await cooldown of the events started on the cold bucket.
	expected := started - a.drained.Load()
	for expected != cold.count.Load() {
		runtime.Gosched()
	}

	s := Statistics{
		Count: int64(expected),
		Total: cold.total.Load(),
		Start: a.start,
	}
	if expected > 0 {
		s.Min = cold.min.Load()
		s.Max = cold.max.Load()
	}

	if reset {
		a.drained.Add(expected)
		a.start = a.now()
	} else if expected > 0 {
		hot.total.Add(s.Total)
		updateMin(&hot.min, s.Min)
		updateMax(&hot.max, s.Max)
		hot.count.Add(expected)
	}
	cold.reset()
	return s
}

func updateMin(a *atomic.Int64, v int64) {
	for {
		cur := a.Load()
		if v >= cur || a.CompareAndSwap(cur, v) {
			return
		}
	}
}

func updateMax(a *atomic.Int64, v int64) {
	for {
		cur := a.Load()
		if v <= cur || a.CompareAndSwap(cur, v) {
			return
		}
	}
}
