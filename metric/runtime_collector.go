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
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RuntimeGroup is the group of all runtime and process metric names. The
// naming follows the JVM convention used by existing dashboards.
const RuntimeGroup = "jvm"

// goGCName is the name the Go runtime's single collector is reported under.
const goGCName = "Go GC"

// memStatsMaxAge bounds how often runtime.ReadMemStats is called while the
// memory gauges of one tick are sampled.
const memStatsMaxAge = time.Second

// newRuntimeMetrics returns the memory, GC, goroutine and process metrics.
func newRuntimeMetrics(now func() time.Time, logger *zap.Logger) []Metric {
	ms := &memStatsCache{now: now}

	heapBase := NewName(RuntimeGroup, "memory", "heap")
	heap := NewNameCache(heapBase)
	nonHeapBase := NewName(RuntimeGroup, "memory", "nonheap")
	nonHeap := NewNameCache(nonHeapBase)

	metrics := []Metric{
		NewGaugeGroup(heapBase,
			NewGauge(heap.Get("used"), ms.gauge(func(s *runtime.MemStats) uint64 { return s.HeapAlloc })),
			NewGauge(heap.Get("committed"), ms.gauge(func(s *runtime.MemStats) uint64 { return s.HeapSys })),
			NewGauge(heap.Get("max"), ms.gauge(func(s *runtime.MemStats) uint64 { return s.Sys })),
		),
		NewGaugeGroup(nonHeapBase,
			NewGauge(nonHeap.Get("used"), ms.gauge(nonHeapInuse)),
			NewGauge(nonHeap.Get("committed"), ms.gauge(nonHeapSys)),
		),
		newGCGroup(goGCName, readGoGCStats),
		NewGauge(NewName(RuntimeGroup, "threads", "goroutines"), func() (float64, error) {
			return float64(runtime.NumGoroutine()), nil
		}),
	}
	return append(metrics, newProcessMetrics(now, logger)...)
}

// gcStats is the cumulative activity of one garbage collector.
type gcStats struct {
	count int64
	time  time.Duration
}

// newGCGroup returns the count and time counters of the named collector.
func newGCGroup(collector string, read func() gcStats) *GaugeCounterGroup {
	base := NewName(RuntimeGroup, "gc", gcCollectorName(collector))
	names := NewNameCache(base)
	s := &gcSampler{read: read}
	return NewGaugeCounterGroup(base,
		NewGaugeCounter(names.Get("count"), func() (int64, error) { return s.sample().count, nil }),
		NewGaugeCounter(names.Get("time"), func() (int64, error) { return s.latest().time.Milliseconds(), nil }),
	)
}

// gcSampler shares one reading between the members of a GC group. The group
// rolls its members over in order: count takes a fresh sample and time
// reuses it.
type gcSampler struct {
	read func() gcStats

	mtx  sync.Mutex
	last gcStats
}

func (s *gcSampler) sample() gcStats {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.last = s.read()
	return s.last
}

func (s *gcSampler) latest() gcStats {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.last
}

// gcCollectorName turns a collector name like "Go GC" into a name segment.
func gcCollectorName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

func readGoGCStats() gcStats {
	var stats debug.GCStats
	debug.ReadGCStats(&stats)
	return gcStats{count: stats.NumGC, time: stats.PauseTotal}
}

func nonHeapInuse(s *runtime.MemStats) uint64 {
	return s.StackInuse + s.MSpanInuse + s.MCacheInuse
}

func nonHeapSys(s *runtime.MemStats) uint64 {
	return s.StackSys + s.MSpanSys + s.MCacheSys + s.BuckHashSys + s.GCSys + s.OtherSys
}

// memStatsCache shares one runtime.ReadMemStats call between the memory
// gauges sampled in the same tick.
type memStatsCache struct {
	now func() time.Time

	mtx  sync.Mutex
	last time.Time
	ms   runtime.MemStats
}

func (c *memStatsCache) gauge(eval func(*runtime.MemStats) uint64) GaugeFunc {
	return func() (float64, error) {
		c.mtx.Lock()
		defer c.mtx.Unlock()

		if t := c.now(); c.last.IsZero() || t.Sub(c.last) >= memStatsMaxAge {
			runtime.ReadMemStats(&c.ms)
			c.last = t
		}
		return float64(eval(&c.ms)), nil
	}
}
