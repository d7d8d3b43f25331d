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
	"testing"
	"time"

	"github.com/efficientgo/core/testutil"
	"go.uber.org/zap"
)

func TestGCCollectorName(t *testing.T) {
	testutil.Equals(t, "go-gc", gcCollectorName(goGCName))
	testutil.Equals(t, "ps-marksweep", gcCollectorName("PS MarkSweep"))
	testutil.Equals(t, "g1-young-generation", gcCollectorName(" G1  Young Generation "))
}

func TestGCGroup(t *testing.T) {
	stats := []gcStats{
		{count: 3, time: 10 * time.Millisecond},
		{count: 5, time: 25 * time.Millisecond},
		{count: 5, time: 25 * time.Millisecond},
	}
	i, reads := 0, 0
	g := newGCGroup("Go GC", func() gcStats {
		reads++
		return stats[i]
	})

	testutil.Equals(t, "jvm.gc.go-gc", g.Name().Key())
	testutil.Equals(t, "jvm.gc.go-gc.count", g.Members()[0].Name().Key())
	testutil.Equals(t, "jvm.gc.go-gc.time", g.Members()[1].Name().Key())

	testutil.Ok(t, g.Rollover())
	_, ok := g.Collect()
	testutil.Assert(t, !ok, "first sample must only set the baseline")

	i = 1
	testutil.Ok(t, g.Rollover())
	s, ok := g.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, 2, len(s))
	testutil.Equals(t, int64(2), s[0].Delta)
	testutil.Equals(t, int64(15), s[1].Delta)
	testutil.Equals(t, int64(25), s[1].Total)

	i = 2
	testutil.Ok(t, g.Rollover())
	_, ok = g.Collect()
	testutil.Assert(t, !ok, "collected without garbage collections")
	testutil.Equals(t, 3, reads)
}

func TestMemStatsCache(t *testing.T) {
	now := time.Unix(0, 0)
	c := &memStatsCache{now: func() time.Time { return now }}

	reads := 0
	heap := c.gauge(func(s *runtime.MemStats) uint64 {
		reads++
		return s.HeapSys
	})
	v1, err := heap()
	testutil.Ok(t, err)
	testutil.Assert(t, v1 > 0, "expected heap to be reported")
	last := c.last

	_, _ = heap()
	testutil.Equals(t, last, c.last)

	now = now.Add(memStatsMaxAge)
	_, _ = heap()
	testutil.Equals(t, now, c.last)
	testutil.Equals(t, 3, reads)
}

func TestProcessSourceFallbacks(t *testing.T) {
	now := time.Unix(100, 0)
	src := &processSource{start: now.Add(-1500 * time.Millisecond), now: func() time.Time { return now }}

	up, err := src.uptime()
	testutil.Ok(t, err)
	testutil.Equals(t, 1500.0, up)

	load, err := src.loadAverage()
	testutil.Ok(t, err)
	testutil.Assert(t, load < 0, "expected negative load average without procfs")

	threads, err := src.threads()
	testutil.Ok(t, err)
	testutil.Assert(t, threads >= 1, "expected at least one thread")
}

func TestRuntimeMetricNames(t *testing.T) {
	ms := newRuntimeMetrics(time.Now, zap.NewNop())

	var keys []string
	for _, m := range ms {
		keys = append(keys, m.Name().Key())
	}
	for _, want := range []string{
		"jvm.memory.heap",
		"jvm.memory.nonheap",
		"jvm.gc.go-gc",
		"jvm.threads.goroutines",
		"jvm.threads.current",
		"jvm.system.uptime",
	} {
		testutil.Assert(t, contains(keys, want), "missing %s in %v", want, keys)
	}
}
