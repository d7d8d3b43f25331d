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
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/efficientgo/core/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestCounter(t *testing.T) {
	c := NewCounter(NewName("web", "handler", "hits"))
	testutil.Equals(t, KindCounter, c.Kind())

	if _, ok := c.Collect(); ok {
		t.Error("idle counter collected")
	}

	const goroutines, perGoroutine = 10, 1000
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	c.Add(-5)

	testutil.Assert(t, c.HasActivity())
	testutil.Equals(t, int64(goroutines*perGoroutine), c.Count())
	testutil.Equals(t, int64(goroutines*perGoroutine), c.Statistics(true).Count)
	testutil.Equals(t, int64(0), c.Statistics(true).Count)
	testutil.Assert(t, !c.HasActivity())

	c.Add(3)
	s, ok := c.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, []Snapshot{{Name: c.Name(), Kind: KindCounter, Stats: s[0].Stats}}, s)
	testutil.Equals(t, int64(3), s[0].Stats.Count)
}

func TestValue(t *testing.T) {
	v := NewValue(NewName("app", "queue", "size"))
	for _, e := range []int64{4, 10, 1} {
		v.AddEvent(e)
	}

	snap := v.Snapshot()
	testutil.Equals(t, 1, len(snap))
	testutil.Equals(t, int64(3), snap[0].Stats.Count)

	s, ok := v.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, int64(15), s[0].Stats.Total)
	testutil.Equals(t, int64(1), s[0].Stats.Min)
	testutil.Equals(t, int64(10), s[0].Stats.Max)

	_, ok = v.Collect()
	testutil.Assert(t, !ok, "value collected twice")
}

func TestTimedScenario(t *testing.T) {
	reg := NewRegistry(WithRuntimeMetrics(false))
	op := reg.MustTimed(ParseName("svc.op"))

	op.AddEventDuration(true, 100)
	op.AddEventDuration(false, 200)

	testutil.Equals(t, int64(1), op.SuccessStatistics(false).Count)
	testutil.Equals(t, int64(1), op.ErrorStatistics(false).Count)
	testutil.Equals(t, int64(100), op.SuccessStatistics(false).Total)
	testutil.Equals(t, int64(200), op.ErrorStatistics(false).Max)

	testutil.Equals(t, int64(1), op.SuccessStatistics(true).Count)
	testutil.Equals(t, int64(1), op.ErrorStatistics(true).Count)

	testutil.Equals(t, int64(0), op.SuccessStatistics(true).Count)
	testutil.Equals(t, int64(0), op.ErrorStatistics(true).Count)
}

func TestTimedCollect(t *testing.T) {
	now := time.Unix(100, 0)
	tm := newTimedMetric(NewName("svc", "db", "query"), func() time.Time { return now })

	tm.AddEventSince(true, now.Add(-3*time.Millisecond))
	tm.OperationEnd(now.Add(-time.Second), func() bool { return false })
	tm.OperationEnd(now.Add(-2*time.Second), nil)

	s, ok := tm.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, 2, len(s))
	testutil.Equals(t, PartitionSuccess, s[0].Partition)
	testutil.Equals(t, int64(2), s[0].Stats.Count)
	testutil.Equals(t, int64(3*time.Millisecond), s[0].Stats.Min)
	testutil.Equals(t, "svc.db.query.error", s[1].Key())
	testutil.Equals(t, int64(time.Second), s[1].Stats.Total)

	tm.AddEventDuration(false, time.Millisecond)
	s, ok = tm.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, 1, len(s))
	testutil.Equals(t, PartitionError, s[0].Partition)
}

func TestGaugeCounterDeltas(t *testing.T) {
	samples := []int64{100, 140, 140, 90}
	i := 0
	g := NewGaugeCounter(NewName("jvm", "gc", "go-gc.count"), func() (int64, error) {
		v := samples[i]
		i++
		return v, nil
	})

	var deltas []int64
	for range samples {
		testutil.Ok(t, g.Rollover())
		deltas = append(deltas, g.Delta())
	}
	testutil.Equals(t, []int64{0, 40, 0, 0}, deltas)
	testutil.Equals(t, int64(90), g.Total())

	s, ok := g.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, int64(40), s[0].Delta)
	testutil.Equals(t, int64(90), s[0].Total)

	_, ok = g.Collect()
	testutil.Assert(t, !ok, "gauge counter collected without increase")
}

func TestGaugeCounterBaselineAfterDecrease(t *testing.T) {
	samples := []int64{10, 5, 8}
	i := 0
	g := NewGaugeCounter(NewName("a", "b", "c"), func() (int64, error) {
		v := samples[i]
		i++
		return v, nil
	})
	for range samples {
		testutil.Ok(t, g.Rollover())
	}
	testutil.Equals(t, int64(3), g.Delta())
}

func TestGaugeActivity(t *testing.T) {
	val, fail := 0.0, false
	g := NewGauge(NewName("jvm", "threads", "current"), func() (float64, error) {
		if fail {
			return 0, errors.New("unavailable")
		}
		return val, nil
	})

	testutil.Assert(t, !g.HasActivity(), "gauge active before sampling")

	testutil.Ok(t, g.Rollover())
	_, ok := g.Collect()
	testutil.Assert(t, !ok, "zero gauge collected")

	val = 12
	testutil.Ok(t, g.Rollover())
	testutil.Assert(t, g.HasActivity())
	s, ok := g.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, 12.0, s[0].Value)

	_, ok = g.Collect()
	testutil.Assert(t, !ok, "gauge collected twice without sampling")

	fail = true
	testutil.NotOk(t, g.Rollover())
	testutil.Equals(t, 12.0, g.Value())
}

func TestGaugeGroup(t *testing.T) {
	base := NewName("jvm", "memory", "heap")
	names := NewNameCache(base)
	used := NewGauge(names.Get("used"), func() (float64, error) { return 10, nil })
	broken := NewGauge(names.Get("max"), func() (float64, error) { return 0, errors.New("no max") })
	g := NewGaugeGroup(base, used, broken)

	testutil.Equals(t, KindGaugeGroup, g.Kind())
	testutil.Equals(t, 2, len(g.Members()))

	err := g.Rollover()
	testutil.NotOk(t, err)
	testutil.Assert(t, g.HasActivity())

	s, ok := g.Collect()
	testutil.Assert(t, ok)
	testutil.Equals(t, []Snapshot{{Name: names.Get("used"), Kind: KindGauge, Value: 10}}, s)
	testutil.Equals(t, 2, len(g.Snapshot()))
}

func TestNoopMetrics(t *testing.T) {
	reg := NewRegistry(WithCollectionDisabled(true))
	testutil.Assert(t, reg.Disabled())

	c := reg.MustCounter(NewName("a", "b", "c"))
	v := reg.MustValue(NewName("a", "b", "v"))
	tm := reg.MustTimed(NewName("a", "b", "t"))
	for i := 0; i < 100; i++ {
		c.Inc()
		c.Add(2)
		v.AddEvent(5)
		tm.AddEventDuration(true, time.Second)
		tm.AddEventSince(false, time.Now())
	}

	testutil.Equals(t, int64(0), c.Count())
	testutil.Equals(t, int64(0), c.Statistics(true).Count)
	testutil.Equals(t, int64(0), v.Statistics(true).Count)
	testutil.Equals(t, int64(0), tm.SuccessStatistics(true).Count)
	testutil.Equals(t, int64(0), tm.ErrorStatistics(true).Count)
	testutil.Equals(t, 0, len(reg.CollectNonEmptyMetrics()))
	testutil.Equals(t, 0, len(reg.RuntimeMetrics()))
	testutil.Equals(t, 2, len(tm.Snapshot()))
	testutil.Ok(t, reg.Rollover())

	// Identity is kept even when disabled.
	testutil.Equals(t, c, reg.MustCounter(NewName("a", "b", "c")))
}

func TestSnapshotFields(t *testing.T) {
	for _, tc := range []struct {
		s    Snapshot
		want []Field
	}{
		{
			s:    Snapshot{Kind: KindCounter, Stats: Statistics{Count: 2}},
			want: []Field{{"count", 2}},
		},
		{
			s:    Snapshot{Kind: KindGauge, Value: 1.5},
			want: []Field{{"value", 1.5}},
		},
		{
			s:    Snapshot{Kind: KindGaugeCounter, Delta: 3, Total: 9},
			want: []Field{{"delta", 3}, {"total", 9}},
		},
		{
			s:    Snapshot{Kind: KindTimed, Stats: Statistics{Count: 2, Total: 6, Min: 1, Max: 5}},
			want: []Field{{"count", 2}, {"total", 6}, {"min", 1}, {"max", 5}, {"mean", 3}},
		},
	} {
		if diff := cmp.Diff(tc.want, tc.s.Fields()); diff != "" {
			t.Errorf("%s: unexpected fields (-want +got):\n%s", tc.s.Kind, diff)
		}
	}
}
