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

// The noop metrics are handed out when collection is disabled. They keep the
// identity of a name but drop every event.

type noopMetric struct {
	name MetricName
}

type noopCounter noopMetric

func (n noopCounter) Name() MetricName { return n.name }
func (noopCounter) Kind() Kind { return KindCounter }
func (noopCounter) HasActivity() bool { return false }
func (noopCounter) Rollover() error { return nil }
func (noopCounter) Collect() ([]Snapshot, bool) { return nil, false }
func (noopCounter) Inc() {}
func (noopCounter) Add(int64) {}
func (noopCounter) Count() int64 { return 0 }
func (noopCounter) Statistics(reset bool) Statistics { return Statistics{} }

func (n noopCounter) Snapshot() []Snapshot {
	return []Snapshot{{Name: n.name, Kind: KindCounter}}
}

type noopValue noopMetric

func (n noopValue) Name() MetricName { return n.name }
func (noopValue) Kind() Kind { return KindValue }
func (noopValue) HasActivity() bool { return false }
func (noopValue) Rollover() error { return nil }
func (noopValue) Collect() ([]Snapshot, bool) { return nil, false }
func (noopValue) AddEvent(int64) {}
func (noopValue) Statistics(reset bool) Statistics { return Statistics{} }

func (n noopValue) Snapshot() []Snapshot {
	return []Snapshot{{Name: n.name, Kind: KindValue}}
}

type noopTimed noopMetric

func (n noopTimed) Name() MetricName { return n.name }
func (noopTimed) Kind() Kind { return KindTimed }
func (noopTimed) HasActivity() bool { return false }
func (noopTimed) Rollover() error { return nil }
func (noopTimed) Collect() ([]Snapshot, bool) { return nil, false }
func (noopTimed) AddEventDuration(bool, time.Duration) {}
func (noopTimed) AddEventSince(bool, time.Time) {}
func (noopTimed) OperationEnd(time.Time, func() bool) {}
func (noopTimed) SuccessStatistics(reset bool) Statistics { return Statistics{} }
func (noopTimed) ErrorStatistics(reset bool) Statistics { return Statistics{} }

func (n noopTimed) Snapshot() []Snapshot {
	return []Snapshot{
		{Name: n.name, Kind: KindTimed, Partition: PartitionSuccess},
		{Name: n.name, Kind: KindTimed, Partition: PartitionError},
	}
}
