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

// A Factory creates the metric instance for a name on first lookup. The
// Registry calls Create at most once per name as long as Create succeeds.
type Factory interface {
	Create(name MetricName) (Metric, error)
}

// FactoryFunc is an adapter to allow the use of ordinary functions as
// Factory.
type FactoryFunc func(name MetricName) (Metric, error)

// Create calls f(name).
func (f FactoryFunc) Create(name MetricName) (Metric, error) {
	return f(name)
}

// factoryKinds are the kinds created through factories. Gauges are registered
// explicitly.
var factoryKinds = []Kind{KindCounter, KindValue, KindTimed}

// defaultFactories returns the factories of collecting metrics.
func defaultFactories(now func() time.Time) map[Kind]Factory {
	return map[Kind]Factory{
		KindCounter: FactoryFunc(func(name MetricName) (Metric, error) {
			return newCounter(name, now), nil
		}),
		KindValue: FactoryFunc(func(name MetricName) (Metric, error) {
			return newValueMetric(name, now), nil
		}),
		KindTimed: FactoryFunc(func(name MetricName) (Metric, error) {
			return newTimedMetric(name, now), nil
		}),
	}
}

// noopFactories returns the factories used when collection is disabled.
func noopFactories() map[Kind]Factory {
	return map[Kind]Factory{
		KindCounter: FactoryFunc(func(name MetricName) (Metric, error) {
			return noopCounter{name: name}, nil
		}),
		KindValue: FactoryFunc(func(name MetricName) (Metric, error) {
			return noopValue{name: name}, nil
		}),
		KindTimed: FactoryFunc(func(name MetricName) (Metric, error) {
			return noopTimed{name: name}, nil
		}),
	}
}
