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

// Exporter publishes metrics to a management interface outside the registry,
// e.g. a Prometheus registry scraped over HTTP. The Registry calls Register
// whenever a metric is created or explicitly registered and Unregister when it
// is replaced or removed by Clear.
//
// How metrics are named and rendered by the exporter is up to the
// implementation. Both methods must be safe for concurrent use.
type Exporter interface {
	Register(m Metric) error
	Unregister(name MetricName) bool
}
