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

// Package metric is the core of in-process metrics collection. Application
// code obtains named counters, value metrics and timers from a Registry and
// records events on them concurrently. A ReportManager periodically rolls the
// registry over and hands the metrics that saw activity to a Reporter.
//
// A minimal example:
//
//	reg := metric.NewDefaultRegistry()
//	mgr := metric.NewReportManager(reg, reporter)
//	defer mgr.Shutdown()
//
//	hits := reg.MustCounter(metric.NewName("web", "handler", "hits"))
//	hits.Inc()
//
//	op := reg.MustTimed(metric.NewName("svc", "db", "query"))
//	start := time.Now()
//	err := query()
//	op.AddEventSince(err == nil, start)
//
// # Metric names
//
// A MetricName has a group, a type and a name. Its canonical key joins the
// non-empty parts with dots and identifies the metric in the Registry. A
// NameCache derives and caches the names below a common base name.
//
// # Recording and collection
//
// Counter, Value and Timed metrics accumulate events without locks. Reading
// their Statistics with reset swaps the accumulated values out atomically:
// every event is part of exactly one reset snapshot. Gauges and gauge counters
// sample an external source on every scheduler tick instead.
//
// CollectNonEmptyMetrics resets all metrics and returns snapshots of those
// that had activity, so idle metrics do not reach the reporters.
//
// # Disabling collection
//
// With collection disabled, the Registry hands out no-op metrics. Lookups keep
// returning one instance per name, but no events are recorded. Set the
// environment variable METRICS_COLLECTION_DISABLE=true and use
// NewDefaultRegistry, or pass WithCollectionDisabled to NewRegistry.
//
// # Runtime metrics
//
// Unless disabled, every Registry carries memory, garbage collection, thread
// and process metrics in the "jvm" group. They are kept apart from
// application metrics, see RuntimeMetrics and CollectNonEmptyRuntimeMetrics.
package metric
