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

// Package promexport exposes metrics in the Prometheus ecosystem. Exporter
// makes the metrics of a metric.Registry scrapeable through a Prometheus
// registry and TextReporter writes reports in the text exposition format.
package promexport

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/metricore/metricore/metric"
)

const (
	fieldLabel     = "field"
	partitionLabel = "partition"
)

// Exporter is a metric.Exporter and a prometheus.Collector. On every scrape
// it exposes a non-resetting snapshot of each registered metric as gauges
// named after the sanitized canonical key, with one series per field.
//
// The set of metrics changes at runtime, so Exporter is an unchecked
// collector: Describe sends no descriptors.
type Exporter struct {
	mtx     sync.RWMutex
	metrics map[uint64]metric.Metric // by name hash
	names   map[string]uint64        // sanitized name to name hash
}

// New returns an Exporter registered with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Exporter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	e := &Exporter{metrics: map[uint64]metric.Metric{}, names: map[string]uint64{}}
	if err := reg.Register(e); err != nil {
		return nil, errors.Wrap(err, "register exporter")
	}
	return e, nil
}

// Register implements metric.Exporter. A metric with the same name replaces
// the registered one. A metric whose name sanitizes to the name of another
// exported metric is rejected, as both would end up in one metric family.
func (e *Exporter) Register(m metric.Metric) error {
	name := m.Name()
	if name.IsZero() {
		return errors.New("cannot export metric without name")
	}
	id, sanitized := name.Hash(), sanitizeName(name.Key())

	e.mtx.Lock()
	defer e.mtx.Unlock()
	if other, ok := e.names[sanitized]; ok && other != id {
		return errors.Errorf("metric %q collides with %q as %q", name.Key(), e.metrics[other].Name().Key(), sanitized)
	}
	e.metrics[id] = m
	e.names[sanitized] = id
	return nil
}

// Unregister implements metric.Exporter.
func (e *Exporter) Unregister(name metric.MetricName) bool {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	id := name.Hash()
	if _, ok := e.metrics[id]; !ok {
		return false
	}
	delete(e.metrics, id)
	delete(e.names, sanitizeName(name.Key()))
	return true
}

// Len returns the number of exported metrics.
func (e *Exporter) Len() int {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	return len(e.metrics)
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(chan<- *prometheus.Desc) {}

// Collect implements prometheus.Collector.
func (e *Exporter) Collect(ch chan<- prometheus.Metric) {
	for _, m := range e.sorted() {
		for _, s := range m.Snapshot() {
			name, labels, values := seriesOf(s)
			desc := prometheus.NewDesc(name, help(s), append(labels, fieldLabel), nil)
			for _, f := range s.Fields() {
				ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, f.Value, append(values, f.Name)...)
			}
		}
	}
}

func (e *Exporter) sorted() []metric.Metric {
	e.mtx.RLock()
	ms := make([]metric.Metric, 0, len(e.metrics))
	for _, m := range e.metrics {
		ms = append(ms, m)
	}
	e.mtx.RUnlock()

	sort.Slice(ms, func(i, j int) bool { return ms[i].Name().Key() < ms[j].Name().Key() })
	return ms
}

// seriesOf returns the metric name and the labels other than the field label
// of a snapshot.
func seriesOf(s metric.Snapshot) (name string, labels, values []string) {
	name = sanitizeName(s.Name.Key())
	if s.Partition != metric.PartitionNone {
		return name, []string{partitionLabel}, []string{string(s.Partition)}
	}
	return name, nil, nil
}

func help(s metric.Snapshot) string {
	return s.Kind.String() + " metric " + s.Name.DisplayName()
}

// sanitizeName maps a canonical key to a valid Prometheus metric name.
func sanitizeName(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i, c := range key {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_', c == ':':
			b.WriteRune(c)
		case c >= '0' && c <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
