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
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Registry holds the metrics of a process, keyed by the canonical key of their
// name. Lookups create a metric through the factory of the requested kind the
// first time a name is seen and return the same instance afterwards, no matter
// how many goroutines race on the first lookup.
//
// Runtime metrics are kept apart from application metrics. They are created
// once by NewRegistry and survive Clear.
type Registry struct {
	// mtx serializes creation, explicit registration and Clear. Lookups of
	// existing metrics never take it.
	mtx     sync.Mutex
	metrics sync.Map // map[string]Metric

	nameCaches sync.Map // map[string]*NameCache

	runtime   []Metric
	factories map[Kind]Factory
	exporter  Exporter
	logger    *zap.Logger
	disabled  bool
}

// NewRegistry returns a Registry configured by opts. Unless disabled, the
// runtime and process metrics are created and registered with the exporter.
func NewRegistry(opts ...Option) *Registry {
	cfg := &registryConfig{
		runtime: true,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(cfg)
	}

	r := &Registry{
		exporter: cfg.exporter,
		logger:   cfg.logger,
		disabled: cfg.disabled,
	}
	if cfg.disabled {
		r.factories = noopFactories()
		return r
	}

	r.factories = defaultFactories(cfg.now)
	for k, f := range cfg.factories {
		if f == nil || !slices.Contains(factoryKinds, k) {
			r.logger.Warn("ignoring factory", zap.Stringer("kind", k))
			continue
		}
		r.factories[k] = f
	}
	if cfg.runtime {
		r.runtime = newRuntimeMetrics(cfg.now, cfg.logger)
		for _, m := range r.runtime {
			r.export(m)
		}
	}
	return r
}

// NewDefaultRegistry returns a Registry with collection disabled if
// DisableCollectionEnv says so.
func NewDefaultRegistry(opts ...Option) *Registry {
	return NewRegistry(append([]Option{WithCollectionDisabled(CollectionDisabledFromEnv())}, opts...)...)
}

// Disabled reports whether the registry hands out no-op metrics.
func (r *Registry) Disabled() bool { return r.disabled }

// Name returns the MetricName of the given parts.
func (r *Registry) Name(group, typ, name string) MetricName { return NewName(group, typ, name) }

// ParseName parses a canonical key. See ParseName.
func (r *Registry) ParseName(s string) MetricName { return ParseName(s) }

// NameCache returns the cache of names derived from base. Calls with the
// same base key return the same cache.
func (r *Registry) NameCache(base MetricName) *NameCache {
	if c, ok := r.nameCaches.Load(base.Key()); ok {
		return c.(*NameCache)
	}
	c, _ := r.nameCaches.LoadOrStore(base.Key(), NewNameCache(base))
	return c.(*NameCache)
}

// Counter returns the Counter registered under name, creating it if needed.
func (r *Registry) Counter(name MetricName) (Counter, error) {
	m, err := r.getOrCreate(name, KindCounter)
	if err != nil {
		return nil, err
	}
	c, ok := m.(Counter)
	if !ok {
		return nil, errors.Wrapf(ErrKindMismatch, "%q: factory returned %T, not a Counter", name.Key(), m)
	}
	return c, nil
}

// Value returns the Value registered under name, creating it if needed.
func (r *Registry) Value(name MetricName) (Value, error) {
	m, err := r.getOrCreate(name, KindValue)
	if err != nil {
		return nil, err
	}
	v, ok := m.(Value)
	if !ok {
		return nil, errors.Wrapf(ErrKindMismatch, "%q: factory returned %T, not a Value", name.Key(), m)
	}
	return v, nil
}

// Timed returns the Timed metric registered under name, creating it if
// needed.
func (r *Registry) Timed(name MetricName) (Timed, error) {
	m, err := r.getOrCreate(name, KindTimed)
	if err != nil {
		return nil, err
	}
	t, ok := m.(Timed)
	if !ok {
		return nil, errors.Wrapf(ErrKindMismatch, "%q: factory returned %T, not a Timed", name.Key(), m)
	}
	return t, nil
}

// MustCounter works like Counter but panics on error.
func (r *Registry) MustCounter(name MetricName) Counter {
	c, err := r.Counter(name)
	if err != nil {
		panic(err)
	}
	return c
}

// MustValue works like Value but panics on error.
func (r *Registry) MustValue(name MetricName) Value {
	v, err := r.Value(name)
	if err != nil {
		panic(err)
	}
	return v
}

// MustTimed works like Timed but panics on error.
func (r *Registry) MustTimed(name MetricName) Timed {
	t, err := r.Timed(name)
	if err != nil {
		panic(err)
	}
	return t
}

func (r *Registry) getOrCreate(name MetricName, kind Kind) (Metric, error) {
	key := name.Key()
	if m, ok := r.metrics.Load(key); ok {
		return checkKind(m.(Metric), name, kind)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if m, ok := r.metrics.Load(key); ok {
		return checkKind(m.(Metric), name, kind)
	}
	m, err := r.create(name, kind)
	if err != nil {
		r.logger.Warn("metric creation failed", zap.String("metric", key), zap.Stringer("kind", kind), zap.Error(err))
		return nil, err
	}
	r.metrics.Store(key, m)
	r.export(m)
	return m, nil
}

func (r *Registry) create(name MetricName, kind Kind) (m Metric, err error) {
	f, ok := r.factories[kind]
	if !ok || f == nil {
		return nil, &CreationError{Name: name, Kind: kind, Err: errors.New("no factory registered")}
	}
	defer func() {
		if p := recover(); p != nil {
			m, err = nil, &CreationError{Name: name, Kind: kind, Err: fmt.Errorf("factory panicked: %v", p)}
		}
	}()

	m, err = f.Create(name)
	if err != nil {
		return nil, &CreationError{Name: name, Kind: kind, Err: err}
	}
	if m == nil {
		return nil, &CreationError{Name: name, Kind: kind, Err: errors.New("factory returned nil metric")}
	}
	return m, nil
}

func checkKind(m Metric, name MetricName, want Kind) (Metric, error) {
	if got := m.Kind(); got != want {
		return nil, kindMismatch(name, want, got)
	}
	return m, nil
}

// RegisterGauge registers a Gauge sampling fn under name. An existing metric
// with the same name is replaced.
func (r *Registry) RegisterGauge(name MetricName, fn GaugeFunc) Gauge {
	g := NewGauge(name, fn)
	r.Register(g)
	return g
}

// RegisterGaugeCounter registers a GaugeCounter sampling fn under name. An
// existing metric with the same name is replaced.
func (r *Registry) RegisterGaugeCounter(name MetricName, fn GaugeCounterFunc) GaugeCounter {
	g := NewGaugeCounter(name, fn)
	r.Register(g)
	return g
}

// Register adds m under its name, replacing and unregistering any metric
// previously registered under the same name. It is the way to add metric
// groups and custom Metric implementations.
func (r *Registry) Register(m Metric) {
	key := m.Name().Key()

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if old, loaded := r.metrics.Swap(key, m); loaded {
		r.unexport(old.(Metric).Name())
	}
	r.export(m)
}

// Clear removes all application metrics. Metrics handed out before are
// orphaned: they keep working but are neither rolled over nor collected.
func (r *Registry) Clear() {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.metrics.Range(func(k, v any) bool {
		r.metrics.Delete(k)
		r.unexport(v.(Metric).Name())
		return true
	})
}

// Metrics returns the application metrics sorted by key.
func (r *Registry) Metrics() []Metric {
	var ms []Metric
	r.metrics.Range(func(_, v any) bool {
		ms = append(ms, v.(Metric))
		return true
	})
	sortMetrics(ms)
	return ms
}

// RuntimeMetrics returns the runtime and process metrics sorted by key.
func (r *Registry) RuntimeMetrics() []Metric {
	ms := make([]Metric, len(r.runtime))
	copy(ms, r.runtime)
	sortMetrics(ms)
	return ms
}

// CollectNonEmptyMetrics resets every application metric and returns the
// snapshots of those that had activity since the previous collection.
func (r *Registry) CollectNonEmptyMetrics() []Snapshot {
	return r.collect(r.Metrics())
}

// CollectNonEmptyRuntimeMetrics is CollectNonEmptyMetrics for the runtime
// metrics.
func (r *Registry) CollectNonEmptyRuntimeMetrics() []Snapshot {
	return r.collect(r.RuntimeMetrics())
}

func (r *Registry) collect(ms []Metric) []Snapshot {
	var out []Snapshot
	for _, m := range ms {
		s, err := safeCollect(m)
		if err != nil {
			r.logger.Error("collecting metric failed", zap.String("metric", m.Name().Key()), zap.Error(err))
			continue
		}
		out = append(out, s...)
	}
	return out
}

// Rollover rolls over every runtime and application metric. A failing or
// panicking metric does not keep the others from being rolled over. All
// failures are returned as a MultiError.
func (r *Registry) Rollover() error {
	var errs MultiError
	for _, m := range r.runtime {
		errs.Append(safeRollover(m))
	}
	r.metrics.Range(func(_, v any) bool {
		errs.Append(safeRollover(v.(Metric)))
		return true
	})
	return errs.MaybeUnwrap()
}

func safeRollover(m Metric) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("rollover of %q panicked: %v", m.Name().Key(), p)
		}
	}()
	return m.Rollover()
}

func safeCollect(m Metric) (s []Snapshot, err error) {
	defer func() {
		if p := recover(); p != nil {
			s, err = nil, errors.Errorf("collect of %q panicked: %v", m.Name().Key(), p)
		}
	}()
	s, ok := m.Collect()
	if !ok {
		return nil, nil
	}
	return s, nil
}

func (r *Registry) export(m Metric) {
	if r.exporter == nil {
		return
	}
	if err := r.exporter.Register(m); err != nil {
		r.logger.Warn("exporting metric failed", zap.String("metric", m.Name().Key()), zap.Error(err))
	}
}

func (r *Registry) unexport(name MetricName) {
	if r.exporter == nil {
		return
	}
	if !r.exporter.Unregister(name) {
		r.logger.Debug("metric was not exported", zap.String("metric", name.Key()))
	}
}

func sortMetrics(ms []Metric) {
	sort.Slice(ms, func(i, j int) bool {
		return ms[i].Name().Key() < ms[j].Name().Key()
	})
}
