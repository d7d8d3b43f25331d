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
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultInitialDelay is the delay before the first scheduler tick.
	DefaultInitialDelay = 5 * time.Second
	// DefaultTickInterval is the interval between scheduler ticks.
	DefaultTickInterval = 2 * time.Second
	// DefaultReportInterval is the interval between reports.
	DefaultReportInterval = 60 * time.Second
)

// Report is the set of snapshots handed to a Reporter in one report cycle.
type Report struct {
	ID      uuid.UUID
	Time    time.Time
	Metrics []Snapshot
	Runtime []Snapshot
}

// Empty reports whether the report holds no snapshots.
func (r *Report) Empty() bool {
	return len(r.Metrics) == 0 && len(r.Runtime) == 0
}

// All returns the runtime snapshots followed by the application snapshots.
func (r *Report) All() []Snapshot {
	all := make([]Snapshot, 0, len(r.Metrics)+len(r.Runtime))
	all = append(all, r.Runtime...)
	return append(all, r.Metrics...)
}

// Reporter sends reports to a sink. A Reporter that implements io.Closer is
// closed when its ReportManager shuts down.
type Reporter interface {
	Report(ctx context.Context, r *Report) error
}

// ReporterFunc is an adapter to allow the use of ordinary functions as
// Reporter.
type ReporterFunc func(ctx context.Context, r *Report) error

// Report calls f(ctx, r).
func (f ReporterFunc) Report(ctx context.Context, r *Report) error {
	return f(ctx, r)
}

// MultiReporter sends every report to all of its reporters. A failing
// reporter does not keep the report from the others.
type MultiReporter []Reporter

// Report implements Reporter.
func (m MultiReporter) Report(ctx context.Context, r *Report) error {
	var errs MultiError
	for _, rep := range m {
		errs.Append(rep.Report(ctx, r))
	}
	return errs.MaybeUnwrap()
}

// Close closes all reporters implementing io.Closer.
func (m MultiReporter) Close() error {
	var errs MultiError
	for _, rep := range m {
		if c, ok := rep.(io.Closer); ok {
			errs.Append(c.Close())
		}
	}
	return errs.MaybeUnwrap()
}

type reportManagerConfig struct {
	initialDelay   time.Duration
	tickInterval   time.Duration
	reportInterval time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// ReportManagerOption configures a ReportManager.
type ReportManagerOption func(*reportManagerConfig)

// WithInitialDelay sets the delay before the first tick.
func WithInitialDelay(d time.Duration) ReportManagerOption {
	return func(c *reportManagerConfig) { c.initialDelay = d }
}

// WithTickInterval sets the interval of the rollover ticks.
func WithTickInterval(d time.Duration) ReportManagerOption {
	return func(c *reportManagerConfig) { c.tickInterval = d }
}

// WithReportInterval sets the interval of the reports. It is rounded down to
// a multiple of the tick interval, but to no less than one tick.
func WithReportInterval(d time.Duration) ReportManagerOption {
	return func(c *reportManagerConfig) { c.reportInterval = d }
}

// WithReportLogger sets the logger of the manager and its scheduler.
func WithReportLogger(l *zap.Logger) ReportManagerOption {
	return func(c *reportManagerConfig) { c.logger = l }
}

// WithReportClock sets the time source of report timestamps.
func WithReportClock(now func() time.Time) ReportManagerOption {
	return func(c *reportManagerConfig) { c.now = now }
}

// ReportManager drives the periodic rollover of a Registry and sends the
// collected metrics to a Reporter.
type ReportManager struct {
	registry *Registry
	reporter Reporter
	logger   *zap.Logger
	now      func() time.Time

	// reportMtx serializes report cycles so that every collected snapshot is
	// handed to the reporter exactly once and in order.
	reportMtx sync.Mutex

	cancel       context.CancelFunc
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewReportManager returns a ReportManager for the given registry and starts
// its scheduler. Non-positive durations fall back to the defaults. A nil
// reporter discards the collected metrics.
func NewReportManager(registry *Registry, reporter Reporter, opts ...ReportManagerOption) *ReportManager {
	cfg := &reportManagerConfig{
		initialDelay:   DefaultInitialDelay,
		tickInterval:   DefaultTickInterval,
		reportInterval: DefaultReportInterval,
		logger:         zap.NewNop(),
		now:            time.Now,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.initialDelay < 0 {
		cfg.initialDelay = DefaultInitialDelay
	}
	if cfg.tickInterval <= 0 {
		cfg.tickInterval = DefaultTickInterval
	}
	if cfg.reportInterval <= 0 {
		cfg.reportInterval = DefaultReportInterval
	}
	if reporter == nil {
		reporter = ReporterFunc(func(context.Context, *Report) error { return nil })
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &ReportManager{
		registry: registry,
		reporter: reporter,
		logger:   cfg.logger,
		now:      cfg.now,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s := &scheduler{
		initialDelay: cfg.initialDelay,
		tickInterval: cfg.tickInterval,
		reportEvery:  reportEvery(cfg.reportInterval, cfg.tickInterval),
		rollover:     registry.Rollover,
		logger:       cfg.logger.With(zap.String("component", "scheduler")),

		// Shutdown stops the ticks but lets a running report cycle finish.
		report: func(ctx context.Context) { _ = m.Report(context.WithoutCancel(ctx)) },
	}
	go func() {
		defer close(m.done)
		s.run(ctx)
	}()
	return m
}

func reportEvery(report, tick time.Duration) int {
	if n := int(report / tick); n > 1 {
		return n
	}
	return 1
}

// Report runs one report cycle: it collects the non-empty application and
// runtime metrics and sends them to the reporter unless there are none. A
// reporter failure is logged and returned. The collected snapshots are not
// retried.
func (m *ReportManager) Report(ctx context.Context) error {
	m.reportMtx.Lock()
	defer m.reportMtx.Unlock()

	r := &Report{
		ID:      uuid.New(),
		Time:    m.now(),
		Metrics: m.registry.CollectNonEmptyMetrics(),
		Runtime: m.registry.CollectNonEmptyRuntimeMetrics(),
	}
	if r.Empty() {
		return nil
	}
	if err := m.reporter.Report(ctx, r); err != nil {
		m.logger.Error("sending report failed",
			zap.Stringer("report_id", r.ID),
			zap.Int("metrics", len(r.Metrics)+len(r.Runtime)),
			zap.Error(err),
		)
		return errors.Wrapf(err, "report %s", r.ID)
	}
	m.logger.Debug("report sent", zap.Stringer("report_id", r.ID), zap.Int("metrics", len(r.Metrics)+len(r.Runtime)))
	return nil
}

// Shutdown stops the scheduler and waits for a tick in progress to complete,
// including its report cycle. Then it closes the reporter if it is an
// io.Closer. It is safe to call Shutdown more than once.
func (m *ReportManager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.cancel()
		<-m.done

		if c, ok := m.reporter.(io.Closer); ok {
			if err := c.Close(); err != nil {
				m.logger.Warn("closing reporter failed", zap.Error(err))
			}
		}
	})
}

// Done returns a channel that is closed once the scheduler has stopped.
func (m *ReportManager) Done() <-chan struct{} { return m.done }
