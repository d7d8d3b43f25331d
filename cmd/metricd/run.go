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

package main

import (
	"context"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/metricore/metricore/internal/config"
	"github.com/metricore/metricore/metric"
	"github.com/metricore/metricore/metric/promexport"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	lvl, err := cfg.ZapLevel()
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}

func runMain(ctx context.Context, cfg *config.Config) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return errors.Wrap(err, "create logger")
	}
	defer func() { _ = logger.Sync() }()

	opts := []metric.Option{
		metric.WithCollectionDisabled(cfg.Collection.Disabled),
		metric.WithLogger(logger.With(zap.String("component", "registry"))),
	}

	var (
		preg *prometheus.Registry
		exp  *promexport.Exporter
	)
	if cfg.Exporter.Prometheus != nil {
		preg = prometheus.NewRegistry()
		if exp, err = promexport.New(preg); err != nil {
			return err
		}
		opts = append(opts, metric.WithExporter(exp))
	}
	reg := metric.NewRegistry(opts...)

	reporter, err := buildReporter(cfg, logger)
	if err != nil {
		return err
	}
	mgr := metric.NewReportManager(reg, reporter,
		metric.WithInitialDelay(cfg.Scheduler.InitialDelay),
		metric.WithTickInterval(cfg.Scheduler.TickInterval),
		metric.WithReportInterval(cfg.Scheduler.ReportInterval),
		metric.WithReportLogger(logger.With(zap.String("component", "report"))),
	)
	logger.Info("metricd started",
		zap.Bool("collection_disabled", reg.Disabled()),
		zap.Int("runtime_metrics", len(reg.RuntimeMetrics())),
	)

	g := &run.Group{}
	{
		g.Add(func() error {
			<-mgr.Done()
			return nil
		}, func(error) {
			mgr.Shutdown()
		})
	}
	if p := cfg.Exporter.Prometheus; p != nil {
		mux := http.NewServeMux()
		mux.Handle(p.Path, instrumentHandler(
			reg.MustTimed(metric.NewName("metricd", "http", "scrape")),
			promhttp.HandlerFor(preg, promhttp.HandlerOpts{EnableOpenMetrics: true}),
		))
		srv := &http.Server{Addr: p.ListenAddress, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		g.Add(func() error {
			logger.Info("starting HTTP server", zap.String("addr", p.ListenAddress), zap.String("path", p.Path))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "starting web server")
			}
			return nil
		}, func(error) {
			if err := srv.Close(); err != nil {
				logger.Warn("failed to stop web server", zap.Error(err))
			}
		})
	}
	g.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	err = g.Run()
	var sig run.SignalError
	if errors.As(err, &sig) {
		logger.Info("shutting down", zap.Stringer("signal", sig.Signal))
		return nil
	}
	return err
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrumentHandler records the duration of every request on t. Responses
// with a status below 400 count as success.
func instrumentHandler(t metric.Timed, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		defer t.OperationEnd(start, func() bool { return rec.status < http.StatusBadRequest })
		next.ServeHTTP(rec, r)
	})
}
