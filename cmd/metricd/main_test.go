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
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/efficientgo/core/testutil"
	"go.uber.org/zap"

	"github.com/metricore/metricore/internal/config"
	"github.com/metricore/metricore/metric"
	"github.com/metricore/metricore/metric/jsonreport"
)

func TestBuildReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.jsonl")
	cfg := config.Default()
	cfg.Reporters.JSON = &config.FileConfig{Path: path}

	rep, err := buildReporter(cfg, zap.NewNop())
	testutil.Ok(t, err)

	reps, ok := rep.(metric.MultiReporter)
	testutil.Assert(t, ok, "expected a MultiReporter, got %T", rep)
	testutil.Equals(t, 1, len(reps))

	r := &metric.Report{
		Time:    time.Now(),
		Metrics: []metric.Snapshot{{Name: metric.NewName("a", "b", "c"), Kind: metric.KindCounter, Stats: metric.Statistics{Count: 1}}},
	}
	testutil.Ok(t, rep.Report(context.Background(), r))
	testutil.Ok(t, reps.Close())

	f, err := os.Open(path)
	testutil.Ok(t, err)
	defer f.Close()
	lines, err := jsonreport.Decode(f)
	testutil.Ok(t, err)
	testutil.Equals(t, 1, len(lines))
}

func TestBuildReporterInvalid(t *testing.T) {
	cfg := config.Default()
	cfg.Reporters.JSON = &config.FileConfig{Path: filepath.Join(t.TempDir(), "missing", "metrics.jsonl")}

	_, err := buildReporter(cfg, zap.NewNop())
	testutil.NotOk(t, err)
}

func TestLoadConfigWithoutFileHonoursEnv(t *testing.T) {
	t.Setenv(metric.DisableCollectionEnv, "true")
	defer func(prev string) { cfgFile = prev }(cfgFile)
	cfgFile = ""

	cfg, err := loadConfig()
	testutil.Ok(t, err)
	testutil.Assert(t, cfg.Collection.Disabled, "expected collection to be disabled by the environment")
	testutil.Equals(t, "-", cfg.Reporters.Text.Path)
}

func TestInstrumentHandler(t *testing.T) {
	reg := metric.NewRegistry(metric.WithRuntimeMetrics(false))
	timed := reg.MustTimed(metric.NewName("metricd", "http", "scrape"))

	h := instrumentHandler(timed, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/fail" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	for _, p := range []string{"/ok", "/ok", "/fail"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	testutil.Equals(t, int64(2), timed.SuccessStatistics(true).Count)
	testutil.Equals(t, int64(1), timed.ErrorStatistics(true).Count)
}
