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
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/metricore/metricore/internal/config"
	"github.com/metricore/metricore/metric"
	"github.com/metricore/metricore/metric/graphite"
	"github.com/metricore/metricore/metric/jsonreport"
	"github.com/metricore/metricore/metric/promexport"
	"github.com/metricore/metricore/metric/statsd"
)

// stdout is os.Stdout without Close, so that shutting reporters down leaves
// it open.
var stdout io.Writer = struct{ io.Writer }{os.Stdout}

// buildReporter returns a reporter fanning out to every configured sink. On
// error, the sinks opened so far are closed.
func buildReporter(cfg *config.Config, logger *zap.Logger) (_ metric.Reporter, err error) {
	var reps metric.MultiReporter
	defer func() {
		if err != nil {
			_ = reps.Close()
		}
	}()

	rc := cfg.Reporters
	if g := rc.Graphite; g != nil {
		r, err := graphite.NewReporter(&graphite.Config{Addr: g.Address, Prefix: g.Prefix, Timeout: g.Timeout})
		if err != nil {
			return nil, errors.Wrap(err, "graphite reporter")
		}
		reps = append(reps, r)
	}
	if s := rc.Statsd; s != nil {
		r, err := statsd.NewReporter(&statsd.Config{Addr: s.Address, Prefix: s.Prefix, SampleRate: float32(s.SampleRate)})
		if err != nil {
			return nil, errors.Wrap(err, "statsd reporter")
		}
		reps = append(reps, r)
	}
	if j := rc.JSON; j != nil {
		if j.Path == "-" {
			reps = append(reps, jsonreport.New(stdout))
		} else {
			r, err := jsonreport.Open(j.Path)
			if err != nil {
				return nil, errors.Wrap(err, "json reporter")
			}
			reps = append(reps, r)
		}
	}
	if t := rc.Text; t != nil {
		w := stdout
		if t.Path != "-" {
			f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, errors.Wrap(err, "text reporter")
			}
			w = f
		}
		reps = append(reps, promexport.NewTextReporter(w))
	}

	if len(reps) == 0 {
		logger.Warn("no reporters configured, collected metrics are discarded")
	}
	return reps, nil
}
