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

// Package statsd provides a metric.Reporter emitting reports to a statsd
// server.
package statsd

import (
	"context"
	"io"
	"math"
	"net/url"
	"time"

	"github.com/cactus/go-statsd-client/v5/statsd"
	"github.com/pkg/errors"

	"github.com/metricore/metricore/metric"
)

// Sender is the part of statsd.Statter used by the Reporter.
type Sender interface {
	Inc(stat string, value int64, rate float32, tags ...statsd.Tag) error
	Gauge(stat string, value int64, rate float32, tags ...statsd.Tag) error
	TimingDuration(stat string, delta time.Duration, rate float32, tags ...statsd.Tag) error
}

// Config defines the statsd reporter config.
type Config struct {
	// The UDP address of the statsd server. Required.
	Addr string
	// Prefix prepended to every stat. Defaults to empty string.
	Prefix string
	// SampleRate sent with every stat. Defaults to 1.
	SampleRate float32
}

// Reporter emits counters and the counts of value and timed metrics as statsd
// counters, the mean of timed metrics as timings and gauges as statsd gauges.
type Reporter struct {
	sender Sender
	rate   float32
}

// NewReporter returns a Reporter sending to the configured server.
func NewReporter(c *Config) (*Reporter, error) {
	if c.Addr == "" {
		return nil, errors.New("missing address")
	}
	client, err := statsd.NewClientWithConfig(&statsd.ClientConfig{
		Address: c.Addr,
		Prefix:  c.Prefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create statsd client")
	}
	return NewReporterWithSender(client, c.SampleRate), nil
}

// NewReporterWithSender returns a Reporter emitting through s. A rate outside
// (0, 1] is replaced by 1.
func NewReporterWithSender(s Sender, rate float32) *Reporter {
	if rate <= 0 || rate > 1 {
		rate = 1
	}
	return &Reporter{sender: s, rate: rate}
}

// Report implements metric.Reporter.
func (r *Reporter) Report(ctx context.Context, rep *metric.Report) error {
	var errs metric.MultiError
	for _, s := range rep.All() {
		if err := ctx.Err(); err != nil {
			errs.Append(err)
			break
		}
		errs.Append(r.emit(s))
	}
	return errs.MaybeUnwrap()
}

func (r *Reporter) emit(s metric.Snapshot) error {
	stat := url.PathEscape(s.Key())

	switch s.Kind {
	case metric.KindCounter:
		return r.sender.Inc(stat, s.Stats.Count, r.rate)
	case metric.KindGauge:
		return r.sender.Gauge(stat, int64(math.Round(s.Value)), r.rate)
	case metric.KindGaugeCounter:
		return r.sender.Inc(stat, s.Delta, r.rate)
	case metric.KindTimed:
		if err := r.sender.Inc(stat+".count", s.Stats.Count, r.rate); err != nil {
			return err
		}
		return r.sender.TimingDuration(stat, time.Duration(math.Round(s.Stats.Mean())), r.rate)
	default:
		if err := r.sender.Inc(stat+".count", s.Stats.Count, r.rate); err != nil {
			return err
		}
		return r.sender.Gauge(stat+".mean", int64(math.Round(s.Stats.Mean())), r.rate)
	}
}

// Close closes the sender if it is an io.Closer.
func (r *Reporter) Close() error {
	if c, ok := r.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
