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

package promexport

import (
	"context"
	"io"
	"sort"
	"sync"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/metricore/metricore/metric"
)

// TextReporter is a metric.Reporter writing each report to an io.Writer in
// the Prometheus text exposition format. Samples carry the report time as
// timestamp.
type TextReporter struct {
	mtx sync.Mutex
	w   io.Writer
}

// NewTextReporter returns a TextReporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report implements metric.Reporter.
func (r *TextReporter) Report(_ context.Context, rep *metric.Report) error {
	mfs := toMetricFamilies(rep)

	r.mtx.Lock()
	defer r.mtx.Unlock()

	enc := expfmt.NewEncoder(r.w, expfmt.FmtText)
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the writer if it is an io.Closer.
func (r *TextReporter) Close() error {
	if c, ok := r.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// toMetricFamilies converts the snapshots of a report into gauge families
// sorted by name.
func toMetricFamilies(rep *metric.Report) []*dto.MetricFamily {
	ts := proto.Int64(rep.Time.UnixMilli())
	byName := map[string]*dto.MetricFamily{}

	for _, s := range rep.All() {
		name, labels, values := seriesOf(s)
		mf, ok := byName[name]
		if !ok {
			mf = &dto.MetricFamily{
				Name: proto.String(name),
				Help: proto.String(help(s)),
				Type: dto.MetricType_GAUGE.Enum(),
			}
			byName[name] = mf
		}
		for _, f := range s.Fields() {
			lps := []*dto.LabelPair{{Name: proto.String(fieldLabel), Value: proto.String(f.Name)}}
			for i := range labels {
				lps = append(lps, &dto.LabelPair{Name: proto.String(labels[i]), Value: proto.String(values[i])})
			}
			mf.Metric = append(mf.Metric, &dto.Metric{
				Label:       lps,
				Gauge:       &dto.Gauge{Value: proto.Float64(f.Value)},
				TimestampMs: ts,
			})
		}
	}

	mfs := make([]*dto.MetricFamily, 0, len(byName))
	for _, mf := range byName {
		mfs = append(mfs, mf)
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })
	return mfs
}
