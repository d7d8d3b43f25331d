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
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/efficientgo/core/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/metricore/metricore/metric"
)

func TestExporter(t *testing.T) {
	preg := prometheus.NewRegistry()
	exp, err := New(preg)
	testutil.Ok(t, err)

	reg := metric.NewRegistry(metric.WithExporter(exp), metric.WithRuntimeMetrics(false))
	hits := reg.MustCounter(metric.NewName("web", "handler", "hits"))
	hits.Add(3)
	reg.MustTimed(metric.NewName("svc", "db", "query")).AddEventDuration(true, 20*time.Nanosecond)

	want := `
# HELP svc_db_query timed metric svc:type=db,name=query
# TYPE svc_db_query gauge
svc_db_query{field="count",partition="error"} 0
svc_db_query{field="count",partition="success"} 1
svc_db_query{field="max",partition="error"} 0
svc_db_query{field="max",partition="success"} 20
svc_db_query{field="mean",partition="error"} 0
svc_db_query{field="mean",partition="success"} 20
svc_db_query{field="min",partition="error"} 0
svc_db_query{field="min",partition="success"} 20
svc_db_query{field="total",partition="error"} 0
svc_db_query{field="total",partition="success"} 20
# HELP web_handler_hits counter metric web:type=handler,name=hits
# TYPE web_handler_hits gauge
web_handler_hits{field="count"} 3
`
	testutil.Ok(t, promtestutil.GatherAndCompare(preg, strings.NewReader(want)))
	testutil.Equals(t, 2, exp.Len())

	reg.Clear()
	testutil.Equals(t, 0, exp.Len())
	testutil.Equals(t, 0, promtestutil.CollectAndCount(exp))
}

func TestExporterReplacesSameName(t *testing.T) {
	exp, err := New(prometheus.NewRegistry())
	testutil.Ok(t, err)

	reg := metric.NewRegistry(metric.WithExporter(exp), metric.WithRuntimeMetrics(false))
	name := metric.NewName("app", "pool", "size")
	reg.RegisterGauge(name, func() (float64, error) { return 1, nil })
	reg.RegisterGauge(name, func() (float64, error) { return 2, nil })
	testutil.Ok(t, reg.Rollover())

	testutil.Equals(t, 1, exp.Len())
	testutil.Equals(t, 2.0, promtestutil.ToFloat64(exp))
	testutil.Assert(t, !exp.Unregister(metric.NewName("app", "pool", "other")))
}

func TestExporterRejectsCollidingNames(t *testing.T) {
	preg := prometheus.NewRegistry()
	exp, err := New(preg)
	testutil.Ok(t, err)

	reg := metric.NewRegistry(metric.WithExporter(exp), metric.WithRuntimeMetrics(false))
	reg.MustCounter(metric.NewName("a", "b", "c-d")).Inc()
	reg.MustCounter(metric.NewName("a", "b", "c_d")).Inc()

	// The colliding metric is still recorded, only not exported.
	testutil.Equals(t, 2, len(reg.Metrics()))
	testutil.Equals(t, 1, exp.Len())
	_, err = preg.Gather()
	testutil.Ok(t, err)

	testutil.NotOk(t, exp.Register(metric.NewCounter(metric.NewName("a", "b", "c_d"))))
	testutil.Assert(t, exp.Unregister(metric.NewName("a", "b", "c-d")))
	fresh := metric.NewCounter(metric.NewName("a", "b", "c_d"))
	fresh.Add(4)
	testutil.Ok(t, exp.Register(fresh))
	testutil.Equals(t, 4.0, promtestutil.ToFloat64(exp))
}

func TestSanitizeName(t *testing.T) {
	for in, want := range map[string]string{
		"web.handler.hits":          "web_handler_hits",
		"jvm.system.os.loadAverage": "jvm_system_os_loadAverage",
		"jvm.gc.go-gc.count":        "jvm_gc_go_gc_count",
		"9lives":                    "_9lives",
		"ns:sub.name":               "ns:sub_name",
	} {
		testutil.Equals(t, want, sanitizeName(in))
	}
}

func TestTextReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextReporter(&buf)

	rep := &metric.Report{
		Time: time.UnixMilli(1477043083000),
		Metrics: []metric.Snapshot{
			{Name: metric.NewName("web", "handler", "hits"), Kind: metric.KindCounter, Stats: metric.Statistics{Count: 3}},
			{
				Name:      metric.NewName("svc", "db", "query"),
				Kind:      metric.KindTimed,
				Partition: metric.PartitionSuccess,
				Stats:     metric.Statistics{Count: 2, Total: 30, Min: 10, Max: 20},
			},
		},
		Runtime: []metric.Snapshot{
			{Name: metric.NewName("jvm", "gc", "go-gc.count"), Kind: metric.KindGaugeCounter, Delta: 2, Total: 40},
		},
	}
	testutil.Ok(t, r.Report(context.Background(), rep))

	out := buf.String()
	for _, want := range []string{
		"# TYPE jvm_gc_go_gc_count gauge\n",
		`jvm_gc_go_gc_count{field="delta"} 2 1477043083000` + "\n",
		`jvm_gc_go_gc_count{field="total"} 40 1477043083000` + "\n",
		`svc_db_query{field="mean",partition="success"} 15 1477043083000` + "\n",
		`web_handler_hits{field="count"} 3 1477043083000` + "\n",
	} {
		testutil.Assert(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
	testutil.Assert(t, strings.Index(out, "jvm_gc") < strings.Index(out, "svc_db") &&
		strings.Index(out, "svc_db") < strings.Index(out, "web_handler"), "families not sorted:\n%s", out)
}
