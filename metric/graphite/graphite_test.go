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

package graphite

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/metricore/metricore/metric"
)

func sanitize(s string) string {
	var b bytes.Buffer
	w := bufio.NewWriter(&b)
	if err := writeSanitized(w, s); err != nil {
		panic(err)
	}
	w.Flush()
	return b.String()
}

func TestSanitize(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{in: "hello", out: "hello"},
		{in: "hE/l1o", out: "hE_l1o"},
		{in: "he,*ll(.o", out: "he_ll_o"},
		{in: "hello_there%^&", out: "hello_there_"},
		{in: "load average", out: "load_average"},
	}

	for i, tc := range testCases {
		if want, got := tc.out, sanitize(tc.in); want != got {
			t.Errorf("test case index %d: got sanitized string %s, want %s", i, got, want)
		}
	}
}

func testReport() *metric.Report {
	return &metric.Report{
		Time: time.Unix(1477043083, 0),
		Metrics: []metric.Snapshot{
			{
				Name:  metric.NewName("web", "handler", "hits"),
				Kind:  metric.KindCounter,
				Stats: metric.Statistics{Count: 3},
			},
			{
				Name:      metric.NewName("svc", "db", "query"),
				Kind:      metric.KindTimed,
				Partition: metric.PartitionSuccess,
				Stats:     metric.Statistics{Count: 2, Total: 30, Min: 10, Max: 20},
			},
		},
		Runtime: []metric.Snapshot{
			{Name: metric.NewName("jvm", "system", "uptime"), Kind: metric.KindGauge, Value: 1500},
		},
	}
}

func TestWriteReport(t *testing.T) {
	want := `prefix.jvm.system.uptime.value 1500 1477043083
prefix.web.handler.hits.count 3 1477043083
prefix.svc.db.query.success.count 2 1477043083
prefix.svc.db.query.success.total 30 1477043083
prefix.svc.db.query.success.min 10 1477043083
prefix.svc.db.query.success.max 20 1477043083
prefix.svc.db.query.success.mean 15 1477043083
`
	var buf bytes.Buffer
	if err := writeReport(&buf, testReport(), "prefix"); err != nil {
		t.Fatalf("error: %v", err)
	}
	if got := buf.String(); want != got {
		t.Errorf("wanted \n%s\n, got \n%s\n", want, got)
	}
}

func TestReport(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	received := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			received <- err.Error()
			return
		}
		defer conn.Close()
		b, _ := io.ReadAll(conn)
		received <- string(b)
	}()

	r, err := NewReporter(&Config{Addr: ln.Addr().String(), Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Report(context.Background(), testReport()); err != nil {
		t.Fatalf("error: %v", err)
	}

	got := <-received
	if want := "jvm.system.uptime.value 1500 1477043083\n"; len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("unexpected first line in\n%s", got)
	}
}

func TestNewReporterMissingAddr(t *testing.T) {
	if _, err := NewReporter(&Config{}); err == nil {
		t.Error("expected error for missing address")
	}
}
