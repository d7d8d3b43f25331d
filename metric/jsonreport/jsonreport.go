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

// Package jsonreport provides a metric.Reporter writing every report as one
// line of JSON.
package jsonreport

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/metricore/metricore/internal/errcapture"
	"github.com/metricore/metricore/metric"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Line is the JSON form of one report.
type Line struct {
	ID      string    `json:"id"`
	Time    time.Time `json:"time"`
	Metrics []Series  `json:"metrics,omitempty"`
	Runtime []Series  `json:"runtime,omitempty"`
}

// Series is the JSON form of one snapshot.
type Series struct {
	Name   string             `json:"name"`
	Kind   string             `json:"kind"`
	Fields map[string]float64 `json:"fields"`
}

// Reporter writes reports to an io.Writer.
type Reporter struct {
	mtx sync.Mutex
	bw  *bufio.Writer
	c   io.Closer
	src string
}

// New returns a Reporter writing to w. If w is an io.Closer, it is closed by
// Close.
func New(w io.Writer) *Reporter {
	r := &Reporter{bw: bufio.NewWriter(w), src: "writer"}
	if c, ok := w.(io.Closer); ok {
		r.c = c
	}
	return r
}

// Open returns a Reporter appending to the file at path. The file is
// created if it does not exist.
func Open(path string) (*Reporter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open report file")
	}
	r := New(f)
	r.src = path
	return r, nil
}

// Report implements metric.Reporter.
func (r *Reporter) Report(_ context.Context, rep *metric.Report) error {
	b, err := json.Marshal(toLine(rep))
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, err := r.bw.Write(b); err != nil {
		return err
	}
	if err := r.bw.WriteByte('\n'); err != nil {
		return err
	}
	return r.bw.Flush()
}

// Close flushes pending output and closes the underlying writer.
func (r *Reporter) Close() (err error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if r.c != nil {
		defer errcapture.Do(&err, r.c.Close, "close %s", r.src)
	}
	return r.bw.Flush()
}

func toLine(rep *metric.Report) Line {
	return Line{
		ID:      rep.ID.String(),
		Time:    rep.Time,
		Metrics: toSeries(rep.Metrics),
		Runtime: toSeries(rep.Runtime),
	}
}

func toSeries(ss []metric.Snapshot) []Series {
	if len(ss) == 0 {
		return nil
	}
	out := make([]Series, 0, len(ss))
	for _, s := range ss {
		fields := map[string]float64{}
		for _, f := range s.Fields() {
			fields[f.Name] = f.Value
		}
		out = append(out, Series{Name: s.Key(), Kind: s.Kind.String(), Fields: fields})
	}
	return out
}

// Decode reads the report lines written by a Reporter.
func Decode(r io.Reader) ([]Line, error) {
	var lines []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		b := sc.Bytes()
		if len(b) == 0 {
			continue
		}
		var l Line
		if err := json.Unmarshal(b, &l); err != nil {
			return lines, errors.Wrapf(err, "decode report line %d", len(lines)+1)
		}
		lines = append(lines, l)
	}
	return lines, sc.Err()
}
