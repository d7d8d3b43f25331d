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

// Package graphite provides a metric.Reporter sending reports to a Graphite
// server using the plaintext protocol.
package graphite

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/common/model"

	"github.com/metricore/metricore/metric"
)

const (
	defaultTimeout        = 15 * time.Second
	millisecondsPerSecond = 1000
)

// Config defines the Graphite reporter config.
type Config struct {
	// The address to send data to. Required.
	Addr string

	// The prefix for the sent Graphite metrics. Defaults to empty string.
	Prefix string

	// The timeout for connecting and sending. Defaults to 15 seconds.
	Timeout time.Duration
}

// Reporter sends every report over a new TCP connection, one line per field
// of each snapshot:
//
//	prefix.group.type.name.field value timestamp
type Reporter struct {
	addr    string
	prefix  string
	timeout time.Duration
}

// NewReporter returns a Reporter for the given config.
func NewReporter(c *Config) (*Reporter, error) {
	if c.Addr == "" {
		return nil, errors.New("missing address")
	}
	r := &Reporter{addr: c.Addr, prefix: c.Prefix, timeout: c.Timeout}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}
	return r, nil
}

// Report implements metric.Reporter.
func (r *Reporter) Report(ctx context.Context, rep *metric.Report) error {
	if rep.Empty() {
		return nil
	}

	d := net.Dialer{Timeout: r.timeout}
	conn, err := d.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return errors.Wrap(err, "dial graphite")
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(r.timeout)); err != nil {
		return err
	}
	return writeReport(conn, rep, r.prefix)
}

func writeReport(w io.Writer, rep *metric.Report, prefix string) error {
	ts := int64(model.TimeFromUnixNano(rep.Time.UnixNano())) / millisecondsPerSecond

	buf := bufio.NewWriter(w)
	for _, s := range rep.All() {
		key := s.Key()
		for _, f := range s.Fields() {
			if prefix != "" {
				if _, err := buf.WriteString(prefix); err != nil {
					return err
				}
				if err := buf.WriteByte('.'); err != nil {
					return err
				}
			}
			if err := writePath(buf, key); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(buf, ".%s %g %d\n", f.Name, f.Value, ts); err != nil {
				return err
			}
		}
	}
	return buf.Flush()
}

// writePath writes the segments of a canonical key, each one sanitized.
func writePath(buf *bufio.Writer, key string) error {
	for i, seg := range strings.Split(key, ".") {
		if i > 0 {
			if err := buf.WriteByte('.'); err != nil {
				return err
			}
		}
		if err := writeSanitized(buf, seg); err != nil {
			return err
		}
	}
	return nil
}

func writeSanitized(buf *bufio.Writer, s string) error {
	prevUnderscore := false

	for _, c := range s {
		c = replaceInvalidRune(c)
		if c == '_' {
			if prevUnderscore {
				continue
			}
			prevUnderscore = true
		} else {
			prevUnderscore = false
		}
		if _, err := buf.WriteRune(c); err != nil {
			return err
		}
	}

	return nil
}

func replaceInvalidRune(c rune) rune {
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == ':' || c == '-' || (c >= '0' && c <= '9')) {
		return '_'
	}
	return c
}
