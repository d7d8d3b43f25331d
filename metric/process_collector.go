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
	"math"
	"runtime/pprof"
	"time"

	"github.com/prometheus/procfs"
	"go.uber.org/zap"
)

// processSource reads process level values. procfs is used where available.
type processSource struct {
	fs    procfs.FS
	hasFS bool
	start time.Time
	now   func() time.Time
}

func newProcessSource(now func() time.Time, logger *zap.Logger) *processSource {
	src := &processSource{now: now, start: now()}

	fs, err := procfs.NewDefaultFS()
	if err != nil {
		logger.Debug("procfs unavailable, using fallbacks for process metrics", zap.Error(err))
		return src
	}
	src.fs, src.hasFS = fs, true

	if p, err := fs.Self(); err == nil {
		if stat, err := p.Stat(); err == nil {
			if secs, err := stat.StartTime(); err == nil {
				whole, frac := math.Modf(secs)
				src.start = time.Unix(int64(whole), int64(frac*1e9))
			}
		}
	}
	return src
}

// uptime returns the milliseconds since the process started.
func (s *processSource) uptime() (float64, error) {
	return float64(s.now().Sub(s.start).Milliseconds()), nil
}

// threads returns the number of OS threads of the process.
func (s *processSource) threads() (float64, error) {
	if s.hasFS {
		if p, err := s.fs.Self(); err == nil {
			if stat, err := p.Stat(); err == nil {
				return float64(stat.NumThreads), nil
			}
		}
	}
	return float64(pprof.Lookup("threadcreate").Count()), nil
}

// loadAverage returns the one minute system load average, or a negative
// value if it is not available.
func (s *processSource) loadAverage() (float64, error) {
	if !s.hasFS {
		return -1, nil
	}
	avg, err := s.fs.LoadAvg()
	if err != nil {
		return -1, nil
	}
	return avg.Load1, nil
}

// newProcessMetrics returns the thread, uptime, load average and CPU time
// metrics. Load average and CPU time are left out where the platform does not
// provide them.
func newProcessMetrics(now func() time.Time, logger *zap.Logger) []Metric {
	src := newProcessSource(now, logger)

	metrics := []Metric{
		NewGauge(NewName(RuntimeGroup, "threads", "current"), src.threads),
		NewGauge(NewName(RuntimeGroup, "system", "uptime"), src.uptime),
	}
	if v, _ := src.loadAverage(); v >= 0 {
		metrics = append(metrics, NewGauge(NewName(RuntimeGroup, "system", "os.loadAverage"), src.loadAverage))
	} else {
		logger.Debug("system load average unavailable, not registering it")
	}
	if _, err := processCPUTime(); err == nil {
		metrics = append(metrics, NewGaugeCounter(NewName(RuntimeGroup, "system", "process.cpuTime"), func() (int64, error) {
			d, err := processCPUTime()
			return d.Milliseconds(), err
		}))
	} else {
		logger.Debug("process cpu time unavailable, not registering it", zap.Error(err))
	}
	return metrics
}
