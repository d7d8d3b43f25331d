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
	"context"
	"time"

	"go.uber.org/zap"
)

// scheduler runs rollover on every tick and a report cycle every reportEvery
// ticks. Ticks never overlap.
type scheduler struct {
	initialDelay time.Duration
	tickInterval time.Duration
	reportEvery  int

	rollover func() error
	report   func(ctx context.Context)
	logger   *zap.Logger
}

// run blocks until ctx is cancelled.
func (s *scheduler) run(ctx context.Context) {
	timer := time.NewTimer(s.initialDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for n := 1; ; n++ {
		s.tick(ctx, n)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (s *scheduler) tick(ctx context.Context, n int) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error("scheduler tick panicked", zap.Int("tick", n), zap.Any("panic", p))
		}
	}()

	if err := s.rollover(); err != nil {
		s.logger.Warn("rollover failed", zap.Int("tick", n), zap.Error(err))
	}
	if n%s.reportEvery == 0 {
		s.report(ctx)
	}
}
