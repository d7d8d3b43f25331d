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

// Package config loads the YAML configuration of the metricd daemon.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/metricore/metricore/metric"
)

// CollectionConfig controls metric collection.
type CollectionConfig struct {
	Disabled bool `yaml:"disabled"`
}

// SchedulerConfig controls the report manager.
type SchedulerConfig struct {
	InitialDelay   time.Duration `yaml:"initial_delay"`
	TickInterval   time.Duration `yaml:"tick_interval"`
	ReportInterval time.Duration `yaml:"report_interval"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// GraphiteConfig configures the Graphite reporter.
type GraphiteConfig struct {
	Address string        `yaml:"addr"`
	Prefix  string        `yaml:"prefix"`
	Timeout time.Duration `yaml:"timeout"`
}

// StatsdConfig configures the statsd reporter.
type StatsdConfig struct {
	Address    string  `yaml:"addr"`
	Prefix     string  `yaml:"prefix"`
	SampleRate float64 `yaml:"sample_rate"`
}

// FileConfig configures a reporter writing to a file. The path "-" is
// standard output.
type FileConfig struct {
	Path string `yaml:"path"`
}

// ReportersConfig lists the reporters. Omitted reporters are disabled.
type ReportersConfig struct {
	Graphite *GraphiteConfig `yaml:"graphite"`
	Statsd   *StatsdConfig   `yaml:"statsd"`
	JSON     *FileConfig     `yaml:"json"`
	Text     *FileConfig     `yaml:"text"`
}

// PrometheusConfig configures the scrape endpoint.
type PrometheusConfig struct {
	ListenAddress string `yaml:"listen_addr"`
	Path          string `yaml:"path"`
}

// ExporterConfig configures the exporter. Omit it to disable exporting.
type ExporterConfig struct {
	Prometheus *PrometheusConfig `yaml:"prometheus"`
}

// Config describes all daemon configuration options.
type Config struct {
	Collection CollectionConfig `yaml:"collection"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Log        LogConfig        `yaml:"log"`
	Reporters  ReportersConfig  `yaml:"reporters"`
	Exporter   ExporterConfig   `yaml:"exporter"`
}

// Default returns the configuration used without a config file. Like Parse,
// it honours metric.DisableCollectionEnv.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	applyEnv(cfg)
	return cfg
}

// Load reads, defaults and validates the configuration file at path. The
// collection switch is overridden by metric.DisableCollectionEnv.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %q", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// Parse parses, defaults and validates a YAML configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse")
	}
	ApplyDefaults(&cfg)
	applyEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills in unset values.
func ApplyDefaults(cfg *Config) {
	if cfg.Scheduler.InitialDelay == 0 {
		cfg.Scheduler.InitialDelay = metric.DefaultInitialDelay
	}
	if cfg.Scheduler.TickInterval == 0 {
		cfg.Scheduler.TickInterval = metric.DefaultTickInterval
	}
	if cfg.Scheduler.ReportInterval == 0 {
		cfg.Scheduler.ReportInterval = metric.DefaultReportInterval
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if s := cfg.Reporters.Statsd; s != nil && s.SampleRate == 0 {
		s.SampleRate = 1
	}
	if p := cfg.Exporter.Prometheus; p != nil && p.Path == "" {
		p.Path = "/metrics"
	}
}

// applyEnv applies the environment overrides.
func applyEnv(cfg *Config) {
	if metric.CollectionDisabledFromEnv() {
		cfg.Collection.Disabled = true
	}
}

// Validate checks the configuration for errors.
func Validate(cfg *Config) error {
	if cfg.Scheduler.InitialDelay < 0 {
		return errors.New("scheduler initial delay must not be negative")
	}
	if cfg.Scheduler.TickInterval <= 0 {
		return errors.New("scheduler tick interval must be positive")
	}
	if cfg.Scheduler.ReportInterval < cfg.Scheduler.TickInterval {
		return errors.New("scheduler report interval must not be shorter than the tick interval")
	}
	if _, err := cfg.ZapLevel(); err != nil {
		return err
	}

	if g := cfg.Reporters.Graphite; g != nil {
		if g.Address == "" {
			return errors.New("missing graphite reporter address")
		}
		if g.Timeout < 0 {
			return errors.New("graphite timeout must not be negative")
		}
	}
	if s := cfg.Reporters.Statsd; s != nil {
		if s.Address == "" {
			return errors.New("missing statsd reporter address")
		}
		if s.SampleRate < 0 || s.SampleRate > 1 {
			return errors.New("statsd sample rate must be in range [0.0, 1.0]")
		}
	}
	if j := cfg.Reporters.JSON; j != nil && j.Path == "" {
		return errors.New("missing json reporter path")
	}
	if t := cfg.Reporters.Text; t != nil && t.Path == "" {
		return errors.New("missing text reporter path")
	}
	if p := cfg.Exporter.Prometheus; p != nil && p.ListenAddress == "" {
		return errors.New("missing prometheus exporter listen address")
	}
	return nil
}

// ZapLevel returns the configured log level.
func (c *Config) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return lvl, errors.Wrap(err, "log level")
	}
	return lvl, nil
}
