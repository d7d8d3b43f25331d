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
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/metricore/metricore/internal/config"
)

// Version is set by build flags.
var Version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "metricd",
	Short: "Collect and report process metrics",
	Long: `metricd collects runtime and process metrics and periodically reports
the metrics that changed to Graphite, statsd, JSON or text files. With an
exporter configured, the metrics are also served for Prometheus scrapes.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runMain(cmd.Context(), cfg)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration OK (collection disabled: %t, tick %s, report every %s)\n",
			cfg.Collection.Disabled, cfg.Scheduler.TickInterval, cfg.Scheduler.ReportInterval)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "metricd %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path, defaults are used if empty")
	rootCmd.AddCommand(checkCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		cfg := config.Default()
		cfg.Reporters.Text = &config.FileConfig{Path: "-"}
		return cfg, nil
	}
	return config.Load(cfgFile)
}
