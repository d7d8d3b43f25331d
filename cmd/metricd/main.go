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

// metricd collects the runtime and process metrics of its own process and
// reports them to the configured sinks. It is a reference wiring of the
// metric package and its reporters.
//
// Usage:
//
//	# Run with defaults: runtime metrics, text reports on stdout
//	metricd
//
//	# Run with a config file
//	metricd --config /etc/metricd.yaml
//
//	# Validate a config file
//	metricd check --config /etc/metricd.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
