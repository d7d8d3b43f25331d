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

// Package errcapture merges the errors of deferred cleanup calls, like
// closing a report file, into the error returned by the calling function.
package errcapture

import (
	"os"

	"github.com/pkg/errors"

	"github.com/metricore/metricore/metric"
)

// Do calls doer and merges its error, annotated with format and a, into err.
// Closing something twice is not treated as an error.
//
//	defer errcapture.Do(&err, f.Close, "close report file %s", path)
func Do(err *error, doer func() error, format string, a ...interface{}) {
	derr := doer()
	if err == nil || derr == nil {
		return
	}
	if errors.Is(derr, os.ErrClosed) {
		return
	}

	var errs metric.MultiError
	errs.Append(*err)
	errs.Append(errors.Wrapf(derr, format, a...))
	*err = errs
}
