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
	"bytes"
	"fmt"

	"github.com/pkg/errors"
)

// ErrKindMismatch is returned when a name is looked up as a different kind
// than the one it was created with.
var ErrKindMismatch = errors.New("metric kind mismatch")

// CreationError is returned by the Registry if a Factory fails to create a
// metric. The registry is left unchanged and the next lookup retries.
type CreationError struct {
	Name MetricName
	Kind Kind
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("creating %s metric %q: %v", e.Kind, e.Name.Key(), e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// kindMismatch wraps ErrKindMismatch with the kinds involved.
func kindMismatch(name MetricName, want, got Kind) error {
	return errors.Wrapf(ErrKindMismatch, "%q requested as %s but registered as %s", name.Key(), want, got)
}

// MultiError is a slice of errors implementing the error interface. It is
// used to report all failures of a scheduler tick at once.
type MultiError []error

func (errs MultiError) Error() string {
	if len(errs) == 0 {
		return ""
	}
	buf := &bytes.Buffer{}
	fmt.Fprintf(buf, "%d error(s) occurred:", len(errs))
	for _, err := range errs {
		fmt.Fprintf(buf, "\n* %s", err)
	}
	return buf.String()
}

// Append appends the provided error if it is not nil.
func (errs *MultiError) Append(err error) {
	if err != nil {
		*errs = append(*errs, err)
	}
}

// MaybeUnwrap returns nil if len(errs) is 0. It returns the first and only
// contained error as error if len(errs is 1). In all other cases, it returns
// the MultiError directly. This is helpful for returning a MultiError in a way
// that only uses the MultiError if needed.
func (errs MultiError) MaybeUnwrap() error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errs
	}
}
