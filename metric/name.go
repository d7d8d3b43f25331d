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
	"strings"

	"github.com/cespare/xxhash/v2"
)

// separator joins the parts of a canonical key.
const separator = "."

// MetricName is the immutable identity of a metric. It consists of a group, a
// type and a name. Two MetricNames with the same Key are the same identity.
//
// MetricName is a comparable value type and is safe to share between
// goroutines.
type MetricName struct {
	group string
	typ   string
	name  string
	key   string
}

// NewName returns the MetricName for the given group, type and name. Any of
// the parts may be empty, in which case it is omitted from the key.
func NewName(group, typ, name string) MetricName {
	return MetricName{
		group: group,
		typ:   typ,
		name:  name,
		key:   joinKey(group, typ, name),
	}
}

// ParseName parses a canonical key back into a MetricName. The first segment
// is the group and the last segment is the name; everything in between is the
// type. A key with two segments has no type and a key with a single segment
// only has a name.
func ParseName(s string) MetricName {
	s = strings.Trim(s, separator)
	first := strings.Index(s, separator)
	if first < 0 {
		return NewName("", "", s)
	}
	last := strings.LastIndex(s, separator)
	if first == last {
		return NewName(s[:first], "", s[first+1:])
	}
	return NewName(s[:first], s[first+1:last], s[last+1:])
}

func joinKey(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, separator)
}

// Group returns the group part of the name.
func (n MetricName) Group() string { return n.group }

// Type returns the type part of the name.
func (n MetricName) Type() string { return n.typ }

// Name returns the name part.
func (n MetricName) Name() string { return n.name }

// Key returns the canonical key, "group.type.name" with empty parts omitted.
// It is the registry key and the external identifier of the metric.
func (n MetricName) Key() string { return n.key }

// String implements fmt.Stringer and returns the canonical key.
func (n MetricName) String() string { return n.key }

// IsZero reports whether n is the zero MetricName.
func (n MetricName) IsZero() bool { return n.key == "" }

// DisplayName returns the human readable form used for exported identifiers,
// e.g. "jvm:type=gc,name=go-gc.count".
func (n MetricName) DisplayName() string {
	var b strings.Builder
	b.WriteString(n.group)
	b.WriteString(":type=")
	b.WriteString(n.typ)
	if n.name != "" {
		b.WriteString(",name=")
		b.WriteString(n.name)
	}
	return b.String()
}

// Hash returns a stable 64bit hash of the canonical key.
func (n MetricName) Hash() uint64 {
	return xxhash.Sum64String(n.key)
}

// Derive returns a child name with leaf appended to the name part. Deriving
// from a name without a name part uses leaf as the name.
func (n MetricName) Derive(leaf string) MetricName {
	if leaf == "" {
		return n
	}
	if n.name == "" {
		return NewName(n.group, n.typ, leaf)
	}
	return NewName(n.group, n.typ, n.name+separator+leaf)
}
