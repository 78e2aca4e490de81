// Copyright 2024 The Paging Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memattr defines architecture-neutral memory mapping attributes.
//
// Attrs is a plain bit-set; it carries no ownership and has no
// architecture-specific meaning. Page table entry encodings translate an
// Attrs value to and from hardware bits.
package memattr

import "strings"

// Attrs is a set of mapping attributes.
type Attrs uint32

// Individual attributes.
const (
	// Read indicates the mapping is readable.
	Read Attrs = 1 << iota

	// Write indicates the mapping is writable.
	Write

	// Execute indicates the mapping is executable.
	Execute

	// User indicates the mapping is accessible from unprivileged mode.
	User

	// Global indicates the mapping is global across address space
	// switches (not flushed with the rest of the TLB).
	Global

	// Uncached indicates accesses bypass the cache hierarchy.
	Uncached

	// Device indicates the mapping refers to device memory; implies
	// strict ordering and no caching.
	Device
)

// Common combinations.
const (
	ReadWrite        = Read | Write
	ReadExecute      = Read | Execute
	ReadWriteExecute = Read | Write | Execute
)

// Has returns true if all bits set in other are set in a.
func (a Attrs) Has(other Attrs) bool {
	return a&other == other
}

// HasAny returns true if any bit set in other is set in a.
func (a Attrs) HasAny(other Attrs) bool {
	return a&other != 0
}

// Union returns the attributes set in either a or other.
func (a Attrs) Union(other Attrs) Attrs {
	return a | other
}

// Without returns a with all bits set in other cleared.
func (a Attrs) Without(other Attrs) Attrs {
	return a &^ other
}

// String implements fmt.Stringer.
func (a Attrs) String() string {
	if a == 0 {
		return "---"
	}
	var s strings.Builder
	for _, f := range []struct {
		bit  Attrs
		name string
	}{
		{Read, "r"},
		{Write, "w"},
		{Execute, "x"},
		{User, "u"},
		{Global, "g"},
		{Uncached, "nc"},
		{Device, "dev"},
	} {
		if a.Has(f.bit) {
			s.WriteString(f.name)
		} else if f.bit <= Execute {
			s.WriteString("-")
		}
	}
	return s.String()
}
