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

package pagetables

import "github.com/openhv/paging/pkg/memattr"

// PTE is one raw page table entry slot. Its bit layout is owned by the
// architecture's EntryCodec; nothing outside a codec interprets the raw
// value. The zero value is always an unused slot.
type PTE uint64

// PTEs is one table's worth of entries, occupying exactly one frame.
type PTEs [entriesPerPage]PTE

// EntryCodec encodes and decodes raw page table entries for one
// architecture. Implementations are pure value transformations: no codec
// method allocates, frees, or touches table memory, and constructing an
// entry then reading it back must return the original address, attributes
// and huge bit for every valid input.
//
// An entry is semantically exactly one of: unused, a present table pointer,
// or a present leaf (huge or base-sized). Huge is only meaningful for
// entries installed at intermediate levels, where it distinguishes a huge
// leaf from a table pointer.
type EntryCodec interface {
	// NewPage returns a present leaf entry mapping pa with the given
	// attributes. huge is set for leaves installed above the deepest
	// level.
	NewPage(pa PhysAddr, attrs memattr.Attrs, huge bool) PTE

	// NewTable returns a present table-pointer entry referencing the
	// next-level table at pa. Table pointers carry no leaf semantics.
	NewTable(pa PhysAddr) PTE

	// Address extracts the physical address. Only meaningful when the
	// entry is present.
	Address(e PTE) PhysAddr

	// SetAddress returns e with its physical address replaced by pa,
	// all other bits preserved.
	SetAddress(e PTE, pa PhysAddr) PTE

	// Attrs extracts the mapping attributes of a leaf entry.
	Attrs(e PTE) memattr.Attrs

	// SetAttrs returns e with its attributes replaced, preserving the
	// address. huge follows the same convention as NewPage, allowing an
	// entry to be rewritten in place.
	SetAttrs(e PTE, attrs memattr.Attrs, huge bool) PTE

	// Unused returns true if e maps nothing.
	Unused(e PTE) bool

	// Present returns true if e is a leaf or table pointer.
	Present(e PTE) bool

	// Huge returns true if e is a present leaf installed at an
	// intermediate level.
	Huge(e PTE) bool
}
