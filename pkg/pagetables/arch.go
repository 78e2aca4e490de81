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

// PhysAddr is a physical address.
type PhysAddr uintptr

// VirtAddr is a virtual address.
type VirtAddr uintptr

// ArchSpec describes the paging shape of one architecture: translation
// depth and address widths. It carries no runtime state; one value is
// defined per supported architecture and fixed at table construction.
type ArchSpec struct {
	// Name identifies the architecture, for diagnostics only.
	Name string

	// Levels is the translation depth. Must be in [2, 5].
	Levels int

	// PAMaxBits is the maximum physical address width. Must be <= 64.
	PAMaxBits uint

	// VAMaxBits is the maximum virtual address width. Must be in [1, 64].
	VAMaxBits uint

	// SignExtendedVA selects the canonical sign-extension convention
	// for virtual addresses: bits above VAMaxBits-1 must replicate bit
	// VAMaxBits-1, as on x86. When false, the bits above VAMaxBits-1
	// select disjoint lower and upper address halves and must be
	// uniformly zero or one, as with the arm64 translation base
	// register split.
	SignExtendedVA bool
}

// check panics if the spec violates its invariants. Specs are fixed
// per-architecture values, so a bad one is a programming error rather
// than a runtime condition.
func (s ArchSpec) check() {
	if s.Levels < 2 || s.Levels > 5 {
		panic("pagetables: Levels must be in [2, 5]")
	}
	if s.VAMaxBits < 1 || s.VAMaxBits > 64 {
		panic("pagetables: VAMaxBits must be in [1, 64]")
	}
	if s.PAMaxBits > 64 {
		panic("pagetables: PAMaxBits must be <= 64")
	}
}

// PhysAddrValid returns true if pa fits within PAMaxBits.
func (s ArchSpec) PhysAddrValid(pa PhysAddr) bool {
	if s.PAMaxBits >= 64 {
		return true
	}
	return uint64(pa) <= (uint64(1)<<s.PAMaxBits)-1
}

// VirtAddrValid returns true if va is representable within VAMaxBits
// under the architecture's upper-bit convention.
func (s ArchSpec) VirtAddrValid(va VirtAddr) bool {
	if s.VAMaxBits >= 64 {
		return true
	}
	if s.SignExtendedVA {
		// Shifting left then arithmetic-shifting right sign-extends
		// bit VAMaxBits-1 through the upper bits.
		top := int64(uint64(va) << (64 - s.VAMaxBits))
		return uint64(top>>(64-s.VAMaxBits)) == uint64(va)
	}
	upper := uint64(va) >> s.VAMaxBits
	return upper == 0 || upper == (uint64(1)<<(64-s.VAMaxBits))-1
}
