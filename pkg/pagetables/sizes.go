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

// Table geometry shared by all supported architectures: 4 KiB tables of 512
// eight-byte entries, so each translation level resolves 9 bits of the
// virtual address.
const (
	pageShift      = 12
	indexBits      = 9
	entriesPerPage = 512

	// FrameSize is the size of a single physical frame, and of one page
	// table at any level.
	FrameSize = 1 << pageShift
)

// PageSize is a translation granularity.
type PageSize uintptr

// Supported granularities.
const (
	// Size4K is a base page, mapped at the deepest level.
	Size4K PageSize = 1 << pageShift

	// Size2M is a huge page, mapped one level up.
	Size2M PageSize = 1 << (pageShift + indexBits)

	// Size1G is a huge page, mapped two levels up.
	Size1G PageSize = 1 << (pageShift + 2*indexBits)
)

// IsAligned returns true if addr is a multiple of s.
func (s PageSize) IsAligned(addr uintptr) bool {
	return addr&(uintptr(s)-1) == 0
}

// IsHuge returns true if s is mapped above the deepest level.
func (s PageSize) IsHuge() bool {
	return s > Size4K
}

// String implements fmt.Stringer.
func (s PageSize) String() string {
	switch s {
	case Size4K:
		return "4K"
	case Size2M:
		return "2M"
	case Size1G:
		return "1G"
	default:
		return "unknown"
	}
}

// levels returns the number of translation levels a leaf of size s sits
// above the deepest level: 0 for Size4K, 1 for Size2M, 2 for Size1G.
func (s PageSize) levels() int {
	switch s {
	case Size4K:
		return 0
	case Size2M:
		return 1
	case Size1G:
		return 2
	default:
		panic("pagetables: unsupported page size")
	}
}

// sizeAtLevel returns the granularity of a leaf installed at the given
// level of a table with the given depth.
func sizeAtLevel(levels, level int) PageSize {
	return PageSize(1) << (pageShift + uint(levels-1-level)*indexBits)
}
