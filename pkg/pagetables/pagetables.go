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

// Package pagetables provides a generic implementation of pagetables.
//
// The core structure, PageTables, composes three architecture capabilities
// fixed at construction: an ArchSpec describing the paging shape, an
// EntryCodec encoding entries, and an Allocator supplying frames. The same
// walking, mapping and teardown logic then serves every 64-bit
// two-to-five-level paging scheme without per-architecture duplication.
//
// PageTables is not internally synchronized. It assumes a single logical
// writer at a time; concurrent use requires external mutual exclusion.
// Structural changes do not invalidate TLBs; that is the caller's
// responsibility.
package pagetables

import (
	"github.com/openhv/paging/pkg/memattr"
)

// PageTables is a set of page tables.
type PageTables struct {
	// Allocator is used to allocate table frames. It must not be
	// changed while any frame is live.
	Allocator Allocator

	// spec and codec are the architecture capabilities.
	spec  ArchSpec
	codec EntryCodec

	// rootPhys is the physical address of the root table, owned by this
	// structure.
	rootPhys PhysAddr

	// intermediates tracks every intermediate table frame allocated
	// during this structure's lifetime, for bulk release at teardown.
	// Leaf target frames are never tracked; they are not owned here.
	intermediates []PhysAddr
}

// New returns an empty set of page tables for the given architecture: a
// single zeroed root table and no mappings. Returns ErrNoMemory if the
// root frame cannot be allocated.
func New(spec ArchSpec, codec EntryCodec, allocator Allocator) (*PageTables, error) {
	spec.check()
	root, ok := allocator.AllocFrame()
	if !ok {
		return nil, ErrNoMemory
	}
	return &PageTables{
		Allocator: allocator,
		spec:      spec,
		codec:     codec,
		rootPhys:  root,
	}, nil
}

// RootPhysical returns the physical address of the root table, suitable
// for loading into the architecture's translation base register.
func (p *PageTables) RootPhysical() PhysAddr {
	return p.rootPhys
}

// Spec returns the architecture spec fixed at construction.
func (p *PageTables) Spec() ArchSpec {
	return p.spec
}

// index extracts the table index for va at the given level, level 0 being
// the root.
func (p *PageTables) index(va VirtAddr, level int) int {
	shift := pageShift + uint(p.spec.Levels-1-level)*indexBits
	return int((uintptr(va) >> shift) & (entriesPerPage - 1))
}

// Map installs a mapping of size bytes from va to pa with the given
// attributes. Both addresses must be aligned to size and valid for the
// architecture (ErrNotAligned). Returns ErrAlreadyMapped if the target
// slot is occupied, ErrMappedToHugePage if an existing huge mapping covers
// part of the walk, and ErrNoMemory if an intermediate table cannot be
// allocated. Nothing is mutated on a validation failure.
func (p *PageTables) Map(va VirtAddr, pa PhysAddr, size PageSize, attrs memattr.Attrs) error {
	if !size.IsAligned(uintptr(va)) || !size.IsAligned(uintptr(pa)) {
		return ErrNotAligned
	}
	if !p.spec.VirtAddrValid(va) || !p.spec.PhysAddrValid(pa) {
		return ErrNotAligned
	}
	target := p.spec.Levels - 1 - size.levels()
	if target < 0 {
		panic("pagetables: page size exceeds architecture depth")
	}

	table := p.tableAt(p.rootPhys)
	for level := 0; ; level++ {
		slot := &table[p.index(va, level)]
		if level == target {
			if !p.codec.Unused(*slot) {
				return ErrAlreadyMapped
			}
			*slot = p.codec.NewPage(pa, attrs, size.IsHuge())
			return nil
		}
		switch raw := *slot; {
		case p.codec.Unused(raw):
			next, ok := p.Allocator.AllocFrame()
			if !ok {
				return ErrNoMemory
			}
			p.intermediates = append(p.intermediates, next)
			*slot = p.codec.NewTable(next)
			table = p.tableAt(next)
		case p.codec.Huge(raw):
			// Cannot descend through an existing huge mapping.
			return ErrMappedToHugePage
		default:
			table = p.tableAt(p.codec.Address(raw))
		}
	}
}

// walkLeaf descends to the leaf covering va and returns its slot and the
// level it was found at. Returns ErrNotMapped if any slot on the path is
// unused, and ErrMappedToHugePage if a huge leaf covers va but va is not
// aligned to its granularity, meaning the caller implied a finer
// granularity than the mapping provides.
func (p *PageTables) walkLeaf(va VirtAddr) (*PTE, int, error) {
	if !p.spec.VirtAddrValid(va) {
		return nil, 0, ErrNotMapped
	}
	table := p.tableAt(p.rootPhys)
	for level := 0; ; level++ {
		slot := &table[p.index(va, level)]
		raw := *slot
		if p.codec.Unused(raw) {
			return nil, 0, ErrNotMapped
		}
		if level == p.spec.Levels-1 {
			return slot, level, nil
		}
		if p.codec.Huge(raw) {
			if !sizeAtLevel(p.spec.Levels, level).IsAligned(uintptr(va)) {
				return nil, 0, ErrMappedToHugePage
			}
			return slot, level, nil
		}
		table = p.tableAt(p.codec.Address(raw))
	}
}

// Unmap removes the mapping covering va and returns the physical address
// and granularity it had. va must be the base of the mapping: unmapping
// inside a huge page at an implied finer granularity returns
// ErrMappedToHugePage. Returns ErrNotMapped if nothing is mapped at va.
func (p *PageTables) Unmap(va VirtAddr) (PhysAddr, PageSize, error) {
	slot, level, err := p.walkLeaf(va)
	if err != nil {
		return 0, 0, err
	}
	pa := p.codec.Address(*slot)
	*slot = 0
	return pa, sizeAtLevel(p.spec.Levels, level), nil
}

// Query returns the physical address, attributes and granularity of the
// mapping covering va. The structure is not modified.
func (p *PageTables) Query(va VirtAddr) (PhysAddr, memattr.Attrs, PageSize, error) {
	slot, level, err := p.walkLeaf(va)
	if err != nil {
		return 0, 0, 0, err
	}
	raw := *slot
	return p.codec.Address(raw), p.codec.Attrs(raw), sizeAtLevel(p.spec.Levels, level), nil
}

// Protect rewrites the attributes of the mapping covering va in place and
// returns its granularity. The mapped physical address is unchanged.
func (p *PageTables) Protect(va VirtAddr, attrs memattr.Attrs) (PageSize, error) {
	slot, level, err := p.walkLeaf(va)
	if err != nil {
		return 0, err
	}
	size := sizeAtLevel(p.spec.Levels, level)
	*slot = p.codec.SetAttrs(*slot, attrs, size.IsHuge())
	return size, nil
}

// MapRegion maps the contiguous range [va, va+length) to [pa, pa+length),
// choosing the largest granularity that evenly divides the remaining
// aligned range at each step. va, pa and length must be multiples of
// Size4K.
//
// MapRegion stops at the first failure, leaving earlier pages in the range
// mapped; there is no rollback.
func (p *PageTables) MapRegion(va VirtAddr, pa PhysAddr, length uintptr, attrs memattr.Attrs) error {
	if !Size4K.IsAligned(uintptr(va)) || !Size4K.IsAligned(uintptr(pa)) || !Size4K.IsAligned(length) {
		return ErrNotAligned
	}
	for length > 0 {
		size := p.bestSize(va, pa, length)
		if err := p.Map(va, pa, size, attrs); err != nil {
			return err
		}
		va += VirtAddr(size)
		pa += PhysAddr(size)
		length -= uintptr(size)
	}
	return nil
}

// UnmapRegion unmaps the contiguous range [va, va+length), advancing by
// the granularity of each mapping found. Stops at the first failure with
// earlier pages already unmapped; there is no rollback.
func (p *PageTables) UnmapRegion(va VirtAddr, length uintptr) error {
	if !Size4K.IsAligned(uintptr(va)) || !Size4K.IsAligned(length) {
		return ErrNotAligned
	}
	for length > 0 {
		_, size, err := p.Unmap(va)
		if err != nil {
			return err
		}
		va += VirtAddr(size)
		if uintptr(size) >= length {
			break
		}
		length -= uintptr(size)
	}
	return nil
}

// bestSize returns the largest supported granularity that divides va, pa
// and the remaining length.
func (p *PageTables) bestSize(va VirtAddr, pa PhysAddr, length uintptr) PageSize {
	for _, size := range []PageSize{Size1G, Size2M} {
		if size.levels() >= p.spec.Levels {
			continue
		}
		if size.IsAligned(uintptr(va)) && size.IsAligned(uintptr(pa)) && length >= uintptr(size) {
			return size
		}
	}
	return Size4K
}

// Release frees the root table and every tracked intermediate table frame
// back to the Allocator. Leaf target frames are never freed; they are
// owned by the caller. The structure must not be used afterwards.
func (p *PageTables) Release() {
	for _, pa := range p.intermediates {
		p.Allocator.FreeFrame(pa)
	}
	p.intermediates = nil
	p.Allocator.FreeFrame(p.rootPhys)
	p.rootPhys = 0
}
