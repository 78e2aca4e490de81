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

// X86 is the four-level x86-64 paging shape (PML4, 48-bit canonical
// virtual addresses, 52-bit physical addresses).
var X86 = ArchSpec{
	Name:           "x86_64",
	Levels:         4,
	PAMaxBits:      52,
	VAMaxBits:      48,
	SignExtendedVA: true,
}

// Bits in x86 page table entries.
const (
	x86Present      = 1 << 0
	x86Writable     = 1 << 1
	x86User         = 1 << 2
	x86WriteThrough = 1 << 3
	x86CacheDisable = 1 << 4
	x86Accessed     = 1 << 5
	x86Dirty        = 1 << 6
	x86Super        = 1 << 7
	x86Global       = 1 << 8
	x86XD           = 1 << 63

	x86AddrMask = 0x000ffffffffff000
)

// X86Codec encodes x86-64 page table entries.
//
// x86 has no read-permission bit: any present mapping is readable, so
// decoded attributes always include Read. Device memory is approximated
// with write-through plus cache-disable; systems that program the PAT can
// refine this.
type X86Codec struct{}

// NewPage implements EntryCodec.NewPage.
func (X86Codec) NewPage(pa PhysAddr, attrs memattr.Attrs, huge bool) PTE {
	e := PTE(uint64(pa)&x86AddrMask) | x86Present | x86Accessed | x86Dirty
	if huge {
		e |= x86Super
	}
	return x86SetAttrBits(e, attrs)
}

// NewTable implements EntryCodec.NewTable.
//
// Table pointers are maximally permissive; access control is enforced at
// the leaf, as the intersection of the walk applies.
func (X86Codec) NewTable(pa PhysAddr) PTE {
	return PTE(uint64(pa)&x86AddrMask) | x86Present | x86Writable | x86User | x86Accessed
}

// Address implements EntryCodec.Address.
func (X86Codec) Address(e PTE) PhysAddr {
	return PhysAddr(uint64(e) & x86AddrMask)
}

// SetAddress implements EntryCodec.SetAddress.
func (X86Codec) SetAddress(e PTE, pa PhysAddr) PTE {
	return (e &^ PTE(x86AddrMask)) | PTE(uint64(pa)&x86AddrMask)
}

// Attrs implements EntryCodec.Attrs.
func (X86Codec) Attrs(e PTE) memattr.Attrs {
	var attrs memattr.Attrs
	if e&x86Present != 0 {
		attrs |= memattr.Read
	}
	if e&x86Writable != 0 {
		attrs |= memattr.Write
	}
	if e&x86XD == 0 {
		attrs |= memattr.Execute
	}
	if e&x86User != 0 {
		attrs |= memattr.User
	}
	if e&x86Global != 0 {
		attrs |= memattr.Global
	}
	switch {
	case e&x86CacheDisable != 0 && e&x86WriteThrough != 0:
		attrs |= memattr.Device
	case e&x86CacheDisable != 0:
		attrs |= memattr.Uncached
	}
	return attrs
}

// SetAttrs implements EntryCodec.SetAttrs.
func (X86Codec) SetAttrs(e PTE, attrs memattr.Attrs, huge bool) PTE {
	e &= PTE(x86AddrMask)
	e |= x86Present | x86Accessed | x86Dirty
	if huge {
		e |= x86Super
	}
	return x86SetAttrBits(e, attrs)
}

// Unused implements EntryCodec.Unused.
func (X86Codec) Unused(e PTE) bool {
	return e == 0
}

// Present implements EntryCodec.Present.
func (X86Codec) Present(e PTE) bool {
	return e&x86Present != 0
}

// Huge implements EntryCodec.Huge.
func (X86Codec) Huge(e PTE) bool {
	return e&x86Present != 0 && e&x86Super != 0
}

func x86SetAttrBits(e PTE, attrs memattr.Attrs) PTE {
	if attrs.Has(memattr.Write) {
		e |= x86Writable
	}
	if !attrs.Has(memattr.Execute) {
		e |= x86XD
	}
	if attrs.Has(memattr.User) {
		e |= x86User
	}
	if attrs.Has(memattr.Global) {
		e |= x86Global
	}
	if attrs.Has(memattr.Device) {
		e |= x86CacheDisable | x86WriteThrough
	} else if attrs.Has(memattr.Uncached) {
		e |= x86CacheDisable
	}
	return e
}
