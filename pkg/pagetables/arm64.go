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

// ARM64 is the four-level VMSAv8-64 paging shape with a 4 KiB granule
// (48-bit virtual and physical addresses).
var ARM64 = ArchSpec{
	Name:      "arm64",
	Levels:    4,
	PAMaxBits: 48,
	VAMaxBits: 48,
}

// Bits in VMSAv8-64 stage 1 descriptors, 4 KiB granule.
//
// Bit 1 distinguishes descriptor kinds: set for table descriptors at
// intermediate levels and page descriptors at the final level, clear for
// block (huge) descriptors. The MAIR is assumed to be programmed with
// index 0 = device nGnRE, 1 = normal write-back, 2 = normal non-cacheable.
const (
	arm64Valid = 1 << 0
	arm64Table = 1 << 1

	arm64AttrDevice  = 0 << 2
	arm64AttrNormal  = 1 << 2
	arm64AttrNoCache = 2 << 2
	arm64AttrIdxMask = 7 << 2
	arm64User        = 1 << 6 // AP[1]: EL0 accessible.
	arm64ReadOnly    = 1 << 7 // AP[2]: writes disallowed.
	arm64InnerShared = 3 << 8 // SH[1:0].
	arm64AccessFlag  = 1 << 10
	arm64NotGlobal   = 1 << 11 // nG.
	arm64PXN         = 1 << 53
	arm64UXN         = 1 << 54

	arm64AddrMask = 0x0000fffffffff000
)

// ARM64Codec encodes VMSAv8-64 stage 1 descriptors.
//
// AArch64 has no read-permission bit either: valid mappings are readable,
// so decoded attributes always include Read.
type ARM64Codec struct{}

// NewPage implements EntryCodec.NewPage.
func (ARM64Codec) NewPage(pa PhysAddr, attrs memattr.Attrs, huge bool) PTE {
	e := PTE(uint64(pa)&arm64AddrMask) | arm64Valid | arm64AccessFlag
	if !huge {
		// Final-level leaves are page descriptors; block descriptors
		// keep bit 1 clear.
		e |= arm64Table
	}
	return arm64SetAttrBits(e, attrs)
}

// NewTable implements EntryCodec.NewTable.
func (ARM64Codec) NewTable(pa PhysAddr) PTE {
	return PTE(uint64(pa)&arm64AddrMask) | arm64Valid | arm64Table
}

// Address implements EntryCodec.Address.
func (ARM64Codec) Address(e PTE) PhysAddr {
	return PhysAddr(uint64(e) & arm64AddrMask)
}

// SetAddress implements EntryCodec.SetAddress.
func (ARM64Codec) SetAddress(e PTE, pa PhysAddr) PTE {
	return (e &^ PTE(arm64AddrMask)) | PTE(uint64(pa)&arm64AddrMask)
}

// Attrs implements EntryCodec.Attrs.
func (ARM64Codec) Attrs(e PTE) memattr.Attrs {
	var attrs memattr.Attrs
	if e&arm64Valid != 0 {
		attrs |= memattr.Read
	}
	if e&arm64ReadOnly == 0 {
		attrs |= memattr.Write
	}
	if e&arm64UXN == 0 || e&arm64PXN == 0 {
		attrs |= memattr.Execute
	}
	if e&arm64User != 0 {
		attrs |= memattr.User
	}
	if e&arm64NotGlobal == 0 {
		attrs |= memattr.Global
	}
	switch uint64(e) & arm64AttrIdxMask {
	case arm64AttrDevice:
		attrs |= memattr.Device
	case arm64AttrNoCache:
		attrs |= memattr.Uncached
	}
	return attrs
}

// SetAttrs implements EntryCodec.SetAttrs.
func (ARM64Codec) SetAttrs(e PTE, attrs memattr.Attrs, huge bool) PTE {
	e &= PTE(arm64AddrMask)
	e |= arm64Valid | arm64AccessFlag
	if !huge {
		e |= arm64Table
	}
	return arm64SetAttrBits(e, attrs)
}

// Unused implements EntryCodec.Unused.
func (ARM64Codec) Unused(e PTE) bool {
	return e == 0
}

// Present implements EntryCodec.Present.
func (ARM64Codec) Present(e PTE) bool {
	return e&arm64Valid != 0
}

// Huge implements EntryCodec.Huge.
func (ARM64Codec) Huge(e PTE) bool {
	return e&arm64Valid != 0 && e&arm64Table == 0
}

func arm64SetAttrBits(e PTE, attrs memattr.Attrs) PTE {
	if !attrs.Has(memattr.Write) {
		e |= arm64ReadOnly
	}
	if attrs.Has(memattr.User) {
		e |= arm64User
	}
	if !attrs.Has(memattr.Global) {
		e |= arm64NotGlobal
	}
	switch {
	case attrs.Has(memattr.Device):
		e |= arm64AttrDevice
	case attrs.Has(memattr.Uncached):
		e |= arm64AttrNoCache | arm64InnerShared
	default:
		e |= arm64AttrNormal | arm64InnerShared
	}
	if !attrs.Has(memattr.Execute) {
		e |= arm64PXN | arm64UXN
	} else if attrs.Has(memattr.User) {
		// User-executable memory is never privileged-executable.
		e |= arm64PXN
	}
	return e
}
