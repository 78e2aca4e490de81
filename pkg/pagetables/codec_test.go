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

import (
	"testing"

	"github.com/openhv/paging/pkg/memattr"
)

// Both encodings hold a mapping readable whenever it is present, so
// round-trip fidelity is specified for attribute sets containing Read.
var codecAttrs = []memattr.Attrs{
	memattr.Read,
	memattr.ReadWrite,
	memattr.ReadExecute,
	memattr.ReadWriteExecute,
	memattr.ReadWrite | memattr.User,
	memattr.ReadExecute | memattr.User,
	memattr.ReadWrite | memattr.Global,
	memattr.ReadWrite | memattr.Uncached,
	memattr.ReadWrite | memattr.Device,
	memattr.Read | memattr.User | memattr.Global,
}

var codecs = []struct {
	name  string
	codec EntryCodec
}{
	{"x86", X86Codec{}},
	{"arm64", ARM64Codec{}},
}

func TestPageRoundTrip(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			// Huge-aligned so the same addresses are valid for both
			// base and huge leaves.
			for _, pa := range []PhysAddr{0x200000, 0x40000000, 0x7ffe00000} {
				for _, attrs := range codecAttrs {
					for _, huge := range []bool{false, true} {
						e := c.codec.NewPage(pa, attrs, huge)
						if got := c.codec.Address(e); got != pa {
							t.Errorf("NewPage(%#x, %v, %t): Address = %#x", pa, attrs, huge, got)
						}
						if got := c.codec.Attrs(e); got != attrs {
							t.Errorf("NewPage(%#x, %v, %t): Attrs = %v", pa, attrs, huge, got)
						}
						if got := c.codec.Huge(e); got != huge {
							t.Errorf("NewPage(%#x, %v, %t): Huge = %t", pa, attrs, huge, got)
						}
						if !c.codec.Present(e) || c.codec.Unused(e) {
							t.Errorf("NewPage(%#x, %v, %t): not present", pa, attrs, huge)
						}
					}
				}
			}
		})
	}
}

func TestTableEntry(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			e := c.codec.NewTable(0x5000)
			if got := c.codec.Address(e); got != 0x5000 {
				t.Errorf("Address = %#x, want 0x5000", got)
			}
			if !c.codec.Present(e) {
				t.Error("table entry not present")
			}
			if c.codec.Huge(e) {
				t.Error("table entry reads as huge")
			}
			if c.codec.Unused(e) {
				t.Error("table entry reads as unused")
			}
		})
	}
}

func TestSetAddress(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			e := c.codec.NewPage(0x1000, memattr.ReadWrite, false)
			e = c.codec.SetAddress(e, 0x42000)
			if got := c.codec.Address(e); got != 0x42000 {
				t.Errorf("Address = %#x, want 0x42000", got)
			}
			if got := c.codec.Attrs(e); got != memattr.ReadWrite {
				t.Errorf("Attrs changed across SetAddress: %v", got)
			}
		})
	}
}

func TestSetAttrsPreservesAddress(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			e := c.codec.NewPage(0x7000, memattr.ReadWrite, false)
			e = c.codec.SetAttrs(e, memattr.ReadExecute, false)
			if got := c.codec.Address(e); got != 0x7000 {
				t.Errorf("Address = %#x, want 0x7000", got)
			}
			if got := c.codec.Attrs(e); got != memattr.ReadExecute {
				t.Errorf("Attrs = %v, want r-x", got)
			}
		})
	}
}

func TestZeroIsUnused(t *testing.T) {
	for _, c := range codecs {
		t.Run(c.name, func(t *testing.T) {
			if !c.codec.Unused(0) {
				t.Error("zero slot not unused")
			}
			if c.codec.Present(0) {
				t.Error("zero slot reads as present")
			}
		})
	}
}
