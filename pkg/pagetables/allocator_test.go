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

//go:build linux || darwin

package pagetables

import (
	"testing"
	"unsafe"

	"github.com/openhv/paging/pkg/memattr"
)

func testAllocator(t *testing.T, a Allocator, live func() int) {
	t.Helper()
	pa, ok := a.AllocFrame()
	if !ok {
		t.Fatal("AllocFrame failed")
	}
	if !Size4K.IsAligned(uintptr(pa)) {
		t.Errorf("frame %#x is not aligned", pa)
	}

	// Frames must come back zeroed and writable.
	mem := (*[FrameSize]byte)(unsafe.Pointer(a.PhysToVirt(pa)))
	for i, b := range mem {
		if b != 0 {
			t.Fatalf("frame byte %d = %#x, want 0", i, b)
		}
	}
	mem[0] = 1

	if got := live(); got != 1 {
		t.Errorf("live = %d, want 1", got)
	}
	a.FreeFrame(pa)
	if got := live(); got != 0 {
		t.Errorf("live after free = %d, want 0", got)
	}
}

func TestRuntimeAllocator(t *testing.T) {
	a := NewRuntimeAllocator()
	testAllocator(t, a, a.Live)
}

func TestHostAllocator(t *testing.T) {
	a := NewHostAllocator()
	testAllocator(t, a, a.Live)
}

func TestHostAllocatorEngine(t *testing.T) {
	a := NewHostAllocator()
	pt, err := New(X86, X86Codec{}, a)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := pt.Map(0x1000, 0x80000, Size4K, memattr.Read); err != nil {
		t.Fatalf("Map: %v", err)
	}
	pt.Release()
	if a.Live() != 0 {
		t.Errorf("%d frames leaked", a.Live())
	}
}
