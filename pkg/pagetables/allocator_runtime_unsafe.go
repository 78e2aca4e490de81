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

import "unsafe"

// RuntimeAllocator is an Allocator backed by the Go heap, for hosted use
// and tests. The "physical" address of a frame is simply its virtual
// address, so PhysToVirt is the identity.
//
// Unfortunately the runtime allocator provides no alignment guarantee, so
// each frame is carved from an oversized buffer and aligned by hand. The
// backing buffers are retained in a map to keep them reachable while their
// frames are live.
type RuntimeAllocator struct {
	frames map[PhysAddr][]byte
}

// NewRuntimeAllocator returns an empty RuntimeAllocator.
func NewRuntimeAllocator() *RuntimeAllocator {
	return &RuntimeAllocator{
		frames: make(map[PhysAddr][]byte),
	}
}

// AllocFrame implements Allocator.AllocFrame.
func (r *RuntimeAllocator) AllocFrame() (PhysAddr, bool) {
	buf := make([]byte, 2*FrameSize-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	pa := PhysAddr((base + FrameSize - 1) &^ (FrameSize - 1))
	r.frames[pa] = buf
	return pa, true
}

// FreeFrame implements Allocator.FreeFrame.
func (r *RuntimeAllocator) FreeFrame(pa PhysAddr) {
	delete(r.frames, pa)
}

// PhysToVirt implements Allocator.PhysToVirt.
func (r *RuntimeAllocator) PhysToVirt(pa PhysAddr) uintptr {
	return uintptr(pa)
}

// Live returns the number of outstanding frames.
func (r *RuntimeAllocator) Live() int {
	return len(r.frames)
}
