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
	"unsafe"

	"golang.org/x/sys/unix"
)

// HostAllocator is an Allocator backed by anonymous host mappings. Frames
// live outside the Go heap, which makes it suitable for tables that are
// handed to a hardware or hypervisor translation base register: the frames
// never move and are released only through FreeFrame.
//
// As with RuntimeAllocator, addresses are identity mapped.
type HostAllocator struct {
	mappings map[PhysAddr][]byte
}

// NewHostAllocator returns an empty HostAllocator.
//
// Host pages at least FrameSize in size are assumed; mmap then yields
// FrameSize aligned mappings.
func NewHostAllocator() *HostAllocator {
	if unix.Getpagesize() < FrameSize {
		panic("pagetables: host page size below frame size")
	}
	return &HostAllocator{
		mappings: make(map[PhysAddr][]byte),
	}
}

// AllocFrame implements Allocator.AllocFrame.
func (h *HostAllocator) AllocFrame() (PhysAddr, bool) {
	m, err := unix.Mmap(-1, 0, FrameSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return 0, false
	}
	pa := PhysAddr(uintptr(unsafe.Pointer(&m[0])))
	h.mappings[pa] = m
	return pa, true
}

// FreeFrame implements Allocator.FreeFrame.
func (h *HostAllocator) FreeFrame(pa PhysAddr) {
	m, ok := h.mappings[pa]
	if !ok {
		panic("pagetables: free of unknown frame")
	}
	delete(h.mappings, pa)
	unix.Munmap(m)
}

// PhysToVirt implements Allocator.PhysToVirt.
func (h *HostAllocator) PhysToVirt(pa PhysAddr) uintptr {
	return uintptr(pa)
}

// Live returns the number of outstanding frames.
func (h *HostAllocator) Live() int {
	return len(h.mappings)
}
