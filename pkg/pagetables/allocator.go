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

// Allocator supplies physical frames for table storage and the address
// translation needed to read and write them. It is the only component that
// touches real memory resources; the page tables treat it as an opaque
// service.
//
// Passing FreeFrame an address not obtained from AllocFrame, or freeing
// the same frame twice, is a caller contract violation with undefined
// behavior; it is not checked here.
type Allocator interface {
	// AllocFrame returns a newly allocated, zero-filled, FrameSize
	// aligned physical frame, or false on exhaustion.
	AllocFrame() (PhysAddr, bool)

	// FreeFrame releases a frame previously returned by AllocFrame.
	FreeFrame(pa PhysAddr)

	// PhysToVirt returns a virtual address through which the frame's
	// bytes may be read and written as table memory.
	PhysToVirt(pa PhysAddr) uintptr
}
