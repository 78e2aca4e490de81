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

// Error is a fixed error value returned by page table operations. Errors
// are allocation-free so they remain usable when physical memory is
// exhausted.
type Error struct {
	message string
}

// Error implements error.Error.
func (e *Error) Error() string { return e.message }

// The full error taxonomy. Every operation returns nil or exactly one of
// these; all are ordinary recoverable conditions for the caller.
var (
	// ErrNoMemory indicates frame allocation failed. It is never
	// retried internally.
	ErrNoMemory = &Error{"out of physical memory"}

	// ErrNotAligned indicates a supplied virtual or physical address is
	// not aligned to the requested granularity, or is not valid for the
	// architecture. Returned before any mutation.
	ErrNotAligned = &Error{"address not aligned or not valid"}

	// ErrNotMapped indicates a walk reached an unused slot before
	// finding a leaf.
	ErrNotMapped = &Error{"address not mapped"}

	// ErrAlreadyMapped indicates a map walk found a present entry at
	// the target slot.
	ErrAlreadyMapped = &Error{"address already mapped"}

	// ErrMappedToHugePage indicates a walk needed to descend through,
	// or act at a finer granularity than, an existing huge mapping.
	ErrMappedToHugePage = &Error{"address mapped to huge page"}
)
