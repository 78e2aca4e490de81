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

package memattr

import "testing"

func TestHas(t *testing.T) {
	a := ReadWrite | User
	if !a.Has(Read) || !a.Has(Write) || !a.Has(ReadWrite) || !a.Has(User) {
		t.Errorf("%v missing expected bits", a)
	}
	if a.Has(Execute) || a.Has(ReadWriteExecute) {
		t.Errorf("%v has unexpected bits", a)
	}
}

func TestHasAny(t *testing.T) {
	a := Read | Execute
	if !a.HasAny(ReadWrite) {
		t.Errorf("%v should intersect rw-", a)
	}
	if a.HasAny(Write | User) {
		t.Errorf("%v should not intersect Write|User", a)
	}
}

func TestUnionWithout(t *testing.T) {
	a := Read.Union(Write).Union(Global)
	if a != ReadWrite|Global {
		t.Errorf("Union: got %v", a)
	}
	if got := a.Without(Global | Write); got != Read {
		t.Errorf("Without: got %v", got)
	}
}

func TestString(t *testing.T) {
	for _, tc := range []struct {
		attrs Attrs
		want  string
	}{
		{0, "---"},
		{Read, "r--"},
		{ReadWrite, "rw-"},
		{ReadWriteExecute, "rwx"},
		{ReadExecute | User, "r-xu"},
		{ReadWrite | Device, "rw-dev"},
	} {
		if got := tc.attrs.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", tc.attrs, got, tc.want)
		}
	}
}
