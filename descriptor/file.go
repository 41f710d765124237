// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package descriptor

// File describes a loaded source file.
type File struct {
	p  *Pool
	id FileID
}

var noFile fileRec

func (f File) rec() *fileRec {
	if f.p == nil || f.id.Nil() {
		return &noFile
	}
	return f.id.In(&f.p.files)
}

// IsValid reports whether f refers to a file in a pool that has not
// been retired.
func (f File) IsValid() bool {
	return f.p != nil && !f.id.Nil() && !f.p.retired.Load()
}

// Path returns the path of the file relative to its import root.
func (f File) Path() string {
	return f.rec().path
}

func (f File) String() string {
	return f.Path()
}

// Package returns the declared package, which may be empty.
func (f File) Package() string {
	return f.rec().pkg
}

// Syntax returns the dialect the file was written in.
func (f File) Syntax() Syntax {
	return f.rec().syntax
}

// Edition returns the edition of a file whose syntax is SyntaxEditions.
func (f File) Edition() string {
	return f.rec().edition
}

// Imports returns the file's imports in declaration order.
func (f File) Imports() []Import {
	return f.rec().imports
}

// Messages returns the top-level messages of the file.
func (f File) Messages() []Message {
	return messages(f.p, f.rec().messages)
}

// Enums returns the top-level enums of the file.
func (f File) Enums() []Enum {
	return enums(f.p, f.rec().enums)
}

// Services returns the services of the file.
func (f File) Services() []Service {
	rec := f.rec()
	out := make([]Service, len(rec.services))
	for i, id := range rec.services {
		out[i] = Service{p: f.p, id: id}
	}
	return out
}

// Extensions returns the extensions declared at the top level of the file.
func (f File) Extensions() []Field {
	return fields(f.p, f.rec().extensions)
}
