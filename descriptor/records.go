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

import "github.com/protopool/protopool/internal/arena"

// Handles to records inside a pool's arenas. A nil ID refers to nothing.
type (
	FileID      = arena.Pointer[fileRec]
	MessageID   = arena.Pointer[messageRec]
	FieldID     = arena.Pointer[fieldRec]
	EnumID      = arena.Pointer[enumRec]
	EnumValueID = arena.Pointer[enumValueRec]
	ServiceID   = arena.Pointer[serviceRec]
	MethodID    = arena.Pointer[methodRec]
)

// Range is an inclusive range of field numbers.
type Range struct {
	Start, End int32
}

// Contains reports whether n is within the range.
func (r Range) Contains(n int32) bool {
	return n >= r.Start && n <= r.End
}

type fileRec struct {
	path    string
	pkg     string
	syntax  Syntax
	edition string
	imports []Import

	messages   []MessageID
	enums      []EnumID
	services   []ServiceID
	extensions []FieldID
}

// Import is a dependency of a file.
type Import struct {
	Path   string
	Public bool
	Weak   bool
}

type messageRec struct {
	name, fullName string
	file           FileID
	parent         MessageID

	// fields in declaration order, followed by any extensions of this
	// message in the order they were linked
	fields []FieldID
	oneofs []string

	messages   []MessageID
	enums      []EnumID
	extensions []FieldID

	reservedRanges  []Range
	reservedNames   []string
	extensionRanges []Range

	mapEntry bool
}

type fieldRec struct {
	name, fullName string
	jsonName       string
	number         int32
	label          Label
	typ            FieldType
	// typeName is the type as written in source; resolved is the
	// fully-qualified name once linked.
	typeName string
	resolved string
	message  MessageID
	enum     EnumID

	file FileID
	// container is the message whose field list holds this field. For
	// an extension it is the extendee.
	container MessageID
	// scope is the message an extension was declared in, if any.
	scope     MessageID
	extension bool
	oneof     string

	packed     bool
	hasDefault bool
	def        Value
}

type enumRec struct {
	name, fullName string
	file           FileID
	parent         MessageID
	values         []EnumValueID
	allowAlias     bool

	reservedRanges []Range
	reservedNames  []string
}

type enumValueRec struct {
	name, fullName string
	number         int32
	enum           EnumID
}

type serviceRec struct {
	name, fullName string
	file           FileID
	methods        []MethodID
}

type methodRec struct {
	name, fullName string
	service        ServiceID

	inputName, outputName string
	input, output         MessageID
	clientStreaming       bool
	serverStreaming       bool
}

type symbolRef struct {
	kind Kind
	id   arena.Untyped
}
