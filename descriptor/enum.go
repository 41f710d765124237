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

// Enum describes an enum type.
type Enum struct {
	p  *Pool
	id EnumID
}

var noEnum enumRec

func (e Enum) rec() *enumRec {
	if e.p == nil || e.id.Nil() {
		return &noEnum
	}
	return e.id.In(&e.p.enums)
}

// IsValid reports whether e refers to an enum in a pool that has not
// been retired.
func (e Enum) IsValid() bool {
	return e.p != nil && !e.id.Nil() && !e.p.retired.Load()
}

// Name returns the simple name of the enum.
func (e Enum) Name() string {
	return e.rec().name
}

// FullName returns the fully-qualified name of the enum.
func (e Enum) FullName() string {
	return e.rec().fullName
}

func (e Enum) String() string {
	return e.FullName()
}

// File returns the file that declared the enum.
func (e Enum) File() File {
	return File{p: e.p, id: e.rec().file}
}

// Parent returns the message that encloses this enum. It returns false
// for top-level enums.
func (e Enum) Parent() (Message, bool) {
	parent := e.rec().parent
	if parent.Nil() {
		return Message{}, false
	}
	return Message{p: e.p, id: parent}, true
}

// AllowAlias reports whether the enum permits several values to share
// a number.
func (e Enum) AllowAlias() bool {
	return e.rec().allowAlias
}

// ValueCount returns the number of values in the enum.
func (e Enum) ValueCount() int {
	return len(e.rec().values)
}

// Value returns the value at index i, in declaration order. i must be
// in the range [0, ValueCount()).
func (e Enum) Value(i int) EnumValue {
	return EnumValue{p: e.p, id: e.rec().values[i]}
}

// Values returns all values in declaration order.
func (e Enum) Values() []EnumValue {
	rec := e.rec()
	out := make([]EnumValue, len(rec.values))
	for i, id := range rec.values {
		out[i] = EnumValue{p: e.p, id: id}
	}
	return out
}

// FindValueByNumber returns the first declared value with the given
// number.
func (e Enum) FindValueByNumber(number int32) (EnumValue, bool) {
	for _, id := range e.rec().values {
		if id.In(&e.p.enumValues).number == number {
			return EnumValue{p: e.p, id: id}, true
		}
	}
	return EnumValue{}, false
}

// FindValueByName returns the value with the given simple name.
func (e Enum) FindValueByName(name string) (EnumValue, bool) {
	for _, id := range e.rec().values {
		if id.In(&e.p.enumValues).name == name {
			return EnumValue{p: e.p, id: id}, true
		}
	}
	return EnumValue{}, false
}

// ReservedRanges returns the reserved value ranges.
func (e Enum) ReservedRanges() []Range {
	return e.rec().reservedRanges
}

// ReservedNames returns the reserved value names.
func (e Enum) ReservedNames() []string {
	return e.rec().reservedNames
}

// EnumValue describes one value of an enum.
type EnumValue struct {
	p  *Pool
	id EnumValueID
}

var noEnumValue enumValueRec

func (v EnumValue) rec() *enumValueRec {
	if v.p == nil || v.id.Nil() {
		return &noEnumValue
	}
	return v.id.In(&v.p.enumValues)
}

// IsValid reports whether v refers to an enum value in a pool that has
// not been retired.
func (v EnumValue) IsValid() bool {
	return v.p != nil && !v.id.Nil() && !v.p.retired.Load()
}

// Name returns the simple name of the value.
func (v EnumValue) Name() string {
	return v.rec().name
}

// FullName returns the fully-qualified name of the value, which is
// scoped under its enum.
func (v EnumValue) FullName() string {
	return v.rec().fullName
}

func (v EnumValue) String() string {
	return v.FullName()
}

// Number returns the numeric value.
func (v EnumValue) Number() int32 {
	return v.rec().number
}

// Enum returns the enum that owns this value.
func (v EnumValue) Enum() Enum {
	return Enum{p: v.p, id: v.rec().enum}
}

// ID returns the arena index of the value within its pool.
func (v EnumValue) ID() EnumValueID {
	return v.id
}
