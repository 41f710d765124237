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

// Message describes a message type.
type Message struct {
	p  *Pool
	id MessageID
}

var noMessage messageRec

func (m Message) rec() *messageRec {
	if m.p == nil || m.id.Nil() {
		return &noMessage
	}
	return m.id.In(&m.p.messages)
}

// IsValid reports whether m refers to a message in a pool that has not
// been retired.
func (m Message) IsValid() bool {
	return m.p != nil && !m.id.Nil() && !m.p.retired.Load()
}

// Pool returns the pool that owns this message.
func (m Message) Pool() *Pool {
	return m.p
}

// ID returns the arena index of the message within its pool.
func (m Message) ID() MessageID {
	return m.id
}

// Name returns the simple name of the message.
func (m Message) Name() string {
	return m.rec().name
}

// FullName returns the fully-qualified name of the message, without a
// leading dot.
func (m Message) FullName() string {
	return m.rec().fullName
}

func (m Message) String() string {
	return m.FullName()
}

// File returns the file that declared the message.
func (m Message) File() File {
	return File{p: m.p, id: m.rec().file}
}

// Parent returns the message that encloses this one. It returns false
// for top-level messages.
func (m Message) Parent() (Message, bool) {
	parent := m.rec().parent
	if parent.Nil() {
		return Message{}, false
	}
	return Message{p: m.p, id: parent}, true
}

// IsMapEntry reports whether this message was synthesized for a map field.
func (m Message) IsMapEntry() bool {
	return m.rec().mapEntry
}

// FieldCount returns the number of fields, including extensions of this
// message.
func (m Message) FieldCount() int {
	return len(m.rec().fields)
}

// Field returns the field at index i, which must be in the range
// [0, FieldCount()). Fields are in declaration order, followed by
// extensions.
func (m Message) Field(i int) Field {
	return Field{p: m.p, id: m.rec().fields[i]}
}

// Fields returns all fields of the message, including extensions.
func (m Message) Fields() []Field {
	rec := m.rec()
	fields := make([]Field, len(rec.fields))
	for i, id := range rec.fields {
		fields[i] = Field{p: m.p, id: id}
	}
	return fields
}

// FindFieldByNumber returns the field or extension with the given number.
func (m Message) FindFieldByNumber(number int32) (Field, bool) {
	for _, id := range m.rec().fields {
		if id.In(&m.p.fields).number == number {
			return Field{p: m.p, id: id}, true
		}
	}
	return Field{}, false
}

// FindFieldByName returns the field with the given simple name. For
// extensions, the fully-qualified name of the extension is used.
func (m Message) FindFieldByName(name string) (Field, bool) {
	for _, id := range m.rec().fields {
		rec := id.In(&m.p.fields)
		if (!rec.extension && rec.name == name) || (rec.extension && rec.fullName == name) {
			return Field{p: m.p, id: id}, true
		}
	}
	return Field{}, false
}

// Oneofs returns the names of the oneofs declared in the message.
func (m Message) Oneofs() []string {
	return m.rec().oneofs
}

// NestedMessages returns the messages declared directly inside this one.
func (m Message) NestedMessages() []Message {
	return messages(m.p, m.rec().messages)
}

// NestedEnums returns the enums declared directly inside this one.
func (m Message) NestedEnums() []Enum {
	return enums(m.p, m.rec().enums)
}

// Extensions returns the extensions declared inside this message's
// scope, which may extend any message.
func (m Message) Extensions() []Field {
	return fields(m.p, m.rec().extensions)
}

// ReservedRanges returns the reserved field number ranges.
func (m Message) ReservedRanges() []Range {
	return m.rec().reservedRanges
}

// ReservedNames returns the reserved field names.
func (m Message) ReservedNames() []string {
	return m.rec().reservedNames
}

// ExtensionRanges returns the field number ranges available to extensions.
func (m Message) ExtensionRanges() []Range {
	return m.rec().extensionRanges
}

func messages(p *Pool, ids []MessageID) []Message {
	out := make([]Message, len(ids))
	for i, id := range ids {
		out[i] = Message{p: p, id: id}
	}
	return out
}

func enums(p *Pool, ids []EnumID) []Enum {
	out := make([]Enum, len(ids))
	for i, id := range ids {
		out[i] = Enum{p: p, id: id}
	}
	return out
}

func fields(p *Pool, ids []FieldID) []Field {
	out := make([]Field, len(ids))
	for i, id := range ids {
		out[i] = Field{p: p, id: id}
	}
	return out
}
