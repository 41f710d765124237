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

// Field describes a field of a message, or an extension.
type Field struct {
	p  *Pool
	id FieldID
}

var noField fieldRec

func (f Field) rec() *fieldRec {
	if f.p == nil || f.id.Nil() {
		return &noField
	}
	return f.id.In(&f.p.fields)
}

// IsValid reports whether f refers to a field in a pool that has not
// been retired.
func (f Field) IsValid() bool {
	return f.p != nil && !f.id.Nil() && !f.p.retired.Load()
}

// ID returns the arena ID of the field.
func (f Field) ID() FieldID {
	return f.id
}

// Name returns the simple name of the field.
func (f Field) Name() string {
	return f.rec().name
}

// FullName returns the fully-qualified name of the field. For a field
// this is the message's name followed by the field's name. For an
// extension it is qualified by the scope of the extend block.
func (f Field) FullName() string {
	return f.rec().fullName
}

func (f Field) String() string {
	return f.FullName()
}

// JSONName returns the JSON name of the field: the json_name option if
// present, otherwise the lowerCamelCase form of its name.
func (f Field) JSONName() string {
	return f.rec().jsonName
}

// Number returns the field number.
func (f Field) Number() int32 {
	return f.rec().number
}

// Type returns the field's type.
func (f Field) Type() FieldType {
	return f.rec().typ
}

// TypeName returns the fully-qualified name of the field's message or
// enum type, or the scalar keyword for scalar fields. If the type could
// not be resolved, the name is returned as written.
func (f Field) TypeName() string {
	rec := f.rec()
	if rec.resolved != "" {
		return rec.resolved
	}
	if !rec.typ.IsComposite() && rec.typ != TypeNone {
		return rec.typ.String()
	}
	return rec.typeName
}

// Label returns the cardinality of the field.
func (f Field) Label() Label {
	return f.rec().label
}

// IsRepeated reports whether the field is repeated.
func (f Field) IsRepeated() bool {
	return f.rec().label == LabelRepeated
}

// IsRequired reports whether the field is required.
func (f Field) IsRequired() bool {
	return f.rec().label == LabelRequired
}

// IsPacked reports whether the repeated field uses the packed encoding.
func (f Field) IsPacked() bool {
	return f.rec().packed
}

// IsExtension reports whether this is an extension field.
func (f Field) IsExtension() bool {
	return f.rec().extension
}

// OneofName returns the name of the oneof that contains the field, or
// the empty string.
func (f Field) OneofName() string {
	return f.rec().oneof
}

// File returns the file that declared the field.
func (f Field) File() File {
	return File{p: f.p, id: f.rec().file}
}

// ContainingMessage returns the message whose field list holds this
// field. For extensions, this is the extended message.
func (f Field) ContainingMessage() (Message, bool) {
	id := f.rec().container
	if id.Nil() {
		return Message{}, false
	}
	return Message{p: f.p, id: id}, true
}

// ExtensionScope returns the message in which an extension was
// declared. It returns false for ordinary fields and for extensions
// declared at file level.
func (f Field) ExtensionScope() (Message, bool) {
	rec := f.rec()
	if !rec.extension || rec.scope.Nil() {
		return Message{}, false
	}
	return Message{p: f.p, id: rec.scope}, true
}

// MessageType returns the message type of a message or group field. It
// returns false if the field is of another type or if its type name
// could not be resolved.
func (f Field) MessageType() (Message, bool) {
	id := f.rec().message
	if id.Nil() {
		return Message{}, false
	}
	return Message{p: f.p, id: id}, true
}

// EnumType returns the enum type of an enum field. It returns false if
// the field is of another type or if its type name could not be
// resolved.
func (f Field) EnumType() (Enum, bool) {
	id := f.rec().enum
	if id.Nil() {
		return Enum{}, false
	}
	return Enum{p: f.p, id: id}, true
}

// HasDefault reports whether the field declared an explicit default.
func (f Field) HasDefault() bool {
	return f.rec().hasDefault
}

// Default returns the explicit default of the field if there is one.
// Otherwise it returns the implicit default: zero, false or empty for
// scalars, and the first declared value for enums. Message fields have
// no default and return the zero Value.
func (f Field) Default() Value {
	rec := f.rec()
	var v Value
	switch {
	case rec.hasDefault:
		v = rec.def
	case rec.typ == TypeEnum:
		if ev, ok := f.DefaultEnumValue(); ok {
			v = EnumRef(ev.id)
		}
	default:
		v = zeroValue(rec.typ)
	}
	v.pool = f.p
	return v
}

func (f Field) explicitDefault(match func(FieldType) bool) (Value, bool) {
	rec := f.rec()
	if !rec.hasDefault || !match(rec.typ) {
		return Value{}, false
	}
	return rec.def, true
}

// DefaultInt32 returns the explicit default of an int32, sint32 or
// sfixed32 field. It returns false if the field has another type or no
// explicit default.
func (f Field) DefaultInt32() (int32, bool) {
	v, ok := f.explicitDefault(isInt32Type)
	return int32(v.Int()), ok
}

// DefaultInt64 returns the explicit default of an int64, sint64 or
// sfixed64 field.
func (f Field) DefaultInt64() (int64, bool) {
	v, ok := f.explicitDefault(isInt64Type)
	return v.Int(), ok
}

// DefaultUint32 returns the explicit default of a uint32 or fixed32 field.
func (f Field) DefaultUint32() (uint32, bool) {
	v, ok := f.explicitDefault(isUint32Type)
	return uint32(v.Uint()), ok
}

// DefaultUint64 returns the explicit default of a uint64 or fixed64 field.
func (f Field) DefaultUint64() (uint64, bool) {
	v, ok := f.explicitDefault(isUint64Type)
	return v.Uint(), ok
}

// DefaultFloat returns the explicit default of a float field.
func (f Field) DefaultFloat() (float32, bool) {
	v, ok := f.explicitDefault(func(t FieldType) bool { return t == TypeFloat })
	if !ok {
		return 0, false
	}
	return float32(v.Float()), true
}

// DefaultDouble returns the explicit default of a double field.
func (f Field) DefaultDouble() (float64, bool) {
	v, ok := f.explicitDefault(func(t FieldType) bool { return t == TypeDouble })
	if !ok {
		return 0, false
	}
	return v.Float(), true
}

// DefaultBool returns the explicit default of a bool field.
func (f Field) DefaultBool() (bool, bool) {
	v, ok := f.explicitDefault(func(t FieldType) bool { return t == TypeBool })
	return v.Bool(), ok
}

// DefaultString returns the explicit default of a string or bytes field.
func (f Field) DefaultString() (string, bool) {
	v, ok := f.explicitDefault(func(t FieldType) bool { return t == TypeString || t == TypeBytes })
	return v.str, ok
}

// DefaultBytes returns the explicit default of a string or bytes field.
func (f Field) DefaultBytes() ([]byte, bool) {
	v, ok := f.explicitDefault(func(t FieldType) bool { return t == TypeString || t == TypeBytes })
	if !ok {
		return nil, false
	}
	return v.Bytes(), true
}

// DefaultEnumValue returns the default of an enum field: the explicit
// default if one was declared, otherwise the first value declared in the
// enum. It returns false if the field is not an enum, its enum type was
// not resolved, or the enum has no values.
func (f Field) DefaultEnumValue() (EnumValue, bool) {
	rec := f.rec()
	if rec.typ != TypeEnum {
		return EnumValue{}, false
	}
	if rec.hasDefault && !rec.def.enum.Nil() {
		return EnumValue{p: f.p, id: rec.def.enum}, true
	}
	enum, ok := f.EnumType()
	if !ok || enum.ValueCount() == 0 {
		return EnumValue{}, false
	}
	return enum.Value(0), true
}
