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

import (
	"math"
	"strconv"
)

// Value is the default value of a field. The zero Value has type
// TypeNone and represents the absence of a value.
type Value struct {
	typ  FieldType
	bits uint64
	str  string
	enum EnumValueID
	pool *Pool
}

// IntValue returns a value of one of the signed integer types.
func IntValue(t FieldType, v int64) Value {
	return Value{typ: t, bits: uint64(v)}
}

// UintValue returns a value of one of the unsigned integer types.
func UintValue(t FieldType, v uint64) Value {
	return Value{typ: t, bits: v}
}

// FloatValue returns a value of type float or double. Values of type
// float are rounded to single precision.
func FloatValue(t FieldType, v float64) Value {
	if t == TypeFloat {
		v = float64(float32(v))
	}
	return Value{typ: t, bits: math.Float64bits(v)}
}

// BoolValue returns a bool value.
func BoolValue(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{typ: TypeBool, bits: bits}
}

// StringValue returns a string value.
func StringValue(v string) Value {
	return Value{typ: TypeString, str: v}
}

// BytesValue returns a bytes value.
func BytesValue(v []byte) Value {
	return Value{typ: TypeBytes, str: string(v)}
}

// EnumRef returns a value that refers to an enum value.
func EnumRef(id EnumValueID) Value {
	return Value{typ: TypeEnum, enum: id}
}

// Type returns the type of the value. It is TypeNone for the zero Value.
func (v Value) Type() FieldType {
	return v.typ
}

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool {
	return v.typ != TypeNone
}

// Int returns the value of a signed integer.
func (v Value) Int() int64 {
	return int64(v.bits)
}

// Uint returns the value of an unsigned integer.
func (v Value) Uint() uint64 {
	return v.bits
}

// Float returns the value of a float or double.
func (v Value) Float() float64 {
	if v.typ != TypeFloat && v.typ != TypeDouble {
		return 0
	}
	return math.Float64frombits(v.bits)
}

// Bool returns the value of a bool.
func (v Value) Bool() bool {
	return v.bits != 0
}

// Bytes returns the contents of a string or bytes value.
func (v Value) Bytes() []byte {
	if v.typ != TypeString && v.typ != TypeBytes {
		return nil
	}
	return []byte(v.str)
}

// Enum returns the enum value referred to. It returns false if v is not
// an enum value or was not obtained from a pool.
func (v Value) Enum() (EnumValue, bool) {
	if v.typ != TypeEnum || v.enum.Nil() || v.pool == nil {
		return EnumValue{}, false
	}
	return EnumValue{p: v.pool, id: v.enum}, true
}

// String returns the contents of a string or bytes value. Other values
// are formatted as they would be written in a default option.
func (v Value) String() string {
	switch v.typ {
	case TypeString, TypeBytes:
		return v.str
	case TypeInt32, TypeInt64, TypeSint32, TypeSint64, TypeSfixed32, TypeSfixed64:
		return strconv.FormatInt(v.Int(), 10)
	case TypeUint32, TypeUint64, TypeFixed32, TypeFixed64:
		return strconv.FormatUint(v.Uint(), 10)
	case TypeFloat:
		return formatFloat(v.Float(), 32)
	case TypeDouble:
		return formatFloat(v.Float(), 64)
	case TypeBool:
		return strconv.FormatBool(v.Bool())
	case TypeEnum:
		if ev, ok := v.Enum(); ok {
			return ev.Name()
		}
	}
	return ""
}

func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// zeroValue returns the implicit default of a scalar type.
func zeroValue(t FieldType) Value {
	switch t {
	case TypeNone, TypeMessage, TypeGroup, TypeEnum:
		return Value{}
	case TypeFloat, TypeDouble:
		return FloatValue(t, 0)
	default:
		return Value{typ: t}
	}
}

func isInt32Type(t FieldType) bool {
	return t == TypeInt32 || t == TypeSint32 || t == TypeSfixed32
}

func isInt64Type(t FieldType) bool {
	return t == TypeInt64 || t == TypeSint64 || t == TypeSfixed64
}

func isUint32Type(t FieldType) bool {
	return t == TypeUint32 || t == TypeFixed32
}

func isUint64Type(t FieldType) bool {
	return t == TypeUint64 || t == TypeFixed64
}
