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

import "google.golang.org/protobuf/types/descriptorpb"

// FieldType is the type tag of a field. Its numbering matches
// descriptorpb.FieldDescriptorProto_Type, with zero meaning "no type".
type FieldType int32

const (
	TypeNone     = FieldType(0)
	TypeDouble   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_DOUBLE)
	TypeFloat    = FieldType(descriptorpb.FieldDescriptorProto_TYPE_FLOAT)
	TypeInt64    = FieldType(descriptorpb.FieldDescriptorProto_TYPE_INT64)
	TypeUint64   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_UINT64)
	TypeInt32    = FieldType(descriptorpb.FieldDescriptorProto_TYPE_INT32)
	TypeFixed64  = FieldType(descriptorpb.FieldDescriptorProto_TYPE_FIXED64)
	TypeFixed32  = FieldType(descriptorpb.FieldDescriptorProto_TYPE_FIXED32)
	TypeBool     = FieldType(descriptorpb.FieldDescriptorProto_TYPE_BOOL)
	TypeString   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_STRING)
	TypeGroup    = FieldType(descriptorpb.FieldDescriptorProto_TYPE_GROUP)
	TypeMessage  = FieldType(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	TypeBytes    = FieldType(descriptorpb.FieldDescriptorProto_TYPE_BYTES)
	TypeUint32   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_UINT32)
	TypeEnum     = FieldType(descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	TypeSfixed32 = FieldType(descriptorpb.FieldDescriptorProto_TYPE_SFIXED32)
	TypeSfixed64 = FieldType(descriptorpb.FieldDescriptorProto_TYPE_SFIXED64)
	TypeSint32   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_SINT32)
	TypeSint64   = FieldType(descriptorpb.FieldDescriptorProto_TYPE_SINT64)
)

var fieldTypeNames = [...]string{
	TypeNone:     "",
	TypeDouble:   "double",
	TypeFloat:    "float",
	TypeInt64:    "int64",
	TypeUint64:   "uint64",
	TypeInt32:    "int32",
	TypeFixed64:  "fixed64",
	TypeFixed32:  "fixed32",
	TypeBool:     "bool",
	TypeString:   "string",
	TypeGroup:    "group",
	TypeMessage:  "message",
	TypeBytes:    "bytes",
	TypeUint32:   "uint32",
	TypeEnum:     "enum",
	TypeSfixed32: "sfixed32",
	TypeSfixed64: "sfixed64",
	TypeSint32:   "sint32",
	TypeSint64:   "sint64",
}

// String returns the name of the type, as used in proto source for
// scalar types, or "message", "group" or "enum". It returns the empty
// string for TypeNone and for values outside the enumeration.
func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return ""
	}
	return fieldTypeNames[t]
}

// IsPackable reports whether repeated fields of this type may use the
// packed encoding.
func (t FieldType) IsPackable() bool {
	switch t {
	case TypeNone, TypeString, TypeBytes, TypeMessage, TypeGroup:
		return false
	}
	return t > TypeNone && t <= TypeSint64
}

// IsComposite reports whether the type refers to a message or enum.
func (t FieldType) IsComposite() bool {
	return t == TypeMessage || t == TypeGroup || t == TypeEnum
}

// Label is the cardinality of a field. Its numbering matches
// descriptorpb.FieldDescriptorProto_Label.
type Label int32

const (
	LabelOptional = Label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)
	LabelRequired = Label(descriptorpb.FieldDescriptorProto_LABEL_REQUIRED)
	LabelRepeated = Label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED)
)

func (l Label) String() string {
	switch l {
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return "optional"
	}
}

// Syntax is the dialect a file was written in.
type Syntax int

const (
	SyntaxProto2 = Syntax(iota)
	SyntaxProto3
	SyntaxEditions
)

func (s Syntax) String() string {
	switch s {
	case SyntaxProto3:
		return "proto3"
	case SyntaxEditions:
		return "editions"
	default:
		return "proto2"
	}
}

// Kind identifies what sort of element a fully-qualified name refers to.
type Kind int

const (
	KindNone = Kind(iota)
	KindMessage
	KindField
	KindExtension
	KindEnum
	KindEnumValue
	KindService
	KindMethod
)

func (k Kind) String() string {
	switch k {
	case KindMessage:
		return "message"
	case KindField:
		return "field"
	case KindExtension:
		return "extension"
	case KindEnum:
		return "enum"
	case KindEnumValue:
		return "enum value"
	case KindService:
		return "service"
	case KindMethod:
		return "method"
	default:
		return "unknown"
	}
}
