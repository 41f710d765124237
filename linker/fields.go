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

package linker

import (
	"math"
	"unicode/utf8"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/internal"
	"github.com/protopool/protopool/reporter"
)

const repeatedFieldEncoding = "features.repeated_field_encoding"

func fieldJSONName(handler *reporter.Handler, scope string, node *ast.FieldNode) (string, error) {
	index, err := internal.FindOption(handler, scope, node.Options, "json_name")
	if err != nil || index < 0 {
		return internal.JSONName(node.Name), err
	}
	val := node.Options[index].Value
	if val.Kind != ast.ValueString {
		return internal.JSONName(node.Name), handler.HandleErrorf(val.Pos, "%s: expecting string value for json_name option", scope)
	}
	return val.Str, nil
}

// linkFieldOptions interprets the default and packed options of a field
// whose type has been resolved.
func (l *Linker) linkFieldOptions(file *fileState, scope string, node *ast.FieldNode, id descriptor.FieldID) error {
	fld := l.b.Field(id)

	index, err := internal.FindOption(l.handler, scope, node.Options, "default")
	if err != nil {
		return err
	}
	if index >= 0 {
		if err := l.linkDefault(file, scope, node.Options[index], fld); err != nil {
			return err
		}
	}

	packed, err := l.packed(file, scope, node, fld)
	if err != nil {
		return err
	}
	if packed {
		l.b.SetFieldPacked(id, true)
	}
	return nil
}

// packed computes whether a field uses the packed encoding. An explicit
// packed option wins; otherwise repeated scalar fields are packed in
// proto3 and editions files and not packed in proto2 files. Only repeated
// fields of packable types are ever packed.
func (l *Linker) packed(file *fileState, scope string, node *ast.FieldNode, fld descriptor.Field) (bool, error) {
	packable := fld.IsRepeated() && fld.Type().IsPackable()

	index, err := internal.FindOption(l.handler, scope, node.Options, "packed")
	if err != nil {
		return false, err
	}
	if index >= 0 {
		opt := node.Options[index]
		val, ok := opt.Value.AsBool()
		if !ok {
			return false, l.handler.HandleErrorf(opt.Value.Pos, "%s: expecting bool value for packed option", scope)
		}
		if file.node.Syntax == ast.SyntaxEditions {
			return false, l.handler.HandleErrorf(opt.Pos, "%s: packed option is not allowed in editions; use %s instead", scope, repeatedFieldEncoding)
		}
		if val && !packable && fld.Type() != descriptor.TypeNone {
			return false, l.handler.HandleErrorf(opt.Pos, "%s: [packed = true] can only be specified for repeated primitive fields", scope)
		}
		return val && packable, nil
	}
	if !packable {
		return false, nil
	}

	switch file.node.Syntax {
	case ast.SyntaxProto3:
		return true, nil
	case ast.SyntaxEditions:
		encoding := "PACKED"
		for _, opts := range [][]*ast.OptionNode{file.node.Options, node.Options} {
			if opt := lastOption(opts, repeatedFieldEncoding); opt != nil {
				encoding = opt.Value.Str
			}
		}
		switch encoding {
		case "PACKED":
			return true, nil
		case "EXPANDED":
			return false, nil
		default:
			return false, l.handler.HandleErrorf(node.Pos, "%s: invalid value %s for %s", scope, encoding, repeatedFieldEncoding)
		}
	default:
		return false, nil
	}
}

func lastOption(opts []*ast.OptionNode, name string) *ast.OptionNode {
	var found *ast.OptionNode
	for _, opt := range opts {
		if opt.Name == name {
			found = opt
		}
	}
	return found
}

func (l *Linker) linkDefault(file *fileState, scope string, opt *ast.OptionNode, fld descriptor.Field) error {
	switch {
	case fld.IsRepeated():
		return l.handler.HandleErrorf(opt.Pos, "%s: default value cannot be set because field is repeated", scope)
	case fld.Type() == descriptor.TypeMessage || fld.Type() == descriptor.TypeGroup:
		return l.handler.HandleErrorf(opt.Pos, "%s: default value cannot be set because field is a message", scope)
	case file.node.Syntax == ast.SyntaxProto3:
		return l.handler.HandleErrorf(opt.Pos, "%s: default values are not allowed in proto3", scope)
	case fld.Type() == descriptor.TypeNone:
		// the type could not be resolved, which has been reported already
		return nil
	}

	val := opt.Value
	def, ok, inRange := defaultValue(fld.Type(), val)
	if fld.Type() == descriptor.TypeEnum {
		enum, _ := fld.EnumType()
		if val.Kind != ast.ValueIdent {
			return l.handler.HandleErrorf(val.Pos, "%s: default value for an enum must be an identifier, not %s", scope, val)
		}
		ev, found := enum.FindValueByName(val.Str)
		if !found {
			return l.handler.HandleErrorf(val.Pos, "%s: enum %s has no value named %s", scope, enum.FullName(), val.Str)
		}
		def, ok, inRange = descriptor.EnumRef(ev.ID()), true, true
	}
	switch {
	case !ok:
		return l.handler.HandleErrorf(val.Pos, "%s: default value %s does not match field type %s", scope, val, fld.Type())
	case !inRange:
		return l.handler.HandleErrorf(val.Pos, "%s: default value %s is out of range for type %s", scope, val, fld.Type())
	}
	l.b.SetFieldDefault(fld.ID(), def)
	return nil
}

// defaultValue converts an option value to a value of the given scalar
// type. It returns false for ok if the kind of value does not match the
// type, and false for inRange if it does but the value cannot be
// represented.
func defaultValue(t descriptor.FieldType, val *ast.ValueNode) (v descriptor.Value, ok, inRange bool) {
	switch t {
	case descriptor.TypeInt32, descriptor.TypeSint32, descriptor.TypeSfixed32,
		descriptor.TypeInt64, descriptor.TypeSint64, descriptor.TypeSfixed64:
		if val.Kind != ast.ValueInt {
			return v, false, false
		}
		i, ok := val.AsInt64()
		if !ok {
			return v, true, false
		}
		if t == descriptor.TypeInt32 || t == descriptor.TypeSint32 || t == descriptor.TypeSfixed32 {
			if i < math.MinInt32 || i > math.MaxInt32 {
				return v, true, false
			}
		}
		return descriptor.IntValue(t, i), true, true

	case descriptor.TypeUint32, descriptor.TypeFixed32, descriptor.TypeUint64, descriptor.TypeFixed64:
		if val.Kind != ast.ValueInt {
			return v, false, false
		}
		u, ok := val.AsUint64()
		if !ok {
			return v, true, false
		}
		if (t == descriptor.TypeUint32 || t == descriptor.TypeFixed32) && u > math.MaxUint32 {
			return v, true, false
		}
		return descriptor.UintValue(t, u), true, true

	case descriptor.TypeFloat, descriptor.TypeDouble:
		f, ok := val.AsFloat()
		if !ok {
			return v, false, false
		}
		return descriptor.FloatValue(t, f), true, true

	case descriptor.TypeBool:
		b, ok := val.AsBool()
		if !ok {
			return v, false, false
		}
		return descriptor.BoolValue(b), true, true

	case descriptor.TypeString:
		if val.Kind != ast.ValueString {
			return v, false, false
		}
		if !utf8.ValidString(val.Str) {
			return v, true, false
		}
		return descriptor.StringValue(val.Str), true, true

	case descriptor.TypeBytes:
		if val.Kind != ast.ValueString {
			return v, false, false
		}
		return descriptor.BytesValue([]byte(val.Str)), true, true
	}
	return v, false, false
}
