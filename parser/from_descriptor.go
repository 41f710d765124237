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

package parser

import (
	"math"
	"strings"

	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protopool/protopool/ast"
)

// FromDescriptor creates a declaration tree from a compiled descriptor,
// such as one linked into the program from generated code. This allows
// standard imports to be loaded without their source. The resulting tree
// has no FileInfo and all positions name only the file.
func FromDescriptor(fd protoreflect.FileDescriptor) *ast.FileNode {
	c := &descConverter{pos: ast.UnknownPos(fd.Path())}
	file := ast.NewFileNode(fd.Path(), nil)
	file.SyntaxPos = c.pos
	switch fd.Syntax() {
	case protoreflect.Proto3:
		file.Syntax = ast.SyntaxProto3
	case protoreflect.Editions:
		file.Syntax = ast.SyntaxEditions
		file.Edition = strings.TrimPrefix(editionOf(fd), "EDITION_")
	default:
		file.Syntax = ast.SyntaxProto2
	}
	c.syntax = file.Syntax
	file.Package = string(fd.Package())
	if file.Package != "" {
		file.PackagePos = c.pos
	}

	imports := fd.Imports()
	for i := range imports.Len() {
		imp := imports.Get(i)
		file.Imports = append(file.Imports, &ast.ImportNode{
			Path:   imp.Path(),
			Public: imp.IsPublic,
			Weak:   imp.IsWeak,
			Pos:    c.pos,
		})
	}

	msgs := fd.Messages()
	for i := range msgs.Len() {
		file.Messages = append(file.Messages, c.message(msgs.Get(i)))
	}
	enums := fd.Enums()
	for i := range enums.Len() {
		file.Enums = append(file.Enums, c.enum(enums.Get(i)))
	}
	file.Extends = c.extends(fd.Extensions(), file.Messages)
	svcs := fd.Services()
	for i := range svcs.Len() {
		file.Services = append(file.Services, c.service(svcs.Get(i)))
	}
	return file
}

func editionOf(fd protoreflect.FileDescriptor) string {
	return protodesc.ToFileDescriptorProto(fd).GetEdition().String()
}

type descConverter struct {
	pos    ast.SourcePos
	syntax ast.Syntax
}

func (c *descConverter) message(md protoreflect.MessageDescriptor) *ast.MessageNode {
	msg := &ast.MessageNode{
		Name:       string(md.Name()),
		Pos:        c.pos,
		IsMapEntry: md.IsMapEntry(),
	}
	nested := md.Messages()
	for i := range nested.Len() {
		msg.Messages = append(msg.Messages, c.message(nested.Get(i)))
	}
	enums := md.Enums()
	for i := range enums.Len() {
		msg.Enums = append(msg.Enums, c.enum(enums.Get(i)))
	}
	fields := md.Fields()
	for i := range fields.Len() {
		msg.Fields = append(msg.Fields, c.field(fields.Get(i), msg.Messages))
	}
	oneofs := md.Oneofs()
	for i := range oneofs.Len() {
		oo := oneofs.Get(i)
		if oo.IsSynthetic() {
			continue
		}
		msg.Oneofs = append(msg.Oneofs, &ast.OneofNode{Name: string(oo.Name()), Pos: c.pos})
	}
	msg.Extends = c.extends(md.Extensions(), msg.Messages)

	rngs := md.ReservedRanges()
	for i := range rngs.Len() {
		r := rngs.Get(i)
		// descriptor ranges are half-open
		msg.ReservedRanges = append(msg.ReservedRanges, c.rangeNode(int64(r[0]), int64(r[1])-1))
	}
	names := md.ReservedNames()
	for i := range names.Len() {
		msg.ReservedNames = append(msg.ReservedNames, &ast.ReservedNameNode{Name: string(names.Get(i)), Pos: c.pos})
	}
	exts := md.ExtensionRanges()
	for i := range exts.Len() {
		r := exts.Get(i)
		msg.ExtensionRanges = append(msg.ExtensionRanges, c.rangeNode(int64(r[0]), int64(r[1])-1))
	}
	return msg
}

func (c *descConverter) rangeNode(start, end int64) *ast.RangeNode {
	return &ast.RangeNode{Start: start, End: end, Pos: c.pos}
}

// field converts a field or extension. siblings are the messages declared
// in the same scope, which is where group and map entry types live.
func (c *descConverter) field(fd protoreflect.FieldDescriptor, siblings []*ast.MessageNode) *ast.FieldNode {
	fld := &ast.FieldNode{
		Name:      string(fd.Name()),
		Pos:       c.pos,
		Number:    int64(fd.Number()),
		NumberPos: c.pos,
		TypePos:   c.pos,
		LabelPos:  c.pos,
	}
	switch {
	case fd.Cardinality() == protoreflect.Repeated:
		fld.Label = ast.LabelRepeated
	case fd.Cardinality() == protoreflect.Required:
		fld.Label = ast.LabelRequired
	case fd.ContainingOneof() != nil && !fd.ContainingOneof().IsSynthetic():
		fld.Oneof = string(fd.ContainingOneof().Name())
	case c.syntax == ast.SyntaxProto2 || fd.HasOptionalKeyword():
		fld.Label = ast.LabelOptional
	}

	switch fd.Kind() {
	case protoreflect.MessageKind, protoreflect.GroupKind:
		fld.TypeName = "." + string(fd.Message().FullName())
		if fd.Kind() == protoreflect.GroupKind || fd.IsMap() {
			for _, sib := range siblings {
				if protoreflect.Name(sib.Name) == fd.Message().Name() && fd.Message().Parent() == fd.Parent() {
					if fd.IsMap() {
						fld.MapEntry = sib
					} else {
						fld.Group = sib
						sib.IsGroup = true
					}
				}
			}
		}
	case protoreflect.EnumKind:
		fld.TypeName = "." + string(fd.Enum().FullName())
	default:
		fld.TypeName = fd.Kind().String()
	}

	if fd.HasDefault() {
		fld.Options = append(fld.Options, &ast.OptionNode{Name: "default", Pos: c.pos, Value: c.defaultValue(fd)})
	}
	if opts, ok := fd.Options().(*descriptorpb.FieldOptions); ok && opts != nil && opts.Packed != nil {
		fld.Options = append(fld.Options, &ast.OptionNode{Name: "packed", Pos: c.pos, Value: c.ident(boolIdent(opts.GetPacked()))})
	}
	if fd.HasJSONName() {
		fld.Options = append(fld.Options, &ast.OptionNode{
			Name:  "json_name",
			Pos:   c.pos,
			Value: &ast.ValueNode{Kind: ast.ValueString, Pos: c.pos, Str: fd.JSONName()},
		})
	}
	return fld
}

func boolIdent(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (c *descConverter) ident(s string) *ast.ValueNode {
	return &ast.ValueNode{Kind: ast.ValueIdent, Pos: c.pos, Str: s}
}

func (c *descConverter) defaultValue(fd protoreflect.FieldDescriptor) *ast.ValueNode {
	def := fd.Default()
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return c.ident(boolIdent(def.Bool()))
	case protoreflect.EnumKind:
		return c.ident(string(fd.DefaultEnumValue().Name()))
	case protoreflect.StringKind:
		return &ast.ValueNode{Kind: ast.ValueString, Pos: c.pos, Str: def.String()}
	case protoreflect.BytesKind:
		return &ast.ValueNode{Kind: ast.ValueString, Pos: c.pos, Str: string(def.Bytes())}
	case protoreflect.FloatKind, protoreflect.DoubleKind:
		return &ast.ValueNode{Kind: ast.ValueFloat, Pos: c.pos, Float: def.Float()}
	case protoreflect.Uint32Kind, protoreflect.Uint64Kind, protoreflect.Fixed32Kind, protoreflect.Fixed64Kind:
		return &ast.ValueNode{Kind: ast.ValueInt, Pos: c.pos, Uint: def.Uint()}
	default:
		v := def.Int()
		if v < 0 {
			mag := uint64(-v)
			if v == math.MinInt64 {
				mag = 1 << 63
			}
			return &ast.ValueNode{Kind: ast.ValueInt, Pos: c.pos, Uint: mag, Negative: true}
		}
		return &ast.ValueNode{Kind: ast.ValueInt, Pos: c.pos, Uint: uint64(v)}
	}
}

// extends groups extensions by extendee, preserving declaration order.
func (c *descConverter) extends(exts protoreflect.ExtensionDescriptors, siblings []*ast.MessageNode) []*ast.ExtendNode {
	var result []*ast.ExtendNode
	byExtendee := map[protoreflect.FullName]*ast.ExtendNode{}
	for i := range exts.Len() {
		xd := exts.Get(i)
		extendee := xd.ContainingMessage().FullName()
		ext := byExtendee[extendee]
		if ext == nil {
			ext = &ast.ExtendNode{Extendee: "." + string(extendee), Pos: c.pos}
			byExtendee[extendee] = ext
			result = append(result, ext)
		}
		ext.Fields = append(ext.Fields, c.field(xd, siblings))
	}
	return result
}

func (c *descConverter) enum(ed protoreflect.EnumDescriptor) *ast.EnumNode {
	en := &ast.EnumNode{Name: string(ed.Name()), Pos: c.pos}
	vals := ed.Values()
	for i := range vals.Len() {
		val := vals.Get(i)
		num := int64(val.Number())
		en.Values = append(en.Values, &ast.EnumValueNode{Name: string(val.Name()), Pos: c.pos, Number: num, NumberPos: c.pos})
	}
	if opts, ok := ed.Options().(*descriptorpb.EnumOptions); ok && opts != nil && opts.AllowAlias != nil {
		en.Options = append(en.Options, &ast.OptionNode{Name: "allow_alias", Pos: c.pos, Value: c.ident(boolIdent(opts.GetAllowAlias()))})
	}
	rngs := ed.ReservedRanges()
	for i := range rngs.Len() {
		r := rngs.Get(i)
		// enum ranges are inclusive
		en.ReservedRanges = append(en.ReservedRanges, c.rangeNode(int64(r[0]), int64(r[1])))
	}
	names := ed.ReservedNames()
	for i := range names.Len() {
		en.ReservedNames = append(en.ReservedNames, &ast.ReservedNameNode{Name: string(names.Get(i)), Pos: c.pos})
	}
	return en
}

func (c *descConverter) service(sd protoreflect.ServiceDescriptor) *ast.ServiceNode {
	svc := &ast.ServiceNode{Name: string(sd.Name()), Pos: c.pos}
	mtds := sd.Methods()
	for i := range mtds.Len() {
		md := mtds.Get(i)
		svc.Methods = append(svc.Methods, &ast.RPCNode{
			Name:            string(md.Name()),
			Pos:             c.pos,
			InputType:       "." + string(md.Input().FullName()),
			InputPos:        c.pos,
			ClientStreaming: md.IsStreamingClient(),
			OutputType:      "." + string(md.Output().FullName()),
			OutputPos:       c.pos,
			ServerStreaming: md.IsStreamingServer(),
		})
	}
	return svc
}
