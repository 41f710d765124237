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
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

// ToFileDescriptorSet converts the pool into descriptor protos, one per
// file, in load order. Unresolved type references are exported as
// written.
func (p *Pool) ToFileDescriptorSet() *descriptorpb.FileDescriptorSet {
	set := &descriptorpb.FileDescriptorSet{}
	for _, file := range p.Files() {
		set.File = append(set.File, file.ToProto())
	}
	return set
}

// ToProto converts the file into a descriptor proto.
func (f File) ToProto() *descriptorpb.FileDescriptorProto {
	fd := &descriptorpb.FileDescriptorProto{
		Name: proto.String(f.Path()),
	}
	if pkg := f.Package(); pkg != "" {
		fd.Package = proto.String(pkg)
	}
	switch f.Syntax() {
	case SyntaxProto3:
		fd.Syntax = proto.String("proto3")
	case SyntaxEditions:
		fd.Syntax = proto.String("editions")
	}
	for i, imp := range f.Imports() {
		fd.Dependency = append(fd.Dependency, imp.Path)
		if imp.Public {
			fd.PublicDependency = append(fd.PublicDependency, int32(i))
		}
		if imp.Weak {
			fd.WeakDependency = append(fd.WeakDependency, int32(i))
		}
	}
	for _, msg := range f.Messages() {
		fd.MessageType = append(fd.MessageType, msg.ToProto())
	}
	for _, enum := range f.Enums() {
		fd.EnumType = append(fd.EnumType, enum.ToProto())
	}
	for _, svc := range f.Services() {
		fd.Service = append(fd.Service, svc.ToProto())
	}
	for _, ext := range f.Extensions() {
		fd.Extension = append(fd.Extension, ext.ToProto())
	}
	return fd
}

// ToProto converts the message into a descriptor proto.
func (m Message) ToProto() *descriptorpb.DescriptorProto {
	md := &descriptorpb.DescriptorProto{
		Name: proto.String(m.Name()),
	}
	oneofs := m.Oneofs()
	for _, name := range oneofs {
		md.OneofDecl = append(md.OneofDecl, &descriptorpb.OneofDescriptorProto{Name: proto.String(name)})
	}
	for _, fld := range m.Fields() {
		if fld.IsExtension() {
			continue
		}
		fp := fld.ToProto()
		if oneof := fld.OneofName(); oneof != "" {
			for i, name := range oneofs {
				if name == oneof {
					fp.OneofIndex = proto.Int32(int32(i))
					break
				}
			}
		}
		md.Field = append(md.Field, fp)
	}
	for _, nested := range m.NestedMessages() {
		md.NestedType = append(md.NestedType, nested.ToProto())
	}
	for _, enum := range m.NestedEnums() {
		md.EnumType = append(md.EnumType, enum.ToProto())
	}
	for _, ext := range m.Extensions() {
		md.Extension = append(md.Extension, ext.ToProto())
	}
	for _, rng := range m.ReservedRanges() {
		// end is exclusive in descriptor protos
		md.ReservedRange = append(md.ReservedRange, &descriptorpb.DescriptorProto_ReservedRange{
			Start: proto.Int32(rng.Start),
			End:   proto.Int32(rng.End + 1),
		})
	}
	md.ReservedName = append(md.ReservedName, m.ReservedNames()...)
	for _, rng := range m.ExtensionRanges() {
		md.ExtensionRange = append(md.ExtensionRange, &descriptorpb.DescriptorProto_ExtensionRange{
			Start: proto.Int32(rng.Start),
			End:   proto.Int32(rng.End + 1),
		})
	}
	if m.IsMapEntry() {
		md.Options = &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)}
	}
	return md
}

// ToProto converts the field into a descriptor proto.
func (f Field) ToProto() *descriptorpb.FieldDescriptorProto {
	rec := f.rec()
	fp := &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(rec.name),
		Number:   proto.Int32(rec.number),
		Label:    descriptorpb.FieldDescriptorProto_Label(rec.label).Enum(),
		JsonName: proto.String(rec.jsonName),
	}
	if rec.typ != TypeNone {
		fp.Type = descriptorpb.FieldDescriptorProto_Type(rec.typ).Enum()
	}
	switch {
	case rec.resolved != "":
		fp.TypeName = proto.String("." + rec.resolved)
	case rec.typ == TypeNone:
		fp.TypeName = proto.String(rec.typeName)
	}
	if rec.extension {
		if extendee, ok := f.ContainingMessage(); ok {
			fp.Extendee = proto.String("." + extendee.FullName())
		}
	}
	if rec.hasDefault {
		fp.DefaultValue = proto.String(f.defaultString())
	}
	if rec.label == LabelRepeated && rec.typ.IsPackable() {
		proto3 := f.File().Syntax() != SyntaxProto2
		if rec.packed != proto3 {
			fp.Options = &descriptorpb.FieldOptions{Packed: proto.Bool(rec.packed)}
		}
	}
	return fp
}

func (f Field) defaultString() string {
	v := f.Default()
	if v.Type() == TypeBytes {
		return cEscape(v.str)
	}
	return v.String()
}

// ToProto converts the enum into a descriptor proto.
func (e Enum) ToProto() *descriptorpb.EnumDescriptorProto {
	ed := &descriptorpb.EnumDescriptorProto{
		Name: proto.String(e.Name()),
	}
	for _, val := range e.Values() {
		ed.Value = append(ed.Value, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(val.Name()),
			Number: proto.Int32(val.Number()),
		})
	}
	for _, rng := range e.ReservedRanges() {
		// end is inclusive for enums
		ed.ReservedRange = append(ed.ReservedRange, &descriptorpb.EnumDescriptorProto_EnumReservedRange{
			Start: proto.Int32(rng.Start),
			End:   proto.Int32(rng.End),
		})
	}
	ed.ReservedName = append(ed.ReservedName, e.ReservedNames()...)
	if e.AllowAlias() {
		ed.Options = &descriptorpb.EnumOptions{AllowAlias: proto.Bool(true)}
	}
	return ed
}

// ToProto converts the service into a descriptor proto.
func (s Service) ToProto() *descriptorpb.ServiceDescriptorProto {
	sd := &descriptorpb.ServiceDescriptorProto{
		Name: proto.String(s.Name()),
	}
	for _, mtd := range s.Methods() {
		md := &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(mtd.Name()),
			InputType:  proto.String(qualifiedTypeName(mtd.InputType())),
			OutputType: proto.String(qualifiedTypeName(mtd.OutputType())),
		}
		if mtd.ClientStreaming() {
			md.ClientStreaming = proto.Bool(true)
		}
		if mtd.ServerStreaming() {
			md.ServerStreaming = proto.Bool(true)
		}
		if !strings.HasPrefix(md.GetInputType(), ".") {
			md.InputType = proto.String(mtd.InputTypeName())
		}
		if !strings.HasPrefix(md.GetOutputType(), ".") {
			md.OutputType = proto.String(mtd.OutputTypeName())
		}
		sd.Method = append(sd.Method, md)
	}
	return sd
}

func qualifiedTypeName(msg Message, ok bool) string {
	if !ok {
		return ""
	}
	return "." + msg.FullName()
}

// cEscape escapes bytes the way protoc writes bytes defaults.
func cEscape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '"':
			b.WriteString(`\"`)
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if c < 0x20 || c >= 0x7f {
				fmt.Fprintf(&b, "\\%03o", c)
			} else {
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}
