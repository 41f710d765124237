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
	"github.com/protopool/protopool/internal/arena"
)

// Builder populates a Pool. It is used by the linker and is not safe for
// concurrent use. Names registered with a builder must already be unique;
// if the same fully-qualified name is registered twice, lookups find the
// first.
type Builder struct {
	p *Pool
}

// NewBuilder returns a builder for a new, empty pool.
func NewBuilder() *Builder {
	return &Builder{p: &Pool{
		byPath: map[string]FileID{},
	}}
}

func (b *Builder) pool() *Pool {
	if b.p == nil {
		panic("descriptor: builder used after Build")
	}
	return b.p
}

func (b *Builder) register(name string, kind Kind, id arena.Untyped) {
	p := b.pool()
	if _, exists := p.byName.Get(name); exists {
		return
	}
	p.byName.Set(name, symbolRef{kind: kind, id: id})
}

// FileSpec describes a file to add.
type FileSpec struct {
	Path    string
	Package string
	Syntax  Syntax
	Edition string
	Imports []Import
}

// AddFile adds a file.
func (b *Builder) AddFile(spec FileSpec) FileID {
	p := b.pool()
	id := p.files.New(fileRec{
		path:    spec.Path,
		pkg:     spec.Package,
		syntax:  spec.Syntax,
		edition: spec.Edition,
		imports: spec.Imports,
	})
	if _, exists := p.byPath[spec.Path]; !exists {
		p.byPath[spec.Path] = id
	}
	return id
}

// MessageSpec describes a message to add.
type MessageSpec struct {
	File     FileID
	Parent   MessageID
	Name     string
	FullName string
	MapEntry bool
	Oneofs   []string

	ReservedRanges  []Range
	ReservedNames   []string
	ExtensionRanges []Range
}

// AddMessage adds a message to its file, or to its parent message if
// Parent is not nil.
func (b *Builder) AddMessage(spec MessageSpec) MessageID {
	p := b.pool()
	id := p.messages.New(messageRec{
		name:            spec.Name,
		fullName:        spec.FullName,
		file:            spec.File,
		parent:          spec.Parent,
		mapEntry:        spec.MapEntry,
		oneofs:          spec.Oneofs,
		reservedRanges:  spec.ReservedRanges,
		reservedNames:   spec.ReservedNames,
		extensionRanges: spec.ExtensionRanges,
	})
	if spec.Parent.Nil() {
		file := spec.File.In(&p.files)
		file.messages = append(file.messages, id)
	} else {
		parent := spec.Parent.In(&p.messages)
		parent.messages = append(parent.messages, id)
	}
	b.register(spec.FullName, KindMessage, arena.Untyped(id))
	return id
}

// FieldSpec describes a field or extension to add.
type FieldSpec struct {
	File FileID
	// Container is the message that holds the field. For an extension,
	// it is the extendee.
	Container MessageID
	// Scope is the message an extension is declared in, or nil for
	// extensions declared at file level. It is ignored for fields.
	Scope     MessageID
	Extension bool

	Name     string
	FullName string
	JSONName string
	Number   int32
	Label    Label
	// Type is TypeNone for fields whose type name is yet to be resolved.
	Type     FieldType
	TypeName string
	Oneof    string
}

// AddField adds a field to its container. Extensions are also recorded
// in the scope they were declared in.
func (b *Builder) AddField(spec FieldSpec) FieldID {
	p := b.pool()
	id := p.fields.New(fieldRec{
		name:      spec.Name,
		fullName:  spec.FullName,
		jsonName:  spec.JSONName,
		number:    spec.Number,
		label:     spec.Label,
		typ:       spec.Type,
		typeName:  spec.TypeName,
		file:      spec.File,
		container: spec.Container,
		scope:     spec.Scope,
		extension: spec.Extension,
		oneof:     spec.Oneof,
	})
	container := spec.Container.In(&p.messages)
	container.fields = append(container.fields, id)
	kind := KindField
	if spec.Extension {
		kind = KindExtension
		if spec.Scope.Nil() {
			file := spec.File.In(&p.files)
			file.extensions = append(file.extensions, id)
		} else {
			scope := spec.Scope.In(&p.messages)
			scope.extensions = append(scope.extensions, id)
		}
	}
	b.register(spec.FullName, kind, arena.Untyped(id))
	return id
}

// ResolveFieldMessage links a message or group field to its type.
func (b *Builder) ResolveFieldMessage(field FieldID, msg MessageID, group bool) {
	p := b.pool()
	rec := field.In(&p.fields)
	rec.message = msg
	rec.resolved = msg.In(&p.messages).fullName
	rec.typ = TypeMessage
	if group {
		rec.typ = TypeGroup
	}
}

// ResolveFieldEnum links an enum field to its type.
func (b *Builder) ResolveFieldEnum(field FieldID, enum EnumID) {
	p := b.pool()
	rec := field.In(&p.fields)
	rec.enum = enum
	rec.resolved = enum.In(&p.enums).fullName
	rec.typ = TypeEnum
}

// SetFieldPacked sets whether a repeated field uses the packed encoding.
func (b *Builder) SetFieldPacked(field FieldID, packed bool) {
	field.In(&b.pool().fields).packed = packed
}

// SetFieldDefault records the explicit default of a field.
func (b *Builder) SetFieldDefault(field FieldID, v Value) {
	rec := field.In(&b.pool().fields)
	rec.hasDefault = true
	v.pool = nil
	rec.def = v
}

// EnumSpec describes an enum to add.
type EnumSpec struct {
	File       FileID
	Parent     MessageID
	Name       string
	FullName   string
	AllowAlias bool

	ReservedRanges []Range
	ReservedNames  []string
}

// AddEnum adds an enum to its file, or to its parent message if Parent
// is not nil.
func (b *Builder) AddEnum(spec EnumSpec) EnumID {
	p := b.pool()
	id := p.enums.New(enumRec{
		name:           spec.Name,
		fullName:       spec.FullName,
		file:           spec.File,
		parent:         spec.Parent,
		allowAlias:     spec.AllowAlias,
		reservedRanges: spec.ReservedRanges,
		reservedNames:  spec.ReservedNames,
	})
	if spec.Parent.Nil() {
		file := spec.File.In(&p.files)
		file.enums = append(file.enums, id)
	} else {
		parent := spec.Parent.In(&p.messages)
		parent.enums = append(parent.enums, id)
	}
	b.register(spec.FullName, KindEnum, arena.Untyped(id))
	return id
}

// AddEnumValue adds a value to an enum.
func (b *Builder) AddEnumValue(enum EnumID, name, fullName string, number int32) EnumValueID {
	p := b.pool()
	id := p.enumValues.New(enumValueRec{
		name:     name,
		fullName: fullName,
		number:   number,
		enum:     enum,
	})
	rec := enum.In(&p.enums)
	rec.values = append(rec.values, id)
	b.register(fullName, KindEnumValue, arena.Untyped(id))
	return id
}

// AddService adds a service to a file.
func (b *Builder) AddService(file FileID, name, fullName string) ServiceID {
	p := b.pool()
	id := p.services.New(serviceRec{name: name, fullName: fullName, file: file})
	rec := file.In(&p.files)
	rec.services = append(rec.services, id)
	b.register(fullName, KindService, arena.Untyped(id))
	return id
}

// MethodSpec describes a method to add.
type MethodSpec struct {
	Service         ServiceID
	Name            string
	FullName        string
	InputName       string
	OutputName      string
	ClientStreaming bool
	ServerStreaming bool
}

// AddMethod adds a method to a service.
func (b *Builder) AddMethod(spec MethodSpec) MethodID {
	p := b.pool()
	id := p.methods.New(methodRec{
		name:            spec.Name,
		fullName:        spec.FullName,
		service:         spec.Service,
		inputName:       spec.InputName,
		outputName:      spec.OutputName,
		clientStreaming: spec.ClientStreaming,
		serverStreaming: spec.ServerStreaming,
	})
	rec := spec.Service.In(&p.services)
	rec.methods = append(rec.methods, id)
	b.register(spec.FullName, KindMethod, arena.Untyped(id))
	return id
}

// ResolveMethodInput links a method to its request type.
func (b *Builder) ResolveMethodInput(method MethodID, msg MessageID) {
	method.In(&b.pool().methods).input = msg
}

// ResolveMethodOutput links a method to its response type.
func (b *Builder) ResolveMethodOutput(method MethodID, msg MessageID) {
	method.In(&b.pool().methods).output = msg
}

// Message returns a handle to a message of the pool under construction.
// It may be used to query what has been added so far.
func (b *Builder) Message(id MessageID) Message {
	return Message{p: b.pool(), id: id}
}

// Enum returns a handle to an enum of the pool under construction.
func (b *Builder) Enum(id EnumID) Enum {
	return Enum{p: b.pool(), id: id}
}

// Field returns a handle to a field of the pool under construction.
func (b *Builder) Field(id FieldID) Field {
	return Field{p: b.pool(), id: id}
}

// Build finalizes the pool and returns it. The builder may not be used
// afterwards.
func (b *Builder) Build() *Pool {
	p := b.pool()
	b.p = nil
	p.generation = generations.Add(1)
	return p
}
