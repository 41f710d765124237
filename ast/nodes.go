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

package ast

// Syntax identifies the dialect a file is written in.
type Syntax int

const (
	// SyntaxProto2 is the default when a file has no syntax statement.
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

// Label is the cardinality keyword of a field, if any.
type Label int

const (
	LabelNone = Label(iota)
	LabelOptional
	LabelRequired
	LabelRepeated
)

func (l Label) String() string {
	switch l {
	case LabelOptional:
		return "optional"
	case LabelRequired:
		return "required"
	case LabelRepeated:
		return "repeated"
	default:
		return ""
	}
}

// Decl is implemented by every named declaration in the tree, which
// allows walking the tree generically.
type Decl interface {
	// DeclName is the simple (unqualified) name of the declaration.
	// Extend blocks have no name of their own and return the extendee
	// as written.
	DeclName() string
	// Start is the position of the declaration's name.
	Start() SourcePos
	decl()
}

// FileNode is the root of the declaration tree for a single source file.
type FileNode struct {
	// Name is the path of the file, relative to the import root it was
	// loaded from.
	Name string
	// FileInfo is nil for files that were synthesized from a descriptor
	// rather than parsed from source.
	FileInfo *FileInfo

	Syntax    Syntax
	SyntaxPos SourcePos
	// Edition is set only when Syntax is SyntaxEditions.
	Edition string

	Package    string
	PackagePos SourcePos

	Imports  []*ImportNode
	Options  []*OptionNode
	Messages []*MessageNode
	Enums    []*EnumNode
	Services []*ServiceNode
	Extends  []*ExtendNode
}

// NewFileNode returns an empty file declaration with the given name.
func NewFileNode(name string, info *FileInfo) *FileNode {
	return &FileNode{Name: name, FileInfo: info}
}

// Start returns the position of the top of the file.
func (n *FileNode) Start() SourcePos {
	if n.FileInfo == nil {
		return UnknownPos(n.Name)
	}
	return SourcePos{Filename: n.Name, Line: 1, Col: 1}
}

// ImportNode is an import statement.
type ImportNode struct {
	Path   string
	Public bool
	Weak   bool
	Pos    SourcePos
}

// MessageNode is a message declaration. Group fields and map fields
// also produce a MessageNode for the synthesized message type.
type MessageNode struct {
	Name string
	Pos  SourcePos

	Fields   []*FieldNode
	Oneofs   []*OneofNode
	Messages []*MessageNode
	Enums    []*EnumNode
	Extends  []*ExtendNode
	Options  []*OptionNode

	ReservedRanges  []*RangeNode
	ReservedNames   []*ReservedNameNode
	ExtensionRanges []*RangeNode

	// IsMapEntry is true for the entry type synthesized for a map field.
	IsMapEntry bool
	// IsGroup is true for the message type synthesized for a group field.
	IsGroup bool
}

func (n *MessageNode) DeclName() string { return n.Name }
func (n *MessageNode) Start() SourcePos { return n.Pos }
func (*MessageNode) decl()              {}

// FieldNode is a field declaration, either in a message, a oneof, or an
// extend block. Map fields are represented as repeated fields whose type
// is the synthesized map entry message.
type FieldNode struct {
	Label    Label
	LabelPos SourcePos

	// TypeName is the type exactly as written: a scalar keyword or a
	// possibly-qualified message or enum name.
	TypeName string
	TypePos  SourcePos

	Name string
	Pos  SourcePos

	Number    int64
	NumberPos SourcePos

	Options []*OptionNode

	// Oneof is the name of the enclosing oneof, if any.
	Oneof string
	// Group is the synthesized message for a group field.
	Group *MessageNode
	// MapEntry is the synthesized message for a map field.
	MapEntry *MessageNode
}

func (n *FieldNode) DeclName() string { return n.Name }
func (n *FieldNode) Start() SourcePos { return n.Pos }
func (*FieldNode) decl()              {}

// Option returns the last option with the given name, or nil.
func (n *FieldNode) Option(name string) *OptionNode {
	return findOption(n.Options, name)
}

// OneofNode is a oneof declaration. Its fields are recorded on the
// enclosing message with their Oneof name set.
type OneofNode struct {
	Name    string
	Pos     SourcePos
	Options []*OptionNode
}

// EnumNode is an enum declaration.
type EnumNode struct {
	Name    string
	Pos     SourcePos
	Values  []*EnumValueNode
	Options []*OptionNode

	ReservedRanges []*RangeNode
	ReservedNames  []*ReservedNameNode
}

func (n *EnumNode) DeclName() string { return n.Name }
func (n *EnumNode) Start() SourcePos { return n.Pos }
func (*EnumNode) decl()              {}

// Option returns the last option with the given name, or nil.
func (n *EnumNode) Option(name string) *OptionNode {
	return findOption(n.Options, name)
}

// EnumValueNode is a single value in an enum.
type EnumValueNode struct {
	Name      string
	Pos       SourcePos
	Number    int64
	NumberPos SourcePos
	Options   []*OptionNode
}

func (n *EnumValueNode) DeclName() string { return n.Name }
func (n *EnumValueNode) Start() SourcePos { return n.Pos }
func (*EnumValueNode) decl()              {}

// ServiceNode is a service declaration.
type ServiceNode struct {
	Name    string
	Pos     SourcePos
	Methods []*RPCNode
	Options []*OptionNode
}

func (n *ServiceNode) DeclName() string { return n.Name }
func (n *ServiceNode) Start() SourcePos { return n.Pos }
func (*ServiceNode) decl()              {}

// RPCNode is a method declaration in a service.
type RPCNode struct {
	Name string
	Pos  SourcePos

	InputType       string
	InputPos        SourcePos
	ClientStreaming bool

	OutputType      string
	OutputPos       SourcePos
	ServerStreaming bool

	Options []*OptionNode
}

func (n *RPCNode) DeclName() string { return n.Name }
func (n *RPCNode) Start() SourcePos { return n.Pos }
func (*RPCNode) decl()              {}

// ExtendNode is an extend block. Its fields are extensions of the
// message named by Extendee.
type ExtendNode struct {
	Extendee string
	Pos      SourcePos
	Fields   []*FieldNode
}

func (n *ExtendNode) DeclName() string { return n.Extendee }
func (n *ExtendNode) Start() SourcePos { return n.Pos }
func (*ExtendNode) decl()              {}

// RangeNode is an inclusive range of numbers in a reserved or
// extensions statement.
type RangeNode struct {
	Start, End int64
	// Max is true when the end of the range was written as "max".
	Max bool
	Pos SourcePos
}

// ReservedNameNode is a name in a reserved statement.
type ReservedNameNode struct {
	Name string
	Pos  SourcePos
}

// OptionNode is a single option, whether written as an option statement
// or in a compact option list.
type OptionNode struct {
	// Name is the option name as written, such as "packed" or
	// "(foo.bar).baz".
	Name  string
	Pos   SourcePos
	Value *ValueNode
}

func findOption(opts []*OptionNode, name string) *OptionNode {
	var found *OptionNode
	for _, opt := range opts {
		if opt.Name == name {
			found = opt
		}
	}
	return found
}
