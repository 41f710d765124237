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
	"errors"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/internal"
	"github.com/protopool/protopool/reporter"
	"github.com/protopool/protopool/walk"
)

// ErrLinked is returned when a linker is used after Link.
var ErrLinked = errors.New("linker: already linked")

// Options configure a Linker.
type Options struct {
	// LenientImports allows references to declarations in files that
	// have been added but are not imported by the referring file.
	LenientImports bool
}

// Linker accumulates the declarations of files in its first pass and
// links them in its second. It is not safe for concurrent use.
type Linker struct {
	opts    Options
	handler *reporter.Handler
	b       *descriptor.Builder
	symbols symbolTable
	files   []*fileState
	byPath  map[string]*fileState
	// refs are linked in the order they were declared.
	refs []ref
	// extensionNumbers tracks the numbers used by extensions of each
	// message, to detect conflicts.
	extensionNumbers map[extensionKey]ast.SourcePos
}

type fileState struct {
	node *ast.FileNode
	id   descriptor.FileID
	// visible is the set of files whose declarations this file may refer
	// to. It is computed by Link.
	visible map[*fileState]struct{}
}

type extensionKey struct {
	extendee descriptor.MessageID
	number   int32
}

// ref is a declaration whose references to other declarations are
// resolved by Link.
type ref interface {
	link(l *Linker) error
}

// New creates a linker that reports problems to handler.
func New(handler *reporter.Handler, opts Options) *Linker {
	return &Linker{
		opts:             opts,
		handler:          handler,
		b:                descriptor.NewBuilder(),
		byPath:           map[string]*fileState{},
		extensionNumbers: map[extensionKey]ast.SourcePos{},
	}
}

// HasFile reports whether a file with the given path has been added.
func (l *Linker) HasFile(path string) bool {
	_, ok := l.byPath[path]
	return ok
}

// FileCount returns the number of files added so far.
func (l *Linker) FileCount() int {
	return len(l.files)
}

// AddFile runs the first pass over file, declaring everything in it. The
// returned error is non-nil only if the handler's reporter asked to abort,
// or if the linker has already linked.
func (l *Linker) AddFile(file *ast.FileNode) error {
	if l.b == nil {
		return ErrLinked
	}
	if l.HasFile(file.Name) {
		return l.handler.HandleErrorf(file.Start(), "file %q has already been added", file.Name)
	}
	fs := &fileState{node: file}
	imports := make([]descriptor.Import, len(file.Imports))
	for i, imp := range file.Imports {
		imports[i] = descriptor.Import{Path: imp.Path, Public: imp.Public, Weak: imp.Weak}
	}
	fs.id = l.b.AddFile(descriptor.FileSpec{
		Path:    file.Name,
		Package: file.Package,
		Syntax:  fileSyntax(file.Syntax),
		Edition: file.Edition,
		Imports: imports,
	})
	l.files = append(l.files, fs)
	l.byPath[file.Name] = fs

	if file.Package != "" {
		for _, pkg := range internal.CreatePrefixList(file.Package) {
			if pkg == "" {
				continue
			}
			if err := l.declare(pkg, symbol{kind: symPackage, pos: file.PackagePos}); err != nil {
				if errors.Is(err, errCollision) {
					continue
				}
				return err
			}
		}
	}

	d := &declarer{l: l, file: fs}
	return walk.DeclsEnterAndExit(file, d.enter, d.exit)
}

func fileSyntax(s ast.Syntax) descriptor.Syntax {
	switch s {
	case ast.SyntaxProto3:
		return descriptor.SyntaxProto3
	case ast.SyntaxEditions:
		return descriptor.SyntaxEditions
	default:
		return descriptor.SyntaxProto2
	}
}

func fieldLabel(l ast.Label) descriptor.Label {
	switch l {
	case ast.LabelRequired:
		return descriptor.LabelRequired
	case ast.LabelRepeated:
		return descriptor.LabelRepeated
	default:
		return descriptor.LabelOptional
	}
}

// errCollision is returned by declare, after the collision has been
// reported, when a name is already taken.
var errCollision = errors.New("symbol collision")

func (l *Linker) available(name string, kind symbolKind, pos ast.SourcePos) error {
	existing, ok := l.symbols.get(name)
	if !ok || (existing.kind == symPackage && kind == symPackage) {
		return nil
	}
	var suffix string
	if existing.kind != kind {
		suffix = "; it was declared as " + existing.kind.withArticle()
	}
	if err := l.handler.HandleErrorf(pos, "symbol %q already defined at %v%s", name, existing.pos, suffix); err != nil {
		return err
	}
	return errCollision
}

// declare registers a symbol whose descriptor does not need to be
// created first.
func (l *Linker) declare(name string, sym symbol) error {
	if err := l.available(name, sym.kind, sym.pos); err != nil {
		return err
	}
	l.symbols.declare(name, sym)
	return nil
}

// declarer implements the first pass over a single file.
type declarer struct {
	l    *Linker
	file *fileState

	// msgs is the stack of enclosing messages. Messages whose names
	// collide are pushed with a nil ID; their contents are not visited.
	msgs []descriptor.MessageID
	enum descriptor.EnumID
	svc  descriptor.ServiceID

	extend      *ast.ExtendNode
	extendScope string
}

func (d *declarer) parent() descriptor.MessageID {
	if len(d.msgs) == 0 {
		return 0
	}
	return d.msgs[len(d.msgs)-1]
}

// check reports whether name may be declared. A collision is reported
// and turns into SkipChildren, so the walk continues with the next
// declaration.
func (d *declarer) check(name string, kind symbolKind, pos ast.SourcePos) error {
	err := d.l.available(name, kind, pos)
	if errors.Is(err, errCollision) {
		return walk.SkipChildren
	}
	return err
}

func (d *declarer) enter(fqn string, decl ast.Decl) error {
	l, b := d.l, d.l.b
	switch n := decl.(type) {
	case *ast.MessageNode:
		if err := d.check(fqn, symMessage, n.Pos); err != nil {
			d.msgs = append(d.msgs, 0)
			return err
		}
		oneofs := make([]string, len(n.Oneofs))
		for i, oo := range n.Oneofs {
			oneofs[i] = oo.Name
		}
		reservedNames := make([]string, len(n.ReservedNames))
		for i, rn := range n.ReservedNames {
			reservedNames[i] = rn.Name
		}
		id := b.AddMessage(descriptor.MessageSpec{
			File:            d.file.id,
			Parent:          d.parent(),
			Name:            n.Name,
			FullName:        fqn,
			MapEntry:        n.IsMapEntry,
			Oneofs:          oneofs,
			ReservedRanges:  ranges(n.ReservedRanges),
			ReservedNames:   reservedNames,
			ExtensionRanges: ranges(n.ExtensionRanges),
		})
		l.symbols.declare(fqn, symbol{kind: symMessage, file: d.file, pos: n.Pos, msg: id})
		d.msgs = append(d.msgs, id)

	case *ast.ExtendNode:
		d.extend, d.extendScope = n, fqn

	case *ast.FieldNode:
		if d.extend != nil {
			if err := d.check(fqn, symExtension, n.Pos); err != nil {
				return err
			}
			l.symbols.declare(fqn, symbol{kind: symExtension, file: d.file, pos: n.Pos})
			l.refs = append(l.refs, &extensionRef{
				file:     d.file,
				extend:   d.extend,
				node:     n,
				fqn:      fqn,
				scope:    d.extendScope,
				scopeMsg: d.parent(),
			})
			return nil
		}
		if err := d.check(fqn, symField, n.Pos); err != nil {
			return err
		}
		scope := "field " + fqn
		jsonName, err := fieldJSONName(l.handler, scope, n)
		if err != nil {
			return err
		}
		id := b.AddField(descriptor.FieldSpec{
			File:      d.file.id,
			Container: d.parent(),
			Name:      n.Name,
			FullName:  fqn,
			JSONName:  jsonName,
			Number:    int32(n.Number),
			Label:     fieldLabel(n.Label),
			Type:      scalarType(n.TypeName),
			TypeName:  n.TypeName,
			Oneof:     n.Oneof,
		})
		l.symbols.declare(fqn, symbol{kind: symField, file: d.file, pos: n.Pos})
		l.refs = append(l.refs, &fieldRef{
			file:  d.file,
			node:  n,
			id:    id,
			fqn:   fqn,
			scope: internal.ParentScope(fqn),
		})

	case *ast.EnumNode:
		if err := d.check(fqn, symEnum, n.Pos); err != nil {
			return err
		}
		allowAlias := false
		if opt := n.Option("allow_alias"); opt != nil {
			allowAlias, _ = opt.Value.AsBool()
		}
		reservedNames := make([]string, len(n.ReservedNames))
		for i, rn := range n.ReservedNames {
			reservedNames[i] = rn.Name
		}
		id := b.AddEnum(descriptor.EnumSpec{
			File:           d.file.id,
			Parent:         d.parent(),
			Name:           n.Name,
			FullName:       fqn,
			AllowAlias:     allowAlias,
			ReservedRanges: ranges(n.ReservedRanges),
			ReservedNames:  reservedNames,
		})
		l.symbols.declare(fqn, symbol{kind: symEnum, file: d.file, pos: n.Pos, enum: id})
		d.enum = id

	case *ast.EnumValueNode:
		if err := d.check(fqn, symEnumValue, n.Pos); err != nil {
			return err
		}
		b.AddEnumValue(d.enum, n.Name, fqn, int32(n.Number))
		l.symbols.declare(fqn, symbol{kind: symEnumValue, file: d.file, pos: n.Pos})

	case *ast.ServiceNode:
		if err := d.check(fqn, symService, n.Pos); err != nil {
			return err
		}
		d.svc = b.AddService(d.file.id, n.Name, fqn)
		l.symbols.declare(fqn, symbol{kind: symService, file: d.file, pos: n.Pos})

	case *ast.RPCNode:
		if err := d.check(fqn, symMethod, n.Pos); err != nil {
			return err
		}
		id := b.AddMethod(descriptor.MethodSpec{
			Service:         d.svc,
			Name:            n.Name,
			FullName:        fqn,
			InputName:       n.InputType,
			OutputName:      n.OutputType,
			ClientStreaming: n.ClientStreaming,
			ServerStreaming: n.ServerStreaming,
		})
		l.symbols.declare(fqn, symbol{kind: symMethod, file: d.file, pos: n.Pos})
		l.refs = append(l.refs, &methodRef{
			file:  d.file,
			node:  n,
			id:    id,
			fqn:   fqn,
			scope: internal.ParentScope(fqn),
		})
	}
	return nil
}

func (d *declarer) exit(_ string, decl ast.Decl) error {
	switch decl.(type) {
	case *ast.MessageNode:
		d.msgs = d.msgs[:len(d.msgs)-1]
	case *ast.ExtendNode:
		d.extend, d.extendScope = nil, ""
	}
	return nil
}

func ranges(nodes []*ast.RangeNode) []descriptor.Range {
	if len(nodes) == 0 {
		return nil
	}
	result := make([]descriptor.Range, len(nodes))
	for i, r := range nodes {
		result[i] = descriptor.Range{Start: int32(r.Start), End: int32(r.End)}
	}
	return result
}

func scalarType(typeName string) descriptor.FieldType {
	if t, ok := internal.FieldTypes[typeName]; ok {
		return descriptor.FieldType(t)
	}
	return descriptor.TypeNone
}

// Link runs the second pass, resolving all references among the files
// added so far, and returns the finished pool. The linker cannot be used
// afterwards. The returned error is non-nil only if the handler's
// reporter asked to abort.
func (l *Linker) Link() (*descriptor.Pool, error) {
	if l.b == nil {
		return nil, ErrLinked
	}
	l.computeVisibility()
	for _, r := range l.refs {
		if err := r.link(l); err != nil {
			l.b = nil
			return nil, err
		}
	}
	pool := l.b.Build()
	l.b = nil
	l.refs = nil
	return pool, nil
}

// computeVisibility determines, for every file, which files it may refer
// to: itself, the files it imports, and the files those re-export with
// public imports, transitively.
func (l *Linker) computeVisibility() {
	for _, fs := range l.files {
		fs.visible = map[*fileState]struct{}{fs: {}}
		for _, imp := range fs.node.Imports {
			if dep, ok := l.byPath[imp.Path]; ok {
				l.addPublicClosure(dep, fs.visible)
			}
		}
	}
}

func (l *Linker) addPublicClosure(fs *fileState, into map[*fileState]struct{}) {
	if _, ok := into[fs]; ok {
		return
	}
	into[fs] = struct{}{}
	for _, imp := range fs.node.Imports {
		if !imp.Public {
			continue
		}
		if dep, ok := l.byPath[imp.Path]; ok {
			l.addPublicClosure(dep, into)
		}
	}
}
