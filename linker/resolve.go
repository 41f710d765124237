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
	"strings"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/internal"
)

// lookupResult is the outcome of resolving a type reference.
type lookupResult struct {
	name  string
	sym   symbol
	found bool
	// undefined is set when the first component of a compound name
	// matched an aggregate but the full name did not exist in it.
	undefined string
}

// resolve looks up name, as written in scope. When onlyTypes is true,
// simple names that match something other than a message or enum are
// skipped over in favor of scopes further out, but the first such match
// is still returned if nothing better is found so that callers can report
// what it was.
func (l *Linker) resolve(scope, name string, onlyTypes bool) lookupResult {
	if strings.HasPrefix(name, ".") {
		sym, ok := l.symbols.get(name[1:])
		return lookupResult{name: name[1:], sym: sym, found: ok}
	}
	firstName, _, compound := strings.Cut(name, ".")
	var bestGuess lookupResult
	for _, prefix := range internal.CreatePrefixList(scope) {
		n1 := internal.QualifyName(prefix, firstName)
		sym, ok := l.symbols.get(n1)
		if !ok {
			continue
		}
		if compound {
			if !sym.kind.isAggregate() {
				// a leaf cannot contain the rest of the name
				continue
			}
			full := internal.QualifyName(prefix, name)
			sym, ok = l.symbols.get(full)
			if !ok {
				return lookupResult{undefined: full}
			}
			return lookupResult{name: full, sym: sym, found: true}
		}
		res := lookupResult{name: n1, sym: sym, found: true}
		if !onlyTypes || sym.kind.isType() {
			return res
		}
		if !bestGuess.found {
			bestGuess = res
		}
	}
	return bestGuess
}

// visible reports whether a declaration may be referenced from file.
func (l *Linker) visible(from *fileState, sym symbol) bool {
	if sym.file == nil || l.opts.LenientImports {
		return true
	}
	_, ok := from.visible[sym.file]
	return ok
}

// resolveType resolves a reference to a message or enum, reporting any
// problem with the given description of what is being resolved (such as
// "type" or "request type"). It returns false if the reference could not
// be resolved.
func (l *Linker) resolveType(from *fileState, scope, desc string, pos ast.SourcePos, context, name string, messagesOnly bool) (symbol, bool, error) {
	res := l.resolve(scope, name, true)
	switch {
	case res.undefined != "":
		return symbol{}, false, l.handler.HandleErrorf(pos, "%s: unknown %s %s; resolved to %s which is not defined; consider using a leading dot", context, desc, name, res.undefined)
	case !res.found:
		return symbol{}, false, l.handler.HandleErrorf(pos, "%s: unknown %s %s", context, desc, name)
	case !res.sym.kind.isType() || (messagesOnly && res.sym.kind != symMessage):
		want := "a message or enum"
		if messagesOnly {
			want = "a message"
		}
		return symbol{}, false, l.handler.HandleErrorf(pos, "%s: invalid %s: %s is %s, not %s", context, desc, res.name, res.sym.kind.withArticle(), want)
	case !l.visible(from, res.sym):
		return symbol{}, false, l.handler.HandleErrorf(pos, "%s: %s %s is defined in %q, which is not imported by %q; to use it here, add the necessary import", context, desc, res.name, res.sym.file.node.Name, from.node.Name)
	}
	return res.sym, true, nil
}

// fieldRef is a message field whose type, default and packed flag are
// computed at link time.
type fieldRef struct {
	file  *fileState
	node  *ast.FieldNode
	id    descriptor.FieldID
	fqn   string
	scope string
}

func (r *fieldRef) link(l *Linker) error {
	context := "field " + r.fqn
	if err := l.linkFieldType(r.file, r.scope, context, r.node, r.id); err != nil {
		return err
	}
	return l.linkFieldOptions(r.file, context, r.node, r.id)
}

func (l *Linker) linkFieldType(file *fileState, scope, context string, node *ast.FieldNode, id descriptor.FieldID) error {
	if scalarType(node.TypeName) != descriptor.TypeNone {
		return nil
	}
	sym, ok, err := l.resolveType(file, scope, "type", node.TypePos, context, node.TypeName, false)
	if !ok {
		return err
	}
	switch sym.kind {
	case symMessage:
		if node.Group != nil && (sym.file != file || sym.pos != node.Group.Pos) {
			// the synthesized group type lost a name collision
			return l.handler.HandleErrorf(node.TypePos, "%s: group type %s was not declared", context, node.TypeName)
		}
		l.b.ResolveFieldMessage(id, sym.msg, node.Group != nil)
	case symEnum:
		enumFile := l.b.Enum(sym.enum).File()
		if file.node.Syntax == ast.SyntaxProto3 && enumFile.Syntax() == descriptor.SyntaxProto2 {
			return l.handler.HandleErrorf(node.TypePos, "%s: cannot use proto2 enum %s in a proto3 message", context, node.TypeName)
		}
		l.b.ResolveFieldEnum(id, sym.enum)
	}
	return nil
}

// extensionRef is an extension, which is created once its extendee is
// known.
type extensionRef struct {
	file     *fileState
	extend   *ast.ExtendNode
	node     *ast.FieldNode
	fqn      string
	scope    string
	scopeMsg descriptor.MessageID
}

func (r *extensionRef) link(l *Linker) error {
	context := "extension " + r.fqn
	sym, ok, err := l.resolveType(r.file, r.scope, "extendee", r.extend.Pos, context, r.extend.Extendee, true)
	if !ok {
		return err
	}
	extendee := l.b.Message(sym.msg)
	number := int32(r.node.Number)
	inRange := false
	for _, rng := range extendee.ExtensionRanges() {
		if rng.Contains(number) {
			inRange = true
			break
		}
	}
	if !inRange {
		return l.handler.HandleErrorf(r.node.NumberPos, "%s: tag %d is not in valid range for extended type %s", context, number, extendee.FullName())
	}
	key := extensionKey{extendee: sym.msg, number: number}
	if existing, ok := l.extensionNumbers[key]; ok {
		return l.handler.HandleErrorf(r.node.NumberPos, "%s: extension with tag %d for message %s already defined at %v", context, number, extendee.FullName(), existing)
	}
	l.extensionNumbers[key] = r.node.NumberPos

	if opt := r.node.Option("json_name"); opt != nil {
		if err := l.handler.HandleErrorf(opt.Pos, "%s: option json_name is not allowed on extensions", context); err != nil {
			return err
		}
	}
	label := fieldLabel(r.node.Label)
	if label == descriptor.LabelRequired {
		if err := l.handler.HandleErrorf(r.node.LabelPos, "%s: extension fields cannot be required", context); err != nil {
			return err
		}
		label = descriptor.LabelOptional
	}

	id := l.b.AddField(descriptor.FieldSpec{
		File:      r.file.id,
		Container: sym.msg,
		Scope:     r.scopeMsg,
		Extension: true,
		Name:      r.node.Name,
		FullName:  r.fqn,
		JSONName:  internal.JSONName(r.node.Name),
		Number:    number,
		Label:     label,
		Type:      scalarType(r.node.TypeName),
		TypeName:  r.node.TypeName,
	})
	if err := l.linkFieldType(r.file, r.scope, context, r.node, id); err != nil {
		return err
	}
	return l.linkFieldOptions(r.file, context, r.node, id)
}

// methodRef is a method whose request and response types are resolved at
// link time.
type methodRef struct {
	file  *fileState
	node  *ast.RPCNode
	id    descriptor.MethodID
	fqn   string
	scope string
}

func (r *methodRef) link(l *Linker) error {
	context := "method " + r.fqn
	sym, ok, err := l.resolveType(r.file, r.scope, "request type", r.node.InputPos, context, r.node.InputType, true)
	if err != nil {
		return err
	}
	if ok {
		l.b.ResolveMethodInput(r.id, sym.msg)
	}
	sym, ok, err = l.resolveType(r.file, r.scope, "response type", r.node.OutputPos, context, r.node.OutputType, true)
	if err != nil {
		return err
	}
	if ok {
		l.b.ResolveMethodOutput(r.id, sym.msg)
	}
	return nil
}
