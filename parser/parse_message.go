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
	"strings"
	"unicode"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/internal"
)

func (p *parser) parseMessage() *ast.MessageNode {
	p.expect("message")
	name := p.expectName()
	msg := &ast.MessageNode{Name: name.text, Pos: name.pos}
	p.expect("{")
	p.parseMessageBody(msg)
	return msg
}

// parseMessageBody parses declarations up to and including the closing
// brace of a message or group.
func (p *parser) parseMessageBody(msg *ast.MessageNode) {
	for {
		switch {
		case p.accept(";"):
		case p.accept("}"):
			return
		case p.tok.kind == tokEOF:
			p.unexpected(`"}"`)
		case p.tok.is("message") && p.peek().isName():
			msg.Messages = append(msg.Messages, p.parseMessage())
		case p.tok.is("enum") && p.peek().isName():
			msg.Enums = append(msg.Enums, p.parseEnum())
		case p.tok.is("extend") && (p.peek().isName() || p.peek().is(".")):
			ext, groups := p.parseExtend()
			msg.Extends = append(msg.Extends, ext)
			msg.Messages = append(msg.Messages, groups...)
		case p.tok.is("option") && (p.peek().isName() || p.peek().is("(")):
			msg.Options = append(msg.Options, p.parseOptionStatement())
		case p.tok.is("oneof") && p.peek().isName():
			p.parseOneof(msg)
		case p.tok.is("reserved") && p.isReservedStatement():
			ranges, names := p.parseReserved(false)
			msg.ReservedRanges = append(msg.ReservedRanges, ranges...)
			msg.ReservedNames = append(msg.ReservedNames, names...)
		case p.tok.is("extensions") && p.peek().kind == tokInt:
			msg.ExtensionRanges = append(msg.ExtensionRanges, p.parseExtensionRanges()...)
		default:
			fld, nested := p.parseField("")
			msg.Fields = append(msg.Fields, fld)
			if nested != nil {
				msg.Messages = append(msg.Messages, nested)
			}
		}
	}
}

func (p *parser) isReservedStatement() bool {
	next := p.peek()
	switch next.kind {
	case tokInt, tokString:
		return true
	case tokSymbol:
		return next.is("-")
	case tokIdent:
		// bare identifiers name reserved fields only under editions
		return p.file.Syntax == ast.SyntaxEditions
	}
	return false
}

// parseField parses a field, group or map field. oneof is the name of the
// enclosing oneof, if any. The returned message is the one synthesized for
// a group or map field, which the caller must add to the enclosing scope.
func (p *parser) parseField(oneof string) (*ast.FieldNode, *ast.MessageNode) {
	fld := &ast.FieldNode{Oneof: oneof}
	if p.isLabel() && !p.peek().is("=") {
		if oneof != "" {
			p.fail("fields in oneof %s must not have a label", oneof)
		}
		tok := p.advance()
		fld.LabelPos = tok.pos
		switch tok.text {
		case "optional":
			fld.Label = ast.LabelOptional
		case "required":
			fld.Label = ast.LabelRequired
		case "repeated":
			fld.Label = ast.LabelRepeated
		}
	}

	switch {
	case p.tok.is("group") && p.peek().isName():
		return p.parseGroup(fld)
	case p.tok.is("map") && p.peek().is("<"):
		if fld.Label != ast.LabelNone {
			p.failAt(fld.LabelPos, "map fields cannot have a label")
		}
		return p.parseMapField(fld)
	}

	if fld.Label == ast.LabelNone && oneof == "" && p.file.Syntax == ast.SyntaxProto2 {
		p.fail(`expecting "optional", "required" or "repeated" before field type in proto2`)
	}
	fld.TypeName, fld.TypePos = p.typeName()
	p.parseFieldTail(fld)
	p.expect(";")
	return fld, nil
}

// parseFieldTail parses the name, number and options of a field.
func (p *parser) parseFieldTail(fld *ast.FieldNode) {
	name := p.expectName()
	fld.Name, fld.Pos = name.text, name.pos
	p.expect("=")
	fld.Number, fld.NumberPos = p.intLiteral(false)
	if p.tok.is("[") {
		fld.Options = p.parseCompactOptions()
	}
}

func (p *parser) parseGroup(fld *ast.FieldNode) (*ast.FieldNode, *ast.MessageNode) {
	if fld.Label == ast.LabelNone && fld.Oneof == "" {
		p.fail("group fields must have a label")
	}
	kw := p.expect("group")
	fld.TypePos = kw.pos
	name := p.expectName()
	if r := []rune(name.text)[0]; !unicode.IsUpper(r) {
		p.failAt(name.pos, "group %s should have a name that starts with a capital letter", name.text)
	}
	fld.Name, fld.Pos = strings.ToLower(name.text), name.pos
	fld.TypeName = name.text
	p.expect("=")
	fld.Number, fld.NumberPos = p.intLiteral(false)
	if p.tok.is("[") {
		fld.Options = p.parseCompactOptions()
	}
	msg := &ast.MessageNode{Name: name.text, Pos: name.pos, IsGroup: true}
	p.expect("{")
	p.parseMessageBody(msg)
	fld.Group = msg
	return fld, msg
}

func (p *parser) parseMapField(fld *ast.FieldNode) (*ast.FieldNode, *ast.MessageNode) {
	p.expect("map")
	p.expect("<")
	keyType := p.expectName()
	p.expect(",")
	valueType, valuePos := p.typeName()
	p.expect(">")
	p.parseFieldTail(fld)
	p.expect(";")

	entry := &ast.MessageNode{
		Name:       internal.MapEntryName(fld.Name),
		Pos:        fld.Pos,
		IsMapEntry: true,
		Fields: []*ast.FieldNode{
			{Label: ast.LabelOptional, TypeName: keyType.text, TypePos: keyType.pos, Name: "key", Pos: keyType.pos, Number: 1, NumberPos: keyType.pos},
			{Label: ast.LabelOptional, TypeName: valueType, TypePos: valuePos, Name: "value", Pos: valuePos, Number: 2, NumberPos: valuePos},
		},
	}
	fld.Label = ast.LabelRepeated
	fld.TypeName = entry.Name
	fld.TypePos = keyType.pos
	fld.MapEntry = entry
	return fld, entry
}

func (p *parser) parseOneof(msg *ast.MessageNode) {
	p.expect("oneof")
	name := p.expectName()
	oneof := &ast.OneofNode{Name: name.text, Pos: name.pos}
	p.expect("{")
	count := 0
	for !p.accept("}") {
		switch {
		case p.accept(";"):
		case p.tok.kind == tokEOF:
			p.unexpected(`"}"`)
		case p.tok.is("option") && (p.peek().isName() || p.peek().is("(")):
			oneof.Options = append(oneof.Options, p.parseOptionStatement())
		default:
			fld, nested := p.parseField(oneof.Name)
			msg.Fields = append(msg.Fields, fld)
			if nested != nil {
				msg.Messages = append(msg.Messages, nested)
			}
			count++
		}
	}
	if count == 0 {
		p.failAt(name.pos, "oneof must contain at least one field")
	}
	msg.Oneofs = append(msg.Oneofs, oneof)
}

// parseReserved parses a reserved statement, which lists either ranges or
// names.
func (p *parser) parseReserved(allowNegative bool) ([]*ast.RangeNode, []*ast.ReservedNameNode) {
	p.expect("reserved")
	if p.tok.kind == tokString || p.tok.kind == tokIdent {
		var names []*ast.ReservedNameNode
		for {
			var name string
			var pos ast.SourcePos
			if p.tok.kind == tokString {
				name, pos = p.stringLiteral()
			} else {
				tok := p.expectName()
				name, pos = tok.text, tok.pos
			}
			names = append(names, &ast.ReservedNameNode{Name: name, Pos: pos})
			if !p.accept(",") {
				break
			}
		}
		p.expect(";")
		return nil, names
	}
	ranges := p.parseRanges(allowNegative)
	p.expect(";")
	return ranges, nil
}

func (p *parser) parseExtensionRanges() []*ast.RangeNode {
	p.expect("extensions")
	ranges := p.parseRanges(false)
	if p.tok.is("[") {
		// extension range options are accepted but not retained
		p.parseCompactOptions()
	}
	p.expect(";")
	return ranges
}

func (p *parser) parseRanges(allowNegative bool) []*ast.RangeNode {
	var ranges []*ast.RangeNode
	for {
		rng := &ast.RangeNode{}
		rng.Start, rng.Pos = p.intLiteral(allowNegative)
		rng.End = rng.Start
		if p.accept("to") {
			if p.accept("max") {
				rng.Max = true
				rng.End = internal.MaxTag
				if allowNegative {
					rng.End = 1<<31 - 1
				}
			} else {
				rng.End, _ = p.intLiteral(allowNegative)
			}
		}
		ranges = append(ranges, rng)
		if !p.accept(",") {
			return ranges
		}
	}
}

// parseExtend parses an extend block. Groups declared in the block are
// returned separately, since their message types belong to the enclosing
// scope.
func (p *parser) parseExtend() (*ast.ExtendNode, []*ast.MessageNode) {
	p.expect("extend")
	ext := &ast.ExtendNode{}
	ext.Extendee, ext.Pos = p.typeName()
	p.expect("{")
	var groups []*ast.MessageNode
	for !p.accept("}") {
		switch {
		case p.accept(";"):
		case p.tok.kind == tokEOF:
			p.unexpected(`"}"`)
		default:
			if p.tok.is("map") && p.peek().is("<") {
				p.fail("map fields are not allowed in extend blocks")
			}
			fld, nested := p.parseField("")
			ext.Fields = append(ext.Fields, fld)
			if nested != nil {
				groups = append(groups, nested)
			}
		}
	}
	if len(ext.Fields) == 0 {
		p.failAt(ext.Pos, "extend sections must define at least one extension")
	}
	return ext, groups
}
