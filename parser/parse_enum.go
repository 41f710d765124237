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

import "github.com/protopool/protopool/ast"

func (p *parser) parseEnum() *ast.EnumNode {
	p.expect("enum")
	name := p.expectName()
	enum := &ast.EnumNode{Name: name.text, Pos: name.pos}
	p.expect("{")
	for !p.accept("}") {
		switch {
		case p.accept(";"):
		case p.tok.kind == tokEOF:
			p.unexpected(`"}"`)
		case p.tok.is("option") && (p.peek().isName() || p.peek().is("(")):
			enum.Options = append(enum.Options, p.parseOptionStatement())
		case p.tok.is("reserved") && p.isReservedStatement():
			ranges, names := p.parseReserved(true)
			enum.ReservedRanges = append(enum.ReservedRanges, ranges...)
			enum.ReservedNames = append(enum.ReservedNames, names...)
		default:
			enum.Values = append(enum.Values, p.parseEnumValue())
		}
	}
	return enum
}

func (p *parser) parseEnumValue() *ast.EnumValueNode {
	name := p.expectName()
	val := &ast.EnumValueNode{Name: name.text, Pos: name.pos}
	p.expect("=")
	val.Number, val.NumberPos = p.intLiteral(true)
	if p.tok.is("[") {
		val.Options = p.parseCompactOptions()
	}
	p.expect(";")
	return val
}
