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

	"github.com/protopool/protopool/ast"
)

// parseOptionStatement parses "option name = value;".
func (p *parser) parseOptionStatement() *ast.OptionNode {
	p.expect("option")
	opt := p.parseOption()
	p.expect(";")
	return opt
}

func (p *parser) parseOption() *ast.OptionNode {
	name, pos := p.parseOptionName()
	p.expect("=")
	return &ast.OptionNode{Name: name, Pos: pos, Value: p.parseValue()}
}

// parseCompactOptions parses a bracketed, comma-separated option list.
// The current token must be "[".
func (p *parser) parseCompactOptions() []*ast.OptionNode {
	p.expect("[")
	var opts []*ast.OptionNode
	for {
		opts = append(opts, p.parseOption())
		if !p.accept(",") {
			break
		}
	}
	p.expect("]")
	return opts
}

// parseOptionName parses names like "packed", "(foo.bar)" and
// "(.foo.bar).baz.buzz".
func (p *parser) parseOptionName() (string, ast.SourcePos) {
	pos := p.tok.pos
	var b strings.Builder
	for {
		if p.accept("(") {
			b.WriteByte('(')
			name, _ := p.typeName()
			b.WriteString(name)
			p.expect(")")
			b.WriteByte(')')
		} else {
			b.WriteString(p.expectName().text)
		}
		if !p.accept(".") {
			break
		}
		b.WriteByte('.')
	}
	return b.String(), pos
}

func (p *parser) parseValue() *ast.ValueNode {
	val := &ast.ValueNode{Pos: p.tok.pos}
	switch {
	case p.tok.kind == tokString:
		val.Kind = ast.ValueString
		val.Str, _ = p.stringLiteral()
	case p.tok.is("-") || p.tok.is("+"):
		neg := p.advance().is("-")
		switch {
		case p.tok.kind == tokInt:
			val.Kind = ast.ValueInt
			val.Uint = p.advance().ui
			val.Negative = neg
		case p.tok.kind == tokFloat:
			val.Kind = ast.ValueFloat
			val.Float = p.advance().f
		case p.tok.is("inf"):
			p.advance()
			val.Kind = ast.ValueFloat
			val.Float = math.Inf(1)
		case p.tok.is("nan"):
			p.advance()
			val.Kind = ast.ValueFloat
			val.Float = math.NaN()
		default:
			p.unexpected("numeric literal")
		}
		if neg && val.Kind == ast.ValueFloat {
			val.Float = -val.Float
		}
	case p.tok.kind == tokInt:
		val.Kind = ast.ValueInt
		val.Uint = p.advance().ui
	case p.tok.kind == tokFloat:
		val.Kind = ast.ValueFloat
		val.Float = p.advance().f
	case p.tok.isName():
		val.Kind = ast.ValueIdent
		val.Str, _ = p.fullIdent()
	case p.tok.is("{"):
		val.Kind = ast.ValueAggregate
		val.Str = p.skipAggregate()
	default:
		p.unexpected("option value")
	}
	return val
}

// skipAggregate consumes a brace-delimited message literal and returns
// its text, without the braces. Its contents are not interpreted.
func (p *parser) skipAggregate() string {
	open := p.expect("{")
	start := open.offset + 1
	depth := 1
	for {
		switch {
		case p.tok.kind == tokEOF:
			p.failAt(open.pos, "unterminated message literal")
		case p.tok.is("{"):
			depth++
		case p.tok.is("}"):
			depth--
			if depth == 0 {
				end := p.advance().offset
				return strings.TrimSpace(string(p.lex.input.data[start:end]))
			}
		}
		p.advance()
	}
}
