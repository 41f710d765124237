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
	"fmt"
	"io"
	"strings"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/reporter"
)

// Parse parses the given source into a declaration tree. Errors are
// reported to handler. A lexical or syntax error aborts the parse, in which
// case the error is returned and the tree is nil. If the handler's reporter
// asks to abort, its error is returned.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (file *ast.FileNode, err error) {
	lx, err := newLexer(r, filename, handler)
	if err != nil {
		ewp := reporter.KindErrorf(reporter.ErrIO, ast.UnknownPos(filename), "failed to read file: %v", err)
		if repErr := handler.HandleError(ewp); repErr != nil {
			return nil, repErr
		}
		return nil, ewp
	}
	p := &parser{
		lex:     lx,
		handler: handler,
		file:    ast.NewFileNode(filename, lx.info),
	}
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			file, err = nil, b.err
		}
	}()

	p.advance()
	p.parseFile()
	if err := validateBasic(p.file, handler); err != nil {
		return nil, err
	}
	return p.file, nil
}

// bailout is the panic value used to unwind the parser on the first
// lexical or syntax error.
type bailout struct {
	err error
}

type parser struct {
	lex     *protoLex
	handler *reporter.Handler
	file    *ast.FileNode

	tok     token
	next    token
	hasNext bool
}

// advance moves to the next token and returns the one that was current.
func (p *parser) advance() token {
	prev := p.tok
	if p.hasNext {
		p.tok, p.hasNext = p.next, false
	} else {
		p.tok = p.lex.Lex()
	}
	if p.tok.kind == tokError {
		p.abort(p.lex.err)
	}
	return prev
}

// peek returns the token after the current one without consuming anything.
func (p *parser) peek() token {
	if !p.hasNext {
		p.next, p.hasNext = p.lex.Lex(), true
		if p.next.kind == tokError {
			p.abort(p.lex.err)
		}
	}
	return p.next
}

func (p *parser) abort(err error) {
	if repErr := p.handler.ReporterError(); repErr != nil {
		err = repErr
	}
	panic(bailout{err: err})
}

// fail reports a syntax error at the current token and aborts the parse.
func (p *parser) fail(format string, args ...any) {
	p.failAt(p.tok.pos, format, args...)
}

func (p *parser) failAt(pos ast.SourcePos, format string, args ...any) {
	ewp := reporter.KindErrorf(reporter.ErrSyntax, pos, "syntax error: "+format, args...)
	_ = p.handler.HandleError(ewp)
	p.abort(ewp)
}

func (p *parser) unexpected(expecting string) {
	p.fail("unexpected %s, expecting %s", p.tok.describe(), expecting)
}

// expect consumes the given keyword or symbol, failing if the current
// token is anything else.
func (p *parser) expect(s string) token {
	if !p.tok.is(s) {
		p.unexpected(fmt.Sprintf("%q", s))
	}
	return p.advance()
}

// accept consumes the given keyword or symbol if it is current.
func (p *parser) accept(s string) bool {
	if p.tok.is(s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expectName() token {
	if !p.tok.isName() {
		p.unexpected("identifier")
	}
	return p.advance()
}

// fullIdent parses a dotted name such as "foo.bar.Baz".
func (p *parser) fullIdent() (string, ast.SourcePos) {
	first := p.expectName()
	var b strings.Builder
	b.WriteString(first.text)
	for p.tok.is(".") {
		p.advance()
		b.WriteByte('.')
		b.WriteString(p.expectName().text)
	}
	return b.String(), first.pos
}

// typeName parses a possibly fully-qualified type reference.
func (p *parser) typeName() (string, ast.SourcePos) {
	if p.tok.is(".") {
		pos := p.advance().pos
		name, _ := p.fullIdent()
		return "." + name, pos
	}
	return p.fullIdent()
}

func (p *parser) stringLiteral() (string, ast.SourcePos) {
	if p.tok.kind != tokString {
		p.unexpected("string literal")
	}
	first := p.advance()
	str := first.str
	// adjacent string literals are concatenated
	for p.tok.kind == tokString {
		str += p.advance().str
	}
	return str, first.pos
}

// intLiteral parses an optionally negative integer.
func (p *parser) intLiteral(allowNegative bool) (int64, ast.SourcePos) {
	pos := p.tok.pos
	neg := false
	if allowNegative && p.tok.is("-") {
		p.advance()
		neg = true
	}
	if p.tok.kind != tokInt {
		p.unexpected("integer literal")
	}
	tok := p.advance()
	if tok.ui > 1<<63-1 && !(neg && tok.ui == 1<<63) {
		p.failAt(tok.pos, "integer value %s is out of range", tok.text)
	}
	if neg {
		return -int64(tok.ui), pos
	}
	return int64(tok.ui), pos
}

func (p *parser) isLabel() bool {
	return p.tok.is("optional") || p.tok.is("required") || p.tok.is("repeated")
}

func (p *parser) parseFile() {
	first := true
	for p.tok.kind != tokEOF {
		switch {
		case p.tok.is(";"):
			p.advance()
			// empty statements don't count as the first statement
			continue
		case p.tok.is("syntax") || p.tok.is("edition"):
			if !first {
				p.fail("%s statement must be the first statement in the file", p.tok.text)
			}
			p.parseSyntax()
		case p.tok.is("package"):
			p.parsePackage()
		case p.tok.is("import"):
			p.parseImport()
		case p.tok.is("option"):
			p.file.Options = append(p.file.Options, p.parseOptionStatement())
		case p.tok.is("message"):
			p.file.Messages = append(p.file.Messages, p.parseMessage())
		case p.tok.is("enum"):
			p.file.Enums = append(p.file.Enums, p.parseEnum())
		case p.tok.is("service"):
			p.file.Services = append(p.file.Services, p.parseService())
		case p.tok.is("extend"):
			ext, groups := p.parseExtend()
			p.file.Extends = append(p.file.Extends, ext)
			p.file.Messages = append(p.file.Messages, groups...)
		default:
			p.unexpected("top-level declaration")
		}
		first = false
	}
	if p.file.SyntaxPos.Line == 0 {
		p.handler.HandleWarning(p.file.Start(), ErrNoSyntax)
	}
}

func (p *parser) parseSyntax() {
	kw := p.advance()
	p.expect("=")
	val, pos := p.stringLiteral()
	p.expect(";")
	p.file.SyntaxPos = kw.pos
	if kw.text == "edition" {
		switch val {
		case "2023", "2024":
			p.file.Syntax = ast.SyntaxEditions
			p.file.Edition = val
		default:
			p.failAt(pos, "edition %q not supported", val)
		}
		return
	}
	switch val {
	case "proto2":
		p.file.Syntax = ast.SyntaxProto2
	case "proto3":
		p.file.Syntax = ast.SyntaxProto3
	default:
		p.failAt(pos, "syntax value must be %q or %q", "proto2", "proto3")
	}
}

func (p *parser) parsePackage() {
	kw := p.advance()
	if p.file.PackagePos.Line != 0 {
		p.failAt(kw.pos, "multiple package declarations; first was at %v", p.file.PackagePos)
	}
	name, _ := p.fullIdent()
	p.expect(";")
	p.file.Package = name
	p.file.PackagePos = kw.pos
}

func (p *parser) parseImport() {
	p.advance()
	imp := &ast.ImportNode{}
	if p.tok.kind == tokKeyword && p.peek().kind == tokString {
		switch {
		case p.accept("public"):
			imp.Public = true
		case p.accept("weak"):
			imp.Weak = true
		}
	}
	imp.Path, imp.Pos = p.stringLiteral()
	p.expect(";")
	p.file.Imports = append(p.file.Imports, imp)
}
