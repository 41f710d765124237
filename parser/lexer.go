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
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/reporter"
)

type tokenKind int

const (
	tokEOF = tokenKind(iota)
	tokError
	tokKeyword
	tokIdent
	tokInt
	tokFloat
	tokString
	tokSymbol
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokError:
		return "error"
	case tokKeyword:
		return "keyword"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer literal"
	case tokFloat:
		return "float literal"
	case tokString:
		return "string literal"
	default:
		return "symbol"
	}
}

// token is a single lexed token. Keywords and identifiers carry their text
// in text; symbols carry the rune. Literals carry their decoded value.
type token struct {
	kind   tokenKind
	text   string
	sym    rune
	str    string
	ui     uint64
	f      float64
	offset int
	pos    ast.SourcePos
}

// is reports whether t is the given keyword or, for a single-rune
// string, the given symbol.
func (t token) is(s string) bool {
	switch t.kind {
	case tokKeyword:
		return t.text == s
	case tokSymbol:
		return string(t.sym) == s
	}
	return false
}

// isName reports whether t can be used as an identifier. Keywords are
// contextual in the proto language, so they are also accepted as names.
func (t token) isName() bool {
	return t.kind == tokIdent || t.kind == tokKeyword
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokSymbol:
		return strconv.QuoteRune(t.sym)
	case tokString:
		return "string literal " + strconv.Quote(t.str)
	case tokKeyword, tokIdent, tokInt, tokFloat:
		return fmt.Sprintf("%s %q", t.kind, t.text)
	}
	return t.kind.String()
}

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError && sz == 1 {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}

type protoLex struct {
	input   *runeReader
	info    *ast.FileInfo
	handler *reporter.Handler
	// err is the last lexical error reported
	err error

	prevOffset int
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

func newLexer(in io.Reader, filename string, handler *reporter.Handler) (*protoLex, error) {
	contents, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	// if file has UTF8 byte order marker preface, consume it
	contents = bytes.TrimPrefix(contents, utf8Bom)
	return &protoLex{
		input:   &runeReader{data: contents},
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}, nil
}

var keywords = map[string]struct{}{
	"syntax": {}, "edition": {}, "import": {}, "weak": {}, "public": {},
	"package": {}, "option": {}, "true": {}, "false": {}, "inf": {}, "nan": {},
	"repeated": {}, "optional": {}, "required": {},
	"double": {}, "float": {}, "int32": {}, "int64": {}, "uint32": {},
	"uint64": {}, "sint32": {}, "sint64": {}, "fixed32": {}, "fixed64": {},
	"sfixed32": {}, "sfixed64": {}, "bool": {}, "string": {}, "bytes": {},
	"group": {}, "oneof": {}, "map": {}, "extensions": {}, "to": {}, "max": {},
	"reserved": {}, "enum": {}, "message": {}, "extend": {}, "service": {},
	"rpc": {}, "stream": {}, "returns": {},
}

func (l *protoLex) maybeNewLine(r rune) {
	if r == '\n' {
		l.info.AddLine(l.input.offset())
	}
}

func (l *protoLex) prev() ast.SourcePos {
	return l.info.SourcePos(l.prevOffset)
}

func (l *protoLex) newToken(kind tokenKind) token {
	return token{
		kind:   kind,
		text:   l.input.getMark(),
		offset: l.prevOffset,
		pos:    l.prev(),
	}
}

// Lex returns the next token. Whitespace and comments are skipped. On a
// lexical error, the error is reported to the handler and a token of kind
// tokError is returned.
func (l *protoLex) Lex() token {
	for {
		l.input.setMark()

		l.prevOffset = l.input.offset()
		c, _, err := l.input.readRune()
		if err == io.EOF {
			return l.newToken(tokEOF)
		} else if err != nil {
			return l.setError(err)
		}

		if strings.ContainsRune("\n\r\t\f\v ", c) {
			// skip whitespace
			l.maybeNewLine(c)
			continue
		}

		if c == '.' {
			// decimal literals could start with a dot
			cn, szn, err := l.input.readRune()
			if err != nil {
				return l.setRune(c)
			}
			if cn >= '0' && cn <= '9' {
				l.readNumber()
				text := l.input.getMark()
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return l.setError(numError(err, "float", text))
				}
				return l.setFloat(f)
			}
			l.input.unreadRune(szn)
			return l.setRune(c)
		}

		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			l.readIdentifier()
			if _, ok := keywords[l.input.getMark()]; ok {
				return l.newToken(tokKeyword)
			}
			return l.newToken(tokIdent)
		}

		if c >= '0' && c <= '9' {
			// integer or float literal
			l.readNumber()
			text := l.input.getMark()
			if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
				ui, err := strconv.ParseUint(text[2:], 16, 64)
				if err != nil {
					return l.setError(numError(err, "hexadecimal integer", text[2:]))
				}
				return l.setInt(ui)
			}
			if strings.ContainsAny(text, ".eE") {
				f, err := strconv.ParseFloat(text, 64)
				if err != nil {
					return l.setError(numError(err, "float", text))
				}
				return l.setFloat(f)
			}
			// decimal or octal
			ui, err := parseDecimalOrOctal(text)
			if err != nil {
				kind := "integer"
				var numErr *strconv.NumError
				if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
					// if it's too big to be an int, parse it as a float
					var f float64
					kind = "float"
					f, err = strconv.ParseFloat(text, 64)
					if err == nil {
						return l.setFloat(f)
					}
				}
				return l.setError(numError(err, kind, text))
			}
			return l.setInt(ui)
		}

		if c == '\'' || c == '"' {
			str, err := l.readStringLiteral(c)
			if err != nil {
				return l.setError(err)
			}
			tok := l.newToken(tokString)
			tok.str = str
			return tok
		}

		if c == '/' {
			cn, szn, err := l.input.readRune()
			if err != nil {
				return l.setRune(c)
			}
			if cn == '/' {
				l.skipToEndOfLineComment()
				continue
			}
			if cn == '*' {
				if ok := l.skipToEndOfBlockComment(); !ok {
					return l.setError(errors.New("block comment never terminates, unexpected EOF"))
				}
				continue
			}
			l.input.unreadRune(szn)
		}

		if c > 127 || !strings.ContainsRune(";,.=-+(){}[]<>:/", c) {
			return l.setError(fmt.Errorf("invalid character %q", c))
		}
		return l.setRune(c)
	}
}

// parseDecimalOrOctal parses an integer literal. A leading zero means
// octal, as in C.
func parseDecimalOrOctal(text string) (uint64, error) {
	if len(text) > 1 && text[0] == '0' {
		return strconv.ParseUint(text[1:], 8, 64)
	}
	return strconv.ParseUint(text, 10, 64)
}

func (l *protoLex) setRune(r rune) token {
	tok := l.newToken(tokSymbol)
	tok.sym = r
	return tok
}

func (l *protoLex) setInt(ui uint64) token {
	tok := l.newToken(tokInt)
	tok.ui = ui
	return tok
}

func (l *protoLex) setFloat(f float64) token {
	tok := l.newToken(tokFloat)
	tok.f = f
	return tok
}

func (l *protoLex) setError(err error) token {
	l.err = reporter.KindErrorf(reporter.ErrLexical, l.prev(), "%v", err)
	_ = l.handler.HandleError(l.err)
	return l.newToken(tokError)
}

func (l *protoLex) readNumber() {
	allowExpSign := false
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if (c == '-' || c == '+') && !allowExpSign {
			l.input.unreadRune(sz)
			break
		}
		allowExpSign = false
		if c != '.' && c != '_' && (c < '0' || c > '9') &&
			(c < 'a' || c > 'z') && (c < 'A' || c > 'Z') &&
			c != '-' && c != '+' {
			// no more chars in the number token
			l.input.unreadRune(sz)
			break
		}
		if c == 'e' || c == 'E' {
			// scientific notation char can be followed by
			// an exponent sign
			allowExpSign = true
		}
	}
}

func numError(err error, kind, s string) error {
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		return err
	}
	if ne.Err == strconv.ErrRange {
		return fmt.Errorf("value out of range for %s: %s", kind, s)
	}
	return fmt.Errorf("invalid syntax in %s value: %s", kind, s)
}

func (l *protoLex) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			break
		}
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			l.input.unreadRune(sz)
			break
		}
	}
}

func (l *protoLex) readStringLiteral(quote rune) (string, error) {
	var buf bytes.Buffer
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			if err == io.EOF {
				return "", errors.New("unterminated string literal, unexpected EOF")
			}
			return "", err
		}
		if c == '\n' {
			return "", errors.New("encountered end-of-line before end of string literal")
		}
		if c == quote {
			break
		}
		if c == 0 {
			return "", errors.New("null character ('\\0') not allowed in string literal")
		}
		if c != '\\' {
			buf.WriteRune(c)
			continue
		}
		if err := l.readEscape(&buf); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

var simpleEscapes = map[rune]byte{
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t', 'v': '\v',
	'\\': '\\', '\'': '\'', '"': '"', '?': '?',
}

func (l *protoLex) readEscape(buf *bytes.Buffer) error {
	c, _, err := l.input.readRune()
	if err != nil {
		return errors.New("unterminated string literal, unexpected EOF")
	}
	if b, ok := simpleEscapes[c]; ok {
		buf.WriteByte(b)
		return nil
	}
	switch {
	case c == 'x' || c == 'X':
		hex, err := l.readDigits(2, isHexDigit)
		if err != nil || hex == "" {
			return fmt.Errorf("invalid hex escape: \\%c%s", c, hex)
		}
		i, _ := strconv.ParseUint(hex, 16, 8)
		buf.WriteByte(byte(i))
	case c >= '0' && c <= '7':
		l.input.unreadRune(1)
		octal, _ := l.readDigits(3, func(r rune) bool { return r >= '0' && r <= '7' })
		i, _ := strconv.ParseUint(octal, 8, 16)
		if i > 0xff {
			return fmt.Errorf("octal escape is out range, must be between 0 and 377: \\%s", octal)
		}
		buf.WriteByte(byte(i))
	case c == 'u' || c == 'U':
		n := 4
		if c == 'U' {
			n = 8
		}
		u, err := l.readDigits(n, isHexDigit)
		if err != nil || len(u) != n {
			return fmt.Errorf("invalid unicode escape: \\%c%s", c, u)
		}
		i, _ := strconv.ParseUint(u, 16, 32)
		if i > utf8.MaxRune {
			return fmt.Errorf("unicode escape is out of range, must be between 0 and 0x10ffff: \\%c%s", c, u)
		}
		buf.WriteRune(rune(i))
	default:
		return fmt.Errorf("invalid escape sequence: %q", "\\"+string(c))
	}
	return nil
}

// readDigits reads up to max runes that satisfy accept.
func (l *protoLex) readDigits(maxLen int, accept func(rune) bool) (string, error) {
	var digits []rune
	for len(digits) < maxLen {
		c, sz, err := l.input.readRune()
		if err != nil {
			return string(digits), err
		}
		if !accept(c) {
			l.input.unreadRune(sz)
			break
		}
		digits = append(digits, c)
	}
	return string(digits), nil
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *protoLex) skipToEndOfLineComment() {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return
		}
		if c == '\n' {
			l.info.AddLine(l.input.offset())
			return
		}
	}
}

func (l *protoLex) skipToEndOfBlockComment() bool {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return false
		}
		l.maybeNewLine(c)
		if c == '*' {
			c, sz, err := l.input.readRune()
			if err != nil {
				return false
			}
			if c == '/' {
				return true
			}
			l.input.unreadRune(sz)
		}
	}
}
