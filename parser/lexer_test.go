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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/reporter"
)

func lexAll(t *testing.T, src string) ([]token, *protoLex) {
	t.Helper()
	h := reporter.NewHandler(reporter.NewReporter(func(reporter.ErrorWithPos) error { return nil }, nil))
	l, err := newLexer(strings.NewReader(src), "test.proto", h)
	require.NoError(t, err)
	var toks []token
	for {
		tok := l.Lex()
		toks = append(toks, tok)
		if tok.kind == tokEOF || tok.kind == tokError {
			return toks, l
		}
	}
}

func TestLexer(t *testing.T) {
	t.Parallel()
	toks, _ := lexAll(t, `syntax = "proto3"; // comment
/* block
 comment */ message Foo { int32 x = 0x1F; }`)

	type expected struct {
		kind      tokenKind
		text      string
		line, col int
	}
	want := []expected{
		{tokKeyword, "syntax", 1, 1},
		{tokSymbol, "=", 1, 8},
		{tokString, `"proto3"`, 1, 10},
		{tokSymbol, ";", 1, 18},
		{tokKeyword, "message", 3, 13},
		{tokIdent, "Foo", 3, 21},
		{tokSymbol, "{", 3, 25},
		{tokKeyword, "int32", 3, 27},
		{tokIdent, "x", 3, 33},
		{tokSymbol, "=", 3, 35},
		{tokInt, "0x1F", 3, 37},
		{tokSymbol, ";", 3, 41},
		{tokSymbol, "}", 3, 43},
		{tokEOF, "", 0, 0},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		assert.Equal(t, w.kind, toks[i].kind, "token %d", i)
		if w.kind == tokEOF {
			continue
		}
		assert.Equal(t, w.text, toks[i].text, "token %d", i)
		assert.Equal(t, w.line, toks[i].pos.Line, "token %d line", i)
		assert.Equal(t, w.col, toks[i].pos.Col, "token %d col", i)
	}
	assert.Equal(t, "proto3", toks[2].str)
	assert.Equal(t, uint64(31), toks[10].ui)
}

func TestLexer_Numbers(t *testing.T) {
	t.Parallel()
	toks, _ := lexAll(t, `0 017 1.5 .5 1e3 2E-2 18446744073709551616`)
	require.Len(t, toks, 8)

	assert.Equal(t, tokInt, toks[0].kind)
	assert.Equal(t, uint64(0), toks[0].ui)
	assert.Equal(t, tokInt, toks[1].kind)
	assert.Equal(t, uint64(15), toks[1].ui)

	floats := []float64{1.5, .5, 1000, 0.02}
	for i, f := range floats {
		tok := toks[i+2]
		assert.Equal(t, tokFloat, tok.kind)
		assert.InDelta(t, f, tok.f, 1e-12)
	}
	// too big for uint64, so it becomes a float
	assert.Equal(t, tokFloat, toks[6].kind)
	assert.InDelta(t, math.Pow(2, 64), toks[6].f, 1)
	assert.Equal(t, tokEOF, toks[7].kind)
}

func TestLexer_Strings(t *testing.T) {
	t.Parallel()
	toks, _ := lexAll(t, `"a\tb" 'c\x41' "\101é" 'it''s'`)
	require.Len(t, toks, 6)
	assert.Equal(t, "a\tb", toks[0].str)
	assert.Equal(t, "cA", toks[1].str)
	assert.Equal(t, "Aé", toks[2].str)
	assert.Equal(t, "it", toks[3].str)
	assert.Equal(t, "s", toks[4].str)
}

func TestLexer_BOM(t *testing.T) {
	t.Parallel()
	toks, _ := lexAll(t, "\ufeffpackage")
	require.Len(t, toks, 2)
	assert.Equal(t, "package", toks[0].text)
	assert.Equal(t, 1, toks[0].pos.Col)
}

func TestLexer_Errors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name, src, msg string
		line, col      int
	}{
		{"unterminated string", "message \"abc", "unterminated string literal", 1, 9},
		{"invalid character", "message Foo $", `invalid character '$'`, 1, 13},
		{"unterminated comment", "\n  /* never ends", "block comment never terminates", 2, 3},
		{"bad escape", `"\q"`, "invalid escape sequence", 1, 1},
		{"bad octal", "09", "invalid syntax in integer value", 1, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			toks, l := lexAll(t, tc.src)
			last := toks[len(toks)-1]
			require.Equal(t, tokError, last.kind)
			require.Error(t, l.err)
			assert.ErrorIs(t, l.err, reporter.ErrLexical)
			assert.Contains(t, l.err.Error(), tc.msg)
			var ewp reporter.ErrorWithPos
			require.ErrorAs(t, l.err, &ewp)
			assert.Equal(t, tc.line, ewp.GetPosition().Line)
			assert.Equal(t, tc.col, ewp.GetPosition().Col)
		})
	}
}
