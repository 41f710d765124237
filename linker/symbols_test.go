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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/reporter"
)

func TestSymbolTable(t *testing.T) {
	t.Parallel()
	var table symbolTable
	_, ok := table.get("foo")
	assert.False(t, ok)
	table.declare("foo", symbol{kind: symPackage, pos: ast.SourcePos{Filename: "a.proto", Line: 1, Col: 1}})
	table.declare("foo", symbol{kind: symPackage, pos: ast.SourcePos{Filename: "b.proto", Line: 1, Col: 1}})
	table.declare("foo.Bar", symbol{kind: symMessage})

	sym, ok := table.get("foo")
	require.True(t, ok)
	assert.Equal(t, "a.proto", sym.pos.Filename, "first declaration of a package is kept")
	sym, ok = table.get("foo.Bar")
	require.True(t, ok)
	assert.Equal(t, symMessage, sym.kind)
	_, ok = table.get("foo.Baz")
	assert.False(t, ok)
}

func TestLinker_Available(t *testing.T) {
	t.Parallel()
	var errs []error
	l := New(reporter.NewHandler(reporter.NewReporter(func(err reporter.ErrorWithPos) error {
		errs = append(errs, err)
		return nil
	}, nil)), Options{})
	pos := ast.SourcePos{Filename: "test.proto", Line: 2, Col: 1}
	require.NoError(t, l.declare("foo", symbol{kind: symPackage, pos: pos}))
	require.NoError(t, l.declare("foo", symbol{kind: symPackage, pos: pos}))
	require.NoError(t, l.declare("foo.Bar", symbol{kind: symMessage, pos: pos}))
	assert.Empty(t, errs)

	err := l.declare("foo.Bar", symbol{kind: symEnum, pos: ast.SourcePos{Filename: "test.proto", Line: 5, Col: 1}})
	require.ErrorIs(t, err, errCollision)
	err = l.declare("foo", symbol{kind: symService, pos: ast.SourcePos{Filename: "test.proto", Line: 6, Col: 1}})
	require.ErrorIs(t, err, errCollision)
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], `test.proto:5:1: symbol "foo.Bar" already defined at test.proto:2:1; it was declared as a message`)
	assert.EqualError(t, errs[1], `test.proto:6:1: symbol "foo" already defined at test.proto:2:1; it was declared as a package`)

	sym, ok := l.symbols.get("foo.Bar")
	require.True(t, ok)
	assert.Equal(t, symMessage, sym.kind)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	l := New(reporter.NewHandler(nil), Options{})
	for name, kind := range map[string]symbolKind{
		"a":             symPackage,
		"a.b":           symPackage,
		"a.b.Msg":       symMessage,
		"a.b.Msg.field": symField,
		"a.b.Msg.Inner": symMessage,
		"a.b.Enum":      symEnum,
		"a.Other":       symMessage,
		"Top":           symMessage,
		"a.b.Msg.Top":   symField,
	} {
		l.symbols.declare(name, symbol{kind: kind})
	}

	testCases := []struct {
		scope, name string
		want        string
		undefined   string
	}{
		{scope: "a.b.Msg", name: "Inner", want: "a.b.Msg.Inner"},
		{scope: "a.b.Msg", name: "Enum", want: "a.b.Enum"},
		{scope: "a.b.Msg", name: "Other", want: "a.Other"},
		{scope: "a.b.Msg", name: "Msg.Inner", want: "a.b.Msg.Inner"},
		{scope: "a.b.Msg", name: "b.Msg", want: "a.b.Msg"},
		{scope: "a.b.Msg", name: ".Top", want: "Top"},
		// the field a.b.Msg.Top is skipped in favor of the message
		{scope: "a.b.Msg", name: "Top", want: "Top"},
		{scope: "a.b.Msg", name: "Msg.Missing", undefined: "a.b.Msg.Missing"},
		// a field cannot contain other names
		{scope: "a.b.Msg", name: "field.Inner"},
		{scope: "a.b.Msg", name: "Nope"},
		{scope: "", name: "a.Other", want: "a.Other"},
	}
	for _, tc := range testCases {
		res := l.resolve(tc.scope, tc.name, true)
		assert.Equal(t, tc.want != "", res.found, "%s in %s", tc.name, tc.scope)
		assert.Equal(t, tc.want, res.name, "%s in %s", tc.name, tc.scope)
		assert.Equal(t, tc.undefined, res.undefined, "%s in %s", tc.name, tc.scope)
	}

	res := l.resolve("a.b.Msg", "field", true)
	assert.True(t, res.found)
	assert.Equal(t, symField, res.sym.kind)
}
