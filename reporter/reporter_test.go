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

package reporter

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/ast"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()
	pos := ast.SourcePos{Filename: "a.proto", Line: 3, Col: 7}

	err := KindErrorf(ErrSyntax, pos, "syntax error: unexpected %q", "}")
	assert.Equal(t, `a.proto:3:7: syntax error: unexpected "}"`, err.Error())
	assert.ErrorIs(t, err, ErrSyntax)
	assert.NotErrorIs(t, err, ErrSemantic)
	assert.Equal(t, ErrSyntax, Kind(err))

	err = Errorf(pos, "duplicate symbol %s", "foo.Bar")
	assert.ErrorIs(t, err, ErrSemantic)
	assert.Equal(t, pos, err.GetPosition())

	// an error that already carries a kind keeps it
	err = Error(pos, KindErrorf(ErrIO, pos, "file not found"))
	assert.ErrorIs(t, err, ErrIO)
	assert.Nil(t, Kind(errors.New("plain")))
}

func TestHandler_NonAborting(t *testing.T) {
	t.Parallel()
	var got []string
	h := NewHandler(NewDiagnosticReporter(func(format string, args ...any) {
		got = append(got, fmt.Sprintf(format, args...))
	}))

	pos := ast.SourcePos{Filename: "a.proto", Line: 1, Col: 1}
	require.NoError(t, h.HandleErrorf(pos, "first"))
	require.NoError(t, h.HandleErrorf(pos, "second"))
	h.HandleWarningf(pos, "careful")

	assert.Equal(t, []string{
		"a.proto:1:1: first",
		"a.proto:1:1: second",
		"warning: a.proto:1:1: careful",
	}, got)
	assert.Equal(t, 2, h.ErrorCount())
	assert.ErrorIs(t, h.Error(), ErrInvalidSource)
	assert.NoError(t, h.ReporterError())
}

func TestHandler_AbortsOnFirstError(t *testing.T) {
	t.Parallel()
	h := NewHandler(nil)
	pos := ast.UnknownPos("a.proto")
	err := h.HandleErrorf(pos, "boom")
	require.Error(t, err)
	// subsequent errors return the first one
	assert.Equal(t, err, h.HandleErrorf(pos, "again"))
	assert.Equal(t, err, h.Error())
}

func TestDiagnosticReporter_ErrorValueRecoverable(t *testing.T) {
	t.Parallel()
	var kinds []error
	h := NewHandler(NewDiagnosticReporter(func(_ string, args ...any) {
		if err, ok := args[0].(error); ok {
			kinds = append(kinds, Kind(err))
		}
	}))
	pos := ast.UnknownPos("a.proto")
	_ = h.HandleError(KindErrorf(ErrLexical, pos, "bad escape"))
	_ = h.HandleErrorf(pos, "unknown type")
	assert.Equal(t, []error{ErrLexical, ErrSemantic}, kinds)
}

func TestCollector_Replay(t *testing.T) {
	t.Parallel()
	var c Collector
	pos := ast.UnknownPos("b.proto")
	sub := NewHandler(&c)
	_ = sub.HandleErrorf(pos, "one")
	sub.HandleWarningf(pos, "two")
	_ = sub.HandleErrorf(pos, "three")
	require.Len(t, c.Errors(), 2)

	var got []string
	h := NewHandler(NewDiagnosticReporter(func(format string, args ...any) {
		got = append(got, fmt.Sprintf(format, args...))
	}))
	c.Replay(h)
	assert.Equal(t, []string{"b.proto: one", "warning: b.proto: two", "b.proto: three"}, got)
}

type lines map[int]string

func (l lines) SourceLine(_ string, line int) (string, bool) {
	s, ok := l[line]
	return s, ok
}

func TestRender(t *testing.T) {
	t.Parallel()
	src := lines{2: "\tint33 x = 1;"}
	err := Errorf(ast.SourcePos{Filename: "a.proto", Line: 2, Col: 9}, "unknown type int33")
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, err, src))
	assert.Equal(t, "a.proto:2:9: unknown type int33\n      int33 x = 1;\n      ^\n", buf.String())

	buf.Reset()
	require.NoError(t, Render(&buf, errors.New("no position"), src))
	assert.Equal(t, "no position\n", buf.String())
}
