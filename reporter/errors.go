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
	"errors"
	"fmt"

	"github.com/protopool/protopool/ast"
)

// ErrInvalidSource is a sentinel error that is returned when syntax or
// link errors are encountered, but the configured Reporter always
// returns nil.
var ErrInvalidSource = errors.New("parse failed: invalid proto source")

// Kinds of errors. Every error produced by the lexer, parser and linker
// matches exactly one of these via errors.Is.
var (
	// ErrLexical indicates a malformed token, such as an unterminated
	// string literal or an invalid number.
	ErrLexical = errors.New("lexical error")
	// ErrSyntax indicates a token sequence that does not match the grammar.
	ErrSyntax = errors.New("syntax error")
	// ErrSemantic indicates well-formed source that is nonetheless
	// invalid, such as an unresolvable type name or a duplicate field
	// number.
	ErrSemantic = errors.New("semantic error")
	// ErrIO indicates a file or directory that could not be found or read.
	ErrIO = errors.New("i/o error")
)

// ErrorWithPos is an error about a proto source file that includes information
// about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
// If err does not already match one of the error kinds, it is treated as
// semantic.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	if kindOf(err) == nil {
		err = withKind(ErrSemantic, err)
	}
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new semantic ErrorWithPos whose underlying error is
// created using the given message format and arguments (via fmt.Errorf).
func Errorf(pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return KindErrorf(ErrSemantic, pos, format, args...)
}

// KindErrorf creates a new ErrorWithPos of the given kind.
func KindErrorf(kind error, pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: withKind(kind, fmt.Errorf(format, args...))}
}

// Kind returns which of ErrLexical, ErrSyntax, ErrSemantic or ErrIO the
// given error matches, or nil if it matches none of them.
func Kind(err error) error {
	return kindOf(err)
}

func kindOf(err error) error {
	for _, kind := range []error{ErrLexical, ErrSyntax, ErrSemantic, ErrIO} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

func withKind(kind, err error) error {
	return kindError{kind: kind, err: err}
}

// kindError tags an error with its kind without altering its message.
type kindError struct {
	kind error
	err  error
}

func (e kindError) Error() string {
	return e.err.Error()
}

func (e kindError) Unwrap() []error {
	return []error{e.kind, e.err}
}

// errorWithSourcePos is an error about a proto source file that includes
// information about the location in the file that caused the error.
type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePos
}

func (e errorWithSourcePos) Error() string {
	sourcePos := e.GetPosition()
	return fmt.Sprintf("%s: %v", sourcePos, e.underlying)
}

// GetPosition implements the ErrorWithPos interface, supplying a location in
// proto source that caused the error.
func (e errorWithSourcePos) GetPosition() ast.SourcePos {
	return e.pos
}

// Unwrap implements the ErrorWithPos interface, supplying the underlying
// error. This error will not include location information.
func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
