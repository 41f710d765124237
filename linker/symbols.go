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
	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/descriptor"
)

type symbolKind int

const (
	symPackage = symbolKind(iota)
	symMessage
	symEnum
	symEnumValue
	symField
	symExtension
	symService
	symMethod
)

func (k symbolKind) String() string {
	switch k {
	case symPackage:
		return "package"
	case symMessage:
		return "message"
	case symEnum:
		return "enum"
	case symEnumValue:
		return "enum value"
	case symField:
		return "field"
	case symExtension:
		return "extension"
	case symService:
		return "service"
	default:
		return "method"
	}
}

func (k symbolKind) withArticle() string {
	switch k {
	case symEnum, symEnumValue, symExtension:
		return "an " + k.String()
	default:
		return "a " + k.String()
	}
}

// isAggregate reports whether a symbol of this kind may contain other
// symbols that can be named by a type reference.
func (k symbolKind) isAggregate() bool {
	return k == symPackage || k == symMessage
}

func (k symbolKind) isType() bool {
	return k == symMessage || k == symEnum
}

type symbol struct {
	kind symbolKind
	// file is nil for packages, which may span many files.
	file *fileState
	pos  ast.SourcePos

	msg  descriptor.MessageID
	enum descriptor.EnumID
}

// symbolTable maps fully-qualified names to what they declare.
// Collisions are checked by the linker before a symbol is declared.
type symbolTable struct {
	syms map[string]symbol
}

// declare adds a symbol. A name that is already taken keeps its first
// declaration, which only happens for packages.
func (t *symbolTable) declare(name string, sym symbol) {
	if t.syms == nil {
		t.syms = map[string]symbol{}
	}
	if _, ok := t.syms[name]; !ok {
		t.syms[name] = sym
	}
}

func (t *symbolTable) get(name string) (symbol, bool) {
	sym, ok := t.syms[name]
	return sym, ok
}
