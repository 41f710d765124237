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

// Package parser contains the logic for parsing protobuf source code into a
// declaration tree (see package ast).
//
// The lexer tokenizes the source and the recursive-descent parser in this
// package builds the tree. Only syntactic checks happen here: type names
// are kept exactly as written, and it is the linker's job to resolve them.
//
// A lexical or syntax error aborts the parse of the file. The error is
// reported to the given handler and also returned, and no tree is produced.
// Problems found by the basic validation that runs after a successful parse,
// such as out-of-range field numbers, are reported but do not abort: the
// offending declaration is removed from the tree instead.
package parser
