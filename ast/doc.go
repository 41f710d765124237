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

// Package ast defines the declaration tree produced by parsing a proto
// source file.
//
// The tree is deliberately shallow: it records what a file declares
// (messages, fields, enums, services, extensions and options) along with
// the source position of every name that may later be the subject of a
// diagnostic. Type references are kept exactly as written; resolving them
// to declarations is the job of the linker.
//
// The root of the tree for a proto source file is a *FileNode. All
// declarations implement the Decl interface so that they can be visited
// generically with the walk package.
//
// Position information is tracked using a *FileInfo, which the lexer
// populates with line offsets as it tokenizes the file.
package ast
