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

// Package linker turns declaration trees into a linked descriptor pool.
//
// Linking happens in two passes. AddFile is the first pass: it walks a
// file's declarations, registers every fully-qualified name in a symbol
// table, and adds messages, enums, fields, services and methods to a
// descriptor.Builder. References to other types are not resolved yet;
// they are recorded so that files may refer to declarations in files that
// have not been added yet. Link is the second pass: it resolves every
// recorded reference, attaches extensions to the messages they extend,
// and computes default values and packed flags.
//
// Problems are reported to a reporter.Handler. Unless the handler's
// reporter asks to abort, a problem only removes the offending declaration
// or leaves the offending reference unresolved.
//
// Symbols
//
// A name is declared by the first file that registers it. A later
// declaration of the same name is reported and left out of the pool,
// together with everything nested inside it. Package names are symbols
// too, so a message cannot share its name with a package.
//
// Name resolution follows protoc: a relative name is looked up in the
// enclosing scope and then in each scope further out. Only the first
// component of the name decides which scope is used, so if it matches
// but the rest of the name does not, resolution fails rather than
// continuing outwards. A name with a leading dot is fully-qualified.
package linker
