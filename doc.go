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

// Package protopool builds registries of protobuf descriptors from .proto
// source files at runtime, without generated code.
//
// A Pool is a build session. Files are loaded into it, either one at a
// time with LoadFile or by discovering everything under its root
// directories with LoadAll. Loading a file parses it (see package parser)
// and declares everything in it (see package linker), after loading the
// files it imports. The first query finalizes the pool: type references
// are resolved across all loaded files, and the result is an immutable
// descriptor.Pool that may be shared by any number of goroutines.
//
// Problems are reported as they are found, through the Reporter or
// Diagnostics callback of the Options. Lexical and syntax errors drop the
// file they are in. Semantic errors, such as an unresolvable type name
// or a duplicate field number, drop or leave unresolved only the
// offending declaration. Nothing is fatal: if no file can be loaded, the
// result is simply an empty pool.
//
// Registry
//
// Reinitializing a Pool discards its descriptors in place, which requires
// that no queries be running. A Registry instead builds a new pool off to
// the side and publishes it atomically. Readers take the current snapshot
// with Registry.Current and use it for a batch of work. The snapshot they
// hold stays consistent, and its handles report that they are stale once
// a newer pool has been published:
//
//	reg := protopool.NewRegistry(protopool.Options{Diagnostics: log.Printf})
//	if _, err := reg.Reinitialize(ctx, []string{"./protos"}); err != nil {
//		return err
//	}
//	msg, ok := reg.Current().FindMessageByName("foo.bar.Request")
//
// Resolvers
//
// A Resolver is how a pool locates files by import path. A SourceResolver
// reads them from an afero file system relative to a list of roots, and
// WithStandardImports adds the google/protobuf/*.proto files that are
// bundled with protoc.
package protopool
