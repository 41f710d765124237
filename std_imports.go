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

package protopool

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/reflect/protoregistry"
	_ "google.golang.org/protobuf/types/descriptorpb" // link in packages that include the standard protos included with protoc.
	_ "google.golang.org/protobuf/types/known/anypb"
	_ "google.golang.org/protobuf/types/known/apipb"
	_ "google.golang.org/protobuf/types/known/durationpb"
	_ "google.golang.org/protobuf/types/known/emptypb"
	_ "google.golang.org/protobuf/types/known/fieldmaskpb"
	_ "google.golang.org/protobuf/types/known/sourcecontextpb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/timestamppb"
	_ "google.golang.org/protobuf/types/known/typepb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
	_ "google.golang.org/protobuf/types/pluginpb"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/parser"
)

// All files that are included with protoc are also available as imports
// so that pools do not need a copy of these protos under their roots (just
// like callers of protoc do not need to supply them).
var standardFilenames = []string{
	"google/protobuf/any.proto",
	"google/protobuf/api.proto",
	"google/protobuf/compiler/plugin.proto",
	"google/protobuf/descriptor.proto",
	"google/protobuf/duration.proto",
	"google/protobuf/empty.proto",
	"google/protobuf/field_mask.proto",
	"google/protobuf/source_context.proto",
	"google/protobuf/struct.proto",
	"google/protobuf/timestamp.proto",
	"google/protobuf/type.proto",
	"google/protobuf/wrappers.proto",
}

// standardImports converts the compiled-in descriptors once. The trees are
// shared by every pool, which only read them.
var standardImports = sync.OnceValue(func() map[string]*ast.FileNode {
	files := make(map[string]*ast.FileNode, len(standardFilenames))
	for _, fn := range standardFilenames {
		fd, err := protoregistry.GlobalFiles.FindFileByPath(fn)
		if err != nil {
			panic(err.Error())
		}
		files[fn] = parser.FromDescriptor(fd)
	}
	return files
})

// StandardImportPaths returns the paths of the files that WithStandardImports
// makes available.
func StandardImportPaths() []string {
	return append([]string(nil), standardFilenames...)
}

// WithStandardImports returns a resolver that falls back to the standard
// imports for any google/protobuf/*.proto file that r does not have.
func WithStandardImports(r Resolver) Resolver {
	return CompositeResolver{r, ResolverFunc(findStandardImport)}
}

func findStandardImport(path string) (SearchResult, error) {
	if file, ok := standardImports()[path]; ok {
		return SearchResult{AST: file}, nil
	}
	return SearchResult{}, fmt.Errorf("%s: %w", path, ErrNotFound)
}
