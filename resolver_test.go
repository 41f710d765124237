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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/ast"
)

func TestSourceResolver(t *testing.T) {
	t.Parallel()
	fsys := memFS(t, map[string]string{
		"/a/x.proto":     `first`,
		"/b/x.proto":     `second`,
		"/b/sub/y.proto": `nested`,
	})
	res := &SourceResolver{ImportPaths: []string{"/a", "/b"}, FS: fsys}
	read := func(name string) string {
		t.Helper()
		sr, err := res.FindFileByPath(name)
		require.NoError(t, err)
		data, err := io.ReadAll(sr.Source)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, "first", read("x.proto"))
	assert.Equal(t, "nested", read("sub/y.proto"))

	_, err := res.FindFileByPath("z.proto")
	assert.ErrorIs(t, err, ErrNotFound)
	// directories are not files
	_, err = res.FindFileByPath("sub")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompositeResolver(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	file := &ast.FileNode{Name: "b.proto"}
	res := CompositeResolver{
		ResolverFunc(func(path string) (SearchResult, error) {
			return SearchResult{}, boom
		}),
		ResolverFunc(func(path string) (SearchResult, error) {
			if path == "b.proto" {
				return SearchResult{AST: file}, nil
			}
			return SearchResult{}, ErrNotFound
		}),
	}
	sr, err := res.FindFileByPath("b.proto")
	require.NoError(t, err)
	assert.Same(t, file, sr.AST)

	// the first error wins
	_, err = res.FindFileByPath("c.proto")
	assert.ErrorIs(t, err, boom)

	_, err = CompositeResolver(nil).FindFileByPath("c.proto")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRelativePath(t *testing.T) {
	t.Parallel()
	roots := []string{"/protos", "/other/root"}
	testCases := []struct {
		name, want string
	}{
		{name: "a.proto", want: "a.proto"},
		{name: "foo/../a.proto", want: "a.proto"},
		{name: "/protos/a/b.proto", want: "a/b.proto"},
		{name: "/other/root/c.proto", want: "c.proto"},
		{name: "/elsewhere/d.proto", want: "/elsewhere/d.proto"},
		{name: "/protos-x/e.proto", want: "/protos-x/e.proto"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, relativePath(roots, tc.name), tc.name)
	}
}

func TestWithStandardImports(t *testing.T) {
	t.Parallel()
	res := WithStandardImports(&SourceResolver{FS: memFS(t, nil)})
	sr, err := res.FindFileByPath("google/protobuf/any.proto")
	require.NoError(t, err)
	require.NotNil(t, sr.AST)
	assert.Equal(t, "google/protobuf/any.proto", sr.AST.Name)
	assert.Equal(t, "google.protobuf", sr.AST.Package)

	_, err = res.FindFileByPath("google/protobuf/nope.proto")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, StandardImportPaths(), len(standardImports()))
}
