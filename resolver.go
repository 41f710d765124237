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
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/protopool/protopool/ast"
)

// ErrNotFound is returned, possibly wrapped, by a Resolver that has no
// file with the requested path.
var ErrNotFound = errors.New("file not found")

// Resolver locates files, by their import path, for a Pool to load.
type Resolver interface {
	FindFileByPath(path string) (SearchResult, error)
}

// SearchResult holds what a Resolver found for a path. Exactly one field
// is set. Source is closed after it is parsed if it implements io.Closer.
type SearchResult struct {
	// Source is the text of the file, which will be parsed.
	Source io.Reader
	// AST is an already-parsed file. Its declarations are used as-is.
	AST *ast.FileNode
}

// ResolverFunc is a simple function type that implements Resolver.
type ResolverFunc func(string) (SearchResult, error)

var _ Resolver = ResolverFunc(nil)

// FindFileByPath implements the Resolver interface.
func (f ResolverFunc) FindFileByPath(path string) (SearchResult, error) {
	return f(path)
}

// CompositeResolver is a slice of resolvers, which are consulted in order
// until one can supply a result. If none of the constituent resolvers can
// supply a result, the error returned by the first resolver is returned.
type CompositeResolver []Resolver

var _ Resolver = CompositeResolver(nil)

// FindFileByPath implements the Resolver interface.
func (f CompositeResolver) FindFileByPath(path string) (SearchResult, error) {
	if len(f) == 0 {
		return SearchResult{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	var firstErr error
	for _, res := range f {
		r, err := res.FindFileByPath(path)
		if err == nil {
			return r, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return SearchResult{}, firstErr
}

// SourceResolver reads source files from a file system. Paths are looked
// up relative to each of its import paths, in order.
type SourceResolver struct {
	// ImportPaths are the roots that paths are relative to. If empty,
	// paths are relative to the current directory of the file system.
	ImportPaths []string
	// FS is the file system to read. If nil, the OS file system is used.
	FS afero.Fs
}

var _ Resolver = (*SourceResolver)(nil)

// FindFileByPath implements the Resolver interface.
func (r *SourceResolver) FindFileByPath(name string) (SearchResult, error) {
	fsys := r.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	roots := r.ImportPaths
	if len(roots) == 0 {
		roots = []string{""}
	}
	for _, root := range roots {
		f, err := fsys.Open(filepath.Join(root, filepath.FromSlash(name)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return SearchResult{}, err
		}
		if info, err := f.Stat(); err == nil && info.IsDir() {
			_ = f.Close()
			continue
		}
		return SearchResult{Source: f}, nil
	}
	return SearchResult{}, fmt.Errorf("%s: %w", name, ErrNotFound)
}

// relativePath converts a file name given to LoadFile into an import
// path. Absolute names, and names that start with one of the roots, are
// made relative to that root.
func relativePath(roots []string, name string) string {
	clean := filepath.Clean(name)
	for _, root := range roots {
		if root == "" {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(root), clean)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if filepath.IsAbs(name) || strings.HasPrefix(clean, filepath.Clean(root)+string(filepath.Separator)) {
			return filepath.ToSlash(rel)
		}
	}
	return path.Clean(filepath.ToSlash(name))
}
