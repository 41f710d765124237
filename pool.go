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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/linker"
	"github.com/protopool/protopool/parser"
	"github.com/protopool/protopool/reporter"
)

var (
	// ErrFinalized is returned when files are loaded into a pool that has
	// already been finalized.
	ErrFinalized = errors.New("protopool: pool already finalized")
	// ErrRetired is reported by descriptors whose pool was discarded by a
	// reinitialization.
	ErrRetired = descriptor.ErrRetired
)

// Pool is a build session: files are loaded into it, then it is finalized
// into an immutable *descriptor.Pool that answers queries. Loading is not
// safe for concurrent use. Once finalized, queries may be made
// concurrently.
type Pool struct {
	opts Options
	log  logrus.FieldLogger

	mu       sync.Mutex
	dirs     []string
	resolver Resolver
	handler  *reporter.Handler
	linker   *linker.Linker
	files    map[string]*loadedFile
	desc     *descriptor.Pool
	linkErr  error

	// srcMu guards what SourceLine reads, which may be called from a
	// reporter while the pool is loading.
	srcMu   sync.Mutex
	srcDirs []string
	sources map[string]*ast.FileInfo
}

type loadedFile struct {
	// loading is set while the file's imports are being loaded, to detect
	// cycles.
	loading bool
	err     error
}

// New creates a pool whose files are found under the given root
// directories. Nothing is loaded until LoadFile or LoadAll is called.
func New(dirs []string, opts Options) *Pool {
	p := &Pool{opts: opts, log: opts.logger()}
	p.reset(dirs)
	return p
}

func (p *Pool) reset(dirs []string) {
	p.dirs = append([]string(nil), dirs...)
	var res Resolver = &SourceResolver{ImportPaths: p.dirs, FS: p.opts.fs()}
	if !p.opts.DisableStandardImports {
		res = WithStandardImports(res)
	}
	p.resolver = res
	p.handler = reporter.NewHandler(loggingReporter{rep: p.opts.reporter(), log: p.log})
	p.linker = linker.New(p.handler, linker.Options{LenientImports: p.opts.LenientImports})
	p.files = map[string]*loadedFile{}
	p.desc = nil
	p.linkErr = nil

	p.srcMu.Lock()
	p.srcDirs = p.dirs
	p.sources = map[string]*ast.FileInfo{}
	p.srcMu.Unlock()
}

// Dirs returns the root directories of the pool.
func (p *Pool) Dirs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.dirs...)
}

// LoadFile parses name and registers its declarations, after loading the
// files it imports. The name is an import path relative to one of the
// roots; absolute names under a root are converted. Loading a file that
// was already loaded does nothing.
//
// The returned error is non-nil if the file itself could not be read or
// parsed, or if the build was aborted by the reporter or by ctx. Problems
// in imported files and semantic problems are reported but do not fail
// the load.
func (p *Pool) LoadFile(ctx context.Context, name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.desc != nil {
		return ErrFinalized
	}
	path := relativePath(p.dirs, name)
	return p.load(ctx, path, ast.UnknownPos(path), nil)
}

// LoadAll discovers every file with the configured extension under each
// root, and loads them. Files are parsed in parallel and then registered
// in discovery order. A root that cannot be read is reported as an I/O
// error and skipped.
func (p *Pool) LoadAll(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.desc != nil {
		return ErrFinalized
	}
	return p.loadAll(ctx)
}

func (p *Pool) loadAll(ctx context.Context) error {
	var paths []string
	seen := map[string]struct{}{}
	for _, root := range p.dirs {
		if root == "" {
			root = "."
		}
		found, err := discover(p.opts.fs(), root, p.opts.extension())
		if err != nil {
			if err := p.handler.HandleError(reporter.Error(ast.UnknownPos(root), err)); err != nil {
				return err
			}
			continue
		}
		p.log.WithFields(logrus.Fields{"root": root, "files": len(found)}).Debug("discovered files")
		for _, path := range found {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}

	parsed, err := p.prefetch(ctx, paths)
	if err != nil {
		return err
	}
	for _, path := range paths {
		if err := p.load(ctx, path, ast.UnknownPos(path), parsed); err != nil {
			if err := p.aborted(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

type parsedFile struct {
	file  *ast.FileNode
	err   error
	diags *reporter.Collector
}

// prefetch parses files concurrently. Diagnostics are buffered so that
// they can be replayed in load order.
func (p *Pool) prefetch(ctx context.Context, paths []string) (map[string]*parsedFile, error) {
	results := make([]*parsedFile, len(paths))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(p.opts.parallelism())
	for i, path := range paths {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := p.resolver.FindFileByPath(path)
			if err != nil {
				// reported when the file is loaded
				return nil
			}
			pf := &parsedFile{diags: &reporter.Collector{}}
			pf.file, pf.err = parseSearchResult(path, res, reporter.NewHandler(pf.diags))
			results[i] = pf
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	parsed := make(map[string]*parsedFile, len(paths))
	for i, pf := range results {
		if pf != nil {
			parsed[paths[i]] = pf
		}
	}
	return parsed, nil
}

func (p *Pool) aborted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.handler.ReporterError()
}

// load loads path and, first, its imports. from is where a failure to
// find the file is reported.
func (p *Pool) load(ctx context.Context, path string, from ast.SourcePos, parsed map[string]*parsedFile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if lf, ok := p.files[path]; ok {
		return lf.err
	}
	lf := &loadedFile{}
	p.files[path] = lf

	file, err := p.parse(path, from, parsed)
	if err != nil {
		lf.err = err
		return err
	}
	p.log.WithField("file", path).Debug("loaded file")
	if file.FileInfo != nil {
		p.srcMu.Lock()
		p.sources[path] = file.FileInfo
		p.srcMu.Unlock()
	}

	lf.loading = true
	for _, imp := range file.Imports {
		if dep, ok := p.files[imp.Path]; ok && dep.loading {
			if err := p.handler.HandleErrorf(imp.Pos, "cycle found in imports: %q -> %q", path, imp.Path); err != nil {
				lf.err = err
				return err
			}
			continue
		}
		if err := p.load(ctx, imp.Path, imp.Pos, parsed); err != nil {
			if err := p.aborted(ctx); err != nil {
				lf.err = err
				return err
			}
		}
	}
	lf.loading = false

	if err := p.linker.AddFile(file); err != nil {
		lf.err = err
		return err
	}
	return nil
}

func (p *Pool) parse(path string, from ast.SourcePos, parsed map[string]*parsedFile) (*ast.FileNode, error) {
	if pf, ok := parsed[path]; ok {
		pf.diags.Replay(p.handler)
		if err := p.handler.ReporterError(); err != nil {
			return nil, err
		}
		return pf.file, pf.err
	}
	res, err := p.resolver.FindFileByPath(path)
	if err != nil {
		ewp := reporter.KindErrorf(reporter.ErrIO, from, "could not load %q: %w", path, err)
		if err := p.handler.HandleError(ewp); err != nil {
			return nil, err
		}
		return nil, ewp
	}
	return parseSearchResult(path, res, p.handler)
}

func parseSearchResult(path string, res SearchResult, h *reporter.Handler) (*ast.FileNode, error) {
	if res.AST != nil {
		if res.AST.Name != path {
			return nil, fmt.Errorf("search result for %q returned file %q", path, res.AST.Name)
		}
		return res.AST, nil
	}
	if c, ok := res.Source.(io.Closer); ok {
		defer func() {
			_ = c.Close()
		}()
	}
	return parser.Parse(path, res.Source, h)
}

// Finalize links all loaded files and returns the resulting descriptors.
// After this, no more files can be loaded. Finalizing is idempotent, and
// happens implicitly on the first query. If the reporter aborted linking,
// the returned pool is empty and the error is the one that stopped it.
func (p *Pool) Finalize() (*descriptor.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finalize()
}

func (p *Pool) finalize() (*descriptor.Pool, error) {
	if p.desc != nil {
		return p.desc, p.linkErr
	}
	fileCount := p.linker.FileCount()
	desc, err := p.linker.Link()
	if err != nil {
		desc = descriptor.Empty()
		p.linkErr = err
	}
	p.desc = desc
	p.log.WithFields(logrus.Fields{
		"files":      fileCount,
		"messages":   desc.MessageCount(),
		"errors":     p.handler.ErrorCount(),
		"generation": desc.Generation(),
	}).Info("pool finalized")
	return desc, err
}

// Descriptors returns the finalized descriptors, finalizing first if
// necessary.
func (p *Pool) Descriptors() *descriptor.Pool {
	desc, _ := p.Finalize()
	return desc
}

// Err returns nil if no errors were reported while building the pool.
// Otherwise, it returns the error that aborted the build or, if the build
// completed, reporter.ErrInvalidSource.
func (p *Pool) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.linkErr != nil {
		return p.linkErr
	}
	return p.handler.Error()
}

// ErrorCount returns the number of errors reported so far.
func (p *Pool) ErrorCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler.ErrorCount()
}

// FindMessageByName returns the message with the given fully-qualified
// name.
func (p *Pool) FindMessageByName(name string) (descriptor.Message, bool) {
	return p.Descriptors().FindMessageByName(name)
}

// FindMethodByName returns the method with the given fully-qualified
// name, such as "pkg.Service.Method".
func (p *Pool) FindMethodByName(name string) (descriptor.Method, bool) {
	return p.Descriptors().FindMethodByName(name)
}

// FindEnumByName returns the enum with the given fully-qualified name.
func (p *Pool) FindEnumByName(name string) (descriptor.Enum, bool) {
	return p.Descriptors().FindEnumByName(name)
}

// FindServiceByName returns the service with the given fully-qualified
// name.
func (p *Pool) FindServiceByName(name string) (descriptor.Service, bool) {
	return p.Descriptors().FindServiceByName(name)
}

// FindFieldByName returns the field or extension with the given
// fully-qualified name.
func (p *Pool) FindFieldByName(name string) (descriptor.Field, bool) {
	return p.Descriptors().FindFieldByName(name)
}

// ForEachMessage calls fn for every message in the pool, including
// nested messages, in a deterministic order.
func (p *Pool) ForEachMessage(fn func(descriptor.Message)) {
	p.Descriptors().ForEachMessage(fn)
}

// Reinitialize discards everything loaded, retiring the descriptors
// returned so far, then loads every file under dirs and finalizes. The
// caller must ensure no queries are in flight against the old
// descriptors; see Registry for a handoff that does not need this.
func (p *Pool) Reinitialize(ctx context.Context, dirs []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.desc != nil {
		p.desc.Retire()
	}
	p.reset(dirs)
	if err := p.loadAll(ctx); err != nil {
		return err
	}
	_, err := p.finalize()
	return err
}

// SourceLine returns a line of a loaded file, so that diagnostics can be
// rendered with reporter.Render.
func (p *Pool) SourceLine(filename string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}
	p.srcMu.Lock()
	info, dirs := p.sources[filename], p.srcDirs
	p.srcMu.Unlock()
	if info != nil {
		if line > info.LineCount() {
			return "", false
		}
		return info.Line(line), true
	}

	// files that failed to parse are read again
	res, err := (&SourceResolver{ImportPaths: dirs, FS: p.opts.fs()}).FindFileByPath(filename)
	if err != nil {
		return "", false
	}
	data, err := io.ReadAll(res.Source)
	if c, ok := res.Source.(io.Closer); ok {
		_ = c.Close()
	}
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}

var _ reporter.LineSource = (*Pool)(nil)

// loggingReporter logs every diagnostic before passing it on.
type loggingReporter struct {
	rep reporter.Reporter
	log logrus.FieldLogger
}

func (r loggingReporter) Error(err reporter.ErrorWithPos) error {
	kind := "error"
	if k := reporter.Kind(err); k != nil {
		kind = k.Error()
	}
	r.log.WithField("kind", kind).Debug(err.Error())
	return r.rep.Error(err)
}

func (r loggingReporter) Warning(err reporter.ErrorWithPos) {
	r.log.WithField("kind", "warning").Debug(err.Error())
	r.rep.Warning(err)
}
