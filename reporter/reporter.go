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
	"sync"

	"github.com/protopool/protopool/ast"
)

// ErrorReporter is responsible for reporting the given error. If the reporter
// returns a non-nil error, parsing/linking will abort with that error. If the
// reporter returns nil, processing will continue, allowing as many errors as
// possible to be reported.
type ErrorReporter func(err ErrorWithPos) error

// WarningReporter is responsible for reporting the given warning. This is used
// for indicating non-error messages to the calling program for things that do
// not cause the load to fail but are considered bad practice.
type WarningReporter func(ErrorWithPos)

// Reporter is a type that handles reporting both errors and warnings.
type Reporter interface {
	// Error is called when the given error is encountered. If the
	// returned error is non-nil, processing aborts with that error.
	Error(ErrorWithPos) error
	// Warning is called when the given warning is encountered.
	Warning(ErrorWithPos)
}

// NewReporter creates a new reporter that invokes the given functions on error
// or warning. If errs is nil, the first error aborts processing.
func NewReporter(errs ErrorReporter, warnings WarningReporter) Reporter {
	return reporterFuncs{errs: errs, warnings: warnings}
}

type reporterFuncs struct {
	errs     ErrorReporter
	warnings WarningReporter
}

func (r reporterFuncs) Error(err ErrorWithPos) error {
	if r.errs == nil {
		return err
	}
	return r.errs(err)
}

func (r reporterFuncs) Warning(err ErrorWithPos) {
	if r.warnings != nil {
		r.warnings(err)
	}
}

// DiagnosticFunc receives formatted diagnostics. It mirrors the signature
// of fmt.Printf so that a logging function can be used directly.
type DiagnosticFunc func(format string, args ...any)

// NewDiagnosticReporter returns a reporter that passes every error and
// warning to fn and never aborts. Errors are passed as fn("%v", err) so
// that the callee can recover the error value and inspect its kind.
// A nil fn discards everything.
func NewDiagnosticReporter(fn DiagnosticFunc) Reporter {
	return NewReporter(
		func(err ErrorWithPos) error {
			if fn != nil {
				fn("%v", err)
			}
			return nil
		},
		func(err ErrorWithPos) {
			if fn != nil {
				fn("warning: %v", err)
			}
		},
	)
}

// Collector is a Reporter that buffers everything it receives so that it
// can later be replayed, in order, into a Handler. It never aborts.
type Collector struct {
	mu      sync.Mutex
	entries []collected
}

type collected struct {
	err     ErrorWithPos
	warning bool
}

var _ Reporter = (*Collector)(nil)

func (c *Collector) Error(err ErrorWithPos) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, collected{err: err})
	return nil
}

func (c *Collector) Warning(err ErrorWithPos) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, collected{err: err, warning: true})
}

// Errors returns the errors collected so far.
func (c *Collector) Errors() []ErrorWithPos {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []ErrorWithPos
	for _, e := range c.entries {
		if !e.warning {
			errs = append(errs, e.err)
		}
	}
	return errs
}

// Replay sends everything collected to h, in the order received.
func (c *Collector) Replay(h *Handler) {
	c.mu.Lock()
	entries := c.entries
	c.mu.Unlock()
	for _, e := range entries {
		if e.warning {
			h.HandleWarning(e.err.GetPosition(), e.err.Unwrap())
		} else {
			_ = h.HandleError(e.err)
		}
	}
}

// Handler is used by the parser and linker to report errors. It is safe
// for concurrent use. It remembers the first error returned by its
// Reporter, after which all further errors are ignored.
type Handler struct {
	reporter Reporter

	mu           sync.Mutex
	errsReported int
	err          error
}

// NewHandler creates a new Handler that reports errors and warnings using the
// given reporter.
func NewHandler(rep Reporter) *Handler {
	if rep == nil {
		rep = NewReporter(nil, nil)
	}
	return &Handler{reporter: rep}
}

// HandleErrorf handles a semantic error with the given source position,
// creating the error using the given message format and arguments.
func (h *Handler) HandleErrorf(pos ast.SourcePos, format string, args ...any) error {
	return h.HandleError(Errorf(pos, format, args...))
}

// HandleError handles the given error. If the given err is an ErrorWithPos, it
// is reported, and this function returns the error returned by the reporter. If
// the given err is NOT an ErrorWithPos, the current operation will abort
// immediately.
func (h *Handler) HandleError(err error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return h.err
	}
	if ewp, ok := err.(ErrorWithPos); ok {
		h.errsReported++
		err = h.reporter.Error(ewp)
	}
	h.err = err
	return err
}

// HandleWarning handles the given warning. This will delegate to the
// handler's configured reporter.
func (h *Handler) HandleWarning(pos ast.SourcePos, err error) {
	// no need for lock; warnings don't interact with mutable fields
	h.reporter.Warning(errorWithSourcePos{pos: pos, underlying: err})
}

// HandleWarningf handles a warning with the given source position, creating
// the actual error value using the given message format and arguments.
func (h *Handler) HandleWarningf(pos ast.SourcePos, format string, args ...any) {
	h.reporter.Warning(Errorf(pos, format, args...))
}

// Error returns the handler result. If any errors have been reported then this
// returns a non-nil error. If the reporter never returned a non-nil error then
// ErrInvalidSource is returned. Otherwise, this returns the error returned by
// the handler's reporter (the same value returned by ReporterError).
func (h *Handler) Error() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.errsReported > 0 && h.err == nil {
		return ErrInvalidSource
	}
	return h.err
}

// ReporterError returns the error returned by the handler's reporter. If
// the reporter has either not been invoked (no errors handled) or has not
// returned any non-nil value, then this returns nil.
func (h *Handler) ReporterError() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.err
}

// ErrorCount returns the number of errors reported so far.
func (h *Handler) ErrorCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.errsReported
}
