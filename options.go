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
	"io"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/protopool/protopool/reporter"
)

// DefaultExtension is the extension of the files discovered by LoadAll.
const DefaultExtension = ".proto"

// DiagnosticFunc receives every error and warning reported while a pool
// is built, as a formatted message. It never aborts processing.
type DiagnosticFunc = reporter.DiagnosticFunc

// Options control how a Pool locates, parses and links its files. The zero
// value is usable: files are read from the OS file system, diagnostics are
// dropped, and logging is discarded.
type Options struct {
	// FS is the file system that roots and imports are read from. If nil,
	// the OS file system is used.
	FS afero.Fs
	// The maximum number of files parsed concurrently by LoadAll. If
	// unspecified or set to a non-positive value, then
	// min(runtime.NumCPU(), runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
	// Diagnostics receives a formatted message for every error and warning.
	// It is ignored when Reporter is set.
	Diagnostics DiagnosticFunc
	// A custom error and warning reporter. If unspecified, Diagnostics is
	// used, and processing never aborts. A Reporter that returns a non-nil
	// error stops the build.
	Reporter reporter.Reporter
	// Logger receives debug and info logs about discovery, loading and
	// finalization.
	Logger logrus.FieldLogger
	// If true, a file may refer to any declaration in the pool, even one
	// in a file that it does not import.
	LenientImports bool
	// Extension of the files discovered under each root. Defaults to
	// DefaultExtension.
	Extension string
	// If true, the google/protobuf/*.proto files that are bundled with
	// protoc are not available as imports unless they are present under
	// one of the roots.
	DisableStandardImports bool
}

func (o Options) fs() afero.Fs {
	if o.FS == nil {
		return afero.NewOsFs()
	}
	return o.FS
}

func (o Options) parallelism() int {
	par := o.MaxParallelism
	if par <= 0 {
		par = runtime.GOMAXPROCS(-1)
		if cpus := runtime.NumCPU(); par > cpus {
			par = cpus
		}
	}
	return par
}

func (o Options) reporter() reporter.Reporter {
	if o.Reporter != nil {
		return o.Reporter
	}
	return reporter.NewDiagnosticReporter(o.Diagnostics)
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func (o Options) extension() string {
	if o.Extension == "" {
		return DefaultExtension
	}
	return o.Extension
}
