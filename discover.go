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
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/protopool/protopool/reporter"
)

// discover returns the import paths, relative to root, of every file
// under root with the given extension, sorted.
func discover(fsys afero.Fs, root, ext string) ([]string, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", reporter.ErrIO, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", reporter.ErrIO, root)
	}
	iofs := afero.NewIOFS(afero.NewBasePathFs(fsys, root))
	matches, err := doublestar.Glob(iofs, "**/*"+ext, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", reporter.ErrIO, root, err)
	}
	sort.Strings(matches)
	return matches, nil
}
