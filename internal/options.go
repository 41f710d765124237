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

package internal

import (
	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/reporter"
)

// FindOption returns the index of the option with the given simple name,
// or -1 if it is absent. If the option is defined more than once, an error
// is reported against the second definition and the first one is returned.
func FindOption(handler *reporter.Handler, scope string, opts []*ast.OptionNode, name string) (int, error) {
	found := -1
	for i, opt := range opts {
		if opt.Name != name {
			continue
		}
		if found >= 0 {
			return found, handler.HandleErrorf(opt.Pos, "%s: option %s cannot be defined more than once", scope, name)
		}
		found = i
	}
	return found, nil
}
