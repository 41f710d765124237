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
	"strings"
	"unicode"
)

// CreatePrefixList returns a list of package prefixes to search when resolving
// a symbol name. If the given package is blank, it returns only the empty
// string. If the given package contains only one token, e.g. "foo", it returns
// that token and the empty string, e.g. ["foo", ""]. Otherwise, it returns
// successively shorter prefixes of the package and then the empty string. For
// example, for a package named "foo.bar.baz" it will return the following list:
//
//	["foo.bar.baz", "foo.bar", "foo", ""]
func CreatePrefixList(pkg string) []string {
	if pkg == "" {
		return []string{""}
	}

	numDots := strings.Count(pkg, ".")
	prefixes := make([]string, 0, numDots+2)
	for pkg != "" {
		prefixes = append(prefixes, pkg)
		pkg = ParentScope(pkg)
	}
	return append(prefixes, "")
}

// ParentScope strips the last component of a dotted name, returning the
// empty string for a single-component name.
func ParentScope(name string) string {
	if pos := strings.LastIndexByte(name, '.'); pos >= 0 {
		return name[:pos]
	}
	return ""
}

// QualifyName joins a scope and a simple name.
func QualifyName(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "." + name
}

// JSONName returns the default JSON name for a field with the given
// name: underscores are dropped and the letter following each one is
// capitalized.
func JSONName(name string) string {
	var js []rune
	nextUpper := false
	for _, r := range name {
		if r == '_' {
			nextUpper = true
			continue
		}
		if nextUpper {
			nextUpper = false
			js = append(js, unicode.ToUpper(r))
		} else {
			js = append(js, r)
		}
	}
	return string(js)
}

// MapEntryName returns the name of the message synthesized for a map
// field with the given name. For example, "foo_bar" yields "FooBarEntry".
func MapEntryName(fieldName string) string {
	var name []rune
	nextUpper := true
	for _, r := range fieldName {
		if r == '_' {
			nextUpper = true
			continue
		}
		if nextUpper {
			nextUpper = false
			name = append(name, unicode.ToUpper(r))
		} else {
			name = append(name, r)
		}
	}
	return string(name) + "Entry"
}
