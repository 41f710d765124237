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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreatePrefixList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{""}, CreatePrefixList(""))
	assert.Equal(t, []string{"foo", ""}, CreatePrefixList("foo"))
	assert.Equal(t, []string{"foo.bar.baz", "foo.bar", "foo", ""}, CreatePrefixList("foo.bar.baz"))
}

func TestNames(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "a.b", QualifyName("a", "b"))
	assert.Equal(t, "b", QualifyName("", "b"))
	assert.Equal(t, "a", ParentScope("a.b"))
	assert.Equal(t, "", ParentScope("a"))

	assert.Equal(t, "fooBarBaz", JSONName("foo_bar_baz"))
	assert.Equal(t, "foo", JSONName("foo"))
	assert.Equal(t, "FooBarEntry", MapEntryName("foo_bar"))
	assert.Equal(t, "ValuesEntry", MapEntryName("values"))
}
