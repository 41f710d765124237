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

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"gopkg.in/yaml.v3"

	"github.com/protopool/protopool"
	"github.com/protopool/protopool/internal/prototest"
)

const itemProto = `syntax = "proto3";
package demo;
message Item {
  string name = 1;
  repeated int32 ids = 2;
  Kind kind = 3;
  map<string, int64> counts = 4;
  enum Kind {
    KIND_UNSPECIFIED = 0;
    KIND_BIG = 1;
  }
}
service Store {
  rpc Get(Item) returns (stream Item);
}
`

func testFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, contents := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(contents), 0o644))
	}
	return fsys
}

func execute(t *testing.T, fsys afero.Fs, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := newRootCommand(fsys, &stdout, &stderr)
	c.cmd.SetArgs(args)
	err := c.cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDump(t *testing.T) {
	t.Parallel()
	fsys := testFS(t, map[string]string{"/protos/demo/item.proto": itemProto})
	stdout, stderr, err := execute(t, fsys, "dump", "-I", "/protos")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var files []fileDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &files))
	expected := []fileDump{{
		Path:    "demo/item.proto",
		Package: "demo",
		Syntax:  "proto3",
		Messages: []messageDump{{
			Name: "Item",
			Fields: []fieldDump{
				{Name: "name", Number: 1, Label: "optional", Type: "string", JSONName: "name"},
				{Name: "ids", Number: 2, Label: "repeated", Type: "int32", JSONName: "ids", Packed: true},
				{Name: "kind", Number: 3, Label: "optional", Type: "demo.Item.Kind", JSONName: "kind"},
				{Name: "counts", Number: 4, Label: "repeated", Type: "demo.Item.CountsEntry", JSONName: "counts"},
			},
			Messages: []messageDump{{
				Name:     "CountsEntry",
				MapEntry: true,
				Fields: []fieldDump{
					{Name: "key", Number: 1, Label: "optional", Type: "string", JSONName: "key"},
					{Name: "value", Number: 2, Label: "optional", Type: "int64", JSONName: "value"},
				},
			}},
			Enums: []enumDump{{
				Name:   "Kind",
				Values: map[string]int32{"KIND_UNSPECIFIED": 0, "KIND_BIG": 1},
			}},
		}},
		Services: []serviceDump{{
			Name: "Store",
			Methods: []methodDump{
				{Name: "Get", Input: "demo.Item", Output: "demo.Item", ServerStreaming: true},
			},
		}},
	}}
	assert.Equal(t, expected, files)
}

func TestLookup(t *testing.T) {
	t.Parallel()
	fsys := testFS(t, map[string]string{"/protos/demo/item.proto": itemProto})

	stdout, _, err := execute(t, fsys, "lookup", "--path", "/protos", "demo.Store.Get")
	require.NoError(t, err)
	var mtd methodDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &mtd))
	assert.Equal(t, methodDump{Name: "Get", Input: "demo.Item", Output: "demo.Item", ServerStreaming: true}, mtd)

	stdout, _, err = execute(t, fsys, "lookup", "--path", "/protos", ".demo.Item.Kind")
	require.NoError(t, err)
	var enum enumDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &enum))
	assert.Equal(t, "Kind", enum.Name)
	assert.Len(t, enum.Values, 2)

	stdout, _, err = execute(t, fsys, "lookup", "--path", "/protos", "demo.Item")
	require.NoError(t, err)
	var msg messageDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &msg))
	assert.Equal(t, "Item", msg.Name)
	assert.Len(t, msg.Fields, 4)

	_, _, err = execute(t, fsys, "lookup", "--path", "/protos", "demo.Nope")
	assert.EqualError(t, err, "demo.Nope: not found")

	_, _, err = execute(t, fsys, "lookup", "--path", "/protos")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	t.Parallel()
	fsys := testFS(t, map[string]string{"/protos/demo/item.proto": itemProto})
	_, _, err := execute(t, fsys, "export", "-I", "/protos", "-o", "/out/set.pb")
	require.NoError(t, err)

	data, err := afero.ReadFile(fsys, "/out/set.pb")
	require.NoError(t, err)
	var actual descriptorpb.FileDescriptorSet
	require.NoError(t, proto.Unmarshal(data, &actual))

	p := protopool.New([]string{"/protos"}, protopool.Options{FS: fsys})
	require.NoError(t, p.LoadAll(context.Background()))
	prototest.AssertMessagesEqual(t, p.Descriptors().ToFileDescriptorSet(), &actual)
	require.Len(t, actual.File, 1)
	assert.Equal(t, "demo/item.proto", actual.File[0].GetName())

	stdout, _, err := execute(t, fsys, "export", "-I", "/protos", "-o", "-")
	require.NoError(t, err)
	assert.Equal(t, string(data), stdout)

	_, _, err = execute(t, fsys, "export", "-I", "/protos")
	assert.Error(t, err)
}

func TestDiagnostics(t *testing.T) {
	t.Parallel()
	fsys := testFS(t, map[string]string{
		"/protos/a.proto": `syntax = "proto3";
message A {
  Missing m = 1;
}
`,
		"/protos/b.proto": `message B {}
`,
	})
	_, stderr, err := execute(t, fsys, "dump", "-I", "/protos")
	require.NoError(t, err)
	prototest.AssertTextEqual(t, `warning: b.proto:1:1: no syntax specified; defaulting to proto2 syntax
  message B {}
  ^
a.proto:3:3: field A.m: unknown type Missing
    Missing m = 1;
    ^
`, stderr)

	_, _, err = execute(t, fsys, "dump", "-I", "/protos", "--strict")
	require.ErrorIs(t, err, errProblems)
	assert.EqualError(t, err, "problems were reported: 1 errors")
}

func TestConfigFromEnvironment(t *testing.T) {
	fsys := testFS(t, map[string]string{
		"/one/a.proto": `syntax = "proto3"; package one; message A {}`,
		"/two/b.proto": `syntax = "proto3"; package two; message B { one.A a = 1; }`,
	})
	t.Setenv("PROTOPOOL_PATHS", "/one,/two")
	t.Setenv("PROTOPOOL_LENIENT_IMPORTS", "true")
	t.Setenv("PROTOPOOL_STRICT", "true")

	stdout, _, err := execute(t, fsys, "lookup", "two.B")
	require.NoError(t, err)
	var msg messageDump
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &msg))
	require.Len(t, msg.Fields, 1)
	assert.Equal(t, "one.A", msg.Fields[0].Type)

	// flags win over the environment
	_, _, err = execute(t, fsys, "lookup", "two.B", "--lenient-imports=false")
	assert.ErrorIs(t, err, errProblems)
	_, _, err = execute(t, fsys, "lookup", "two.B", "-I", "/one")
	assert.EqualError(t, err, "two.B: not found")

	t.Setenv("PROTOPOOL_LOG_LEVEL", "loud")
	_, _, err = execute(t, fsys, "lookup", "two.B")
	assert.Error(t, err)
}
