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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/reporter"
	"github.com/protopool/protopool/walk"
)

func findMessage(msgs []*ast.MessageNode, name string) *ast.MessageNode {
	for _, msg := range msgs {
		if msg.Name == name {
			return msg
		}
	}
	return nil
}

func findField(msg *ast.MessageNode, name string) *ast.FieldNode {
	for _, fld := range msg.Fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

func TestFromDescriptor_Proto2(t *testing.T) {
	t.Parallel()
	file := FromDescriptor(descriptorpb.File_google_protobuf_descriptor_proto)
	assert.Equal(t, "google/protobuf/descriptor.proto", file.Name)
	assert.Nil(t, file.FileInfo)
	assert.Equal(t, ast.SyntaxProto2, file.Syntax)
	assert.Equal(t, "google.protobuf", file.Package)

	set := findMessage(file.Messages, "FileDescriptorSet")
	require.NotNil(t, set)
	fld := findField(set, "file")
	require.NotNil(t, fld)
	assert.Equal(t, ast.LabelRepeated, fld.Label)
	assert.Equal(t, ".google.protobuf.FileDescriptorProto", fld.TypeName)

	fieldOpts := findMessage(file.Messages, "FieldOptions")
	require.NotNil(t, fieldOpts)
	ctype := findField(fieldOpts, "ctype")
	require.NotNil(t, ctype)
	assert.Equal(t, ast.LabelOptional, ctype.Label)
	assert.Equal(t, ".google.protobuf.FieldOptions.CType", ctype.TypeName)
	def := ctype.Option("default")
	require.NotNil(t, def)
	assert.Equal(t, ast.ValueIdent, def.Value.Kind)
	assert.Equal(t, "STRING", def.Value.Str)
	require.NotEmpty(t, fieldOpts.ExtensionRanges)
	assert.Equal(t, int64(1000), fieldOpts.ExtensionRanges[0].Start)
	assert.Equal(t, int64(536870911), fieldOpts.ExtensionRanges[0].End)

	sci := findMessage(file.Messages, "SourceCodeInfo")
	require.NotNil(t, sci)
	loc := findMessage(sci.Messages, "Location")
	require.NotNil(t, loc)
	path := findField(loc, "path")
	require.NotNil(t, path)
	packed, ok := path.Option("packed").Value.AsBool()
	require.True(t, ok)
	assert.True(t, packed)
	assert.Equal(t, "int32", path.TypeName)
}

func TestFromDescriptor_Proto3(t *testing.T) {
	t.Parallel()
	file := FromDescriptor(timestamppb.File_google_protobuf_timestamp_proto)
	assert.Equal(t, ast.SyntaxProto3, file.Syntax)
	ts := findMessage(file.Messages, "Timestamp")
	require.NotNil(t, ts)
	require.Len(t, ts.Fields, 2)
	assert.Equal(t, ast.LabelNone, ts.Fields[0].Label)
	assert.Equal(t, "seconds", ts.Fields[0].Name)
	assert.Equal(t, "int64", ts.Fields[0].TypeName)

	file = FromDescriptor(structpb.File_google_protobuf_struct_proto)
	st := findMessage(file.Messages, "Struct")
	require.NotNil(t, st)
	fields := findField(st, "fields")
	require.NotNil(t, fields)
	require.NotNil(t, fields.MapEntry)
	assert.True(t, fields.MapEntry.IsMapEntry)
	assert.Equal(t, "FieldsEntry", fields.MapEntry.Name)

	val := findMessage(file.Messages, "Value")
	require.NotNil(t, val)
	require.Len(t, val.Oneofs, 1)
	assert.Equal(t, "kind", val.Oneofs[0].Name)
	assert.Equal(t, "kind", findField(val, "null_value").Oneof)
}

func TestFromDescriptor_PassesValidation(t *testing.T) {
	t.Parallel()
	var errs []reporter.ErrorWithPos
	h := reporter.NewHandler(reporter.NewReporter(func(err reporter.ErrorWithPos) error {
		errs = append(errs, err)
		return nil
	}, nil))
	file := FromDescriptor(descriptorpb.File_google_protobuf_descriptor_proto)
	var count int
	require.NoError(t, walk.Decls(file, func(string, ast.Decl) error {
		count++
		return nil
	}))
	require.NoError(t, validateBasic(file, h))
	assert.Empty(t, errs)
	var after int
	require.NoError(t, walk.Decls(file, func(string, ast.Decl) error {
		after++
		return nil
	}))
	assert.Equal(t, count, after)
}
