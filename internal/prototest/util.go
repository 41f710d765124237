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

// Package prototest contains assertions shared by the tests of other
// packages.
package prototest

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pmezard/go-difflib/difflib"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/testing/protocmp"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protopool/protopool/descriptor"
)

// IgnoreOptions drops options and source info, which pools do not
// retain, from descriptor comparisons. Map entries keep their options.
var IgnoreOptions = cmp.Options{
	protocmp.IgnoreFields(&descriptorpb.FileDescriptorProto{}, "options", "source_code_info"),
	protocmp.IgnoreFields(&descriptorpb.FieldDescriptorProto{}, "options"),
	protocmp.IgnoreFields(&descriptorpb.EnumDescriptorProto{}, "options"),
	protocmp.IgnoreFields(&descriptorpb.EnumValueDescriptorProto{}, "options"),
	protocmp.IgnoreFields(&descriptorpb.ServiceDescriptorProto{}, "options"),
	protocmp.IgnoreFields(&descriptorpb.MethodDescriptorProto{}, "options"),
}

// CheckFile asserts that the file in desc with the same path as want
// exports to the same descriptor proto.
func CheckFile(t *testing.T, desc *descriptor.Pool, want protoreflect.FileDescriptor, opts ...cmp.Option) {
	t.Helper()
	file, ok := desc.FindFileByPath(want.Path())
	if !ok {
		t.Errorf("file %q not found in pool", want.Path())
		return
	}
	AssertMessagesEqualWithOptions(t, protodesc.ToFileDescriptorProto(want), file.ToProto(), append([]cmp.Option{IgnoreOptions}, opts...), want.Path())
}

func AssertMessagesEqual(t *testing.T, exp, act proto.Message, msgAndArgs ...any) {
	t.Helper()
	AssertMessagesEqualWithOptions(t, exp, act, nil, msgAndArgs...)
}

func AssertMessagesEqualWithOptions(t *testing.T, exp, act proto.Message, opts []cmp.Option, msgAndArgs ...any) {
	t.Helper()
	cmpOpts := []cmp.Option{protocmp.Transform()}
	cmpOpts = append(cmpOpts, opts...)
	if diff := cmp.Diff(exp, act, cmpOpts...); diff != "" {
		t.Errorf("%smessage mismatch (-want +got):\n%v", prefix(msgAndArgs), diff)
	}
}

// AssertTextEqual compares multi-line text, such as rendered diagnostics
// or command output, and reports a unified diff on mismatch.
func AssertTextEqual(t *testing.T, want, got string, msgAndArgs ...any) {
	t.Helper()
	if want == got {
		return
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  3,
	})
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	t.Errorf("%stext mismatch:\n%s", prefix(msgAndArgs), diff)
}

func prefix(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg + ": "
		}
		return fmt.Sprintf("%+v: ", msgAndArgs[0])
	case len(msgAndArgs) > 1:
		return fmt.Sprintf(msgAndArgs[0].(string)+": ", msgAndArgs[1:]...)
	}
	return ""
}
