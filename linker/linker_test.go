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

package linker

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/descriptor"
	"github.com/protopool/protopool/parser"
	"github.com/protopool/protopool/reporter"
)

type source struct {
	path string
	text string
}

type linkResult struct {
	pool *descriptor.Pool
	errs []reporter.ErrorWithPos
}

func (r linkResult) messages() []string {
	msgs := make([]string, len(r.errs))
	for i, err := range r.errs {
		msgs[i] = err.Error()
	}
	return msgs
}

func link(t *testing.T, opts Options, sources ...source) linkResult {
	t.Helper()
	var res linkResult
	h := reporter.NewHandler(reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			res.errs = append(res.errs, err)
			return nil
		},
		nil,
	))
	l := New(h, opts)
	for _, src := range sources {
		file, err := parser.Parse(src.path, strings.NewReader(src.text), h)
		require.NoError(t, err)
		require.NoError(t, l.AddFile(file))
	}
	pool, err := l.Link()
	require.NoError(t, err)
	require.NotNil(t, pool)
	res.pool = pool
	return res
}

func findField(t *testing.T, pool *descriptor.Pool, name string) descriptor.Field {
	t.Helper()
	fld, ok := pool.FindFieldByName(name)
	require.True(t, ok, "field %s not found", name)
	return fld
}

func TestLink_ScalarField(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto3";
package test;
message M {
  int32 count = 7;
}
`})
	require.Empty(t, res.errs)

	msg, ok := res.pool.FindMessageByName("test.M")
	require.True(t, ok)
	require.Equal(t, 1, msg.FieldCount())
	fld := msg.Field(0)
	assert.Equal(t, "count", fld.Name())
	assert.Equal(t, "test.M.count", fld.FullName())
	assert.Equal(t, int32(7), fld.Number())
	assert.Equal(t, descriptor.TypeInt32, fld.Type())
	assert.Equal(t, "int32", fld.TypeName())
	assert.False(t, fld.HasDefault())
	assert.Equal(t, "test.proto", msg.File().Path())
}

func TestLink_DuplicateFieldNumberKeepsFirst(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
message M {
  optional int32 first = 1;
  optional string second = 1;
}
`})
	require.Len(t, res.errs, 1)
	assert.ErrorIs(t, res.errs[0], reporter.ErrSemantic)
	assert.Contains(t, res.errs[0].Error(), "same tag 1")

	msg, ok := res.pool.FindMessageByName("M")
	require.True(t, ok)
	require.Equal(t, 1, msg.FieldCount())
	fld, ok := msg.FindFieldByNumber(1)
	require.True(t, ok)
	assert.Equal(t, "first", fld.Name())
	_, ok = msg.FindFieldByName("second")
	assert.False(t, ok)
}

func TestLink_CrossFile(t *testing.T) {
	t.Parallel()
	res := link(t, Options{},
		source{"a.proto", `
syntax = "proto3";
package pkg.a;
import "b.proto";
message A {
  pkg.b.B b = 1;
  repeated pkg.b.B.Kind kinds = 2;
}
`},
		source{"b.proto", `
syntax = "proto3";
package pkg.b;
message B {
  enum Kind {
    UNKNOWN = 0;
    OTHER = 1;
  }
}
`},
	)
	require.Empty(t, res.errs)

	b := findField(t, res.pool, "pkg.a.A.b")
	assert.Equal(t, descriptor.TypeMessage, b.Type())
	msg, ok := b.MessageType()
	require.True(t, ok)
	assert.Equal(t, "pkg.b.B", msg.FullName())
	assert.Equal(t, "b.proto", msg.File().Path())
	assert.Equal(t, "pkg.b.B", b.TypeName())

	kinds := findField(t, res.pool, "pkg.a.A.kinds")
	assert.Equal(t, descriptor.TypeEnum, kinds.Type())
	enum, ok := kinds.EnumType()
	require.True(t, ok)
	assert.Equal(t, "pkg.b.B.Kind", enum.FullName())
	assert.True(t, kinds.IsPacked())
}

func TestLink_ScopeResolution(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package foo.bar;
message Outer {
  message Inner {
    optional Inner self = 1;
    optional Sibling sibling = 2;
    optional Outer outer = 3;
    optional .foo.Top top = 4;
    optional bar.Outer qualified = 5;
  }
  message Sibling {}
}
`}, source{"top.proto", `
syntax = "proto2";
package foo;
message Top {}
`})
	assert.Equal(t, []string{
		`test.proto:9:14: field foo.bar.Outer.Inner.top: type foo.Top is defined in "top.proto", which is not imported by "test.proto"; to use it here, add the necessary import`,
	}, res.messages())

	check := func(field, want string) {
		fld := findField(t, res.pool, "foo.bar.Outer.Inner."+field)
		msg, ok := fld.MessageType()
		if assert.True(t, ok, field) {
			assert.Equal(t, want, msg.FullName(), field)
		}
	}
	check("self", "foo.bar.Outer.Inner")
	check("sibling", "foo.bar.Outer.Sibling")
	check("outer", "foo.bar.Outer")
	check("qualified", "foo.bar.Outer")
	top := findField(t, res.pool, "foo.bar.Outer.Inner.top")
	_, ok := top.MessageType()
	assert.False(t, ok)
}

func TestLink_UnresolvedTypes(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package a.b;
message Foo {
  message Bar {}
}
message Baz {
  message Foo {}
  optional Foo.Bar bar = 1;
  optional Missing missing = 2;
  optional int32 value = 3;
  optional value wrong = 4;
}
`})
	assert.Equal(t, []string{
		`test.proto:9:12: field a.b.Baz.bar: unknown type Foo.Bar; resolved to a.b.Baz.Foo.Bar which is not defined; consider using a leading dot`,
		`test.proto:10:12: field a.b.Baz.missing: unknown type Missing`,
		`test.proto:12:12: field a.b.Baz.wrong: invalid type: a.b.Baz.value is a field, not a message or enum`,
	}, res.messages())
	for _, err := range res.errs {
		assert.ErrorIs(t, err, reporter.ErrSemantic)
	}

	bar := findField(t, res.pool, "a.b.Baz.bar")
	assert.Equal(t, descriptor.TypeNone, bar.Type())
	assert.Equal(t, "Foo.Bar", bar.TypeName())
	_, ok := bar.MessageType()
	assert.False(t, ok)
	_, ok = bar.EnumType()
	assert.False(t, ok)
}

func TestLink_CompoundNameStopsAtFirstScope(t *testing.T) {
	t.Parallel()
	res := link(t, Options{},
		source{"test.proto", `
syntax = "proto2";
package a.b;
import "c.proto";
message c {}
message M {
  optional c.D near = 1;
  optional .a.c.D qualified = 2;
  optional a.c.D outer = 3;
}
`},
		source{"c.proto", `
syntax = "proto2";
package a.c;
message D {}
`},
	)
	// the first component names a.b.c, so outer scopes are not searched
	assert.Equal(t, []string{
		`test.proto:7:12: field a.b.M.near: unknown type c.D; resolved to a.b.c.D which is not defined; consider using a leading dot`,
	}, res.messages())

	_, ok := findField(t, res.pool, "a.b.M.near").MessageType()
	assert.False(t, ok)
	for _, name := range []string{"a.b.M.qualified", "a.b.M.outer"} {
		msg, ok := findField(t, res.pool, name).MessageType()
		if assert.True(t, ok, name) {
			assert.Equal(t, "a.c.D", msg.FullName(), name)
		}
	}
}

func TestLink_GroupNameCollision(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package p;
message M {
  message G {
    optional string s = 1;
  }
  optional group G = 1 {
    optional int32 i = 2;
  }
}
`})
	msgs := res.messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], `symbol "p.M.G" already defined at test.proto:5:11`)
	assert.Equal(t, `test.proto:8:12: field p.M.g: group type G was not declared`, msgs[1])

	g := findField(t, res.pool, "p.M.g")
	_, ok := g.MessageType()
	assert.False(t, ok, "group field must not resolve to the message it collided with")
	assert.Equal(t, descriptor.TypeNone, g.Type())
	_, ok = res.pool.FindFieldByName("p.M.G.i")
	assert.False(t, ok)
	findField(t, res.pool, "p.M.G.s")
}

func TestLink_Defaults(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package p;
enum E {
  FIRST = 1;
  SECOND = 2;
}
message M {
  optional int32 x = 1 [default = 5];
  optional int32 y = 2;
  optional E z = 3;
  optional E w = 4 [default = SECOND];
  optional string s = 5 [default = "hi"];
  optional double d = 6 [default = -inf];
  optional bool b = 7 [default = true];
  optional uint32 u = 8 [default = 4294967295];
  optional float f = 9 [default = 1.5];
  optional bytes raw = 10 [default = "\001\002"];
  optional sint64 neg = 11 [default = -9223372036854775808];
}
`})
	require.Empty(t, res.errs)

	x := findField(t, res.pool, "p.M.x")
	assert.True(t, x.HasDefault())
	v, ok := x.DefaultInt32()
	assert.True(t, ok)
	assert.Equal(t, int32(5), v)
	_, ok = x.DefaultInt64()
	assert.False(t, ok)

	y := findField(t, res.pool, "p.M.y")
	assert.False(t, y.HasDefault())
	_, ok = y.DefaultInt32()
	assert.False(t, ok)
	assert.Equal(t, int64(0), y.Default().Int())

	z := findField(t, res.pool, "p.M.z")
	assert.False(t, z.HasDefault())
	ev, ok := z.DefaultEnumValue()
	require.True(t, ok)
	assert.Equal(t, "FIRST", ev.Name())
	assert.Equal(t, "FIRST", z.Default().String())

	w := findField(t, res.pool, "p.M.w")
	assert.True(t, w.HasDefault())
	ev, ok = w.DefaultEnumValue()
	require.True(t, ok)
	assert.Equal(t, "p.E.SECOND", ev.FullName())
	assert.Equal(t, int32(2), ev.Number())

	str, ok := findField(t, res.pool, "p.M.s").DefaultString()
	assert.True(t, ok)
	assert.Equal(t, "hi", str)

	d, ok := findField(t, res.pool, "p.M.d").DefaultDouble()
	assert.True(t, ok)
	assert.True(t, math.IsInf(d, -1))

	b, ok := findField(t, res.pool, "p.M.b").DefaultBool()
	assert.True(t, ok)
	assert.True(t, b)

	u, ok := findField(t, res.pool, "p.M.u").DefaultUint32()
	assert.True(t, ok)
	assert.Equal(t, uint32(math.MaxUint32), u)

	f, ok := findField(t, res.pool, "p.M.f").DefaultFloat()
	assert.True(t, ok)
	assert.Equal(t, float32(1.5), f)

	raw, ok := findField(t, res.pool, "p.M.raw").DefaultBytes()
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2}, raw)

	neg, ok := findField(t, res.pool, "p.M.neg").DefaultInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(math.MinInt64), neg)
}

func TestLink_DefaultErrors(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name   string
		syntax string
		field  string
		err    string
	}{
		{
			name:  "string for int",
			field: `optional int32 f = 1 [default = "abc"];`,
			err:   `field p.M.f: default value "abc" does not match field type int32`,
		},
		{
			name:  "int32 overflow",
			field: `optional int32 f = 1 [default = 3000000000];`,
			err:   `field p.M.f: default value 3000000000 is out of range for type int32`,
		},
		{
			name:  "negative unsigned",
			field: `optional uint64 f = 1 [default = -1];`,
			err:   `field p.M.f: default value -1 is out of range for type uint64`,
		},
		{
			name:  "ident for bool",
			field: `optional bool f = 1 [default = yes];`,
			err:   `field p.M.f: default value yes does not match field type bool`,
		},
		{
			name:  "repeated",
			field: `repeated int32 f = 1 [default = 1];`,
			err:   `field p.M.f: default value cannot be set because field is repeated`,
		},
		{
			name:  "message",
			field: `optional M f = 1 [default = 1];`,
			err:   `field p.M.f: default value cannot be set because field is a message`,
		},
		{
			name:  "unknown enum value",
			field: `optional E f = 1 [default = NOPE];`,
			err:   `field p.M.f: enum p.E has no value named NOPE`,
		},
		{
			name:  "enum number",
			field: `optional E f = 1 [default = 1];`,
			err:   `field p.M.f: default value for an enum must be an identifier, not 1`,
		},
		{
			name:   "proto3",
			syntax: "proto3",
			field:  `int32 f = 1 [default = 1];`,
			err:    `field p.M.f: default values are not allowed in proto3`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			syntax := tc.syntax
			if syntax == "" {
				syntax = "proto2"
			}
			res := link(t, Options{}, source{"test.proto", `syntax = "` + syntax + `";
package p;
enum E { ZERO = 0; ONE = 1; }
message M { ` + tc.field + ` }
`})
			require.Len(t, res.errs, 1)
			assert.Contains(t, res.errs[0].Error(), tc.err)
			assert.ErrorIs(t, res.errs[0], reporter.ErrSemantic)
			assert.False(t, findField(t, res.pool, "p.M.f").HasDefault())
		})
	}
}

func TestLink_Packed(t *testing.T) {
	t.Parallel()
	res := link(t, Options{},
		source{"p3.proto", `
syntax = "proto3";
package p3;
enum E { ZERO = 0; }
message M {
  repeated int32 a = 1;
  repeated int32 b = 2 [packed = false];
  repeated string c = 3;
  repeated E d = 4;
  repeated M e = 5;
  int32 f = 6;
}
`},
		source{"p2.proto", `
syntax = "proto2";
package p2;
message M {
  repeated int32 a = 1;
  repeated int32 b = 2 [packed = true];
  repeated double c = 3 [packed = false];
}
`},
		source{"ed.proto", `
edition = "2023";
package ed;
message M {
  repeated int32 a = 1;
  repeated int32 b = 2 [features.repeated_field_encoding = EXPANDED];
}
`},
		source{"ed_file.proto", `
edition = "2023";
package edfile;
option features.repeated_field_encoding = EXPANDED;
message M {
  repeated int32 a = 1;
  repeated int32 b = 2 [features.repeated_field_encoding = PACKED];
}
`},
	)
	require.Empty(t, res.errs)

	testCases := map[string]bool{
		"p3.M.a":     true,
		"p3.M.b":     false,
		"p3.M.c":     false,
		"p3.M.d":     true,
		"p3.M.e":     false,
		"p3.M.f":     false,
		"p2.M.a":     false,
		"p2.M.b":     true,
		"p2.M.c":     false,
		"ed.M.a":     true,
		"ed.M.b":     false,
		"edfile.M.a": false,
		"edfile.M.b": true,
	}
	for name, packed := range testCases {
		assert.Equal(t, packed, findField(t, res.pool, name).IsPacked(), name)
	}
}

func TestLink_PackedErrors(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package p;
message M {
  repeated string s = 1 [packed = true];
  optional int32 i = 2 [packed = true];
  repeated int32 r = 3 [packed = 1];
}
`})
	assert.Equal(t, []string{
		`test.proto:5:26: field p.M.s: [packed = true] can only be specified for repeated primitive fields`,
		`test.proto:6:25: field p.M.i: [packed = true] can only be specified for repeated primitive fields`,
		`test.proto:7:34: field p.M.r: expecting bool value for packed option`,
	}, res.messages())
	for _, name := range []string{"p.M.s", "p.M.i", "p.M.r"} {
		assert.False(t, findField(t, res.pool, name).IsPacked(), name)
	}
}

func TestLink_InvalidRepeatedFieldEncoding(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
edition = "2023";
package ed;
message M {
  repeated int32 r = 1 [features.repeated_field_encoding = SOMETIMES];
}
`})
	require.Len(t, res.errs, 1)
	assert.Contains(t, res.errs[0].Error(), "field ed.M.r: invalid value SOMETIMES for features.repeated_field_encoding")
	assert.False(t, findField(t, res.pool, "ed.M.r").IsPacked())
}

func TestLink_NameCollisions(t *testing.T) {
	t.Parallel()
	res := link(t, Options{},
		source{"a.proto", `
syntax = "proto2";
package p;
message M {
  optional int32 a = 1;
}
enum Color { RED = 0; }
`},
		source{"b.proto", `
syntax = "proto2";
package p;
message M {
  optional string b = 1;
  message Nested {}
}
message Color {}
`},
	)
	assert.Equal(t, []string{
		`b.proto:4:9: symbol "p.M" already defined at a.proto:4:9`,
		`b.proto:8:9: symbol "p.Color" already defined at a.proto:7:6; it was declared as an enum`,
	}, res.messages())

	msg, ok := res.pool.FindMessageByName("p.M")
	require.True(t, ok)
	assert.Equal(t, "a.proto", msg.File().Path())
	require.Equal(t, 1, msg.FieldCount())
	assert.Equal(t, "a", msg.Field(0).Name())
	_, ok = res.pool.FindMessageByName("p.M.Nested")
	assert.False(t, ok)
	_, ok = res.pool.FindMessageByName("p.Color")
	assert.False(t, ok)
	_, ok = res.pool.FindEnumByName("p.Color")
	assert.True(t, ok)
}

func TestLink_ImportVisibility(t *testing.T) {
	t.Parallel()
	sources := []source{
		{"a.proto", `
syntax = "proto3";
import "b.proto";
message A {
  C c = 1;
  D d = 2;
  B b = 3;
}
`},
		{"b.proto", `
syntax = "proto3";
import public "c.proto";
import "d.proto";
message B {}
`},
		{"c.proto", `
syntax = "proto3";
import public "e.proto";
message C {
  E e = 1;
}
`},
		{"d.proto", `
syntax = "proto3";
message D {
  E e = 1;
}
`},
		{"e.proto", `
syntax = "proto3";
message E {}
`},
	}

	res := link(t, Options{}, sources...)
	assert.Equal(t, []string{
		`a.proto:6:3: field A.d: type D is defined in "d.proto", which is not imported by "a.proto"; to use it here, add the necessary import`,
		`d.proto:4:3: field D.e: type E is defined in "e.proto", which is not imported by "d.proto"; to use it here, add the necessary import`,
	}, res.messages())
	_, ok := findField(t, res.pool, "A.c").MessageType()
	assert.True(t, ok)
	_, ok = findField(t, res.pool, "A.d").MessageType()
	assert.False(t, ok)
	_, ok = findField(t, res.pool, "C.e").MessageType()
	assert.True(t, ok)

	res = link(t, Options{LenientImports: true}, sources...)
	assert.Empty(t, res.errs)
	_, ok = findField(t, res.pool, "A.d").MessageType()
	assert.True(t, ok)
	_, ok = findField(t, res.pool, "D.e").MessageType()
	assert.True(t, ok)
}

func TestLink_Extensions(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto2";
package p;
message Base {
  optional int32 id = 1;
  extensions 100 to 199;
}
extend Base {
  optional int32 ext = 100;
  repeated Base others = 102;
}
message Scope {
  extend Base {
    optional string inner = 101;
  }
}
extend Base {
  optional int32 bad = 5;
  optional int32 dup = 100;
  required int32 req = 103;
}
extend Missing {
  optional int32 lost = 1;
}
`})
	assert.Equal(t, []string{
		`test.proto:18:24: extension p.bad: tag 5 is not in valid range for extended type p.Base`,
		`test.proto:19:24: extension p.dup: extension with tag 100 for message p.Base already defined at test.proto:9:24`,
		`test.proto:20:3: extension p.req: extension fields cannot be required`,
		`test.proto:22:8: extension p.lost: unknown extendee Missing`,
	}, res.messages())

	base, ok := res.pool.FindMessageByName("p.Base")
	require.True(t, ok)
	ext, ok := base.FindFieldByNumber(100)
	require.True(t, ok)
	assert.True(t, ext.IsExtension())
	assert.Equal(t, "p.ext", ext.FullName())
	container, ok := ext.ContainingMessage()
	require.True(t, ok)
	assert.Equal(t, base, container)
	_, ok = ext.ExtensionScope()
	assert.False(t, ok)

	others, ok := res.pool.FindExtensionByName("p.others")
	require.True(t, ok)
	target, ok := others.MessageType()
	require.True(t, ok)
	assert.Equal(t, base, target)

	inner, ok := base.FindFieldByNumber(101)
	require.True(t, ok)
	assert.Equal(t, "p.Scope.inner", inner.FullName())
	scope, ok := inner.ExtensionScope()
	require.True(t, ok)
	assert.Equal(t, "p.Scope", scope.FullName())

	req, ok := base.FindFieldByNumber(103)
	require.True(t, ok)
	assert.Equal(t, descriptor.LabelOptional, req.Label())

	_, ok = base.FindFieldByNumber(5)
	assert.False(t, ok)
	_, ok = res.pool.FindExtensionByName("p.lost")
	assert.False(t, ok)
}

func TestLink_Methods(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto3";
package svc.v1;
message Request {}
message Response {}
service Greeter {
  rpc Greet(Request) returns (.svc.v1.Response);
  rpc Stream(stream Request) returns (stream Unknown);
  rpc Wrong(Greet) returns (Response);
}
`})
	assert.Equal(t, []string{
		`test.proto:8:46: method svc.v1.Greeter.Stream: unknown response type Unknown`,
		`test.proto:9:13: method svc.v1.Greeter.Wrong: invalid request type: svc.v1.Greeter.Greet is a method, not a message`,
	}, res.messages())

	greet, ok := res.pool.FindMethodByName("svc.v1.Greeter.Greet")
	require.True(t, ok)
	in, ok := greet.InputType()
	require.True(t, ok)
	assert.Equal(t, "svc.v1.Request", in.FullName())
	out, ok := greet.OutputType()
	require.True(t, ok)
	assert.Equal(t, "svc.v1.Response", out.FullName())

	stream, ok := res.pool.FindMethodByName("svc.v1.Greeter.Stream")
	require.True(t, ok)
	assert.True(t, stream.ClientStreaming())
	assert.True(t, stream.ServerStreaming())
	_, ok = stream.InputType()
	assert.True(t, ok)
	_, ok = stream.OutputType()
	assert.False(t, ok)
	assert.Equal(t, "Unknown", stream.OutputTypeName())
}

func TestLink_JSONName(t *testing.T) {
	t.Parallel()
	res := link(t, Options{}, source{"test.proto", `
syntax = "proto3";
message M {
  int32 foo_bar_baz = 1;
  int32 custom = 2 [json_name = "Custom_Name"];
}
`})
	require.Empty(t, res.errs)
	assert.Equal(t, "fooBarBaz", findField(t, res.pool, "M.foo_bar_baz").JSONName())
	assert.Equal(t, "Custom_Name", findField(t, res.pool, "M.custom").JSONName())
}

func TestLink_Proto2EnumInProto3(t *testing.T) {
	t.Parallel()
	res := link(t, Options{},
		source{"p3.proto", `
syntax = "proto3";
import "p2.proto";
message M {
  Legacy legacy = 1;
}
`},
		source{"p2.proto", `
syntax = "proto2";
enum Legacy { A = 1; }
`},
	)
	assert.Equal(t, []string{
		`p3.proto:5:3: field M.legacy: cannot use proto2 enum Legacy in a proto3 message`,
	}, res.messages())
	_, ok := findField(t, res.pool, "M.legacy").EnumType()
	assert.False(t, ok)
}

func TestLink_AbortingReporter(t *testing.T) {
	t.Parallel()
	h := reporter.NewHandler(nil)
	l := New(h, Options{})
	file, err := parser.Parse("test.proto", strings.NewReader(`
syntax = "proto3";
message M {
  Missing a = 1;
  Missing b = 2;
}
`), h)
	require.NoError(t, err)
	require.NoError(t, l.AddFile(file))
	pool, err := l.Link()
	require.Error(t, err)
	assert.Nil(t, pool)
	assert.ErrorIs(t, err, reporter.ErrSemantic)
	assert.Equal(t, 1, h.ErrorCount())

	_, err = l.Link()
	assert.ErrorIs(t, err, ErrLinked)
	assert.ErrorIs(t, l.AddFile(file), ErrLinked)
}

func TestLink_DuplicatePath(t *testing.T) {
	t.Parallel()
	var errs []reporter.ErrorWithPos
	h := reporter.NewHandler(reporter.NewReporter(func(err reporter.ErrorWithPos) error {
		errs = append(errs, err)
		return nil
	}, nil))
	l := New(h, Options{})
	file, err := parser.Parse("test.proto", strings.NewReader(`syntax = "proto3"; message M {}`), h)
	require.NoError(t, err)
	require.NoError(t, l.AddFile(file))
	require.NoError(t, l.AddFile(file))
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `file "test.proto" has already been added`)
	assert.Equal(t, 1, l.FileCount())
	assert.True(t, l.HasFile("test.proto"))
}
