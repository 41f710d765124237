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

package ast

import (
	"math"
	"strconv"
)

// ValueKind describes the lexical form of an option value.
type ValueKind int

const (
	ValueString = ValueKind(iota)
	ValueInt
	ValueFloat
	ValueIdent
	ValueAggregate
)

// ValueNode is the value of an option.
type ValueNode struct {
	Kind ValueKind
	Pos  SourcePos

	// Str holds the decoded contents of a string literal (after
	// concatenation of adjacent literals), the text of an identifier,
	// or the raw text of an aggregate value between its braces.
	Str string
	// Uint is the magnitude of an integer literal.
	Uint uint64
	// Negative is true if the numeric literal was preceded by a minus sign.
	Negative bool
	// Float is the value of a floating point literal, including the
	// identifiers inf and nan when preceded by a sign.
	Float float64
}

// AsInt64 returns the value as a signed integer. It returns false if
// the value is not an integer or is out of range.
func (v *ValueNode) AsInt64() (int64, bool) {
	if v.Kind != ValueInt {
		return 0, false
	}
	if v.Negative {
		if v.Uint > math.MaxInt64+1 {
			return 0, false
		}
		return -int64(v.Uint), true
	}
	if v.Uint > math.MaxInt64 {
		return 0, false
	}
	return int64(v.Uint), true
}

// AsUint64 returns the value as an unsigned integer. It returns false
// if the value is not a non-negative integer.
func (v *ValueNode) AsUint64() (uint64, bool) {
	if v.Kind != ValueInt || (v.Negative && v.Uint != 0) {
		return 0, false
	}
	return v.Uint, true
}

// AsFloat returns the value as a float. Integer literals are converted.
// The identifiers inf and nan are accepted as well.
func (v *ValueNode) AsFloat() (float64, bool) {
	switch v.Kind {
	case ValueFloat:
		return v.Float, true
	case ValueInt:
		f := float64(v.Uint)
		if v.Negative {
			f = -f
		}
		return f, true
	case ValueIdent:
		switch v.Str {
		case "inf":
			return math.Inf(1), true
		case "nan":
			return math.NaN(), true
		}
	}
	return 0, false
}

// AsBool returns the value as a bool. Only the identifiers true and
// false are accepted.
func (v *ValueNode) AsBool() (bool, bool) {
	if v.Kind != ValueIdent {
		return false, false
	}
	switch v.Str {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// String renders the value approximately as written, for use in
// diagnostics.
func (v *ValueNode) String() string {
	switch v.Kind {
	case ValueString:
		return strconv.Quote(v.Str)
	case ValueInt:
		if v.Negative {
			return "-" + strconv.FormatUint(v.Uint, 10)
		}
		return strconv.FormatUint(v.Uint, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ValueAggregate:
		return "{" + v.Str + "}"
	default:
		return v.Str
	}
}
