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
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/protopool/protopool/ast"
	"github.com/protopool/protopool/internal"
	"github.com/protopool/protopool/reporter"
	"github.com/protopool/protopool/walk"
)

// validateBasic performs the checks that need only a single file's
// declarations. Offending declarations are reported as semantic errors and
// removed from the tree, so that the rest of the file can still be loaded.
// The returned error is non-nil only if the handler's reporter asked to
// abort.
func validateBasic(file *ast.FileNode, handler *reporter.Handler) error {
	isProto3 := file.Syntax == ast.SyntaxProto3
	var err error
	file.Messages, err = filterMessages(file.Messages, func(dropped map[*ast.MessageNode]struct{}) error {
		for _, ext := range file.Extends {
			if err := validateExtend(isProto3, file.Package, ext, handler, dropped); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, msg := range file.Messages {
		if err := validateMessage(isProto3, walk.Qualify(file.Package, msg.Name), msg, handler); err != nil {
			return err
		}
	}
	for _, en := range file.Enums {
		if err := validateEnum(isProto3, walk.Qualify(file.Package, en.Name), en, handler); err != nil {
			return err
		}
	}
	return nil
}

// filterMessages runs fn, which records synthesized messages whose fields
// were dropped, and then removes those messages from msgs.
func filterMessages(msgs []*ast.MessageNode, fn func(dropped map[*ast.MessageNode]struct{}) error) ([]*ast.MessageNode, error) {
	dropped := map[*ast.MessageNode]struct{}{}
	if err := fn(dropped); err != nil {
		return msgs, err
	}
	if len(dropped) == 0 {
		return msgs, nil
	}
	return slices.DeleteFunc(msgs, func(msg *ast.MessageNode) bool {
		_, ok := dropped[msg]
		return ok
	}), nil
}

func dropField(fld *ast.FieldNode, dropped map[*ast.MessageNode]struct{}) {
	if fld.Group != nil {
		dropped[fld.Group] = struct{}{}
	}
	if fld.MapEntry != nil {
		dropped[fld.MapEntry] = struct{}{}
	}
}

func validateExtend(isProto3 bool, scope string, ext *ast.ExtendNode, handler *reporter.Handler, dropped map[*ast.MessageNode]struct{}) error {
	var kept []*ast.FieldNode
	for _, fld := range ext.Fields {
		ok, err := validateField(isProto3, walk.Qualify(scope, fld.Name), fld, handler)
		if err != nil {
			return err
		}
		if !ok {
			dropField(fld, dropped)
			continue
		}
		kept = append(kept, fld)
	}
	ext.Fields = kept
	return nil
}

// validateField checks a single field in isolation. It returns false if
// the field must be dropped.
func validateField(isProto3 bool, name string, fld *ast.FieldNode, handler *reporter.Handler) (bool, error) {
	scope := fmt.Sprintf("field %s", name)
	switch {
	case fld.Number < internal.MinFieldNumber:
		return false, handler.HandleErrorf(fld.NumberPos, "%s: tag number %d must be greater than zero", scope, fld.Number)
	case fld.Number > internal.MaxFieldNumber:
		return false, handler.HandleErrorf(fld.NumberPos, "%s: tag number %d is higher than max allowed tag number (%d)", scope, fld.Number, internal.MaxFieldNumber)
	case fld.Number >= internal.FirstReservedNumber && fld.Number <= internal.LastReservedNumber:
		return false, handler.HandleErrorf(fld.NumberPos, "%s: tag number %d is in disallowed reserved range %d-%d", scope, fld.Number, internal.FirstReservedNumber, internal.LastReservedNumber)
	}
	if fld.MapEntry != nil {
		key := fld.MapEntry.Fields[0]
		if _, ok := internal.MapKeyTypes[key.TypeName]; !ok {
			return false, handler.HandleErrorf(key.TypePos, "%s: key type of map must be an integral type, bool, or string; got %s", scope, key.TypeName)
		}
	}
	if isProto3 {
		if fld.Group != nil {
			return false, handler.HandleErrorf(fld.TypePos, "%s: groups are not allowed in proto3", scope)
		}
		if fld.Label == ast.LabelRequired {
			// treated as optional from here on
			fld.Label = ast.LabelOptional
			return true, handler.HandleErrorf(fld.LabelPos, "%s: label 'required' is not allowed in proto3", scope)
		}
	}
	return true, nil
}

type tagRange struct {
	start, end int64
	node       *ast.RangeNode
}

func sortedRanges(ranges []*ast.RangeNode) []tagRange {
	result := make([]tagRange, len(ranges))
	for i, r := range ranges {
		result[i] = tagRange{start: r.Start, end: r.End, node: r}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].start < result[j].start ||
			(result[i].start == result[j].start && result[i].end < result[j].end)
	})
	return result
}

// findRange returns the range in sorted, non-overlapping ranges that
// contains num.
func findRange(ranges []tagRange, num int64) (tagRange, bool) {
	i := sort.Search(len(ranges), func(i int) bool { return ranges[i].end >= num })
	if i < len(ranges) && ranges[i].start <= num {
		return ranges[i], true
	}
	return tagRange{}, false
}

// validateRanges removes ranges whose start is after their end or that
// fall outside [lo, hi].
func validateRanges(scope, what string, ranges []*ast.RangeNode, lo, hi int64, handler *reporter.Handler) ([]*ast.RangeNode, error) {
	var kept []*ast.RangeNode
	for _, r := range ranges {
		switch {
		case r.Start > r.End:
			if err := handler.HandleErrorf(r.Pos, "%s: %s range %d to %d is invalid: start must be <= end", scope, what, r.Start, r.End); err != nil {
				return ranges, err
			}
		case r.Start < lo || r.End > hi:
			if err := handler.HandleErrorf(r.Pos, "%s: %s range %d to %d is out of range: should be between %d and %d", scope, what, r.Start, r.End, lo, hi); err != nil {
				return ranges, err
			}
		default:
			kept = append(kept, r)
		}
	}
	return kept, nil
}

func checkOverlaps(scope, what string, ranges []tagRange, handler *reporter.Handler) error {
	for i := 1; i < len(ranges); i++ {
		if ranges[i].start <= ranges[i-1].end {
			if err := handler.HandleErrorf(ranges[i].node.Pos, "%s: %s ranges overlap: %d to %d and %d to %d", scope, what, ranges[i-1].start, ranges[i-1].end, ranges[i].start, ranges[i].end); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkReservedNames(scope string, names []*ast.ReservedNameNode, handler *reporter.Handler) (map[string]struct{}, error) {
	result := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := result[n.Name]; ok {
			if err := handler.HandleErrorf(n.Pos, "%s: name %q is reserved multiple times", scope, n.Name); err != nil {
				return nil, err
			}
		}
		result[n.Name] = struct{}{}
	}
	return result, nil
}

func validateMessage(isProto3 bool, name string, msg *ast.MessageNode, handler *reporter.Handler) error {
	scope := fmt.Sprintf("message %s", name)

	if isProto3 && len(msg.ExtensionRanges) > 0 {
		if err := handler.HandleErrorf(msg.ExtensionRanges[0].Pos, "%s: extension ranges are not allowed in proto3", scope); err != nil {
			return err
		}
		msg.ExtensionRanges = nil
	}

	var err error
	if msg.ReservedRanges, err = validateRanges(scope, "reserved", msg.ReservedRanges, internal.MinFieldNumber, internal.MaxFieldNumber, handler); err != nil {
		return err
	}
	if msg.ExtensionRanges, err = validateRanges(scope, "extension", msg.ExtensionRanges, internal.MinFieldNumber, internal.MaxFieldNumber, handler); err != nil {
		return err
	}
	rsvd := sortedRanges(msg.ReservedRanges)
	if err := checkOverlaps(scope, "reserved", rsvd, handler); err != nil {
		return err
	}
	exts := sortedRanges(msg.ExtensionRanges)
	if err := checkOverlaps(scope, "extension", exts, handler); err != nil {
		return err
	}
	for _, ext := range exts {
		for _, r := range rsvd {
			if ext.start <= r.end && r.start <= ext.end {
				if err := handler.HandleErrorf(ext.node.Pos, "%s: extension range %d to %d overlaps reserved range %d to %d", scope, ext.start, ext.end, r.start, r.end); err != nil {
					return err
				}
			}
		}
	}
	rsvdNames, err := checkReservedNames(scope, msg.ReservedNames, handler)
	if err != nil {
		return err
	}

	// Fields are checked in declaration order; when two fields conflict,
	// the later one is dropped.
	msg.Messages, err = filterMessages(msg.Messages, func(dropped map[*ast.MessageNode]struct{}) error {
		fieldTags := map[int64]string{}
		fieldNames := map[string]struct{}{}
		var kept []*ast.FieldNode
		for _, fld := range msg.Fields {
			ok, err := validateField(isProto3, walk.Qualify(name, fld.Name), fld, handler)
			if err != nil {
				return err
			}
			if ok {
				ok, err = validateFieldInMessage(scope, fld, rsvd, exts, rsvdNames, fieldTags, fieldNames, handler)
				if err != nil {
					return err
				}
			}
			if !ok {
				dropField(fld, dropped)
				continue
			}
			fieldTags[fld.Number] = fld.Name
			fieldNames[fld.Name] = struct{}{}
			kept = append(kept, fld)
		}
		msg.Fields = kept
		for _, ext := range msg.Extends {
			if err := validateExtend(isProto3, name, ext, handler, dropped); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	msg.Oneofs = slices.DeleteFunc(msg.Oneofs, func(oo *ast.OneofNode) bool {
		return !slices.ContainsFunc(msg.Fields, func(fld *ast.FieldNode) bool { return fld.Oneof == oo.Name })
	})

	for _, nested := range msg.Messages {
		if err := validateMessage(isProto3, walk.Qualify(name, nested.Name), nested, handler); err != nil {
			return err
		}
	}
	for _, en := range msg.Enums {
		if err := validateEnum(isProto3, walk.Qualify(name, en.Name), en, handler); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldInMessage(
	scope string,
	fld *ast.FieldNode,
	rsvd, exts []tagRange,
	rsvdNames map[string]struct{},
	fieldTags map[int64]string,
	fieldNames map[string]struct{},
	handler *reporter.Handler,
) (bool, error) {
	if _, ok := rsvdNames[fld.Name]; ok {
		return false, handler.HandleErrorf(fld.Pos, "%s: field %s is using a reserved name", scope, fld.Name)
	}
	if _, ok := fieldNames[fld.Name]; ok {
		return false, handler.HandleErrorf(fld.Pos, "%s: field %s is declared more than once", scope, fld.Name)
	}
	if existing, ok := fieldTags[fld.Number]; ok {
		return false, handler.HandleErrorf(fld.NumberPos, "%s: fields %s and %s both have the same tag %d", scope, existing, fld.Name, fld.Number)
	}
	if r, ok := findRange(rsvd, fld.Number); ok {
		return false, handler.HandleErrorf(fld.NumberPos, "%s: field %s is using tag %d which is in reserved range %d to %d", scope, fld.Name, fld.Number, r.start, r.end)
	}
	if r, ok := findRange(exts, fld.Number); ok {
		return false, handler.HandleErrorf(fld.NumberPos, "%s: field %s is using tag %d which is in extension range %d to %d", scope, fld.Name, fld.Number, r.start, r.end)
	}
	return true, nil
}

func validateEnum(isProto3 bool, name string, en *ast.EnumNode, handler *reporter.Handler) error {
	scope := fmt.Sprintf("enum %s", name)

	if len(en.Values) == 0 {
		if err := handler.HandleErrorf(en.Pos, "%s: enums must define at least one value", scope); err != nil {
			return err
		}
	}

	allowAlias := false
	if index, err := internal.FindOption(handler, scope, en.Options, "allow_alias"); err != nil {
		return err
	} else if index >= 0 {
		opt := en.Options[index]
		var ok bool
		if allowAlias, ok = opt.Value.AsBool(); !ok {
			if err := handler.HandleErrorf(opt.Value.Pos, "%s: expecting bool value for allow_alias option", scope); err != nil {
				return err
			}
		}
	}

	var err error
	if en.ReservedRanges, err = validateRanges(scope, "reserved", en.ReservedRanges, math.MinInt32, math.MaxInt32, handler); err != nil {
		return err
	}
	rsvd := sortedRanges(en.ReservedRanges)
	if err := checkOverlaps(scope, "reserved", rsvd, handler); err != nil {
		return err
	}
	rsvdNames, err := checkReservedNames(scope, en.ReservedNames, handler)
	if err != nil {
		return err
	}

	valueNames := map[string]struct{}{}
	valueNumbers := map[int64]string{}
	hasAlias := false
	var kept []*ast.EnumValueNode
	for _, val := range en.Values {
		ok, err := validateEnumValue(scope, val, allowAlias, rsvd, rsvdNames, valueNames, valueNumbers, handler)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, ok := valueNumbers[val.Number]; ok {
			hasAlias = true
		} else {
			valueNumbers[val.Number] = val.Name
		}
		valueNames[val.Name] = struct{}{}
		kept = append(kept, val)
	}
	en.Values = kept

	if allowAlias && !hasAlias {
		if err := handler.HandleErrorf(en.Pos, "%s: allow_alias is true but no values are aliases", scope); err != nil {
			return err
		}
	}
	if isProto3 && len(en.Values) > 0 && en.Values[0].Number != 0 {
		if err := handler.HandleErrorf(en.Values[0].NumberPos, "%s: proto3 requires that first value in enum have numeric value of 0", scope); err != nil {
			return err
		}
	}
	return nil
}

func validateEnumValue(
	scope string,
	val *ast.EnumValueNode,
	allowAlias bool,
	rsvd []tagRange,
	rsvdNames, valueNames map[string]struct{},
	valueNumbers map[int64]string,
	handler *reporter.Handler,
) (bool, error) {
	if val.Number < math.MinInt32 || val.Number > math.MaxInt32 {
		return false, handler.HandleErrorf(val.NumberPos, "%s: value %s is out of range: %d does not fit in int32", scope, val.Name, val.Number)
	}
	if _, ok := rsvdNames[val.Name]; ok {
		return false, handler.HandleErrorf(val.Pos, "%s: value %s is using a reserved name", scope, val.Name)
	}
	if _, ok := valueNames[val.Name]; ok {
		return false, handler.HandleErrorf(val.Pos, "%s: value %s is declared more than once", scope, val.Name)
	}
	if r, ok := findRange(rsvd, val.Number); ok {
		return false, handler.HandleErrorf(val.NumberPos, "%s: value %s is using number %d which is in reserved range %d to %d", scope, val.Name, val.Number, r.start, r.end)
	}
	if existing, ok := valueNumbers[val.Number]; ok && !allowAlias {
		return false, handler.HandleErrorf(val.NumberPos, "%s: values %s and %s both have the same numeric value %d; use allow_alias option if intended", scope, existing, val.Name, val.Number)
	}
	return true, nil
}
