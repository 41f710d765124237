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

package reporter

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the size tabstops are rendered as when echoing a
// source line.
const TabstopWidth = 4

// LineSource provides the text of source lines, for rendering context
// beneath a diagnostic.
type LineSource interface {
	// SourceLine returns the 1-based line of the named file, without a
	// trailing newline. It returns false if the line is unavailable.
	SourceLine(filename string, line int) (string, bool)
}

// Render writes err to w. When err carries a position and src can supply
// the line it refers to, the line is echoed beneath the message with a
// caret under the offending column.
func Render(w io.Writer, err error, src LineSource) error {
	if _, e := fmt.Fprintln(w, err); e != nil {
		return e
	}
	var ewp ErrorWithPos
	if !errors.As(err, &ewp) || src == nil {
		return nil
	}
	pos := ewp.GetPosition()
	if pos.Line <= 0 || pos.Col <= 0 {
		return nil
	}
	line, ok := src.SourceLine(pos.Filename, pos.Line)
	if !ok {
		return nil
	}

	var echoed strings.Builder
	// pos.Col advances tabs to the next multiple of eight, while the echoed
	// line uses TabstopWidth, so the caret offset is tracked separately.
	col, width, caret := 0, 0, -1
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		chunk := line[i : i+size]
		i += size
		if caret < 0 && col >= pos.Col-1 {
			caret = width
		}
		if r == '\t' {
			col += 8 - (col % 8)
		} else {
			col++
		}
		width = renderRune(&echoed, width, chunk, r)
	}
	if caret < 0 {
		caret = width
	}

	if _, e := fmt.Fprintf(w, "  %s\n", echoed.String()); e != nil {
		return e
	}
	_, e := fmt.Fprintf(w, "  %s^\n", strings.Repeat(" ", caret))
	return e
}

func renderRune(out *strings.Builder, column int, chunk string, r rune) int {
	switch {
	case r == '\t':
		tab := TabstopWidth - (column % TabstopWidth)
		out.WriteString(strings.Repeat(" ", tab))
		return column + tab
	case nonPrint(r):
		escape := fmt.Sprintf("<U+%04X>", r)
		out.WriteString(escape)
		return column + len(escape)
	default:
		out.WriteString(chunk)
		return column + uniseg.StringWidth(chunk)
	}
}

func nonPrint(r rune) bool {
	return !strings.ContainsRune(" \r\t\n", r) && !unicode.IsPrint(r)
}
