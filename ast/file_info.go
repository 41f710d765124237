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
	"fmt"
	"sort"
)

// SourcePos identifies a location in a proto source file.
type SourcePos struct {
	Filename  string
	Line, Col int
	Offset    int
}

func (pos SourcePos) String() string {
	if pos.Line <= 0 || pos.Col <= 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Col)
}

// UnknownPos is a placeholder position when only the source file
// name is known.
func UnknownPos(filename string) SourcePos {
	return SourcePos{Filename: filename}
}

// FileInfo contains information about the contents of a source file,
// including the name of the file and the offsets of each line. It is
// used to translate byte offsets, as tracked by the lexer, into
// line and column positions.
type FileInfo struct {
	name string
	data []byte
	// offsets of the start of each line
	lines []int
}

// NewFileInfo creates a new instance for the given file.
func NewFileInfo(filename string, contents []byte) *FileInfo {
	return &FileInfo{
		name:  filename,
		data:  contents,
		lines: []int{0},
	}
}

// Name returns the name of the file.
func (f *FileInfo) Name() string {
	return f.name
}

// AddLine adds the offset representing the beginning of the "next" line in the file.
// The first line always starts at offset 0, the second line starts at offset-of-newline-char+1.
func (f *FileInfo) AddLine(offset int) {
	if offset < 0 {
		panic(fmt.Sprintf("invalid offset: %d must not be negative", offset))
	}
	if offset > len(f.data) {
		panic(fmt.Sprintf("invalid offset: %d is greater than file size %d", offset, len(f.data)))
	}
	if len(f.lines) > 0 {
		lastOffset := f.lines[len(f.lines)-1]
		if offset <= lastOffset {
			panic(fmt.Sprintf("invalid offset: %d is not greater than previously observed line offset %d", offset, lastOffset))
		}
	}
	f.lines = append(f.lines, offset)
}

// LineCount returns the number of lines observed so far.
func (f *FileInfo) LineCount() int {
	return len(f.lines)
}

// Line returns the text of the given 1-based line, without its
// trailing newline. It returns the empty string if the line is
// out of range.
func (f *FileInfo) Line(line int) string {
	if line <= 0 || line > len(f.lines) {
		return ""
	}
	start := f.lines[line-1]
	end := len(f.data)
	if line < len(f.lines) {
		end = f.lines[line] - 1
	}
	if end < start {
		return ""
	}
	text := f.data[start:end]
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
	}
	return string(text)
}

// SourcePos computes the line and column of the given byte offset.
// Columns are 1-based and tab characters advance to the next multiple
// of eight.
func (f *FileInfo) SourcePos(offset int) SourcePos {
	lineNumber := sort.Search(len(f.lines), func(n int) bool {
		return f.lines[n] > offset
	})
	if lineNumber == 0 {
		return UnknownPos(f.name)
	}

	col := 0
	for i := f.lines[lineNumber-1]; i < offset && i < len(f.data); i++ {
		switch {
		case f.data[i] == '\t':
			col += 8 - (col % 8)
		case f.data[i]&0xC0 == 0x80:
			// continuation byte of a multi-byte rune
		default:
			col++
		}
	}

	return SourcePos{
		Filename: f.name,
		Offset:   offset,
		Line:     lineNumber,
		Col:      col + 1,
	}
}
