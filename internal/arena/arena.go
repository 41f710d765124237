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

// Package arena defines an append-only Arena type with compressed pointers.
//
// Descriptor records are allocated in arenas so that they can refer to one
// another by small integer handles instead of Go pointers. An arena never
// moves its elements, so a *T obtained from an arena stays valid for the
// life of the arena.
package arena

import (
	"fmt"
	"iter"
	"math/bits"
)

// pointersMinLenShift is the log2 of the size of the smallest slice in
// an Arena.
const (
	pointersMinLenShift = 4
	pointersMinLen      = 1 << pointersMinLenShift
)

// An untyped arena pointer.
//
// The pointer value of a particular pointer in an arena is equal to one
// plus the number of elements allocated before it.
type Untyped uint32

// Nil returns whether this pointer is nil.
func (p Untyped) Nil() bool {
	return p == 0
}

// A compressed arena pointer.
//
// Cannot be dereferenced directly; see [Pointer.In].
//
// The zero value is nil.
type Pointer[T any] Untyped

// Nil returns whether this pointer is nil.
func (p Pointer[T]) Nil() bool {
	return Untyped(p).Nil()
}

// Index returns the zero-based allocation index of p. It returns -1
// for a nil pointer.
func (p Pointer[T]) Index() int {
	return int(p) - 1
}

// In looks up this pointer in the given arena.
//
// arena must be the arena that allocated this pointer, otherwise this will
// either return an arbitrary pointer or panic. If p is nil, this panics.
func (p Pointer[T]) In(arena *Arena[T]) *T {
	return arena.At(Untyped(p))
}

// Arena is an arena that offers compressed pointers. Internally, it is a slice
// of T that guarantees the Ts will never be moved.
//
// It does this by maintaining a table of logarithmically-growing slices that
// mimic the resizing behavior of an ordinary slice. Lookup time is O(1), at
// the cost of two pointer loads instead of one.
//
// A zero Arena[T] is empty and ready to use.
type Arena[T any] struct {
	// Invariants:
	// 1. cap(table[0]) == 1<<pointersMinLenShift.
	// 2. cap(table[n]) == 2*cap(table[n-1]).
	// 3. cap(table[n]) == len(table[n]) for n < len(table)-1.
	table [][]T
}

// New allocates a new value on the arena.
func (a *Arena[T]) New(value T) Pointer[T] {
	if a.table == nil {
		a.table = [][]T{make([]T, 0, pointersMinLen)}
	}

	last := &a.table[len(a.table)-1]
	if len(*last) == cap(*last) {
		a.table = append(a.table, make([]T, 0, 2*cap(*last)))
		last = &a.table[len(a.table)-1]
	}

	*last = append(*last, value)
	return Pointer[T](Untyped(a.Len()))
}

// At dereferences an untyped arena pointer, as if by [Pointer.In].
func (a *Arena[T]) At(ptr Untyped) *T {
	if ptr.Nil() {
		panic("arena: dereference of nil pointer")
	}
	slice, idx := a.coordinates(int(ptr) - 1)
	return &a.table[slice][idx]
}

// Len returns the number of values allocated so far.
func (a *Arena[T]) Len() int {
	if len(a.table) == 0 {
		return 0
	}
	// Only the last slice will be not-fully-filled.
	return a.lenOfFirstNSlices(len(a.table)-1) + len(a.table[len(a.table)-1])
}

// All iterates over every value in allocation order, along with its pointer.
func (a *Arena[T]) All() iter.Seq2[Pointer[T], *T] {
	return func(yield func(Pointer[T], *T) bool) {
		n := 0
		for i := range a.table {
			for j := range a.table[i] {
				n++
				if !yield(Pointer[T](Untyped(n)), &a.table[i][j]) {
					return
				}
			}
		}
	}
}

// lenOfNthSlice returns the length of the nth slice, even if it isn't
// allocated yet.
func (*Arena[T]) lenOfNthSlice(n int) int {
	return pointersMinLen << n
}

// lenOfFirstNSlices returns the length of the first n slices.
func (a *Arena[T]) lenOfFirstNSlices(n int) int {
	// 2^m + 2^(m+1) + ... + 2^n = 2^(n+1) - 2^m
	return max(0, a.lenOfNthSlice(n)-a.lenOfNthSlice(0))
}

// coordinates calculates the coordinates of the given index in table. It
// also performs a bounds check.
func (a *Arena[T]) coordinates(idx int) (int, int) {
	if idx >= a.Len() || idx < 0 {
		panic(fmt.Sprintf("arena: pointer out of range: %#x", idx))
	}

	// The cumulative starting index of each slice is 0b0<<n, 0b1<<n,
	// 0b11<<n, ... for n == pointersMinLenShift. Adding pointersMinLen maps
	// these to single bits whose position identifies the slice.
	slice := bits.UintSize - bits.LeadingZeros(uint(idx)+pointersMinLen)
	slice -= pointersMinLenShift + 1
	idx -= a.lenOfFirstNSlices(slice)

	return slice, idx
}
