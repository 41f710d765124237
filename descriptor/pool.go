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

package descriptor

import (
	"errors"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/tidwall/btree"

	"github.com/protopool/protopool/internal/arena"
)

// ErrRetired is returned by Pool.Err once the pool has been retired.
var ErrRetired = errors.New("descriptor pool has been retired")

// generations hands out a distinct generation to every pool built in
// this process.
var generations atomic.Uint64

// Pool is the immutable owner of a linked set of descriptors.
type Pool struct {
	generation uint64
	retired    atomic.Bool

	files      arena.Arena[fileRec]
	messages   arena.Arena[messageRec]
	fields     arena.Arena[fieldRec]
	enums      arena.Arena[enumRec]
	enumValues arena.Arena[enumValueRec]
	services   arena.Arena[serviceRec]
	methods    arena.Arena[methodRec]

	// ordered by fully-qualified name, for prefix queries
	byName btree.Map[string, symbolRef]
	byPath map[string]FileID
}

// Empty returns a finalized pool with no descriptors.
func Empty() *Pool {
	return NewBuilder().Build()
}

// Generation returns the generation of this pool. Every pool built in
// a process has a distinct, increasing generation.
func (p *Pool) Generation() uint64 {
	return p.generation
}

// Retire marks the pool as discarded. After this, IsValid reports false
// for all handles into the pool and lookups find nothing. Retiring is
// idempotent.
func (p *Pool) Retire() {
	p.retired.Store(true)
}

// IsRetired reports whether Retire has been called.
func (p *Pool) IsRetired() bool {
	return p.retired.Load()
}

// Err returns ErrRetired if the pool has been retired, nil otherwise.
func (p *Pool) Err() error {
	if p.IsRetired() {
		return ErrRetired
	}
	return nil
}

func (p *Pool) lookup(name string) (symbolRef, bool) {
	if p == nil || p.retired.Load() {
		return symbolRef{}, false
	}
	ref, ok := p.byName.Get(strings.TrimPrefix(name, "."))
	return ref, ok
}

// Lookup returns the kind of element with the given fully-qualified
// name, or KindNone if there is none.
func (p *Pool) Lookup(name string) Kind {
	ref, _ := p.lookup(name)
	return ref.kind
}

// FindMessageByName returns the message with the given fully-qualified
// name. A leading dot is permitted.
func (p *Pool) FindMessageByName(name string) (Message, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindMessage {
		return Message{}, false
	}
	return Message{p: p, id: MessageID(ref.id)}, true
}

// FindFieldByName returns the field or extension with the given
// fully-qualified name.
func (p *Pool) FindFieldByName(name string) (Field, bool) {
	ref, ok := p.lookup(name)
	if !ok || (ref.kind != KindField && ref.kind != KindExtension) {
		return Field{}, false
	}
	return Field{p: p, id: FieldID(ref.id)}, true
}

// FindExtensionByName returns the extension with the given
// fully-qualified name.
func (p *Pool) FindExtensionByName(name string) (Field, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindExtension {
		return Field{}, false
	}
	return Field{p: p, id: FieldID(ref.id)}, true
}

// FindEnumByName returns the enum with the given fully-qualified name.
func (p *Pool) FindEnumByName(name string) (Enum, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindEnum {
		return Enum{}, false
	}
	return Enum{p: p, id: EnumID(ref.id)}, true
}

// FindEnumValueByName returns the enum value with the given
// fully-qualified name, such as "pkg.Color.RED".
func (p *Pool) FindEnumValueByName(name string) (EnumValue, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindEnumValue {
		return EnumValue{}, false
	}
	return EnumValue{p: p, id: EnumValueID(ref.id)}, true
}

// FindServiceByName returns the service with the given fully-qualified
// name.
func (p *Pool) FindServiceByName(name string) (Service, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindService {
		return Service{}, false
	}
	return Service{p: p, id: ServiceID(ref.id)}, true
}

// FindMethodByName returns the method with the given fully-qualified
// name, such as "pkg.Service.Method".
func (p *Pool) FindMethodByName(name string) (Method, bool) {
	ref, ok := p.lookup(name)
	if !ok || ref.kind != KindMethod {
		return Method{}, false
	}
	return Method{p: p, id: MethodID(ref.id)}, true
}

// FindFileByPath returns the file with the given path.
func (p *Pool) FindFileByPath(path string) (File, bool) {
	if p == nil || p.retired.Load() {
		return File{}, false
	}
	id, ok := p.byPath[path]
	if !ok {
		return File{}, false
	}
	return File{p: p, id: id}, true
}

// Files returns every file in the pool, in load order.
func (p *Pool) Files() []File {
	if p == nil || p.retired.Load() {
		return nil
	}
	files := make([]File, 0, p.files.Len())
	for id := range p.files.All() {
		files = append(files, File{p: p, id: id})
	}
	return files
}

// MessageCount returns the number of messages in the pool, including
// nested messages.
func (p *Pool) MessageCount() int {
	if p == nil {
		return 0
	}
	return p.messages.Len()
}

// Messages iterates over every message in the pool, including nested
// ones. Messages are visited in the order files were loaded and, within
// a file, in declaration order with each message preceding the messages
// nested in it.
func (p *Pool) Messages() iter.Seq[Message] {
	return func(yield func(Message) bool) {
		if p == nil || p.retired.Load() {
			return
		}
		for id := range p.messages.All() {
			if !yield(Message{p: p, id: id}) {
				return
			}
		}
	}
}

// ForEachMessage calls fn once for every message in the pool, in the
// order of Messages.
func (p *Pool) ForEachMessage(fn func(Message)) {
	for msg := range p.Messages() {
		fn(msg)
	}
}

// FullNames returns, in sorted order, every fully-qualified name in the
// pool that starts with the given prefix. An empty prefix returns all
// names.
func (p *Pool) FullNames(prefix string) []string {
	if p == nil || p.retired.Load() {
		return nil
	}
	var names []string
	p.byName.Ascend(prefix, func(name string, _ symbolRef) bool {
		if !strings.HasPrefix(name, prefix) {
			return false
		}
		names = append(names, name)
		return true
	})
	return names
}
