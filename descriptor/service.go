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

// Service describes a service.
type Service struct {
	p  *Pool
	id ServiceID
}

var noService serviceRec

func (s Service) rec() *serviceRec {
	if s.p == nil || s.id.Nil() {
		return &noService
	}
	return s.id.In(&s.p.services)
}

// IsValid reports whether s refers to a service in a pool that has not
// been retired.
func (s Service) IsValid() bool {
	return s.p != nil && !s.id.Nil() && !s.p.retired.Load()
}

// Name returns the simple name of the service.
func (s Service) Name() string {
	return s.rec().name
}

// FullName returns the fully-qualified name of the service.
func (s Service) FullName() string {
	return s.rec().fullName
}

func (s Service) String() string {
	return s.FullName()
}

// File returns the file that declared the service.
func (s Service) File() File {
	return File{p: s.p, id: s.rec().file}
}

// MethodCount returns the number of methods.
func (s Service) MethodCount() int {
	return len(s.rec().methods)
}

// Method returns the method at index i, in declaration order.
func (s Service) Method(i int) Method {
	return Method{p: s.p, id: s.rec().methods[i]}
}

// Methods returns all methods in declaration order.
func (s Service) Methods() []Method {
	rec := s.rec()
	out := make([]Method, len(rec.methods))
	for i, id := range rec.methods {
		out[i] = Method{p: s.p, id: id}
	}
	return out
}

// FindMethodByName returns the method with the given simple name.
func (s Service) FindMethodByName(name string) (Method, bool) {
	for _, id := range s.rec().methods {
		if id.In(&s.p.methods).name == name {
			return Method{p: s.p, id: id}, true
		}
	}
	return Method{}, false
}

// Method describes an RPC method of a service.
type Method struct {
	p  *Pool
	id MethodID
}

var noMethod methodRec

func (m Method) rec() *methodRec {
	if m.p == nil || m.id.Nil() {
		return &noMethod
	}
	return m.id.In(&m.p.methods)
}

// IsValid reports whether m refers to a method in a pool that has not
// been retired.
func (m Method) IsValid() bool {
	return m.p != nil && !m.id.Nil() && !m.p.retired.Load()
}

// Name returns the simple name of the method.
func (m Method) Name() string {
	return m.rec().name
}

// FullName returns the fully-qualified name of the method, which is
// scoped under its service.
func (m Method) FullName() string {
	return m.rec().fullName
}

func (m Method) String() string {
	return m.FullName()
}

// Service returns the service that owns this method.
func (m Method) Service() Service {
	return Service{p: m.p, id: m.rec().service}
}

// InputType returns the request message type. It returns false if the
// type could not be resolved.
func (m Method) InputType() (Message, bool) {
	id := m.rec().input
	if id.Nil() {
		return Message{}, false
	}
	return Message{p: m.p, id: id}, true
}

// OutputType returns the response message type. It returns false if
// the type could not be resolved.
func (m Method) OutputType() (Message, bool) {
	id := m.rec().output
	if id.Nil() {
		return Message{}, false
	}
	return Message{p: m.p, id: id}, true
}

// InputTypeName returns the request type name, resolved if possible and
// as written otherwise.
func (m Method) InputTypeName() string {
	rec := m.rec()
	if in, ok := m.InputType(); ok {
		return in.FullName()
	}
	return rec.inputName
}

// OutputTypeName returns the response type name, resolved if possible
// and as written otherwise.
func (m Method) OutputTypeName() string {
	rec := m.rec()
	if out, ok := m.OutputType(); ok {
		return out.FullName()
	}
	return rec.outputName
}

// ClientStreaming reports whether the client sends a stream of requests.
func (m Method) ClientStreaming() bool {
	return m.rec().clientStreaming
}

// ServerStreaming reports whether the server sends a stream of responses.
func (m Method) ServerStreaming() bool {
	return m.rec().serverStreaming
}
