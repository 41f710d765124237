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

// Package descriptor contains the immutable, queryable descriptor graph
// produced by linking a set of proto source files.
//
// All descriptors are owned by a *Pool. They are stored in arenas inside
// the pool and exposed through small value handles (Message, Field, Enum,
// EnumValue, Service, Method and File). A handle is a pool pointer plus an
// index, so handles are cheap to copy and are comparable with ==.
//
// A Pool is constructed by a Builder, which the linker drives. Once Build
// returns, the pool never changes and may be read concurrently from any
// number of goroutines without locking.
//
// When a pool is replaced, the owner retires it. Retirement does not free
// anything: handles into a retired pool still return the data they always
// did, but IsValid reports false and name lookups through the retired pool
// find nothing, so stale handles are detectable rather than dangling.
package descriptor
