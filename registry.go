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

package protopool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/protopool/protopool/descriptor"
)

// Registry publishes the current descriptors to concurrent readers.
// Reinitialize builds a complete new pool before swapping it in, so
// readers never observe a partially built pool. Readers that loaded the
// previous snapshot may finish using it; its handles report IsValid
// false from the moment it is replaced.
type Registry struct {
	opts Options
	log  logrus.FieldLogger

	// mu serializes rebuilds. Readers never take it.
	mu      sync.Mutex
	current atomic.Pointer[descriptor.Pool]
	lastErr error
}

// NewRegistry returns a registry whose current pool is empty.
func NewRegistry(opts Options) *Registry {
	r := &Registry{opts: opts, log: opts.logger()}
	r.current.Store(descriptor.Empty())
	return r
}

// Current returns the published descriptors. The result is immutable and
// safe for concurrent use.
func (r *Registry) Current() *descriptor.Pool {
	return r.current.Load()
}

// Reinitialize loads every file under dirs into a new pool and, if the
// build was not aborted, publishes it and retires the previous one. On
// failure the previous pool stays current. Semantic errors do not abort
// the build unless the configured reporter says so.
func (r *Registry) Reinitialize(ctx context.Context, dirs []string) (*descriptor.Pool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := New(dirs, r.opts)
	if err := p.LoadAll(ctx); err != nil {
		r.lastErr = err
		return r.current.Load(), err
	}
	desc, err := p.Finalize()
	if err != nil {
		r.lastErr = err
		return r.current.Load(), err
	}
	r.lastErr = p.Err()

	old := r.current.Swap(desc)
	old.Retire()
	r.log.WithFields(logrus.Fields{
		"generation": desc.Generation(),
		"retired":    old.Generation(),
		"dirs":       dirs,
	}).Info("published descriptor pool")
	return desc, nil
}

// Err returns the result of the last Reinitialize: nil if it reported no
// errors, the error that aborted it, or reporter.ErrInvalidSource if it
// completed with errors.
func (r *Registry) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}
