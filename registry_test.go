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
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protopool/protopool/reporter"
)

func TestRegistry(t *testing.T) {
	t.Parallel()
	fsys := memFS(t, map[string]string{
		"/v1/svc.proto": `syntax = "proto3";
package svc;
message Request {}
message Response {}
service Echo {
  rpc Call(Request) returns (Response);
}
`,
		"/v2/svc.proto": `syntax = "proto3";
package svc;
message Request { string text = 1; }
message Reply {}
service Echo {
  rpc Call(Request) returns (Reply);
}
`,
	})
	logger, hook := logtest.NewNullLogger()
	reg := NewRegistry(Options{FS: fsys, Logger: logger})
	assert.Equal(t, 0, reg.Current().MessageCount())
	empty := reg.Current()

	ctx := context.Background()
	v1, err := reg.Reinitialize(ctx, []string{"/v1"})
	require.NoError(t, err)
	require.NoError(t, reg.Err())
	assert.Same(t, v1, reg.Current())
	assert.True(t, empty.IsRetired())
	method, ok := v1.FindMethodByName("svc.Echo.Call")
	require.True(t, ok)
	out, ok := method.OutputType()
	require.True(t, ok)
	assert.Equal(t, "svc.Response", out.FullName())

	v2, err := reg.Reinitialize(ctx, []string{"/v2"})
	require.NoError(t, err)
	assert.Same(t, v2, reg.Current())
	assert.Greater(t, v2.Generation(), v1.Generation())
	assert.True(t, v1.IsRetired())
	assert.False(t, method.IsValid())
	assert.False(t, out.IsValid())
	_, ok = v1.FindMessageByName("svc.Request")
	assert.False(t, ok)

	method, ok = reg.Current().FindMethodByName("svc.Echo.Call")
	require.True(t, ok)
	out, ok = method.OutputType()
	require.True(t, ok)
	assert.Equal(t, "svc.Reply", out.FullName())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "published descriptor pool", entry.Message)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, v2.Generation(), entry.Data["generation"])
	assert.Equal(t, v1.Generation(), entry.Data["retired"])
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()
	fsys := memFS(t, map[string]string{
		"/good/a.proto": `syntax = "proto3"; message A {}`,
		"/bad/b.proto":  `syntax = "proto3"; message B { Missing m = 1; }`,
	})

	// semantic errors still publish
	reg := NewRegistry(Options{FS: fsys})
	desc, err := reg.Reinitialize(context.Background(), []string{"/bad"})
	require.NoError(t, err)
	assert.Same(t, desc, reg.Current())
	assert.ErrorIs(t, reg.Err(), reporter.ErrInvalidSource)
	_, ok := desc.FindMessageByName("B")
	assert.True(t, ok)

	// an aborted build keeps the previous pool
	stop := errors.New("stop")
	reg = NewRegistry(Options{
		FS: fsys,
		Reporter: reporter.NewReporter(func(reporter.ErrorWithPos) error {
			return stop
		}, nil),
	})
	good, err := reg.Reinitialize(context.Background(), []string{"/good"})
	require.NoError(t, err)
	desc, err = reg.Reinitialize(context.Background(), []string{"/bad"})
	require.ErrorIs(t, err, stop)
	assert.ErrorIs(t, reg.Err(), stop)
	assert.Same(t, good, desc)
	assert.Same(t, good, reg.Current())
	assert.False(t, good.IsRetired())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = reg.Reinitialize(ctx, []string{"/good"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Same(t, good, reg.Current())
}

func TestRegistry_ConcurrentReaders(t *testing.T) {
	t.Parallel()
	fsys := memFS(t, map[string]string{
		"/protos/a.proto": `syntax = "proto3"; package p; message A { int32 x = 1; }`,
	})
	reg := NewRegistry(Options{FS: fsys})
	ctx := context.Background()
	_, err := reg.Reinitialize(ctx, []string{"/protos"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				// every published pool is complete
				desc := reg.Current()
				if msg, ok := desc.FindMessageByName("p.A"); ok {
					_ = msg.FieldCount()
				} else if !desc.IsRetired() {
					t.Errorf("published pool generation %d is missing p.A", desc.Generation())
					return
				}
			}
		}()
	}
	for range 5 {
		_, err := reg.Reinitialize(ctx, []string{"/protos"})
		assert.NoError(t, err)
	}
	wg.Wait()
}
