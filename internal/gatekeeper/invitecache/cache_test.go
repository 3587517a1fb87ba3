// Copyright 2025 Arcade Team
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

package invitecache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends() map[string]func() Store {
	return map[string]func() Store{
		BackendMemory:    func() Store { return NewMemoryStore() },
		BackendFastCache: func() Store { return NewFastStore(0) },
	}
}

func TestCache_RefreshEqualsFetch(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := platform.NewMemory("g1")
			p.SetInvites("g1", model.Invite{Code: "ABC", Uses: 5}, model.Invite{Code: "DEF", Uses: 0})
			c := New(p, mk())

			require.NoError(t, c.Refresh(ctx, "g1"))
			fresh, err := c.Fetch(ctx, "g1")
			require.NoError(t, err)
			assert.Equal(t, fresh.Uses, c.Get("g1").Uses)
		})
	}
}

func TestCache_RefreshReplacesWholesale(t *testing.T) {
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := platform.NewMemory("g1")
			c := New(p, mk())

			p.SetInvites("g1", model.Invite{Code: "OLD", Uses: 3})
			require.NoError(t, c.Refresh(ctx, "g1"))

			p.SetInvites("g1", model.Invite{Code: "NEW", Uses: 1})
			require.NoError(t, c.Refresh(ctx, "g1"))

			assert.Equal(t, map[string]int{"NEW": 1}, c.Get("g1").Uses)
		})
	}
}

func TestCache_RefreshFailureKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	p := platform.NewMemory("g1")
	registry := prometheus.NewRegistry()
	m := metrics.NewGateMetrics(registry)
	c := New(p, NewMemoryStore(), WithMetrics(m))

	p.SetInvites("g1", model.Invite{Code: "ABC", Uses: 5})
	require.NoError(t, c.Refresh(ctx, "g1"))

	cause := errors.New("missing permission")
	p.FailInvites("g1", cause)
	err := c.Refresh(ctx, "g1")

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "g1", fe.SpaceID)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, map[string]int{"ABC": 5}, c.Get("g1").Uses)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InviteFetchFailuresTotal))
}

func TestCache_GetUnknownSpaceIsEmpty(t *testing.T) {
	c := New(platform.NewMemory(), nil)
	snap := c.Get("nope")
	assert.Equal(t, "nope", snap.SpaceID)
	assert.Empty(t, snap.Uses)
	assert.NotNil(t, snap.Uses)
}

func TestCache_ReplaceAndForget(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	for name, mk := range backends() {
		t.Run(name, func(t *testing.T) {
			c := New(platform.NewMemory(), mk())
			snap := model.NewSnapshot("other", []model.Invite{{Code: "X", Uses: 2}}, at)

			require.NoError(t, c.Replace("g1", snap))
			got := c.Get("g1")
			assert.Equal(t, "g1", got.SpaceID)
			assert.Equal(t, 2, got.Uses["X"])
			assert.True(t, at.Equal(got.CapturedAt))

			c.Forget("g1")
			assert.Empty(t, c.Get("g1").Uses)
		})
	}
}

func TestCache_StoredSnapshotIsIsolated(t *testing.T) {
	c := New(platform.NewMemory(), NewMemoryStore())
	snap := model.NewSnapshot("g1", []model.Invite{{Code: "X", Uses: 2}}, time.Now())
	require.NoError(t, c.Replace("g1", snap))

	snap.Uses["X"] = 99
	got := c.Get("g1")
	got.Uses["Y"] = 1

	assert.Equal(t, map[string]int{"X": 2}, c.Get("g1").Uses)
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		backend string
		want    any
		wantErr bool
	}{
		{backend: "", want: &MemoryStore{}},
		{backend: BackendMemory, want: &MemoryStore{}},
		{backend: BackendFastCache, want: &FastStore{}},
		{backend: "redis", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			s, err := NewStore(StoreConfig{Backend: tt.backend})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, s)
		})
	}
}
