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

// Package invitecache keeps the last observed invite usage counts of every
// space. A snapshot is always replaced as a whole, never merged.
package invitecache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
)

// FetchError reports that the invite listing of a space could not be read.
type FetchError struct {
	SpaceID string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch invites of space %s: %v", e.SpaceID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Cache struct {
	invites platform.InviteDirectory
	store   Store
	metrics *metrics.GateMetrics
	now     func() time.Time
}

type Option func(*Cache)

// WithClock overrides the capture timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

func WithMetrics(m *metrics.GateMetrics) Option {
	return func(c *Cache) { c.metrics = m }
}

func New(invites platform.InviteDirectory, store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{
		invites: invites,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch reads the live invite listing without touching the cache.
func (c *Cache) Fetch(ctx context.Context, spaceID string) (model.Snapshot, error) {
	invites, err := c.invites.FetchInvites(ctx, spaceID)
	if err != nil {
		c.metrics.ObserveFetchFailure()
		return model.Snapshot{}, &FetchError{SpaceID: spaceID, Err: err}
	}
	return model.NewSnapshot(spaceID, invites, c.now()), nil
}

// Refresh replaces the snapshot of spaceID with a fresh fetch. On failure the
// previous snapshot is kept.
func (c *Cache) Refresh(ctx context.Context, spaceID string) error {
	snap, err := c.Fetch(ctx, spaceID)
	if err != nil {
		log.Warnw("invite refresh failed, keeping previous snapshot",
			"space", spaceID,
			"error", err,
		)
		return err
	}
	if err := c.Replace(spaceID, snap); err != nil {
		return err
	}
	log.Debugw("invite snapshot refreshed", "space", spaceID, "codes", len(snap.Uses))
	return nil
}

// Get returns the current snapshot of spaceID, or an empty one.
func (c *Cache) Get(spaceID string) model.Snapshot {
	snap, ok := c.store.Load(spaceID)
	if !ok {
		return model.EmptySnapshot(spaceID)
	}
	return snap
}

// Replace installs snap as the snapshot of spaceID.
func (c *Cache) Replace(spaceID string, snap model.Snapshot) error {
	snap.SpaceID = spaceID
	if snap.Uses == nil {
		snap.Uses = map[string]int{}
	}
	return c.store.Save(snap)
}

// Forget drops the snapshot of a space the bot no longer belongs to.
func (c *Cache) Forget(spaceID string) {
	c.store.Delete(spaceID)
}
