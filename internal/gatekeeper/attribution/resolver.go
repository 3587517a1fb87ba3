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

// Package attribution decides whether a join came through a tracked invite by
// diffing a fresh invite listing against the cached one.
//
// The diff is aggregate: two joins through the same invite between two
// resolutions are indistinguishable, and a join through a vanity URL or
// an expiring single-use invite does not show up as an increase.
package attribution

import (
	"context"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewResolver)

type Resolver struct {
	cache *invitecache.Cache
}

func NewResolver(cache *invitecache.Cache) *Resolver {
	return &Resolver{cache: cache}
}

// Resolve returns ViaInvite when any invite code gained uses since the cached
// snapshot, NoInvite otherwise, and Unknown when the listing cannot be read.
// After a successful fetch the cache always holds the fresh snapshot.
func (r *Resolver) Resolve(ctx context.Context, spaceID string) model.Attribution {
	fresh, err := r.cache.Fetch(ctx, spaceID)
	if err != nil {
		log.Warnw("invite fetch failed during attribution",
			"space", spaceID,
			"error", err,
		)
		return model.AttributionUnknown
	}

	prev := r.cache.Get(spaceID)
	increased := fresh.IncreasedCodes(prev)

	if err := r.cache.Replace(spaceID, fresh); err != nil {
		log.Warnw("failed to store invite snapshot", "space", spaceID, "error", err)
	}

	if len(increased) > 0 {
		log.Debugw("join attributed to invite", "space", spaceID, "codes", increased)
		return model.AttributionViaInvite
	}
	return model.AttributionNoInvite
}
