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

package engine

import (
	"context"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
)

// Subscriber receives the platform events the gate reacts to.
type Subscriber interface {
	// OnReady refreshes the invite snapshot of every listed space, or of
	// every known space when the list is empty.
	OnReady(ctx context.Context, spaceIDs []string) error
	OnInviteCreated(ctx context.Context, spaceID string) error
	OnInviteDeleted(ctx context.Context, spaceID string) error
	OnMemberJoined(ctx context.Context, member *model.Member) error
	OnRolesChanged(ctx context.Context, before, after *model.Member) error
}

// Admin is the surface used by moderators, over chat interactions or HTTP.
type Admin interface {
	ForceOverride(ctx context.Context, spaceID, targetID, reason, actorID string) (model.AuditRecord, error)
	ManualVerify(ctx context.Context, spaceID, targetID, actorID string) (model.AuditRecord, error)
	ToggleAutoVerify(ctx context.Context, enabled bool, actorID string) model.AuditRecord
	SetAutoVerify(enabled bool) bool
	AutoVerify() bool
}

var (
	_ Subscriber = (*Engine)(nil)
	_ Admin      = (*Engine)(nil)
)
