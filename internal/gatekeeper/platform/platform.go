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

// Package platform declares the collaborators the gatekeeper consumes from
// the community platform. Implementations live in adapter packages.
package platform

import (
	"context"
	"errors"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
)

// ErrMemberNotFound is returned by MemberDirectory when the member is not in the space.
var ErrMemberNotFound = errors.New("member not found")

// SpaceDirectory enumerates the spaces known at startup.
type SpaceDirectory interface {
	Spaces(ctx context.Context) ([]string, error)
}

// InviteDirectory lists the live invites of a space.
type InviteDirectory interface {
	FetchInvites(ctx context.Context, spaceID string) ([]model.Invite, error)
}

// MemberDirectory resolves a member with account age and current roles.
type MemberDirectory interface {
	Member(ctx context.Context, spaceID, memberID string) (*model.Member, error)
}

// RoleMutator adds and removes single roles. Each call fails independently.
type RoleMutator interface {
	AddRole(ctx context.Context, spaceID, memberID, roleID string) error
	RemoveRole(ctx context.Context, spaceID, memberID, roleID string) error
}

// AuditSink receives audit records of administrative actions.
type AuditSink interface {
	Record(ctx context.Context, rec model.AuditRecord) error
}

// Platform bundles every consumed collaborator.
type Platform interface {
	SpaceDirectory
	InviteDirectory
	MemberDirectory
	RoleMutator
}
