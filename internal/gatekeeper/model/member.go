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

package model

import (
	"slices"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
)

// Status is the trust status of a gated member.
type Status string

const (
	// StatusNone means the member holds neither status role.
	StatusNone       Status = ""
	StatusVerified   Status = "VERIFIED"
	StatusUnverified Status = "UNVERIFIED"
)

// RoleID returns the role marker for the status.
func (s Status) RoleID() string {
	switch s {
	case StatusVerified:
		return consts.VerifiedRoleID
	case StatusUnverified:
		return consts.UnverifiedRoleID
	default:
		return ""
	}
}

// Opposite returns the other status.
func (s Status) Opposite() Status {
	switch s {
	case StatusVerified:
		return StatusUnverified
	case StatusUnverified:
		return StatusVerified
	default:
		return StatusNone
	}
}

// RoleSet is a set of role ids.
type RoleSet map[string]struct{}

func NewRoleSet(ids ...string) RoleSet {
	rs := make(RoleSet, len(ids))
	for _, id := range ids {
		rs[id] = struct{}{}
	}
	return rs
}

func (rs RoleSet) Has(id string) bool {
	_, ok := rs[id]
	return ok
}

func (rs RoleSet) Add(id string) {
	rs[id] = struct{}{}
}

func (rs RoleSet) Remove(id string) {
	delete(rs, id)
}

func (rs RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(rs))
	for id := range rs {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (rs RoleSet) Equal(other RoleSet) bool {
	if len(rs) != len(other) {
		return false
	}
	for id := range rs {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// Slice returns the ids sorted.
func (rs RoleSet) Slice() []string {
	out := make([]string, 0, len(rs))
	for id := range rs {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Member mirrors a platform member for the duration of one operation.
type Member struct {
	ID        string
	SpaceID   string
	Tag       string
	CreatedAt time.Time
	Roles     RoleSet
}

// Status derives the member's status from its role markers. Holding both
// markers reports Unverified.
func (m *Member) Status() Status {
	switch {
	case m.Roles.Has(consts.UnverifiedRoleID):
		return StatusUnverified
	case m.Roles.Has(consts.VerifiedRoleID):
		return StatusVerified
	default:
		return StatusNone
	}
}

// Clone returns a deep copy.
func (m *Member) Clone() *Member {
	c := *m
	c.Roles = m.Roles.Clone()
	return &c
}

// Label returns the tag when known, the id otherwise.
func (m *Member) Label() string {
	if m.Tag != "" {
		return m.Tag
	}
	return m.ID
}
