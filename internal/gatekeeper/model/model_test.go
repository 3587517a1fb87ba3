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
	"testing"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/stretchr/testify/assert"
)

func TestSnapshot_IncreasedCodes(t *testing.T) {
	prev := NewSnapshot("g", []Invite{{Code: "ABC", Uses: 5}}, time.Now())

	tests := []struct {
		name  string
		fresh []Invite
		want  []string
	}{
		{name: "unchanged", fresh: []Invite{{Code: "ABC", Uses: 5}}, want: nil},
		{name: "increased", fresh: []Invite{{Code: "ABC", Uses: 6}, {Code: "DEF", Uses: 0}}, want: []string{"ABC"}},
		{name: "new code with uses", fresh: []Invite{{Code: "ABC", Uses: 5}, {Code: "NEW", Uses: 1}}, want: []string{"NEW"}},
		{name: "decreased or deleted", fresh: []Invite{{Code: "ABC", Uses: 2}}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fresh := NewSnapshot("g", tt.fresh, time.Now())
			assert.ElementsMatch(t, tt.want, fresh.IncreasedCodes(prev))
		})
	}
}

func TestNewSnapshot_ClampsNegativeUses(t *testing.T) {
	s := NewSnapshot("g", []Invite{{Code: "X", Uses: -3}}, time.Now())
	assert.Equal(t, 0, s.Uses["X"])
}

func TestMember_Status(t *testing.T) {
	tests := []struct {
		name  string
		roles RoleSet
		want  Status
	}{
		{name: "neither", roles: NewRoleSet(), want: StatusNone},
		{name: "verified", roles: NewRoleSet(consts.VerifiedRoleID), want: StatusVerified},
		{name: "unverified", roles: NewRoleSet(consts.UnverifiedRoleID), want: StatusUnverified},
		{name: "both", roles: NewRoleSet(consts.VerifiedRoleID, consts.UnverifiedRoleID), want: StatusUnverified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Member{ID: "1", Roles: tt.roles}
			assert.Equal(t, tt.want, m.Status())
		})
	}
}

func TestRoleSet(t *testing.T) {
	rs := NewRoleSet("b", "a")
	clone := rs.Clone()
	clone.Add("c")
	clone.Remove("a")

	assert.Equal(t, []string{"a", "b"}, rs.Slice())
	assert.Equal(t, []string{"b", "c"}, clone.Slice())
	assert.True(t, rs.Equal(NewRoleSet("a", "b")))
	assert.False(t, rs.Equal(clone))
}

func TestStatus_RoleIDAndOpposite(t *testing.T) {
	assert.Equal(t, consts.VerifiedRoleID, StatusVerified.RoleID())
	assert.Equal(t, consts.UnverifiedRoleID, StatusUnverified.RoleID())
	assert.Equal(t, StatusUnverified, StatusVerified.Opposite())
	assert.Equal(t, StatusNone, StatusNone.Opposite())
}
