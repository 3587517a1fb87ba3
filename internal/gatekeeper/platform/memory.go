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

package platform

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
)

// Memory is an in-process Platform used by tests and the dry-run mode. It
// records every role mutation and can be told to fail specific calls.
type Memory struct {
	mu        sync.Mutex
	spaces    []string
	invites   map[string][]model.Invite
	members   map[string]*model.Member
	inviteErr map[string]error
	mutErr    map[string]error
	calls     []RoleCall
	audits    []model.AuditRecord
}

// RoleCall is one recorded role mutation.
type RoleCall struct {
	Op       string
	SpaceID  string
	MemberID string
	RoleID   string
}

func NewMemory(spaces ...string) *Memory {
	return &Memory{
		spaces:    spaces,
		invites:   make(map[string][]model.Invite),
		members:   make(map[string]*model.Member),
		inviteErr: make(map[string]error),
		mutErr:    make(map[string]error),
	}
}

func memberKey(spaceID, memberID string) string {
	return spaceID + "/" + memberID
}

func mutKey(op, memberID, roleID string) string {
	return op + ":" + memberID + ":" + roleID
}

// SetInvites replaces the invite listing of a space.
func (m *Memory) SetInvites(spaceID string, invites ...model.Invite) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites[spaceID] = slices.Clone(invites)
}

// FailInvites makes FetchInvites fail for spaceID; nil clears it.
func (m *Memory) FailInvites(spaceID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.inviteErr, spaceID)
		return
	}
	m.inviteErr[spaceID] = err
}

// FailMutation makes op ("add" or "remove") of roleID on memberID fail.
func (m *Memory) FailMutation(op, memberID, roleID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutErr[mutKey(op, memberID, roleID)] = err
}

// PutMember stores a copy of member.
func (m *Memory) PutMember(member *model.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[memberKey(member.SpaceID, member.ID)] = member.Clone()
}

// Roles returns a copy of the member's current roles, nil when absent.
func (m *Memory) Roles(spaceID, memberID string) model.RoleSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberKey(spaceID, memberID)]
	if !ok {
		return nil
	}
	return mem.Roles.Clone()
}

// Calls returns the recorded role mutations.
func (m *Memory) Calls() []RoleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Audits returns the recorded audit records.
func (m *Memory) Audits() []model.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.audits)
}

func (m *Memory) Spaces(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.spaces), nil
}

func (m *Memory) FetchInvites(ctx context.Context, spaceID string) ([]model.Invite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.inviteErr[spaceID]; err != nil {
		return nil, err
	}
	return slices.Clone(m.invites[spaceID]), nil
}

func (m *Memory) Member(ctx context.Context, spaceID, memberID string) (*model.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem, ok := m.members[memberKey(spaceID, memberID)]
	if !ok {
		return nil, fmt.Errorf("space %s member %s: %w", spaceID, memberID, ErrMemberNotFound)
	}
	return mem.Clone(), nil
}

func (m *Memory) AddRole(ctx context.Context, spaceID, memberID, roleID string) error {
	return m.mutate("add", spaceID, memberID, roleID)
}

func (m *Memory) RemoveRole(ctx context.Context, spaceID, memberID, roleID string) error {
	return m.mutate("remove", spaceID, memberID, roleID)
}

func (m *Memory) mutate(op, spaceID, memberID, roleID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, RoleCall{Op: op, SpaceID: spaceID, MemberID: memberID, RoleID: roleID})
	if err := m.mutErr[mutKey(op, memberID, roleID)]; err != nil {
		return err
	}
	mem, ok := m.members[memberKey(spaceID, memberID)]
	if !ok {
		return fmt.Errorf("space %s member %s: %w", spaceID, memberID, ErrMemberNotFound)
	}
	if op == "add" {
		mem.Roles.Add(roleID)
	} else {
		mem.Roles.Remove(roleID)
	}
	return nil
}

func (m *Memory) Record(ctx context.Context, rec model.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audits = append(m.audits, rec)
	return nil
}
