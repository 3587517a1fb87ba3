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

package transition

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	spanish = consts.LanguagePairs[0]
	english = consts.LanguagePairs[2]
	german  = consts.LanguagePairs[5]
)

func newMember(p *platform.Memory, id string, roles ...string) *model.Member {
	m := &model.Member{
		ID:        id,
		SpaceID:   "g1",
		Tag:       "user#" + id,
		CreatedAt: time.Now().AddDate(-1, 0, 0),
		Roles:     model.NewRoleSet(roles...),
	}
	p.PutMember(m)
	return m
}

// assertStatusInvariants checks that exactly one status role is held and,
// while Unverified, that no base language role is held.
func assertStatusInvariants(t *testing.T, roles model.RoleSet) {
	t.Helper()
	assert.False(t, roles.Has(consts.VerifiedRoleID) && roles.Has(consts.UnverifiedRoleID),
		"member holds both status roles")
	assert.True(t, roles.Has(consts.VerifiedRoleID) || roles.Has(consts.UnverifiedRoleID),
		"member holds neither status role")
	if roles.Has(consts.UnverifiedRoleID) {
		for _, pair := range consts.LanguagePairs {
			assert.False(t, roles.Has(pair.Base), "unverified member holds base %s", pair.Name)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name     string
		roles    []string
		decision model.TrustDecision
		want     []string
	}{
		{
			name:     "verified on fresh member",
			decision: model.TrustDecision{Target: model.StatusVerified},
			want:     []string{consts.VerifiedRoleID},
		},
		{
			name:     "verified keeps base language roles",
			roles:    []string{spanish.Base},
			decision: model.TrustDecision{Target: model.StatusVerified},
			want:     []string{consts.VerifiedRoleID, spanish.Base},
		},
		{
			name:     "unverified swaps languages",
			roles:    []string{spanish.Base, english.Base},
			decision: model.ForcedUnverified,
			want:     []string{consts.UnverifiedRoleID, spanish.Restricted, english.Restricted},
		},
		{
			name:     "unverified replaces verified",
			roles:    []string{consts.VerifiedRoleID, german.Base},
			decision: model.ForcedUnverified,
			want:     []string{consts.UnverifiedRoleID, german.Restricted},
		},
		{
			name:     "unverified without swap leaves languages",
			roles:    []string{german.Base},
			decision: model.TrustDecision{Target: model.StatusUnverified},
			want:     []string{consts.UnverifiedRoleID, german.Base},
		},
		{
			name:     "restricted variant already held",
			roles:    []string{spanish.Base, spanish.Restricted},
			decision: model.ForcedUnverified,
			want:     []string{consts.UnverifiedRoleID, spanish.Restricted},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platform.NewMemory("g1")
			m := newMember(p, "1", tt.roles...)
			tr := New(p)

			res := tr.Apply(context.Background(), m, tt.decision)
			require.NoError(t, res.Err())

			assert.ElementsMatch(t, tt.want, p.Roles("g1", "1").Slice())
			assert.True(t, m.Roles.Equal(p.Roles("g1", "1")))
			if tt.decision.SwapRequired {
				assertStatusInvariants(t, p.Roles("g1", "1"))
			}
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	decisions := []model.TrustDecision{
		{Target: model.StatusVerified},
		model.ForcedUnverified,
	}
	for _, d := range decisions {
		t.Run(string(d.Target), func(t *testing.T) {
			p := platform.NewMemory("g1")
			m := newMember(p, "1", spanish.Base, consts.VerifiedRoleID)
			tr := New(p)

			tr.Apply(context.Background(), m, d)
			first := p.Roles("g1", "1")
			calls := len(p.Calls())

			res := tr.Apply(context.Background(), m, d)
			assert.False(t, res.Changed())
			assert.True(t, first.Equal(p.Roles("g1", "1")))
			assert.Len(t, p.Calls(), calls)
		})
	}
}

func TestApply_AddsTargetBeforeRemovingOpposite(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.UnverifiedRoleID)

	New(p).Apply(context.Background(), m, model.TrustDecision{Target: model.StatusVerified})

	calls := p.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, platform.RoleCall{Op: OpAdd, SpaceID: "g1", MemberID: "1", RoleID: consts.VerifiedRoleID}, calls[0])
	assert.Equal(t, platform.RoleCall{Op: OpRemove, SpaceID: "g1", MemberID: "1", RoleID: consts.UnverifiedRoleID}, calls[1])
}

func TestApply_PairFailureDoesNotStopOthers(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", spanish.Base, english.Base)
	cause := errors.New("missing permissions")
	p.FailMutation(OpAdd, "1", spanish.Restricted, cause)

	registry := prometheus.NewRegistry()
	gm := metrics.NewGateMetrics(registry)
	res := New(p, WithMetrics(gm)).Apply(context.Background(), m, model.ForcedUnverified)

	require.Len(t, res.Errors, 1)
	merr := res.Errors[0]
	assert.Equal(t, spanish.Restricted, merr.RoleID)
	assert.Equal(t, OpAdd, merr.Op)
	assert.ErrorIs(t, res.Err(), cause)

	var target *RoleMutationError
	assert.ErrorAs(t, res.Err(), &target)

	roles := p.Roles("g1", "1")
	assert.True(t, roles.Has(english.Restricted))
	assert.False(t, roles.Has(english.Base))
	assert.False(t, roles.Has(spanish.Base), "base removal is not rolled back")
	assert.True(t, roles.Has(consts.UnverifiedRoleID))
	assert.Equal(t, 1.0, testutil.ToFloat64(gm.RoleMutationFailuresTotal.WithLabelValues(OpAdd)))
}

func TestEnforceSwapOnRoleChange(t *testing.T) {
	tests := []struct {
		name   string
		before []string
		after  []string
		want   []string
	}{
		{
			name:   "unverified member picks a language",
			before: []string{consts.UnverifiedRoleID},
			after:  []string{consts.UnverifiedRoleID, spanish.Base},
			want:   []string{consts.UnverifiedRoleID, spanish.Restricted},
		},
		{
			name:   "verified member picks a language",
			before: []string{consts.VerifiedRoleID},
			after:  []string{consts.VerifiedRoleID, spanish.Base},
			want:   []string{consts.VerifiedRoleID, spanish.Base},
		},
		{
			name:   "language dropped takes variant along",
			before: []string{consts.VerifiedRoleID, german.Base, german.Restricted},
			after:  []string{consts.VerifiedRoleID, german.Restricted},
			want:   []string{consts.VerifiedRoleID},
		},
		{
			name:   "unrelated role change",
			before: []string{consts.VerifiedRoleID},
			after:  []string{consts.VerifiedRoleID, "999"},
			want:   []string{consts.VerifiedRoleID, "999"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platform.NewMemory("g1")
			before := newMember(p, "1", tt.before...)
			after := newMember(p, "1", tt.after...)

			res := New(p).EnforceSwapOnRoleChange(context.Background(), before, after)
			require.NoError(t, res.Err())
			assert.ElementsMatch(t, tt.want, p.Roles("g1", "1").Slice())
		})
	}
}

func TestEnforceSwapOnRoleChange_NoChange(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.UnverifiedRoleID, spanish.Base)

	res := New(p).EnforceSwapOnRoleChange(context.Background(), m.Clone(), m.Clone())
	assert.False(t, res.Changed())
	assert.Empty(t, p.Calls())
}

func TestEnforceSwapOnRoleChange_IgnoresOwnSwapEcho(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", spanish.Base)
	tr := New(p)

	before := m.Clone()
	tr.Apply(context.Background(), m, model.ForcedUnverified)
	require.True(t, p.Roles("g1", "1").Has(spanish.Restricted))

	// the platform reports the base removal made by the swap
	after := before.Clone()
	after.Roles.Remove(spanish.Base)
	after.Roles.Add(consts.UnverifiedRoleID)
	after.Roles.Add(spanish.Restricted)

	res := tr.EnforceSwapOnRoleChange(context.Background(), before, after)
	assert.False(t, res.Changed())
	assert.True(t, p.Roles("g1", "1").Has(spanish.Restricted))
	assert.Zero(t, tr.ledger.Len())

	// a later removal by the member is honoured
	again := after.Clone()
	again.Roles.Add(spanish.Base)
	gone := again.Clone()
	gone.Roles.Remove(spanish.Base)
	tr.EnforceSwapOnRoleChange(context.Background(), again, gone)
	assert.False(t, p.Roles("g1", "1").Has(spanish.Restricted))
}

// Manual verification clears restrictions but does not restore the base
// language roles.
func TestManualVerify(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.UnverifiedRoleID, spanish.Restricted, german.Restricted, "999")
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tr := New(p, WithAuditSink(p), WithClock(func() time.Time { return at }))

	rec, err := tr.ManualVerify(context.Background(), m, "admin")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{consts.VerifiedRoleID, "999"}, p.Roles("g1", "1").Slice())
	assert.Equal(t, consts.AuditManualVerify, rec.Action)
	assert.Equal(t, "admin", rec.ActorID)
	assert.Equal(t, "1", rec.TargetID)
	assert.Equal(t, at, rec.At)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.Unconventional)
	assert.Equal(t, []model.AuditRecord{rec}, p.Audits())
}

func TestManualVerify_FailedGrantKeepsUnverified(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.UnverifiedRoleID, spanish.Restricted)
	p.FailMutation(OpAdd, "1", consts.VerifiedRoleID, errors.New("boom"))

	_, err := New(p, WithAuditSink(p)).ManualVerify(context.Background(), m, "admin")
	require.Error(t, err)
	assert.ElementsMatch(t, []string{consts.UnverifiedRoleID}, p.Roles("g1", "1").Slice())
	assertStatusInvariants(t, p.Roles("g1", "1"))
}

func TestManualVerify_AlreadyVerified(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.VerifiedRoleID)

	rec, err := New(p).ManualVerify(context.Background(), m, "admin")
	require.NoError(t, err)
	assert.Empty(t, p.Calls())
	assert.True(t, rec.Unconventional)
}

func TestForceOverride(t *testing.T) {
	tests := []struct {
		name       string
		reason     string
		wantReason string
	}{
		{name: "with reason", reason: "spam", wantReason: "spam"},
		{name: "empty reason", reason: "", wantReason: consts.DefaultReason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platform.NewMemory("g1")
			m := newMember(p, "1", consts.VerifiedRoleID, english.Base)
			tr := New(p, WithAuditSink(p))

			rec, err := tr.ForceOverride(context.Background(), m, tt.reason, "admin")
			require.NoError(t, err)

			assert.Equal(t, tt.wantReason, rec.Reason)
			assert.Equal(t, consts.AuditForceUnverify, rec.Action)
			assert.Equal(t, "user#1", rec.TargetTag)
			assert.ElementsMatch(t, []string{consts.UnverifiedRoleID, english.Restricted}, p.Roles("g1", "1").Slice())
			assertStatusInvariants(t, p.Roles("g1", "1"))
			require.Len(t, p.Audits(), 1)
		})
	}
}

func TestForceOverride_ReportsMutationFailure(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.VerifiedRoleID, english.Base)
	p.FailMutation(OpAdd, "1", consts.UnverifiedRoleID, errors.New("boom"))

	rec, err := New(p, WithAuditSink(p)).ForceOverride(context.Background(), m, "x", "admin")
	var merr *RoleMutationError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, consts.UnverifiedRoleID, merr.RoleID)
	assert.NotEmpty(t, rec.ID)

	// Verified is kept because Unverified could not be added; the swap still runs.
	got := p.Roles("g1", "1")
	assert.ElementsMatch(t, []string{consts.VerifiedRoleID, english.Restricted}, got.Slice())
	assert.True(t, m.Roles.Equal(got))
	assertStatusInvariants(t, got)
}

func TestApply_FailedTargetKeepsOpposite(t *testing.T) {
	p := platform.NewMemory("g1")
	m := newMember(p, "1", consts.UnverifiedRoleID)
	p.FailMutation(OpAdd, "1", consts.VerifiedRoleID, errors.New("boom"))

	res := New(p).Apply(context.Background(), m, model.TrustDecision{Target: model.StatusVerified})
	require.Error(t, res.Err())
	assert.Empty(t, res.Removed)
	assert.ElementsMatch(t, []string{consts.UnverifiedRoleID}, p.Roles("g1", "1").Slice())
	assertStatusInvariants(t, p.Roles("g1", "1"))
}

func TestConventional(t *testing.T) {
	assert.True(t, conventional(model.StatusUnverified, EventManualVerify))
	assert.True(t, conventional(model.StatusNone, EventManualVerify))
	assert.False(t, conventional(model.StatusVerified, EventManualVerify))
	assert.True(t, conventional(model.StatusVerified, EventForceUnverify))
	assert.True(t, conventional(model.StatusUnverified, EventForceUnverify))
	assert.Equal(t, model.StatusNone, statusLifecycle.Current())
}

func TestSwapLedger(t *testing.T) {
	l := NewSwapLedger(time.Minute)
	assert.False(t, l.Consume("g", "m", "r"))

	l.Mark("g", "m", "r")
	assert.Equal(t, 1, l.Len())
	assert.True(t, l.Consume("g", "m", "r"))
	assert.False(t, l.Consume("g", "m", "r"))

	l.Mark("g", "m", "r")
	l.Unmark("g", "m", "r")
	assert.False(t, l.Consume("g", "m", "r"))
}
