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

// Package transition applies trust decisions to a member's roles and keeps
// language roles consistent with the member's status.
package transition

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/pkg/id"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
)

// Result lists what a transition changed and which mutations failed.
type Result struct {
	Added   []string
	Removed []string
	Errors  []*RoleMutationError
}

// Err joins every mutation failure, nil when all succeeded.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Errors))
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

func (r Result) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}

type Transitioner struct {
	roles   platform.RoleMutator
	audit   platform.AuditSink
	ledger  *SwapLedger
	metrics *metrics.GateMetrics
	now     func() time.Time
}

type Option func(*Transitioner)

func WithAuditSink(sink platform.AuditSink) Option {
	return func(t *Transitioner) { t.audit = sink }
}

func WithLedger(l *SwapLedger) Option {
	return func(t *Transitioner) { t.ledger = l }
}

func WithMetrics(m *metrics.GateMetrics) Option {
	return func(t *Transitioner) { t.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(t *Transitioner) { t.now = now }
}

func New(roles platform.RoleMutator, opts ...Option) *Transitioner {
	t := &Transitioner{
		roles: roles,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ledger == nil {
		t.ledger = NewSwapLedger(DefaultLedgerTTL)
	}
	return t
}

// Apply makes the member hold the decision's target status and not its
// opposite, then swaps language roles to their restricted variants when the
// decision requires it. member.Roles is updated with every mutation that
// succeeded, so applying the same decision again changes nothing.
// Mutations are never rolled back. When the target role cannot be added the
// opposite role is kept, so the member always holds one status role.
func (t *Transitioner) Apply(ctx context.Context, member *model.Member, decision model.TrustDecision) Result {
	var res Result
	target := decision.Target.RoleID()
	if target != "" && !member.Roles.Has(target) {
		t.add(ctx, member, target, &res)
	}
	// the opposite status role stays until the target is actually held
	opposite := decision.Target.Opposite().RoleID()
	if opposite != "" && member.Roles.Has(opposite) && (target == "" || member.Roles.Has(target)) {
		t.remove(ctx, member, opposite, &res)
	}
	if decision.SwapRequired {
		for _, pair := range consts.LanguagePairs {
			if member.Roles.Has(pair.Base) {
				t.swap(ctx, member, pair, &res)
			}
		}
	}
	return res
}

// EnforceSwapOnRoleChange reacts to a role change made outside the gate. A
// base language role gained while Unverified is swapped to its restricted
// variant; a base role dropped takes its restricted variant with it, unless
// the drop was one of our own swaps.
func (t *Transitioner) EnforceSwapOnRoleChange(ctx context.Context, before, after *model.Member) Result {
	var res Result
	if before.Roles.Equal(after.Roles) {
		return res
	}
	unverified := after.Roles.Has(consts.UnverifiedRoleID)
	for _, pair := range consts.LanguagePairs {
		had, has := before.Roles.Has(pair.Base), after.Roles.Has(pair.Base)
		switch {
		case has && !had && unverified:
			t.swap(ctx, after, pair, &res)
		case had && !has:
			if t.ledger.Consume(after.SpaceID, after.ID, pair.Base) {
				continue
			}
			if after.Roles.Has(pair.Restricted) {
				t.remove(ctx, after, pair.Restricted, &res)
			}
		}
	}
	return res
}

// ForceOverride marks the member Unverified regardless of the gate and
// records who did it and why.
func (t *Transitioner) ForceOverride(ctx context.Context, member *model.Member, reason, actorID string) (model.AuditRecord, error) {
	if reason == "" {
		reason = consts.DefaultReason
	}
	from := member.Status()
	usual := conventional(from, EventForceUnverify)
	if !usual {
		log.Warnw("unconventional force-unverify", "member", member.Label(), "from", from)
	}

	res := t.Apply(ctx, member, model.ForcedUnverified)
	rec := t.record(ctx, consts.AuditForceUnverify, member, actorID, reason, !usual)

	log.Infow("member forced unverified",
		"space", member.SpaceID,
		"member", member.Label(),
		"actor", actorID,
		"reason", reason,
		"failures", len(res.Errors),
	)
	return rec, res.Err()
}

// ManualVerify removes every restricted language variant, grants Verified
// and then drops Unverified. Base language roles are not restored.
func (t *Transitioner) ManualVerify(ctx context.Context, member *model.Member, actorID string) (model.AuditRecord, error) {
	from := member.Status()
	usual := conventional(from, EventManualVerify)
	if !usual {
		log.Warnw("unconventional manual verify", "member", member.Label(), "from", from)
	}

	var res Result
	for _, roleID := range consts.RestrictedRoleIDs() {
		if member.Roles.Has(roleID) {
			t.remove(ctx, member, roleID, &res)
		}
	}
	if !member.Roles.Has(consts.VerifiedRoleID) {
		t.add(ctx, member, consts.VerifiedRoleID, &res)
	}
	if member.Roles.Has(consts.UnverifiedRoleID) && member.Roles.Has(consts.VerifiedRoleID) {
		t.remove(ctx, member, consts.UnverifiedRoleID, &res)
	}

	rec := t.record(ctx, consts.AuditManualVerify, member, actorID, "", !usual)
	log.Infow("member manually verified",
		"space", member.SpaceID,
		"member", member.Label(),
		"actor", actorID,
		"failures", len(res.Errors),
	)
	return rec, res.Err()
}

// swap replaces a held base role with its restricted variant. The two calls
// are attempted independently.
func (t *Transitioner) swap(ctx context.Context, member *model.Member, pair consts.LanguagePair, res *Result) {
	t.ledger.Mark(member.SpaceID, member.ID, pair.Base)
	if !t.remove(ctx, member, pair.Base, res) {
		t.ledger.Unmark(member.SpaceID, member.ID, pair.Base)
	}
	if !member.Roles.Has(pair.Restricted) {
		t.add(ctx, member, pair.Restricted, res)
	}
}

func (t *Transitioner) add(ctx context.Context, member *model.Member, roleID string, res *Result) bool {
	if err := t.roles.AddRole(ctx, member.SpaceID, member.ID, roleID); err != nil {
		t.fail(member, roleID, OpAdd, err, res)
		return false
	}
	member.Roles.Add(roleID)
	res.Added = append(res.Added, roleID)
	return true
}

func (t *Transitioner) remove(ctx context.Context, member *model.Member, roleID string, res *Result) bool {
	if err := t.roles.RemoveRole(ctx, member.SpaceID, member.ID, roleID); err != nil {
		t.fail(member, roleID, OpRemove, err, res)
		return false
	}
	member.Roles.Remove(roleID)
	res.Removed = append(res.Removed, roleID)
	return true
}

func (t *Transitioner) fail(member *model.Member, roleID, op string, err error, res *Result) {
	merr := &RoleMutationError{
		SpaceID:  member.SpaceID,
		MemberID: member.ID,
		RoleID:   roleID,
		Op:       op,
		Err:      err,
	}
	res.Errors = append(res.Errors, merr)
	t.metrics.ObserveMutationFailure(op)
	log.Warnw("role mutation failed",
		"space", member.SpaceID,
		"member", member.Label(),
		"role", roleID,
		"op", op,
		"error", err,
	)
}

func (t *Transitioner) record(ctx context.Context, action string, member *model.Member, actorID, reason string, unconventional bool) model.AuditRecord {
	at := t.now()
	rec := model.AuditRecord{
		ID:             id.NewULID(at),
		Action:         action,
		SpaceID:        member.SpaceID,
		ActorID:        actorID,
		TargetID:       member.ID,
		TargetTag:      member.Tag,
		Reason:         reason,
		At:             at,
		Unconventional: unconventional,
	}
	if t.audit != nil {
		if err := t.audit.Record(ctx, rec); err != nil {
			log.Warnw("failed to write audit record", "action", action, "id", rec.ID, "error", err)
		}
	}
	return rec
}
