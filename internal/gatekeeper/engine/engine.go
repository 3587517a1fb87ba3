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

// Package engine wires the invite cache, attribution, trust gate and role
// transitions behind the subscriber and admin surfaces. Work for one space
// runs on a single serial worker; spaces are independent.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/attribution"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/gate"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/transition"
	"github.com/go-arcade/gatekeeper/internal/pkg/actor"
	"github.com/go-arcade/gatekeeper/pkg/id"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/retry"
	"golang.org/x/sync/errgroup"
)

// ErrMemberNotFound is returned by admin operations whose target is not in
// the space. No roles are touched.
var ErrMemberNotFound = platform.ErrMemberNotFound

// Remediation returns the text shown to an admin for err, or "" when there
// is no manual fix to suggest.
func Remediation(err error) string {
	if errors.Is(err, ErrMemberNotFound) {
		return consts.MemberNotFoundRemediation
	}
	return ""
}

type Config struct {
	MailboxSize        int `mapstructure:"mailboxSize"`
	RefreshConcurrency int `mapstructure:"refreshConcurrency"`
	// PrimeAttempts bounds the invite fetches per space on ready. One attempt,
	// the default, means a failed fetch is not reattempted.
	PrimeAttempts int           `mapstructure:"primeAttempts"`
	PrimeBackoff  time.Duration `mapstructure:"primeBackoff"`
}

func (c *Config) SetDefaults() {
	if c.MailboxSize <= 0 {
		c.MailboxSize = 256
	}
	if c.RefreshConcurrency <= 0 {
		c.RefreshConcurrency = 4
	}
	if c.PrimeAttempts <= 0 {
		c.PrimeAttempts = 1
	}
	if c.PrimeBackoff <= 0 {
		c.PrimeBackoff = 500 * time.Millisecond
	}
}

type Engine struct {
	conf         Config
	cache        *invitecache.Cache
	resolver     *attribution.Resolver
	transitioner *transition.Transitioner
	policy       *gate.Policy
	spaces       platform.SpaceDirectory
	members      platform.MemberDirectory
	audit        platform.AuditSink
	workers      *actor.System
	metrics      *metrics.GateMetrics
	now          func() time.Time
}

// Deps groups the collaborators of an Engine.
type Deps struct {
	Cache        *invitecache.Cache
	Resolver     *attribution.Resolver
	Transitioner *transition.Transitioner
	Policy       *gate.Policy
	Spaces       platform.SpaceDirectory
	Members      platform.MemberDirectory
	Audit        platform.AuditSink
	Metrics      *metrics.GateMetrics
	Now          func() time.Time
}

func New(conf Config, deps Deps) *Engine {
	conf.SetDefaults()
	e := &Engine{
		conf:         conf,
		cache:        deps.Cache,
		resolver:     deps.Resolver,
		transitioner: deps.Transitioner,
		policy:       deps.Policy,
		spaces:       deps.Spaces,
		members:      deps.Members,
		audit:        deps.Audit,
		workers:      actor.NewSystem(conf.MailboxSize),
		metrics:      deps.Metrics,
		now:          deps.Now,
	}
	if e.policy == nil {
		e.policy = gate.NewPolicy()
	}
	if e.now == nil {
		e.now = time.Now
	}
	e.metrics.SetAutoVerify(e.policy.AutoVerify())
	return e
}

// Stop drains queued work and rejects anything submitted afterwards.
func (e *Engine) Stop() {
	e.workers.StopAll()
}

// onSpace runs job on the space's worker and waits for it.
func (e *Engine) onSpace(ctx context.Context, spaceID string, job func() error) error {
	return e.workers.Ask(ctx, spaceID, job)
}

func (e *Engine) OnReady(ctx context.Context, spaceIDs []string) error {
	if len(spaceIDs) == 0 && e.spaces != nil {
		ids, err := e.spaces.Spaces(ctx)
		if err != nil {
			return fmt.Errorf("list spaces: %w", err)
		}
		spaceIDs = ids
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.conf.RefreshConcurrency)
	for _, spaceID := range spaceIDs {
		g.Go(func() error {
			err := retry.Do(gctx, func(ctx context.Context) error {
				return e.refresh(ctx, spaceID)
			},
				retry.WithMaxAttempts(e.conf.PrimeAttempts),
				retry.WithBackoff(retry.Exponential(e.conf.PrimeBackoff, 8*e.conf.PrimeBackoff)),
				retry.WithRetryIf(isFetchError),
			)
			if isFetchError(err) {
				// one unreadable space must not hold back the others
				log.Warnw("giving up on invite snapshot", "space", spaceID, "attempts", e.conf.PrimeAttempts, "error", err)
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	log.Infow("invite snapshots primed", "spaces", len(spaceIDs))
	return nil
}

func isFetchError(err error) bool {
	var fe *invitecache.FetchError
	return errors.As(err, &fe)
}

func (e *Engine) OnInviteCreated(ctx context.Context, spaceID string) error {
	return e.refresh(ctx, spaceID)
}

func (e *Engine) OnInviteDeleted(ctx context.Context, spaceID string) error {
	return e.refresh(ctx, spaceID)
}

func (e *Engine) refresh(ctx context.Context, spaceID string) error {
	return e.onSpace(ctx, spaceID, func() error {
		return e.cache.Refresh(ctx, spaceID)
	})
}

// OnMemberJoined resolves attribution for every join, old accounts included,
// so the snapshot never lags behind an unattributed use.
func (e *Engine) OnMemberJoined(ctx context.Context, member *model.Member) error {
	return e.onSpace(ctx, member.SpaceID, func() error {
		attr := e.resolver.Resolve(ctx, member.SpaceID)
		ageDays := gate.AccountAgeDays(member.CreatedAt, e.now())
		decision := gate.Decide(ageDays, attr, e.policy.AutoVerify())

		res := e.transitioner.Apply(ctx, member, decision)
		e.metrics.ObserveJoin(attr.String(), string(decision.Target))
		log.Infow("member gated",
			"space", member.SpaceID,
			"member", member.Label(),
			"accountAgeDays", fmt.Sprintf("%.1f", ageDays),
			"attribution", attr.String(),
			"status", decision.Target,
			"swap", decision.SwapRequired,
			"failures", len(res.Errors),
		)
		return res.Err()
	})
}

func (e *Engine) OnRolesChanged(ctx context.Context, before, after *model.Member) error {
	if before == nil || after == nil {
		return nil
	}
	return e.onSpace(ctx, after.SpaceID, func() error {
		res := e.transitioner.EnforceSwapOnRoleChange(ctx, before, after)
		if res.Changed() {
			log.Debugw("language roles adjusted",
				"space", after.SpaceID,
				"member", after.Label(),
				"added", res.Added,
				"removed", res.Removed,
			)
		}
		return res.Err()
	})
}

func (e *Engine) ForceOverride(ctx context.Context, spaceID, targetID, reason, actorID string) (model.AuditRecord, error) {
	var rec model.AuditRecord
	err := e.onSpace(ctx, spaceID, func() error {
		member, err := e.lookup(ctx, spaceID, targetID)
		if err != nil {
			return err
		}
		e.metrics.ObserveAdminAction(consts.AuditForceUnverify)
		rec, err = e.transitioner.ForceOverride(ctx, member, reason, actorID)
		return err
	})
	return rec, err
}

func (e *Engine) ManualVerify(ctx context.Context, spaceID, targetID, actorID string) (model.AuditRecord, error) {
	var rec model.AuditRecord
	err := e.onSpace(ctx, spaceID, func() error {
		member, err := e.lookup(ctx, spaceID, targetID)
		if err != nil {
			return err
		}
		e.metrics.ObserveAdminAction(consts.AuditManualVerify)
		rec, err = e.transitioner.ManualVerify(ctx, member, actorID)
		return err
	})
	return rec, err
}

func (e *Engine) lookup(ctx context.Context, spaceID, memberID string) (*model.Member, error) {
	member, err := e.members.Member(ctx, spaceID, memberID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			log.Warnw("admin target not found", "space", spaceID, "member", memberID)
		}
		return nil, fmt.Errorf("lookup member: %w", err)
	}
	return member, nil
}

func (e *Engine) AutoVerify() bool {
	return e.policy.AutoVerify()
}

// SetAutoVerify switches the policy and returns the previous value.
func (e *Engine) SetAutoVerify(enabled bool) bool {
	prev := e.policy.SetAutoVerify(enabled)
	e.metrics.SetAutoVerify(enabled)
	log.Infow("auto-verify updated", "enabled", enabled, "previous", prev)
	return prev
}

// ToggleAutoVerify is SetAutoVerify on behalf of an admin, with an audit record.
func (e *Engine) ToggleAutoVerify(ctx context.Context, enabled bool, actorID string) model.AuditRecord {
	e.SetAutoVerify(enabled)
	e.metrics.ObserveAdminAction(consts.AuditAutoVerify)

	at := e.now()
	rec := model.AuditRecord{
		ID:      id.NewULID(at),
		Action:  consts.AuditAutoVerify,
		ActorID: actorID,
		Reason:  fmt.Sprintf("enabled=%t", enabled),
		At:      at,
	}
	if e.audit != nil {
		if err := e.audit.Record(ctx, rec); err != nil {
			log.Warnw("failed to write audit record", "action", rec.Action, "error", err)
		}
	}
	return rec
}
