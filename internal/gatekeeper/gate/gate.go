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

// Package gate holds the trust decision for new members and the process-wide
// auto-verify policy.
package gate

import (
	"sync/atomic"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewPolicy)

// Decide maps account age, attribution and the auto-verify policy to a
// target status. Unknown attribution is treated like NoInvite.
func Decide(accountAgeDays float64, attribution model.Attribution, autoVerify bool) model.TrustDecision {
	if accountAgeDays >= consts.MinAccountAgeDays || attribution == model.AttributionViaInvite {
		target := model.StatusUnverified
		if autoVerify {
			target = model.StatusVerified
		}
		return model.TrustDecision{
			Target:       target,
			SwapRequired: target == model.StatusUnverified,
		}
	}
	return model.TrustDecision{Target: model.StatusUnverified, SwapRequired: true}
}

// AccountAgeDays returns the fractional number of days between createdAt and now.
func AccountAgeDays(createdAt, now time.Time) float64 {
	return now.Sub(createdAt).Hours() / 24
}

// Policy is the auto-verify switch. It starts enabled and is not persisted.
type Policy struct {
	autoVerify atomic.Bool
}

func NewPolicy() *Policy {
	p := &Policy{}
	p.autoVerify.Store(true)
	return p
}

func (p *Policy) AutoVerify() bool {
	return p.autoVerify.Load()
}

// SetAutoVerify stores enabled and reports the previous value.
func (p *Policy) SetAutoVerify(enabled bool) bool {
	return p.autoVerify.Swap(enabled)
}
