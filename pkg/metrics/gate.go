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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GateMetrics holds the gatekeeper collectors. A nil *GateMetrics is valid
// and records nothing.
type GateMetrics struct {
	JoinsTotal                *prometheus.CounterVec
	InviteFetchFailuresTotal  prometheus.Counter
	RoleMutationFailuresTotal *prometheus.CounterVec
	AdminActionsTotal         *prometheus.CounterVec
	AutoVerifyEnabled         prometheus.Gauge
}

// NewGateMetrics creates the collectors and registers them on registry.
func NewGateMetrics(registry prometheus.Registerer) *GateMetrics {
	m := &GateMetrics{
		JoinsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_joins_total",
				Help: "Member joins processed, by attribution and resulting status",
			},
			[]string{"attribution", "status"},
		),
		InviteFetchFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gatekeeper_invite_fetch_failures_total",
				Help: "Invite listing fetches that failed",
			},
		),
		RoleMutationFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_role_mutation_failures_total",
				Help: "Role add/remove calls that failed",
			},
			[]string{"op"},
		),
		AdminActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_admin_actions_total",
				Help: "Administrative actions performed",
			},
			[]string{"action"},
		),
		AutoVerifyEnabled: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "gatekeeper_autoverify_enabled",
				Help: "1 when automatic verification is enabled",
			},
		),
	}
	if registry != nil {
		registry.MustRegister(
			m.JoinsTotal,
			m.InviteFetchFailuresTotal,
			m.RoleMutationFailuresTotal,
			m.AdminActionsTotal,
			m.AutoVerifyEnabled,
		)
	}
	return m
}

func (m *GateMetrics) ObserveJoin(attribution, status string) {
	if m == nil {
		return
	}
	m.JoinsTotal.WithLabelValues(attribution, status).Inc()
}

func (m *GateMetrics) ObserveFetchFailure() {
	if m == nil {
		return
	}
	m.InviteFetchFailuresTotal.Inc()
}

func (m *GateMetrics) ObserveMutationFailure(op string) {
	if m == nil {
		return
	}
	m.RoleMutationFailuresTotal.WithLabelValues(op).Inc()
}

func (m *GateMetrics) ObserveAdminAction(action string) {
	if m == nil {
		return
	}
	m.AdminActionsTotal.WithLabelValues(action).Inc()
}

func (m *GateMetrics) SetAutoVerify(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.AutoVerifyEnabled.Set(1)
	} else {
		m.AutoVerifyEnabled.Set(0)
	}
}
