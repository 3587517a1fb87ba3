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
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateMetrics_Record(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewGateMetrics(registry)

	m.ObserveJoin("no_invite", "UNVERIFIED")
	m.ObserveJoin("no_invite", "UNVERIFIED")
	m.ObserveFetchFailure()
	m.ObserveMutationFailure("add")
	m.ObserveAdminAction("force_unverify")
	m.SetAutoVerify(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.JoinsTotal.WithLabelValues("no_invite", "UNVERIFIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InviteFetchFailuresTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoleMutationFailuresTotal.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AdminActionsTotal.WithLabelValues("force_unverify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AutoVerifyEnabled))

	m.SetAutoVerify(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AutoVerifyEnabled))
}

func TestGateMetrics_NilIsNoop(t *testing.T) {
	var m *GateMetrics
	assert.NotPanics(t, func() {
		m.ObserveJoin("via_invite", "VERIFIED")
		m.ObserveFetchFailure()
		m.ObserveMutationFailure("remove")
		m.ObserveAdminAction("manual_verify")
		m.SetAutoVerify(true)
	})
}

func TestServer_StartDisabled(t *testing.T) {
	s := NewServer(MetricsConfig{Enable: false})
	assert.NoError(t, s.Start())
	assert.NoError(t, s.Stop(t.Context()))
}

func TestServer_StartServesRegistry(t *testing.T) {
	s := NewServer(MetricsConfig{Enable: true, Host: "127.0.0.1", Port: 0})
	NewGateMetrics(s.GetRegistry()).ObserveFetchFailure()

	require.NoError(t, s.Start())
	defer func() { _ = s.Stop(context.Background()) }()

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "gatekeeper_invite_fetch_failures_total 1")
}
