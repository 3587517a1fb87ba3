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

package engine

import (
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/attribution"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/gate"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/transition"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideEngine,
	wire.Bind(new(Subscriber), new(*Engine)),
	wire.Bind(new(Admin), new(*Engine)),
)

func ProvideEngine(
	conf Config,
	cache *invitecache.Cache,
	resolver *attribution.Resolver,
	transitioner *transition.Transitioner,
	policy *gate.Policy,
	plat platform.Platform,
	sink platform.AuditSink,
	m *metrics.GateMetrics,
) (*Engine, func()) {
	e := New(conf, Deps{
		Cache:        cache,
		Resolver:     resolver,
		Transitioner: transitioner,
		Policy:       policy,
		Spaces:       plat,
		Members:      plat,
		Audit:        sink,
		Metrics:      m,
	})
	return e, e.Stop
}
