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

package config

import (
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/discord"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/pprof"
	"github.com/google/wire"
)

// ProviderSet exposes each config section to the injector.
var ProviderSet = wire.NewSet(
	ProvideLogConfig,
	ProvideDiscordConfig,
	ProvideHttpConfig,
	ProvideEngineConfig,
	ProvideCacheConfig,
	ProvideMetricsConfig,
	ProvidePprofConfig,
)

func ProvideLogConfig(cfg AppConfig) *log.Conf {
	return &cfg.Log
}

func ProvideDiscordConfig(cfg AppConfig) discord.Config {
	return cfg.Discord
}

func ProvideHttpConfig(cfg AppConfig) *http.Http {
	return &cfg.Http
}

func ProvideEngineConfig(cfg AppConfig) engine.Config {
	return cfg.Engine
}

func ProvideCacheConfig(cfg AppConfig) invitecache.StoreConfig {
	return cfg.Cache
}

func ProvideMetricsConfig(cfg AppConfig) metrics.MetricsConfig {
	return cfg.Metrics
}

func ProvidePprofConfig(cfg AppConfig) pprof.PprofConfig {
	return cfg.Pprof
}
