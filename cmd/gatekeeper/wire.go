//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/attribution"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/bootstrap"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/config"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/discord"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/gate"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/router"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/transition"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/pprof"
	"github.com/google/wire"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.NewConf,
		config.ProviderSet,
		// 日志层（依赖 config）
		log.ProviderSet,
		// 指标层（依赖 config）
		metrics.ProviderSet,
		pprof.ProviderSet,
		// Discord 客户端（依赖 config）
		discord.ProviderSet,
		// 邀请缓存与归因
		invitecache.ProviderSet,
		attribution.ProviderSet,
		// 准入策略与角色变更
		gate.ProviderSet,
		transition.ProviderSet,
		engine.ProviderSet,
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
