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

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/config"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/discord"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/router"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/pprof"
	"github.com/gofiber/fiber/v2"
)

type App struct {
	HttpApp       *fiber.App
	Bot           *discord.Bot
	Engine        *engine.Engine
	MetricsServer *metrics.Server
	PprofServer   *pprof.Server
	Logger        *log.Logger
	AppConf       config.AppConfig
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	bot *discord.Bot,
	eng *engine.Engine,
	metricsServer *metrics.Server,
	pprofServer *pprof.Server,
	gateMetrics *metrics.GateMetrics,
	logger *log.Logger,
	appConf config.AppConfig,
) (*App, func(), error) {
	var httpApp *fiber.App
	if appConf.Admin.Enable {
		httpApp = rt.Router()
	}
	gateMetrics.SetAutoVerify(eng.AutoVerify())

	cleanup := func() {
		if pprofServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := pprofServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop pprof server", "error", err)
			}
		}

		if metricsServer != nil {
			log.Info("Shutting down metrics server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				log.Errorw("Failed to stop metrics server", "error", err)
			}
		}
	}

	app := &App{
		HttpApp:       httpApp,
		Bot:           bot,
		Engine:        eng,
		MetricsServer: metricsServer,
		PprofServer:   pprofServer,
		Logger:        logger,
		AppConf:       appConf,
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), config.AppConfig, error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, config.AppConfig{}, err
	}

	level := app.AppConf.Log.Level
	config.OnChange(func(next config.AppConfig) {
		if next.Log.Level == level {
			return
		}
		if err := log.Init(&next.Log); err != nil {
			log.Warnw("failed to apply log configuration", "error", err)
			return
		}
		level = next.Log.Level
		log.Infow("log level changed", "level", level)
	})

	return app, cleanup, app.AppConf, nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	appConf := app.AppConf

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// start metrics server
	if app.MetricsServer != nil {
		if err := app.MetricsServer.Start(); err != nil {
			log.Errorw("Metrics server failed", "error", err)
		}
	}

	// start pprof server
	if app.PprofServer != nil {
		if err := app.PprofServer.Start(); err != nil {
			log.Errorw("Pprof server failed", "error", err)
		}
	}

	// connect to the gateway before serving admin requests
	if err := app.Bot.Start(ctx); err != nil {
		log.Errorw("Discord bot failed to start", "error", err)
		cleanup()
		log.Sync()
		os.Exit(1)
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	if app.HttpApp != nil {
		go func() {
			addr := appConf.Http.Host + ":" + fmt.Sprintf("%d", appConf.Http.Port)
			log.Infow("HTTP listener started",
				"address", addr,
			)
			if err := app.HttpApp.Listen(addr); err != nil {
				log.Errorw("HTTP listener failed",
					"address", addr,
					"error", err,
				)
			}
		}()
	}

	// wait for exit signal
	sig := <-quit
	log.Infow("Received signal, shutting down gracefully...", "signal", sig)

	// close components in order
	if app.HttpApp != nil {
		timeout := time.Duration(appConf.Http.ShutdownTimeout) * time.Second
		if err := app.HttpApp.ShutdownWithTimeout(timeout); err != nil {
			log.Errorw("HTTP server shutdown error", "error", err)
		} else {
			log.Info("HTTP server shut down gracefully")
		}
	}

	if err := app.Bot.Stop(); err != nil {
		log.Errorw("Discord bot shutdown error", "error", err)
	}
	cancel()

	// stops the engine mailboxes and the debug servers
	cleanup()

	log.Info("Server shutdown complete")
	log.Sync()
}
