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

package router

import (
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/http/middleware"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewRouter)

type Router struct {
	Http    *http.Http
	Admin   engine.Admin
	Metrics *metrics.Server
}

func NewRouter(httpConf *http.Http, admin engine.Admin, metricsServer *metrics.Server) *Router {
	return &Router{
		Http:    httpConf,
		Admin:   admin,
		Metrics: metricsServer,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Gatekeeper",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
	})

	app.Use(
		fiberrecover.New(),
		cors.New(),
		http.AccessLogFormat(rt.Http, log.GetLogger()),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	if rt.Http.ExposeMetrics && rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	api := app.Group("/api/v1", middleware.AuthorizationMiddleware(rt.Http.Auth.SecretKey))
	rt.adminGroup(api)

	// must stay after every route
	app.Use(func(c *fiber.Ctx) error {
		return http.ReplyErr(c, fiber.StatusNotFound, http.NotFound)
	})

	return app
}

func (rt *Router) adminGroup(r fiber.Router) {
	r.Get("/autoverify", rt.getAutoVerify)
	r.Put("/autoverify", rt.putAutoVerify)

	members := r.Group("/spaces/:space/members/:member")
	members.Post("/force-unverify", rt.forceUnverify)
	members.Post("/verify", rt.verify)
}
