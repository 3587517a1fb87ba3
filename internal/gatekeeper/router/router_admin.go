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
	"errors"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/transition"
	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/http/middleware"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/gofiber/fiber/v2"
)

type autoVerifyReq struct {
	Enabled *bool `json:"enabled"`
}

type forceUnverifyReq struct {
	Reason string `json:"reason"`
}

func (rt *Router) getAutoVerify(c *fiber.Ctx) error {
	return http.Reply(c, fiber.Map{"enabled": rt.Admin.AutoVerify()})
}

func (rt *Router) putAutoVerify(c *fiber.Ctx) error {
	var req autoVerifyReq
	if err := c.BodyParser(&req); err != nil || req.Enabled == nil {
		return http.ReplyErr(c, fiber.StatusBadRequest, http.RequestParameterParsingFailed)
	}
	rec := rt.Admin.ToggleAutoVerify(c.UserContext(), *req.Enabled, middleware.ActorID(c))
	return http.Reply(c, fiber.Map{
		"enabled": *req.Enabled,
		"audit":   rec,
	})
}

func (rt *Router) forceUnverify(c *fiber.Ctx) error {
	var req forceUnverifyReq
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return http.ReplyErr(c, fiber.StatusBadRequest, http.RequestParameterParsingFailed)
		}
	}
	rec, err := rt.Admin.ForceOverride(c.UserContext(), c.Params("space"), c.Params("member"), req.Reason, middleware.ActorID(c))
	return rt.adminResult(c, rec, err)
}

func (rt *Router) verify(c *fiber.Ctx) error {
	rec, err := rt.Admin.ManualVerify(c.UserContext(), c.Params("space"), c.Params("member"), middleware.ActorID(c))
	return rt.adminResult(c, rec, err)
}

func (rt *Router) adminResult(c *fiber.Ctx, rec model.AuditRecord, err error) error {
	var merr *transition.RoleMutationError
	switch {
	case err == nil:
		return http.Reply(c, rec)
	case errors.Is(err, engine.ErrMemberNotFound):
		return http.ReplyErrDetail(c, fiber.StatusNotFound, http.MemberNotFound, engine.Remediation(err))
	case errors.As(err, &merr):
		return http.ReplyErrDetail(c, fiber.StatusBadGateway, http.RoleMutationFailed, fiber.Map{
			"audit": rec,
			"error": err.Error(),
		})
	default:
		log.Errorw("admin action failed", "path", c.Path(), "error", err)
		return http.ReplyErr(c, fiber.StatusInternalServerError, http.InternalError)
	}
}
