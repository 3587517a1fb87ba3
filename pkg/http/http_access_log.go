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

package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ActorLocal is the fiber locals key holding the authenticated actor ID.
const ActorLocal = "actorId"

var quietPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

// AccessLogFormat logs one line per request through sugar. Probes are
// skipped; rejected requests log at warn and failed ones at error.
func AccessLogFormat(conf *Http, sugar *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if conf != nil && !conf.AccessLog {
			return c.Next()
		}
		if _, ok := quietPaths[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", status,
			"ip", c.IP(),
			"latency", time.Since(start).String(),
		}
		if actor, ok := c.Locals(ActorLocal).(string); ok && actor != "" {
			fields = append(fields, "actor", actor)
		}

		switch {
		case err != nil:
			sugar.Errorw("admin request failed", append(fields, "error", err)...)
		case status >= fiber.StatusInternalServerError:
			sugar.Errorw("admin request failed", fields...)
		case status >= fiber.StatusBadRequest:
			sugar.Warnw("admin request rejected", fields...)
		default:
			sugar.Infow("admin request", fields...)
		}
		return err
	}
}
