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

package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/http/jwt"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/gofiber/fiber/v2"
	goJwt "github.com/golang-jwt/jwt/v5"
)

const claimsKey = "claims"

// AuthorizationMiddleware requires a valid "Bearer <token>" header and stores
// the claims in the request locals.
func AuthorizationMiddleware(secretKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.ReplyErr(c, fiber.StatusUnauthorized, http.TokenBeEmpty)
		}

		parts := strings.SplitN(aToken, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return http.ReplyErr(c, fiber.StatusUnauthorized, http.TokenFormatIncorrect)
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.ReplyErr(c, fiber.StatusUnauthorized, http.TokenExpired)
			}
			log.Warnw("rejected admin token", "path", c.Path(), "error", err)
			return http.ReplyErr(c, fiber.StatusUnauthorized, http.InvalidToken)
		}

		c.Locals(claimsKey, claims)
		c.Locals(http.ActorLocal, claims.ActorID())
		return c.Next()
	}
}

// ActorID returns the subject of the authenticated request, "" if none.
func ActorID(c *fiber.Ctx) string {
	claims, ok := c.Locals(claimsKey).(*jwt.AuthClaims)
	if !ok {
		return ""
	}
	return claims.ActorID()
}
