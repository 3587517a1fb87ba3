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
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every admin API answer. A success carries Success
// and the payload in Detail; a failure carries its Code, the request path
// and, when the caller has something actionable, a Detail.
type Envelope struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail any    `json:"detail,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Reply writes detail with HTTP 200 and the Success code.
func Reply(c *fiber.Ctx, detail any) error {
	return c.JSON(Envelope{
		Code:   Success.Code,
		Msg:    Success.Msg,
		Detail: detail,
	})
}

// ReplyErr writes code with the given HTTP status.
func ReplyErr(c *fiber.Ctx, status int, code *Code) error {
	return ReplyErrDetail(c, status, code, nil)
}

// ReplyErrDetail is ReplyErr with a payload, such as a remediation hint or
// the list of failed role mutations.
func ReplyErrDetail(c *fiber.Ctx, status int, code *Code, detail any) error {
	return c.Status(status).JSON(Envelope{
		Code:   code.Code,
		Msg:    code.Msg,
		Detail: detail,
		Path:   c.Path(),
	})
}
