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

// Package adminclient talks to the gatekeeper admin HTTP API.
package adminclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

type envelope[T any] struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail T      `json:"detail"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status int    `json:"-"`
	Code   int    `json:"code"`
	Msg    any    `json:"msg"`
	Detail any    `json:"detail,omitempty"`
	Path   string `json:"path,omitempty"`
}

func (e *APIError) Error() string {
	if s, ok := e.Detail.(string); ok && s != "" {
		return fmt.Sprintf("%d %v: %s", e.Status, e.Msg, s)
	}
	return fmt.Sprintf("%d %v", e.Status, e.Msg)
}

type Client struct {
	rest *resty.Client
}

// New returns a client for the server at baseURL authenticating with token.
func New(baseURL, token string) *Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if token != "" {
		rest.SetAuthToken(token)
	}
	return &Client{rest: rest}
}

func (c *Client) AutoVerify(ctx context.Context) (bool, error) {
	var out envelope[struct {
		Enabled bool `json:"enabled"`
	}]
	if err := c.do(ctx, resty.MethodGet, "/api/v1/autoverify", nil, &out); err != nil {
		return false, err
	}
	return out.Detail.Enabled, nil
}

func (c *Client) SetAutoVerify(ctx context.Context, enabled bool) (model.AuditRecord, error) {
	var out envelope[struct {
		Enabled bool              `json:"enabled"`
		Audit   model.AuditRecord `json:"audit"`
	}]
	body := map[string]bool{"enabled": enabled}
	if err := c.do(ctx, resty.MethodPut, "/api/v1/autoverify", body, &out); err != nil {
		return model.AuditRecord{}, err
	}
	return out.Detail.Audit, nil
}

func (c *Client) ForceUnverify(ctx context.Context, spaceID, memberID, reason string) (model.AuditRecord, error) {
	var body any
	if reason != "" {
		body = map[string]string{"reason": reason}
	}
	var out envelope[model.AuditRecord]
	if err := c.do(ctx, resty.MethodPost, memberPath(spaceID, memberID, "force-unverify"), body, &out); err != nil {
		return model.AuditRecord{}, err
	}
	return out.Detail, nil
}

func (c *Client) Verify(ctx context.Context, spaceID, memberID string) (model.AuditRecord, error) {
	var out envelope[model.AuditRecord]
	if err := c.do(ctx, resty.MethodPost, memberPath(spaceID, memberID, "verify"), nil, &out); err != nil {
		return model.AuditRecord{}, err
	}
	return out.Detail, nil
}

func memberPath(spaceID, memberID, action string) string {
	return fmt.Sprintf("/api/v1/spaces/%s/members/%s/%s",
		url.PathEscape(spaceID), url.PathEscape(memberID), action)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	apiErr := new(APIError)
	req := c.rest.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		if apiErr.Msg == nil {
			apiErr.Msg = resp.Status()
		}
		return apiErr
	}
	return nil
}
