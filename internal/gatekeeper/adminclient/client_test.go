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

package adminclient

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/attribution"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/gate"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/router"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/transition"
	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/http/jwt"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef"

func newServer(t *testing.T) (*httptest.Server, *platform.Memory) {
	t.Helper()
	plat := platform.NewMemory("g1")
	cache := invitecache.New(plat, invitecache.NewMemoryStore())
	eng := engine.New(engine.Config{}, engine.Deps{
		Cache:        cache,
		Resolver:     attribution.NewResolver(cache),
		Transitioner: transition.New(plat, transition.WithAuditSink(plat)),
		Policy:       gate.NewPolicy(),
		Spaces:       plat,
		Members:      plat,
		Audit:        plat,
	})
	t.Cleanup(eng.Stop)

	conf := &http.Http{Auth: http.Auth{SecretKey: secret}}
	conf.SetDefaults()
	app := router.NewRouter(conf, eng, nil).Router()
	srv := httptest.NewServer(adaptor.FiberApp(app))
	t.Cleanup(srv.Close)
	return srv, plat
}

func token(t *testing.T) string {
	t.Helper()
	tok, err := jwt.GenToken("admin-1", []byte(secret), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestClient_AutoVerify(t *testing.T) {
	srv, _ := newServer(t)
	c := New(srv.URL, token(t))
	ctx := context.Background()

	enabled, err := c.AutoVerify(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	rec, err := c.SetAutoVerify(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, consts.AuditAutoVerify, rec.Action)
	assert.Equal(t, "admin-1", rec.ActorID)

	enabled, err = c.AutoVerify(ctx)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestClient_MemberActions(t *testing.T) {
	srv, plat := newServer(t)
	plat.PutMember(&model.Member{
		SpaceID: "g1",
		ID:      "u1",
		Tag:     "user#0001",
		Roles:   model.NewRoleSet(consts.VerifiedRoleID),
	})
	c := New(srv.URL, token(t))
	ctx := context.Background()

	rec, err := c.ForceUnverify(ctx, "g1", "u1", "spam")
	require.NoError(t, err)
	assert.Equal(t, consts.AuditForceUnverify, rec.Action)
	assert.Equal(t, "spam", rec.Reason)
	assert.True(t, plat.Roles("g1", "u1").Has(consts.UnverifiedRoleID))

	rec, err = c.Verify(ctx, "g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, consts.AuditManualVerify, rec.Action)
	assert.True(t, plat.Roles("g1", "u1").Has(consts.VerifiedRoleID))
}

func TestClient_Errors(t *testing.T) {
	srv, _ := newServer(t)
	ctx := context.Background()

	_, err := New(srv.URL, "").AutoVerify(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.Status)

	_, err = New(srv.URL, token(t)).Verify(ctx, "g1", "missing")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.Status)
	assert.Equal(t, http.MemberNotFound.Code, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "404")
}
