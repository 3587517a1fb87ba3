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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gatekeeper.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	path := writeConf(t, `
[discord]
token = "abc"

[http]
[http.auth]
secretKey = "0123456789abcdef"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.Discord.Token)
	assert.NotEmpty(t, cfg.Discord.LogChannelID)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, "INFO", cfg.Log.Level)
	assert.Equal(t, invitecache.BackendMemory, cfg.Cache.Backend)
	assert.True(t, cfg.Admin.Enable)
	assert.Equal(t, 8080, cfg.Http.Port)
	assert.Equal(t, 24*time.Hour, cfg.Http.Auth.AccessExpire)
	assert.Equal(t, 256, cfg.Engine.MailboxSize)
	assert.Equal(t, 4, cfg.Engine.RefreshConcurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.Engine.PrimeBackoff)
	assert.False(t, cfg.Pprof.Enable)
	assert.Equal(t, "/debug/pprof", cfg.Pprof.Path)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConf(t, `
[log]
level = "debug"

[discord]
token = "abc"
logChannelId = "42"
registerCommands = true
deleteTicketChannel = true

[http]
port = 9000
accessLog = true
[http.auth]
secretKey = "0123456789abcdef"
accessExpire = "2h"

[engine]
mailboxSize = 32
refreshConcurrency = 2
primeAttempts = 5
primeBackoff = "1s"

[cache]
backend = "fastcache"
maxBytes = 1048576

[metrics]
enable = true
host = "0.0.0.0"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "42", cfg.Discord.LogChannelID)
	assert.True(t, cfg.Discord.RegisterCommands)
	assert.True(t, cfg.Discord.DeleteTicketChannel)
	assert.Equal(t, 9000, cfg.Http.Port)
	assert.Equal(t, 2*time.Hour, cfg.Http.Auth.AccessExpire)
	assert.Equal(t, 32, cfg.Engine.MailboxSize)
	assert.Equal(t, 5, cfg.Engine.PrimeAttempts)
	assert.Equal(t, time.Second, cfg.Engine.PrimeBackoff)
	assert.Equal(t, invitecache.BackendFastCache, cfg.Cache.Backend)
	assert.Equal(t, 1048576, cfg.Cache.MaxBytes)
	assert.Equal(t, 9100, cfg.Metrics.Port)
}

func TestLoad_TokenFromEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	path := writeConf(t, `
[admin]
enable = false
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Discord.Token)
	assert.False(t, cfg.Admin.Enable)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	tests := []struct {
		name string
		body string
	}{
		{name: "missing token", body: "[admin]\nenable = false\n"},
		{name: "short secret", body: "[discord]\ntoken = \"x\"\n[http.auth]\nsecretKey = \"short\"\n"},
		{name: "unknown backend", body: "[discord]\ntoken = \"x\"\n[admin]\nenable = false\n[cache]\nbackend = \"redis\"\n"},
		{name: "file log without path", body: "[discord]\ntoken = \"x\"\n[admin]\nenable = false\n[log]\noutput = \"file\"\npath = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConf(t, tt.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestOnChange(t *testing.T) {
	var got []AppConfig
	OnChange(func(c AppConfig) { got = append(got, c) })
	notify(AppConfig{Admin: AdminConfig{Enable: true}})
	require.Len(t, got, 1)
	assert.True(t, got[0].Admin.Enable)
}
