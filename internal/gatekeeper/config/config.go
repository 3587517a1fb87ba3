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
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/discord"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/invitecache"
	"github.com/go-arcade/gatekeeper/pkg/http"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/metrics"
	"github.com/go-arcade/gatekeeper/pkg/pprof"
	"github.com/spf13/viper"
)

// AppConfig holds all configuration settings
type AppConfig struct {
	Log     log.Conf                `mapstructure:"log"`
	Discord discord.Config          `mapstructure:"discord"`
	Http    http.Http               `mapstructure:"http"`
	Admin   AdminConfig             `mapstructure:"admin"`
	Engine  engine.Config           `mapstructure:"engine"`
	Cache   invitecache.StoreConfig `mapstructure:"cache"`
	Metrics metrics.MetricsConfig   `mapstructure:"metrics"`
	Pprof   pprof.PprofConfig       `mapstructure:"pprof"`
}

// AdminConfig controls the admin HTTP API.
type AdminConfig struct {
	Enable bool `mapstructure:"enable"`
}

const envPrefix = "GATEKEEPER"

var (
	mu        sync.RWMutex
	listeners []func(AppConfig)
)

// OnChange registers fn to run with the reloaded config after the file changes.
func OnChange(fn func(AppConfig)) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, fn)
}

func notify(cfg AppConfig) {
	mu.RLock()
	fns := append([]func(AppConfig){}, listeners...)
	mu.RUnlock()
	for _, fn := range fns {
		fn(cfg)
	}
}

// NewConf loads the TOML file at path and watches it for changes.
func NewConf(path string) (AppConfig, error) {
	v, cfg, err := load(path)
	if err != nil {
		return cfg, err
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("The configuration changes, re-analyze the configuration file", "file", e.Name)
		next, err := decode(v)
		if err != nil {
			log.Warnw("ignoring invalid configuration change", "file", e.Name, "error", err)
			return
		}
		notify(next)
	})

	log.Infow("config file loaded",
		"path", path,
		"cache.backend", cfg.Cache.Backend,
		"http.port", cfg.Http.Port,
		"admin.enable", cfg.Admin.Enable,
	)
	return cfg, nil
}

// Load reads path once without watching it.
func Load(path string) (AppConfig, error) {
	_, cfg, err := load(path)
	return cfg, err
}

func load(path string) (*viper.Viper, AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, AppConfig{}, fmt.Errorf("failed to read configuration file: %w", err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, cfg, err
	}
	return v, cfg, nil
}

func decode(v *viper.Viper) (AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setViperDefaults(v *viper.Viper) {
	defaults := log.SetDefaults()
	v.SetDefault("log.output", defaults.Output)
	v.SetDefault("log.path", defaults.Path)
	v.SetDefault("log.filename", defaults.Filename)
	v.SetDefault("log.level", defaults.Level)
	v.SetDefault("log.keepHours", defaults.KeepHours)
	v.SetDefault("log.rotateSize", defaults.RotateSize)
	v.SetDefault("log.rotateNum", defaults.RotateNum)
	v.SetDefault("cache.backend", invitecache.BackendMemory)
	v.SetDefault("admin.enable", true)
	v.SetDefault("discord.registerCommands", false)
}

// SetDefaults fills what the file left out.
func (c *AppConfig) SetDefaults() {
	c.Discord.SetDefaults()
	c.Http.SetDefaults()
	c.Engine.SetDefaults()
	if c.Cache.Backend == "" {
		c.Cache.Backend = invitecache.BackendMemory
	}
	if c.Metrics.Enable && c.Metrics.Port == 0 {
		c.Metrics.Port = 9100
	}
	c.Pprof.SetDefaults()
}

func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	if err := c.Discord.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("discord: %w", err))
	}
	if c.Admin.Enable {
		if err := c.Http.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	switch c.Cache.Backend {
	case invitecache.BackendMemory, invitecache.BackendFastCache:
	default:
		errs = append(errs, fmt.Errorf("cache: unknown backend %q", c.Cache.Backend))
	}
	return errors.Join(errs...)
}
