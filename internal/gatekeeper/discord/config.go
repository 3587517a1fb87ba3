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

package discord

import (
	"errors"
	"os"
)

// Config holds the bot connection settings.
type Config struct {
	Token               string `mapstructure:"token"`
	LogChannelID        string `mapstructure:"logChannelId"`
	RegisterCommands    bool   `mapstructure:"registerCommands"`
	DeleteTicketChannel bool   `mapstructure:"deleteTicketChannel"`
}

const tokenEnv = "DISCORD_TOKEN"

func (c *Config) SetDefaults() {
	if c.Token == "" {
		c.Token = os.Getenv(tokenEnv)
	}
	if c.LogChannelID == "" {
		c.LogChannelID = "1242967139472773271"
	}
}

func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("discord token is required (discord.token or " + tokenEnv + ")")
	}
	return nil
}
