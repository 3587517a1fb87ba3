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

// Package discord connects the gate engine to a Discord bot session.
package discord

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/go-arcade/gatekeeper/pkg/log"
)

// restAPI is the part of *discordgo.Session the client calls.
type restAPI interface {
	GuildInvites(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Invite, error)
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelDelete(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ApplicationCommandBulkOverwrite(appID, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// Client implements the platform interfaces on top of the Discord REST API
// and tracks the guilds the bot is in from gateway events.
type Client struct {
	conf    Config
	api     restAPI
	session *discordgo.Session
	now     func() time.Time

	mu     sync.RWMutex
	guilds map[string]struct{}
}

var (
	_ platform.Platform  = (*Client)(nil)
	_ platform.AuditSink = (*Client)(nil)
)

// NewClient opens no connection; call Bot.Start for that.
func NewClient(conf Config) (*Client, error) {
	conf.SetDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	session, err := discordgo.New("Bot " + conf.Token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildInvites
	session.StateEnabled = true

	c := newClient(conf, session)
	c.session = session
	return c, nil
}

func newClient(conf Config, api restAPI) *Client {
	return &Client{
		conf:   conf,
		api:    api,
		now:    time.Now,
		guilds: make(map[string]struct{}),
	}
}

func (c *Client) trackGuild(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.guilds[guildID] = struct{}{}
}

func (c *Client) untrackGuild(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.guilds, guildID)
}

func (c *Client) Spaces(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.guilds))
	for id := range c.guilds {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (c *Client) FetchInvites(ctx context.Context, spaceID string) ([]model.Invite, error) {
	invites, err := c.api.GuildInvites(spaceID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return toInvites(invites), nil
}

func (c *Client) Member(ctx context.Context, spaceID, memberID string) (*model.Member, error) {
	m, err := c.api.GuildMember(spaceID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("guild %s member %s: %w", spaceID, memberID, platform.ErrMemberNotFound)
		}
		return nil, fmt.Errorf("guild %s member %s: %w", spaceID, memberID, err)
	}
	member := toMember(spaceID, m, c.now())
	if member == nil {
		return nil, fmt.Errorf("guild %s member %s: %w", spaceID, memberID, platform.ErrMemberNotFound)
	}
	return member, nil
}

func (c *Client) AddRole(ctx context.Context, spaceID, memberID, roleID string) error {
	return c.api.GuildMemberRoleAdd(spaceID, memberID, roleID, discordgo.WithContext(ctx))
}

func (c *Client) RemoveRole(ctx context.Context, spaceID, memberID, roleID string) error {
	return c.api.GuildMemberRoleRemove(spaceID, memberID, roleID, discordgo.WithContext(ctx))
}

// Record posts a moderation line to the log channel.
func (c *Client) Record(ctx context.Context, rec model.AuditRecord) error {
	log.Infow("audit",
		"id", rec.ID,
		"action", rec.Action,
		"space", rec.SpaceID,
		"actor", rec.ActorID,
		"target", rec.TargetID,
		"reason", rec.Reason,
		"unconventional", rec.Unconventional,
	)
	if c.conf.LogChannelID == "" {
		return nil
	}
	if _, err := c.api.ChannelMessageSend(c.conf.LogChannelID, auditLine(rec), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("post audit line: %w", err)
	}
	return nil
}

func auditLine(rec model.AuditRecord) string {
	target := rec.TargetTag
	if target == "" {
		target = rec.TargetID
	}
	switch rec.Action {
	case consts.AuditForceUnverify:
		return fmt.Sprintf("<@%s> forced unverified: %s. Reason: %s", rec.ActorID, target, rec.Reason)
	case consts.AuditManualVerify:
		return fmt.Sprintf("<@%s> has verified <@%s> (%s).", rec.ActorID, rec.TargetID, target)
	case consts.AuditAutoVerify:
		return fmt.Sprintf("<@%s> changed automatic verification (%s).", rec.ActorID, rec.Reason)
	default:
		return fmt.Sprintf("<@%s> %s %s", rec.ActorID, rec.Action, target)
	}
}
