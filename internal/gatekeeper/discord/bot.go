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
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/safe"
)

// Bot feeds gateway events into the engine and serves admin interactions.
type Bot struct {
	client *Client
	sub    engine.Subscriber
	admin  engine.Admin
	ctx    context.Context
	remove []func()
}

func NewBot(client *Client, sub engine.Subscriber, admin engine.Admin) *Bot {
	return &Bot{
		client: client,
		sub:    sub,
		admin:  admin,
		ctx:    context.Background(),
	}
}

// Start registers the handlers and opens the gateway connection.
func (b *Bot) Start(ctx context.Context) error {
	s := b.client.session
	if s == nil {
		return errors.New("discord session not initialized")
	}
	b.ctx = ctx
	b.remove = append(b.remove,
		s.AddHandler(b.onReady),
		s.AddHandler(b.onGuildCreate),
		s.AddHandler(b.onGuildDelete),
		s.AddHandler(b.onInviteCreate),
		s.AddHandler(b.onInviteDelete),
		s.AddHandler(b.onMemberAdd),
		s.AddHandler(b.onMemberUpdate),
		s.AddHandler(b.onInteraction),
	)
	if err := s.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	log.Info("discord gateway connected")
	return nil
}

func (b *Bot) Stop() error {
	for _, rm := range b.remove {
		rm()
	}
	b.remove = nil
	if b.client.session == nil {
		return nil
	}
	return b.client.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	safe.Do(func() {
		ids := make([]string, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			b.client.trackGuild(g.ID)
			ids = append(ids, g.ID)
		}
		if b.client.conf.RegisterCommands && r.User != nil {
			b.registerCommands(r.User.ID, ids)
		}
		if err := b.sub.OnReady(b.ctx, ids); err != nil {
			log.Errorw("initial invite refresh failed", "error", err)
		}
	})
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	b.client.trackGuild(g.ID)
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	b.client.untrackGuild(g.ID)
}

func (b *Bot) onInviteCreate(s *discordgo.Session, e *discordgo.InviteCreate) {
	safe.Do(func() {
		if err := b.sub.OnInviteCreated(b.ctx, e.GuildID); err != nil {
			log.Warnw("invite refresh after create failed", "guild", e.GuildID, "error", err)
		}
	})
}

func (b *Bot) onInviteDelete(s *discordgo.Session, e *discordgo.InviteDelete) {
	safe.Do(func() {
		if err := b.sub.OnInviteDeleted(b.ctx, e.GuildID); err != nil {
			log.Warnw("invite refresh after delete failed", "guild", e.GuildID, "error", err)
		}
	})
}

func (b *Bot) onMemberAdd(s *discordgo.Session, e *discordgo.GuildMemberAdd) {
	safe.Do(func() {
		member := toMember("", e.Member, b.client.now())
		if member == nil {
			return
		}
		if err := b.sub.OnMemberJoined(b.ctx, member); err != nil {
			log.Warnw("join handling incomplete", "guild", member.SpaceID, "member", member.Label(), "error", err)
		}
	})
}

// onMemberUpdate needs the cached member from the session state as "before";
// updates for members not in the state are skipped.
func (b *Bot) onMemberUpdate(s *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	safe.Do(func() {
		if e.Member == nil || e.BeforeUpdate == nil {
			return
		}
		now := b.client.now()
		after := toMember(e.GuildID, e.Member, now)
		before := toMember(e.GuildID, e.BeforeUpdate, now)
		if err := b.sub.OnRolesChanged(b.ctx, before, after); err != nil {
			log.Warnw("language role enforcement incomplete", "guild", e.GuildID, "error", err)
		}
	})
}
