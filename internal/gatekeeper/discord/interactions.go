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
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/consts"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/engine"
	"github.com/go-arcade/gatekeeper/pkg/log"
	"github.com/go-arcade/gatekeeper/pkg/safe"
)

const (
	cmdToggleVerification = "toggleverification"
	cmdForceUnverify      = "forceunverify"
	verifyButtonPrefix    = "verify-"

	msgNoPermission = "You do not have permission to use this command."
	msgNoMember     = "No member specified."
)

var adminPermission int64 = discordgo.PermissionAdministrator

func commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     cmdToggleVerification,
			Description:              "Enable or disable automatic verification of new members",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "Assign the verified role to new members",
					Required:    true,
				},
			},
		},
		{
			Name:                     cmdForceUnverify,
			Description:              "Mark a member unverified and restrict their language roles",
			DefaultMemberPermissions: &adminPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "member",
					Description: "Member to unverify",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "reason",
					Description: "Reason recorded in the log channel",
				},
			},
		},
	}
}

func (b *Bot) registerCommands(appID string, guildIDs []string) {
	for _, guildID := range guildIDs {
		if _, err := b.client.api.ApplicationCommandBulkOverwrite(appID, guildID, commands()); err != nil {
			log.Warnw("failed to register commands", "guild", guildID, "error", err)
		}
	}
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	safe.Do(func() {
		b.handleInteraction(i.Interaction)
	})
}

func (b *Bot) handleInteraction(i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case cmdToggleVerification:
			b.toggleVerification(i, data)
		case cmdForceUnverify:
			b.forceUnverify(i, data)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if memberID, ok := strings.CutPrefix(customID, verifyButtonPrefix); ok && memberID != "" {
			b.verifyButton(i, memberID)
		}
	}
}

func isAdmin(i *discordgo.Interaction) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func canManageRoles(i *discordgo.Interaction) bool {
	return i.Member != nil && i.Member.Permissions&(discordgo.PermissionAdministrator|discordgo.PermissionManageRoles) != 0
}

func actorID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

func options(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		out[opt.Name] = opt
	}
	return out
}

func (b *Bot) toggleVerification(i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	if !isAdmin(i) {
		b.reply(i, msgNoPermission, true)
		return
	}
	opt, ok := options(data)["enabled"]
	if !ok {
		b.reply(i, "Missing option: enabled.", true)
		return
	}
	enabled := opt.BoolValue()
	b.admin.ToggleAutoVerify(b.ctx, enabled, actorID(i))

	if enabled {
		b.reply(i, "Automatic verification is now enabled. New users will be assigned the verified role.", false)
		return
	}
	b.reply(i, "Automatic verification is now disabled. New users will be assigned the unverified role.", false)
}

func (b *Bot) forceUnverify(i *discordgo.Interaction, data discordgo.ApplicationCommandInteractionData) {
	if !isAdmin(i) {
		b.reply(i, msgNoPermission, true)
		return
	}
	opts := options(data)
	target, ok := opts["member"]
	if !ok {
		b.reply(i, msgNoMember, true)
		return
	}
	user := target.UserValue(nil)
	if user == nil || user.ID == "" {
		b.reply(i, msgNoMember, true)
		return
	}
	reason := ""
	if opt, ok := opts["reason"]; ok {
		reason = opt.StringValue()
	}

	b.deferReply(i)
	rec, err := b.admin.ForceOverride(b.ctx, i.GuildID, user.ID, reason, actorID(i))
	switch {
	case errors.Is(err, engine.ErrMemberNotFound):
		b.edit(i, "Member not found in this guild.")
	case err != nil:
		log.Warnw("force unverify incomplete", "guild", i.GuildID, "member", user.ID, "error", err)
		b.edit(i, "An error occurred while trying to mark the member unverified.")
	default:
		b.edit(i, fmt.Sprintf("%s has been marked unverified.", labelOf(rec.TargetTag, rec.TargetID)))
	}
}

func (b *Bot) verifyButton(i *discordgo.Interaction, memberID string) {
	if !canManageRoles(i) {
		b.reply(i, msgNoPermission, true)
		return
	}
	rec, err := b.admin.ManualVerify(b.ctx, i.GuildID, memberID, actorID(i))
	switch {
	case errors.Is(err, engine.ErrMemberNotFound):
		b.reply(i, consts.MemberNotFoundRemediation, true)
		return
	case err != nil:
		log.Warnw("manual verify incomplete", "guild", i.GuildID, "member", memberID, "error", err)
		b.reply(i, "There was an error removing the roles.", true)
		return
	}
	b.reply(i, fmt.Sprintf("%s has been verified.", labelOf(rec.TargetTag, rec.TargetID)), true)

	if b.client.conf.DeleteTicketChannel && i.ChannelID != "" {
		if _, err := b.client.api.ChannelDelete(i.ChannelID); err != nil {
			log.Warnw("failed to delete ticket channel", "channel", i.ChannelID, "error", err)
		}
	}
}

func labelOf(tag, id string) string {
	if tag != "" {
		return tag
	}
	return "<@" + id + ">"
}

func (b *Bot) reply(i *discordgo.Interaction, content string, ephemeral bool) {
	data := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	err := b.client.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		log.Warnw("interaction reply failed", "interaction", i.ID, "error", err)
	}
}

// deferReply acknowledges the interaction so slow role calls do not expire it.
func (b *Bot) deferReply(i *discordgo.Interaction) {
	err := b.client.api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Warnw("interaction defer failed", "interaction", i.ID, "error", err)
	}
}

func (b *Bot) edit(i *discordgo.Interaction, content string) {
	if _, err := b.client.api.InteractionResponseEdit(i, &discordgo.WebhookEdit{Content: &content}); err != nil {
		log.Warnw("interaction edit failed", "interaction", i.ID, "error", err)
	}
}
