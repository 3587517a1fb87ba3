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
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/bwmarrin/snowflake"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
)

const (
	// discordEpochMs is the first millisecond of 2015, the origin of Discord IDs.
	discordEpochMs = 1420070400000
	timestampShift = 22
)

// creationTime extracts the account creation time from a user ID. Unparsable
// IDs yield fallback, which callers set to now so the account counts as new.
func creationTime(userID string, fallback time.Time) time.Time {
	sf, err := snowflake.ParseString(userID)
	if err != nil || sf.Int64() <= 0 {
		return fallback
	}
	return time.UnixMilli((sf.Int64() >> timestampShift) + discordEpochMs)
}

func toMember(guildID string, m *discordgo.Member, now time.Time) *model.Member {
	if m == nil || m.User == nil {
		return nil
	}
	if m.GuildID != "" {
		guildID = m.GuildID
	}
	return &model.Member{
		ID:        m.User.ID,
		SpaceID:   guildID,
		Tag:       m.User.String(),
		CreatedAt: creationTime(m.User.ID, now),
		Roles:     model.NewRoleSet(m.Roles...),
	}
}

func toInvites(invites []*discordgo.Invite) []model.Invite {
	out := make([]model.Invite, 0, len(invites))
	for _, inv := range invites {
		if inv == nil {
			continue
		}
		out = append(out, model.Invite{Code: inv.Code, Uses: inv.Uses})
	}
	return out
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMember {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}
