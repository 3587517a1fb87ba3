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

package model

import (
	"maps"
	"time"
)

// Invite is one invite link as reported by the platform.
type Invite struct {
	Code string
	Uses int
}

// Snapshot maps invite code to cumulative use count for one space.
type Snapshot struct {
	SpaceID    string         `json:"spaceId"`
	Uses       map[string]int `json:"uses"`
	CapturedAt time.Time      `json:"capturedAt"`
}

// NewSnapshot builds a snapshot from an invite listing. Negative counts are
// clamped to zero.
func NewSnapshot(spaceID string, invites []Invite, capturedAt time.Time) Snapshot {
	uses := make(map[string]int, len(invites))
	for _, inv := range invites {
		n := inv.Uses
		if n < 0 {
			n = 0
		}
		uses[inv.Code] = n
	}
	return Snapshot{SpaceID: spaceID, Uses: uses, CapturedAt: capturedAt}
}

// EmptySnapshot is what the cache reports for a space it has never seen.
func EmptySnapshot(spaceID string) Snapshot {
	return Snapshot{SpaceID: spaceID, Uses: map[string]int{}}
}

// IncreasedCodes lists codes whose use count in s exceeds prev. Codes absent
// from prev count as zero.
func (s Snapshot) IncreasedCodes(prev Snapshot) []string {
	var out []string
	for code, uses := range s.Uses {
		if uses > prev.Uses[code] {
			out = append(out, code)
		}
	}
	return out
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Uses = maps.Clone(s.Uses)
	if c.Uses == nil {
		c.Uses = map[string]int{}
	}
	return c
}
