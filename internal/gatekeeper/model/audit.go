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

import "time"

// AuditRecord documents an administrative action.
type AuditRecord struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	SpaceID   string    `json:"spaceId"`
	ActorID   string    `json:"actorId"`
	TargetID  string    `json:"targetId,omitempty"`
	TargetTag string    `json:"targetTag,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
	// Unconventional marks an override applied outside the usual status
	// lifecycle, such as verifying a member who is already Verified.
	Unconventional bool `json:"unconventional,omitempty"`
}
