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

// Attribution is the inferred provenance of a join.
type Attribution int

const (
	// AttributionUnknown arises only when the invite fetch failed.
	AttributionUnknown Attribution = iota
	AttributionViaInvite
	AttributionNoInvite
)

func (a Attribution) String() string {
	switch a {
	case AttributionViaInvite:
		return "via_invite"
	case AttributionNoInvite:
		return "no_invite"
	default:
		return "unknown"
	}
}

// TrustDecision is the Trust Gate output.
type TrustDecision struct {
	Target       Status
	SwapRequired bool
}

// ForcedUnverified is the decision applied by an administrative override.
var ForcedUnverified = TrustDecision{Target: StatusUnverified, SwapRequired: true}
