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

package consts

import "time"

// Status roles.
const (
	VerifiedRoleID   = "1254576308843970593"
	UnverifiedRoleID = "830119466967760957"
)

// MinAccountAgeDays is the account age at which attribution stops mattering.
const MinAccountAgeDays = 90

// MinAccountAge is MinAccountAgeDays as a duration.
const MinAccountAge = MinAccountAgeDays * 24 * time.Hour

// LanguagePair binds a full-access language role to its restricted "-v" variant.
type LanguagePair struct {
	Name       string
	Base       string
	Restricted string
}

// LanguagePairs is the fixed bijection of language roles.
var LanguagePairs = []LanguagePair{
	{Name: "Spanish", Base: "1242912525243387965", Restricted: "1242967391177015428"},
	{Name: "Italian", Base: "1242912483501670400", Restricted: "1242967518562488392"},
	{Name: "English", Base: "1242912446738464778", Restricted: "1242967468335435777"},
	{Name: "Japanese", Base: "1242912415570595891", Restricted: "1242967312349266021"},
	{Name: "French", Base: "1242912381441675294", Restricted: "1242967590385614890"},
	{Name: "German", Base: "1242912264244428800", Restricted: "1242967426006646856"},
}

// RestrictedRoleIDs returns every restricted variant role id.
func RestrictedRoleIDs() []string {
	out := make([]string, 0, len(LanguagePairs))
	for _, p := range LanguagePairs {
		out = append(out, p.Restricted)
	}
	return out
}

// PairByName finds a language pair by its display name.
func PairByName(name string) (LanguagePair, bool) {
	for _, p := range LanguagePairs {
		if p.Name == name {
			return p, true
		}
	}
	return LanguagePair{}, false
}
