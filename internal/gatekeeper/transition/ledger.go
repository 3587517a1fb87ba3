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

package transition

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	DefaultLedgerTTL = 30 * time.Second
	ledgerCleanup    = time.Minute
)

// SwapLedger remembers base roles the transitioner removed itself, so the
// role-change event echoed back by the platform is not mistaken for a member
// dropping the language.
type SwapLedger struct {
	entries *gocache.Cache
}

func NewSwapLedger(ttl time.Duration) *SwapLedger {
	if ttl <= 0 {
		ttl = DefaultLedgerTTL
	}
	return &SwapLedger{entries: gocache.New(ttl, ledgerCleanup)}
}

func ledgerKey(spaceID, memberID, roleID string) string {
	return spaceID + "/" + memberID + "/" + roleID
}

// Mark records that roleID is about to be removed from the member by a swap.
func (l *SwapLedger) Mark(spaceID, memberID, roleID string) {
	l.entries.SetDefault(ledgerKey(spaceID, memberID, roleID), struct{}{})
}

// Consume reports whether a removal was marked and clears the mark.
func (l *SwapLedger) Consume(spaceID, memberID, roleID string) bool {
	key := ledgerKey(spaceID, memberID, roleID)
	if _, ok := l.entries.Get(key); !ok {
		return false
	}
	l.entries.Delete(key)
	return true
}

// Unmark drops a mark whose removal never happened.
func (l *SwapLedger) Unmark(spaceID, memberID, roleID string) {
	l.entries.Delete(ledgerKey(spaceID, memberID, roleID))
}

func (l *SwapLedger) Len() int {
	return l.entries.ItemCount()
}
