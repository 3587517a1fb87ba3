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

package invitecache

import (
	"fmt"
	"sync"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
)

const (
	BackendMemory    = "memory"
	BackendFastCache = "fastcache"

	defaultMaxBytes = 32 * 1024 * 1024
)

// Store holds one snapshot per space. Implementations are process-local.
type Store interface {
	Load(spaceID string) (model.Snapshot, bool)
	Save(snap model.Snapshot) error
	Delete(spaceID string)
}

// StoreConfig selects and sizes the snapshot store.
type StoreConfig struct {
	Backend  string `mapstructure:"backend"`
	MaxBytes int    `mapstructure:"maxBytes"`
}

// NewStore builds the store named by conf.Backend.
func NewStore(conf StoreConfig) (Store, error) {
	switch conf.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFastCache:
		return NewFastStore(conf.MaxBytes), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", conf.Backend)
	}
}

// MemoryStore keeps snapshots in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]model.Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]model.Snapshot)}
}

func (s *MemoryStore) Load(spaceID string) (model.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[spaceID]
	if !ok {
		return model.Snapshot{}, false
	}
	return snap.Clone(), true
}

func (s *MemoryStore) Save(snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.SpaceID] = snap.Clone()
	return nil
}

func (s *MemoryStore) Delete(spaceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, spaceID)
}

// FastStore keeps sonic-encoded snapshots in a fastcache instance. Large
// spaces can exceed the 64KB single-entry limit, so the Big variants are used.
type FastStore struct {
	cache *fastcache.Cache
}

func NewFastStore(maxBytes int) *FastStore {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &FastStore{cache: fastcache.New(maxBytes)}
}

func snapshotKey(spaceID string) []byte {
	return []byte("invites:" + spaceID)
}

func (s *FastStore) Load(spaceID string) (model.Snapshot, bool) {
	raw := s.cache.GetBig(nil, snapshotKey(spaceID))
	if len(raw) == 0 {
		return model.Snapshot{}, false
	}
	var snap model.Snapshot
	if err := sonic.Unmarshal(raw, &snap); err != nil {
		return model.Snapshot{}, false
	}
	if snap.Uses == nil {
		snap.Uses = map[string]int{}
	}
	return snap, true
}

func (s *FastStore) Save(snap model.Snapshot) error {
	raw, err := sonic.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot for space %s: %w", snap.SpaceID, err)
	}
	s.cache.SetBig(snapshotKey(snap.SpaceID), raw)
	return nil
}

func (s *FastStore) Delete(spaceID string) {
	s.cache.Del(snapshotKey(spaceID))
}

// Reset drops every snapshot.
func (s *FastStore) Reset() {
	s.cache.Reset()
}
