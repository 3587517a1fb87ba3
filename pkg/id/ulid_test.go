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

package id

import (
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULID(t *testing.T) {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	raw := NewULID(at)

	parsed, err := ulid.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), ulid.Time(parsed.Time()).UnixMilli())
}

func TestNewULID_Monotonic(t *testing.T) {
	at := time.Now()
	prev := NewULID(at)
	for i := 0; i < 100; i++ {
		next := NewULID(at)
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestGetULID_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		v := GetULID()
		_, dup := seen[v]
		assert.False(t, dup)
		seen[v] = struct{}{}
	}
}
