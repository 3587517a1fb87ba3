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

package actor

import (
	"context"
	"errors"
	"sync"
)

// ErrStopped is returned when work is submitted after StopAll.
var ErrStopped = errors.New("actor system stopped")

const defaultMailboxSize = 256

// System owns one serial actor per key. Jobs sharing a key never overlap;
// jobs for different keys run concurrently.
type System struct {
	mu          sync.RWMutex
	actors      map[string]*keyedActor
	mailboxSize int
	stopped     bool
}

func NewSystem(mailboxSize int) *System {
	if mailboxSize <= 0 {
		mailboxSize = defaultMailboxSize
	}
	return &System{
		actors:      make(map[string]*keyedActor),
		mailboxSize: mailboxSize,
	}
}

func (s *System) getOrCreate(key string) (*keyedActor, error) {
	s.mu.RLock()
	if s.stopped {
		s.mu.RUnlock()
		return nil, ErrStopped
	}
	a := s.actors[key]
	s.mu.RUnlock()
	if a != nil {
		return a, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil, ErrStopped
	}
	if a = s.actors[key]; a != nil {
		return a, nil
	}
	a = newKeyedActor(key, s.mailboxSize)
	s.actors[key] = a
	return a, nil
}

// Tell enqueues job for key without waiting for it to run. It blocks only
// while the key's mailbox is full and returns ErrStopped once the actor is
// shutting down.
func (s *System) Tell(key string, job Job) error {
	a, err := s.getOrCreate(key)
	if err != nil {
		return err
	}
	return a.send(context.Background(), envelope{job: job})
}

// Ask enqueues job for key and waits for its result. A done ctx stops the
// wait, not the job.
func (s *System) Ask(ctx context.Context, key string, job Job) error {
	a, err := s.getOrCreate(key)
	if err != nil {
		return err
	}
	return a.ask(ctx, job)
}

// Len returns the number of live actors.
func (s *System) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.actors)
}

// StopAll drains and stops every actor. Later submissions fail with ErrStopped.
func (s *System) StopAll() {
	s.mu.Lock()
	s.stopped = true
	actors := s.actors
	s.actors = make(map[string]*keyedActor)
	s.mu.Unlock()

	for _, a := range actors {
		a.stop()
	}
}
