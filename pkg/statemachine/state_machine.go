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

package statemachine

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// Event names the cause of a transition.
type Event string

// TransitionHook is triggered after a state transition is accepted.
type TransitionHook[T comparable] func(from, to T, event Event)

// TransitionRecord records one attempted transition.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Event     Event
	Timestamp time.Time
	Error     error
}

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// StateMachine is a small generic finite state machine with plain and
// event-driven transitions, hooks and bounded history. It is safe for
// concurrent use.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T

	validTransitions map[T][]T
	eventTransitions map[transitionKey[T]]T

	history        []TransitionRecord[T]
	maxHistorySize int

	onTransition []TransitionHook[T]
}

// New creates a new StateMachine instance.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		eventTransitions: make(map[transitionKey[T]]T),
		maxHistorySize:   32,
	}
}

// NewWithState creates a new StateMachine positioned at state.
func NewWithState[T comparable](state T) *StateMachine[T] {
	sm := New[T]()
	sm.currentState = state
	return sm
}

// Allow registers valid plain transitions from a source state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// AddEventTransition maps (from, event) to a single target state.
func (sm *StateMachine[T]) AddEventTransition(from T, event Event, to T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.eventTransitions[transitionKey[T]{From: from, Event: event}] = to
	if !slices.Contains(sm.validTransitions[from], to) {
		sm.validTransitions[from] = append(sm.validTransitions[from], to)
	}
	return sm
}

// CanTransition reports whether from -> to is registered.
func (sm *StateMachine[T]) CanTransition(from, to T) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return slices.Contains(sm.validTransitions[from], to)
}

// CanTransitionWithEvent reports whether event is defined in state from.
func (sm *StateMachine[T]) CanTransitionWithEvent(from T, event Event) bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	_, ok := sm.eventTransitions[transitionKey[T]{From: from, Event: event}]
	return ok
}

// Current returns the current state.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Is checks if the current state matches state.
func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// OnTransition registers a hook called after every accepted transition.
func (sm *StateMachine[T]) OnTransition(h TransitionHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onTransition = append(sm.onTransition, h)
	return sm
}

// History returns a copy of the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]TransitionRecord[T], len(sm.history))
	copy(out, sm.history)
	return out
}

// TransitionTo moves from the current state to to, tagging the record with event.
func (sm *StateMachine[T]) TransitionTo(to T, event Event) error {
	sm.mu.Lock()
	from := sm.currentState
	var err error
	if !slices.Contains(sm.validTransitions[from], to) {
		err = fmt.Errorf("invalid transition: %v → %v", from, to)
	} else {
		sm.currentState = to
	}
	sm.record(from, to, event, err)
	hooks := slices.Clone(sm.onTransition)
	sm.mu.Unlock()

	if err != nil {
		return err
	}
	for _, h := range hooks {
		h(from, to, event)
	}
	return nil
}

// TriggerEvent looks up the target for event in the current state and moves there.
func (sm *StateMachine[T]) TriggerEvent(event Event) error {
	sm.mu.RLock()
	current := sm.currentState
	to, ok := sm.eventTransitions[transitionKey[T]{From: current, Event: event}]
	sm.mu.RUnlock()

	if !ok {
		sm.mu.Lock()
		err := fmt.Errorf("no transition defined for event %v in state %v", event, current)
		sm.record(current, current, event, err)
		sm.mu.Unlock()
		return err
	}
	return sm.TransitionTo(to, event)
}

// record appends to history; caller holds sm.mu.
func (sm *StateMachine[T]) record(from, to T, event Event, err error) {
	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Event:     event,
		Timestamp: time.Now(),
		Error:     err,
	})
	if len(sm.history) > sm.maxHistorySize {
		sm.history = sm.history[len(sm.history)-sm.maxHistorySize:]
	}
}
