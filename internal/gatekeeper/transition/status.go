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
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/pkg/statemachine"
)

const (
	EventForceUnverify statemachine.Event = "force_unverify"
	EventManualVerify  statemachine.Event = "manual_verify"
)

// statusLifecycle describes the conventional lifecycle of a member's status:
// the gate assigns the first status, admins move between the two afterwards.
// It is only queried, never advanced.
var statusLifecycle = statemachine.New[model.Status]().
	Allow(model.StatusNone, model.StatusVerified, model.StatusUnverified).
	Allow(model.StatusVerified, model.StatusUnverified).
	Allow(model.StatusUnverified, model.StatusVerified, model.StatusUnverified).
	AddEventTransition(model.StatusNone, EventManualVerify, model.StatusVerified).
	AddEventTransition(model.StatusUnverified, EventManualVerify, model.StatusVerified).
	AddEventTransition(model.StatusNone, EventForceUnverify, model.StatusUnverified).
	AddEventTransition(model.StatusVerified, EventForceUnverify, model.StatusUnverified).
	AddEventTransition(model.StatusUnverified, EventForceUnverify, model.StatusUnverified)

// conventional reports whether event is a known path out of status from.
func conventional(from model.Status, event statemachine.Event) bool {
	return statusLifecycle.CanTransitionWithEvent(from, event)
}
