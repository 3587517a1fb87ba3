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

package discord

import (
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/platform"
	"github.com/google/wire"
)

// ProviderSet binds the Discord client to every platform interface it serves.
var ProviderSet = wire.NewSet(
	NewClient,
	NewBot,
	wire.Bind(new(platform.Platform), new(*Client)),
	wire.Bind(new(platform.InviteDirectory), new(*Client)),
	wire.Bind(new(platform.RoleMutator), new(*Client)),
	wire.Bind(new(platform.AuditSink), new(*Client)),
)
