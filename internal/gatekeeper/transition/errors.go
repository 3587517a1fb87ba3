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
	"fmt"
)

const (
	OpAdd    = "add"
	OpRemove = "remove"
)

// RoleMutationError reports one failed role add or remove.
type RoleMutationError struct {
	SpaceID  string
	MemberID string
	RoleID   string
	Op       string
	Err      error
}

func (e *RoleMutationError) Error() string {
	return fmt.Sprintf("%s role %s for member %s in space %s: %v", e.Op, e.RoleID, e.MemberID, e.SpaceID, e.Err)
}

func (e *RoleMutationError) Unwrap() error {
	return e.Err
}
