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

package http

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	RoleMutationFailed            = failed(5002, "Some role changes failed")

	// Unauthorized 401
	Unauthorized         = failed(4401, "Unauthorized")
	InvalidToken         = failed(4405, "Invalid token")
	TokenBeEmpty         = failed(4406, "Token cannot be empty")
	TokenExpired         = failed(4407, "Token is expired")
	TokenFormatIncorrect = failed(4408, "Token format is incorrect")

	// BadRequest 400
	BadRequest = failed(4000, "Bad request")
	NotFound   = failed(4004, "Not found")

	MemberNotFound = failed(4041, "Member not found")

	InternalError = failed(5000, "Internal error, please contact the administrator")
)

var (
	Success = success(200, "Request Success")
)

// Code pairs an application code with its message. Codes are stable and
// read by the CLI; the HTTP status travels separately.
type Code struct {
	Code int
	Msg  string
}

func failed(code int, msg string) *Code {
	return &Code{Code: code, Msg: msg}
}

func success(code int, msg string) *Code {
	return &Code{Code: code, Msg: msg}
}
