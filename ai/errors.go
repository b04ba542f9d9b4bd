// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// ErrRateLimited indicates a model service rejected a call due to quota
// or rate limits. Implementations wrap this error when they can detect
// the condition structurally.
var ErrRateLimited = errors.New("model service rate limited")

// rateLimitMarkers are substrings that identify quota exhaustion in error
// text from OpenAI-compatible services and cloud model endpoints.
var rateLimitMarkers = []string{
	"429",
	"rate limit",
	"resource exhausted",
	"resource_exhausted",
	"quota",
}

// IsRateLimit reports whether an error from a model service call signals
// a rate-limit or quota condition rather than a generic failure.
// It recognizes both wrapped ErrRateLimited values and the error text
// emitted by HTTP clients for 429-class responses.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
