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


package warehouse

import "errors"

var (
	// ErrUnavailable indicates the warehouse connection cannot be established.
	ErrUnavailable = errors.New("warehouse unavailable")

	// ErrClosed indicates the warehouse has been closed.
	ErrClosed = errors.New("warehouse is closed")

	// ErrInvalidVector indicates a query vector with the wrong dimension.
	ErrInvalidVector = errors.New("invalid query vector")

	// ErrInvalidQuery indicates invalid query parameters.
	ErrInvalidQuery = errors.New("invalid query parameters")
)
