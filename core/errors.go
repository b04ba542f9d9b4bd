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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidCriteria indicates a SearchCriteria failed validation.
	ErrInvalidCriteria = errors.New("invalid search criteria")

	// ErrEmptyQuery indicates the query string is empty after trimming.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidMethod indicates an unknown SearchMethod value.
	ErrInvalidMethod = errors.New("invalid search method")

	// ErrInvalidLimit indicates a non-positive result limit.
	ErrInvalidLimit = errors.New("result limit must be positive")

	// ErrInvalidProject indicates a Project failed validation.
	ErrInvalidProject = errors.New("invalid project")

	// ErrEmptyProjectName indicates the project Name field is empty.
	ErrEmptyProjectName = errors.New("project name cannot be empty")

	// ErrInvalidProjectStatus indicates an unknown ProjectStatus value.
	ErrInvalidProjectStatus = errors.New("invalid project status")

	// ErrInvalidAnalysis indicates an AnalysisRecord failed validation.
	ErrInvalidAnalysis = errors.New("invalid analysis record")

	// ErrEmptyProfileURL indicates the ProfileURL field is empty.
	ErrEmptyProfileURL = errors.New("profile URL cannot be empty")
)
