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

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit is used when a request does not specify a result limit.
	DefaultLimit = 10
	// MaxLimit caps the number of results a single request may ask for.
	MaxLimit = 100
)

// ValidateCriteria validates a SearchCriteria according to domain rules
// and normalizes it in place.
//
// Validation rules:
//   - Query must be non-empty after trimming
//   - Method must be keyword or semantic (empty defaults to keyword)
//   - Limit must be positive; zero defaults, values above MaxLimit are capped
//
// NOT validated:
//   - ExcludeKeywords and Universities (empty lists are valid filters)
//   - Flag combinations (resolved by the orchestrator, not rejected here)
func ValidateCriteria(criteria *SearchCriteria) error {
	if criteria == nil {
		return fmt.Errorf("%w: criteria is nil", ErrInvalidCriteria)
	}

	criteria.Query = strings.TrimSpace(criteria.Query)
	if criteria.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, ErrEmptyQuery)
	}

	if criteria.Method == "" {
		criteria.Method = MethodKeyword
	}
	if err := ValidateMethod(criteria.Method); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
	}

	if criteria.Limit == 0 {
		criteria.Limit = DefaultLimit
	}
	if criteria.Limit < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCriteria, ErrInvalidLimit)
	}
	if criteria.Limit > MaxLimit {
		criteria.Limit = MaxLimit
	}

	return nil
}

// ValidateMethod validates that a SearchMethod has a valid value.
func ValidateMethod(method SearchMethod) error {
	if method != MethodKeyword && method != MethodSemantic {
		return fmt.Errorf("%w: value %q", ErrInvalidMethod, method)
	}
	return nil
}

// ValidateProject validates a Project according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Status must be one of the defined lifecycle values
//
// NOT validated:
//   - Id (assigned by the repository on insert)
//   - Bookmarks (empty is valid)
func ValidateProject(project *Project) error {
	if project == nil {
		return fmt.Errorf("%w: project is nil", ErrInvalidProject)
	}

	if project.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProject, ErrEmptyProjectName)
	}

	if err := ValidateProjectStatus(project.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProject, err)
	}

	return nil
}

// ValidateProjectStatus validates that a ProjectStatus has a valid value.
func ValidateProjectStatus(status ProjectStatus) error {
	switch status {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusMatchingRequested, ProjectStatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: value %q", ErrInvalidProjectStatus, status)
}

// ValidateAnalysisRecord validates an AnalysisRecord according to domain rules.
func ValidateAnalysisRecord(record *AnalysisRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidAnalysis)
	}

	if record.ProfileURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAnalysis, ErrEmptyProfileURL)
	}

	return nil
}
