package storage

import (
	"context"

	"github.com/poiesic/scholarseek/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ProjectRepository provides operations for managing dashboard projects
// and their researcher bookmarks.
type ProjectRepository interface {
	Repository

	// AddProject stores a new project. A UUID is assigned if Id is empty,
	// Status defaults to draft, and CreatedAt/UpdatedAt are populated.
	// Returns the stored project.
	AddProject(ctx context.Context, project *core.Project) (*core.Project, error)

	// UpdateProject replaces an existing project and bumps UpdatedAt.
	// Returns ErrNotFound if the project doesn't exist.
	UpdateProject(ctx context.Context, project *core.Project) (*core.Project, error)

	// DeleteProject removes a project by ID.
	// Returns ErrNotFound if the project doesn't exist.
	DeleteProject(ctx context.Context, id string) error

	// GetProject retrieves a single project by ID.
	// Returns ErrNotFound if the project doesn't exist.
	GetProject(ctx context.Context, id string) (*core.Project, error)

	// ListProjects retrieves all projects, ordered by creation time descending.
	ListProjects(ctx context.Context) ([]*core.Project, error)

	// AddBookmark adds a researcher profile URL to a project.
	// Adding an existing bookmark is a no-op.
	// Returns ErrNotFound if the project doesn't exist.
	AddBookmark(ctx context.Context, projectID, profileURL string) (*core.Project, error)

	// RemoveBookmark removes a researcher profile URL from a project.
	// Removing a missing bookmark is a no-op.
	// Returns ErrNotFound if the project doesn't exist.
	RemoveBookmark(ctx context.Context, projectID, profileURL string) (*core.Project, error)
}

// AnalysisRepository provides operations for persisting researcher
// profile analysis results.
type AnalysisRepository interface {
	Repository

	// PutAnalysis stores an analysis record, overwriting any previous
	// analysis for the same profile URL. The Id and StoredAt fields are
	// populated on insert.
	PutAnalysis(ctx context.Context, record *core.AnalysisRecord) (*core.AnalysisRecord, error)

	// GetAnalysis retrieves the analysis for a profile URL.
	// Returns ErrNotFound if no analysis is stored.
	GetAnalysis(ctx context.Context, profileURL string) (*core.AnalysisRecord, error)

	// DeleteAnalysis removes the analysis for a profile URL.
	// Returns ErrNotFound if no analysis is stored.
	DeleteAnalysis(ctx context.Context, profileURL string) error

	// ListAnalyses retrieves all stored analyses, ordered by storage time descending.
	ListAnalyses(ctx context.Context) ([]*core.AnalysisRecord, error)
}
