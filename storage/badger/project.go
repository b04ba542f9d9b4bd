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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/storage"
)

// ProjectRepository implements storage.ProjectRepository for BadgerDB.
type ProjectRepository struct {
	backend *Backend
}

var _ storage.ProjectRepository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(backend *Backend) *ProjectRepository {
	return &ProjectRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ProjectRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ProjectRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddProject stores a new project with a generated UUID and timestamps.
func (r *ProjectRepository) AddProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	if project.Status == "" {
		project.Status = core.ProjectStatusDraft
	}
	if err := core.ValidateProject(project); err != nil {
		return nil, err
	}
	if project.Id == "" {
		project.Id = uuid.NewString()
	}
	project.CreatedAt = time.Now().UTC()
	project.UpdatedAt = project.CreatedAt

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeProjectKey(project.Id), storage.MarshalProject(project)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// UpdateProject replaces an existing project and bumps UpdatedAt.
func (r *ProjectRepository) UpdateProject(ctx context.Context, project *core.Project) (*core.Project, error) {
	if err := core.ValidateProject(project); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProjectKey(project.Id)
		old, err := r.readProject(tx, key)
		if err != nil {
			return err
		}

		project.CreatedAt = old.CreatedAt
		project.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalProject(project)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project by ID.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProjectKey(id)
		if _, err := r.readProject(tx, key); err != nil {
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetProject retrieves a single project by ID.
func (r *ProjectRepository) GetProject(ctx context.Context, id string) (*core.Project, error) {
	var project *core.Project
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		project, err = r.readProject(tx, makeProjectKey(id))
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects retrieves all projects, newest first.
func (r *ProjectRepository) ListProjects(ctx context.Context) ([]*core.Project, error) {
	var projects []*core.Project

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(projectPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var project *core.Project
			err := iter.Item().Value(func(val []byte) error {
				var err error
				project, err = storage.UnmarshalProject(val)
				return err
			})
			if err != nil {
				return err
			}
			projects = append(projects, project)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(projects, func(a, b *core.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return projects, nil
}

// AddBookmark adds a researcher profile URL to a project. Idempotent.
func (r *ProjectRepository) AddBookmark(ctx context.Context, projectID, profileURL string) (*core.Project, error) {
	return r.mutateBookmarks(projectID, func(project *core.Project) {
		if !project.HasBookmark(profileURL) {
			project.Bookmarks = append(project.Bookmarks, profileURL)
		}
	})
}

// RemoveBookmark removes a researcher profile URL from a project. Idempotent.
func (r *ProjectRepository) RemoveBookmark(ctx context.Context, projectID, profileURL string) (*core.Project, error) {
	return r.mutateBookmarks(projectID, func(project *core.Project) {
		project.Bookmarks = slices.DeleteFunc(project.Bookmarks, func(b string) bool {
			return b == profileURL
		})
	})
}

func (r *ProjectRepository) mutateBookmarks(projectID string, mutate func(*core.Project)) (*core.Project, error) {
	var project *core.Project
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeProjectKey(projectID)
		var err error
		project, err = r.readProject(tx, key)
		if err != nil {
			return err
		}

		mutate(project)
		project.UpdatedAt = time.Now().UTC()
		if err := tx.Set(key, storage.MarshalProject(project)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *ProjectRepository) readProject(tx *badger.Txn, key []byte) (*core.Project, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	var project *core.Project
	err = item.Value(func(val []byte) error {
		var err error
		project, err = storage.UnmarshalProject(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}
