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


// Package storage provides the storage abstraction layer for scholarseek's
// dashboard data: projects, bookmarks, and analysis results.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, plus the MUS binary serialization
// used for stored values. The researcher corpus itself is NOT stored here;
// it lives behind the warehouse package.
//
// # Constructor Return Type Pattern
//
// Public constructors return interface types to enforce abstraction and
// enable multiple storage backend implementations:
//
//	repo, err := badger.NewProjectRepository(backend)  // returns storage.ProjectRepository
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - Repository: common lifecycle and transaction operations
//   - ProjectRepository: dashboard projects and researcher bookmarks
//   - AnalysisRepository: persisted profile analysis results
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
