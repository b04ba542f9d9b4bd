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


// Package sqlite implements the researcher warehouse on an embedded
// SQLite database via modernc.org/sqlite, keeping the whole service
// CGO-free.
//
// Records are keyed by profile URL. Embeddings are stored as binary
// blobs in the same row, and vector search is an in-store cosine scan
// over filtered rows. The corpus is bulk-loaded and read-heavy, so a
// single-writer embedded database fits the access pattern.
package sqlite
