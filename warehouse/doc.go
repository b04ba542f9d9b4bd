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


// Package warehouse defines the query interface over the researcher corpus.
//
// The Warehouse interface decouples the search pipeline from the concrete
// analytical store. It exposes exactly the operations the ranking paths
// need: a vector nearest-neighbor operator, a cheap lexical candidate
// prefilter, a filtered full scan, and bulk insertion for corpus loading.
//
// The warehouse/sqlite subpackage provides the production implementation
// on modernc.org/sqlite. Tests typically use an in-memory sqlite store via
// sqlite.OpenMemory.
//
// # Filters
//
// All query operations accept a Filter carrying the affiliation allow-list
// and the excluded-keyword list. Implementations apply the allow-list
// against normalized affiliation names and the exclude-list as a logical
// AND of negated case-insensitive substring matches.
package warehouse
