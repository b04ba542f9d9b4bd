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


// Package search implements the researcher search pipeline.
//
// The Orchestrator type coordinates a multi-stage ranking process:
//   - Semantic ranking by cosine distance to a query embedding, with a
//     realtime brute-force fallback and a final lexical fallback
//   - Weighted lexical relevance scoring over the record's text fields
//   - Rule-based early-career classification of every candidate
//   - Optional LLM query expansion, per-result summarization, and
//     batch relevance evaluation
//
// Degraded dependencies never fail a request: unavailable capabilities
// are downgraded to cheaper ones and the envelope records what actually
// ran. Only total warehouse unavailability produces an error envelope.
package search
