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

import "math"

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0.0 when either vector has zero norm or the lengths differ,
// so degenerate inputs rank last instead of failing the query.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// NormalizeDimension adjusts a vector to the target dimension, truncating
// when too long and zero-padding when too short. The input is returned
// unchanged when it already matches.
func NormalizeDimension(vector []float32, dim int) []float32 {
	if len(vector) == dim {
		return vector
	}
	if len(vector) > dim {
		return vector[:dim]
	}
	padded := make([]float32, dim)
	copy(padded, vector)
	return padded
}
