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


package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poiesic/scholarseek/core"
	"github.com/poiesic/scholarseek/search"
	"github.com/poiesic/scholarseek/storage"
	"github.com/poiesic/scholarseek/warehouse"
)

// Server hosts the HTTP API on top of the search orchestrator and the
// project repository.
type Server struct {
	orchestrator *search.Orchestrator
	projects     storage.ProjectRepository
	warehouse    warehouse.Warehouse
	logger       *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates an HTTP API server. The project repository may be
// nil, in which case the /api/projects routes respond 503.
func NewServer(orchestrator *search.Orchestrator, wh warehouse.Warehouse, projects storage.ProjectRepository, opts ...Option) (*Server, error) {
	if orchestrator == nil {
		return nil, ErrOrchestratorRequired
	}
	if wh == nil {
		return nil, ErrWarehouseRequired
	}

	s := &Server{
		orchestrator: orchestrator,
		projects:     projects,
		warehouse:    wh,
		logger:       slog.Default().With("component", "httpapi"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the route table. All responses are JSON.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/universities", s.handleUniversities)

	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("POST /api/projects/{id}/bookmarks", s.handleToggleBookmark)

	return withCORS(mux)
}

// withCORS applies a permissive CORS policy and answers preflight
// requests directly.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	corpus := map[string]any{}

	if err := s.warehouse.Ping(r.Context()); err != nil {
		status = "degraded"
		corpus["error"] = err.Error()
	} else if count, err := s.warehouse.Count(r.Context()); err == nil {
		corpus["records"] = count
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"corpus":    corpus,
		"capabilities": map[string]bool{
			"semantic_search": s.orchestrator.SemanticAvailable(),
			"generation":      s.orchestrator.GenerationAvailable(),
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// decodeBody decodes a JSON request body into dst, rejecting unknown
// top-level syntax errors with a 400.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidCriteria),
		errors.Is(err, core.ErrInvalidProject),
		errors.Is(err, core.ErrInvalidAnalysis):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
