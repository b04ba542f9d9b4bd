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
	"net/http"

	"github.com/poiesic/scholarseek/core"
)

// searchRequest mirrors the dashboard's camelCase request body.
type searchRequest struct {
	Query                 string   `json:"query"`
	Method                string   `json:"method"`
	MaxResults            int      `json:"maxResults"`
	ExcludeKeywords       []string `json:"excludeKeywords"`
	UniversityFilter      []string `json:"universityFilter"`
	UseLlmExpansion       bool     `json:"useLlmExpansion"`
	UseLlmSummary         bool     `json:"useLlmSummary"`
	UseInternalEvaluation bool     `json:"useInternalEvaluation"`
	YoungResearcherFilter bool     `json:"youngResearcherFilter"`
}

// criteria converts the request to domain criteria. Absent fields take
// the dashboard defaults: semantic method, five results.
func (r *searchRequest) criteria() *core.SearchCriteria {
	method := core.SearchMethod(r.Method)
	if r.Method == "" {
		method = core.MethodSemantic
	}
	limit := r.MaxResults
	if limit == 0 {
		limit = 5
	}
	return &core.SearchCriteria{
		Query:           r.Query,
		Method:          method,
		Limit:           limit,
		ExcludeKeywords: r.ExcludeKeywords,
		Universities:    r.UniversityFilter,
		UseExpansion:    r.UseLlmExpansion,
		UseSummary:      r.UseLlmSummary,
		UseEvaluation:   r.UseInternalEvaluation,
		YoungOnly:       r.YoungResearcherFilter,
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	response, err := s.orchestrator.Search(r.Context(), req.criteria())
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, response)
}

// summaryRequest asks for a standalone relevance summary. When the
// dashboard already holds the researcher fields it sends them inline to
// skip the warehouse lookup.
type summaryRequest struct {
	ProfileURL     string                 `json:"researchmap_url"`
	Query          string                 `json:"query"`
	ResearcherInfo *core.ResearcherRecord `json:"researcher_info"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if !s.orchestrator.GenerationAvailable() {
		s.writeError(w, http.StatusServiceUnavailable, "summary generation is not configured")
		return
	}

	record := req.ResearcherInfo
	if record == nil {
		if req.ProfileURL == "" {
			s.writeError(w, http.StatusBadRequest, "researchmap_url or researcher_info is required")
			return
		}
		found, err := s.findResearcher(r, req.ProfileURL)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if found == nil {
			s.writeError(w, http.StatusNotFound, "no researcher found for the given URL")
			return
		}
		record = found
	}

	summary := s.orchestrator.Summarizer().SummarizeOne(r.Context(), record, req.Query)
	if summary == "" {
		s.writeError(w, http.StatusInternalServerError, "summary generation produced no output")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"summary": summary,
	})
}

func (s *Server) findResearcher(r *http.Request, profileURL string) (*core.ResearcherRecord, error) {
	records, err := s.warehouse.Scan(r.Context(), nil)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.ProfileURL == profileURL {
			return record, nil
		}
	}
	return nil, nil
}
