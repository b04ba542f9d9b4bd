package httpapi

import (
	"net/http"

	"github.com/poiesic/scholarseek/core"
)

func (s *Server) projectsReady(w http.ResponseWriter) bool {
	if s.projects == nil {
		s.writeError(w, http.StatusServiceUnavailable, "project storage is not configured")
		return false
	}
	return true
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	projects, err := s.projects.ListProjects(r.Context())
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	if projects == nil {
		projects = []*core.Project{}
	}
	s.writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	var project core.Project
	if !s.decodeBody(w, r, &project) {
		return
	}
	if project.Status == "" {
		project.Status = core.ProjectStatusDraft
	}
	if err := core.ValidateProject(&project); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}

	stored, err := s.projects.AddProject(r.Context(), &project)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	project, err := s.projects.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	existing, err := s.projects.GetProject(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}

	// Partial update: only the mutable fields are taken from the body.
	patch := struct {
		Name        *string             `json:"name"`
		Description *string             `json:"description"`
		Status      *core.ProjectStatus `json:"status"`
	}{}
	if !s.decodeBody(w, r, &patch) {
		return
	}
	if patch.Name != nil {
		existing.Name = *patch.Name
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	if patch.Status != nil {
		existing.Status = *patch.Status
	}
	if err := core.ValidateProject(existing); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}

	updated, err := s.projects.UpdateProject(r.Context(), existing)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	if err := s.projects.DeleteProject(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleToggleBookmark adds the researcher to the project's bookmarks,
// or removes it when already present.
func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	if !s.projectsReady(w) {
		return
	}

	var body struct {
		ProfileURL string `json:"researchmap_url"`
	}
	if !s.decodeBody(w, r, &body) {
		return
	}
	if body.ProfileURL == "" {
		s.writeError(w, http.StatusBadRequest, "researchmap_url is required")
		return
	}

	id := r.PathValue("id")
	project, err := s.projects.GetProject(r.Context(), id)
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}

	if project.HasBookmark(body.ProfileURL) {
		project, err = s.projects.RemoveBookmark(r.Context(), id, body.ProfileURL)
	} else {
		project, err = s.projects.AddBookmark(r.Context(), id, body.ProfileURL)
	}
	if err != nil {
		s.writeError(w, errorStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, project)
}
