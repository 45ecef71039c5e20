package server

import (
	"context"
	"net/http"
	"time"

	"github.com/jonathan/skillmatch/internal/builder"
)

// Export formats accepted by POST /resumes/build.
const (
	FormatDOCX  = "docx"
	FormatLaTeX = "latex"
)

// HealthResponse reports server and dependency status.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	AI       string `json:"ai"`
}

// handleHealth returns server health status. An unreachable database
// degrades the status but the server keeps answering analyses.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "disabled", AI: "disabled"}
	if s.pipeline.AIEnabled() {
		resp.AI = "enabled"
	}
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
		} else {
			resp.Database = "ok"
		}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListRoles returns the job role catalog grouped by category
func (s *Server) handleListRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"categories": s.pipeline.Roles().Categories(),
	})
}

// handleGetCategory returns one category of the role catalog
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.pipeline.Roles().Category(r.PathValue("category"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, category)
}

// handleListTemplates lists the builder layouts and export formats
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"templates": builder.Templates(),
		"default":   builder.DefaultTemplate,
		"formats":   []string{FormatDOCX, FormatLaTeX},
	})
}
