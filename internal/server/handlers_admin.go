package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/db"
)

// Query limits for admin listings.
const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// handleDashboard returns aggregate statistics
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	recent, err := queryInt(r, "recent", 10, 100)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stats, err := s.store.GetDashboardStats(r.Context(), recent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logAdminAction(r, "view_dashboard")
	s.jsonResponse(w, http.StatusOK, stats)
}

// handleListResumes lists stored resumes with optional filters
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit, maxListLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, -1)
	if err != nil {
		s.writeError(w, err)
		return
	}

	q := r.URL.Query()
	source := strings.TrimSpace(q.Get("source"))
	if source != "" && source != db.SourceUpload && source != db.SourceBuilder {
		s.writeError(w, &ErrValidation{Field: "source", Message: "must be one of: upload builder"})
		return
	}

	resumes, err := s.store.ListResumes(r.Context(), db.ResumeFilters{
		Source:         source,
		TargetCategory: strings.TrimSpace(q.Get("category")),
		Search:         strings.TrimSpace(q.Get("search")),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logAdminAction(r, "list_resumes")
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resumes": resumes,
		"count":   len(resumes),
		"limit":   limit,
		"offset":  offset,
	})
}

// handleGetResume returns a resume with its skills and analysis
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	detail, err := s.store.GetResumeDetail(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if detail == nil {
		s.writeError(w, fmt.Errorf("%w: %s", db.ErrResumeNotFound, id))
		return
	}

	s.logAdminAction(r, "view_resume "+id.String())
	s.jsonResponse(w, http.StatusOK, detail)
}

// handleDeleteResume removes a resume and everything attached to it
func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.DeleteResume(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}

	s.logAdminAction(r, "delete_resume "+id.String())
	w.WriteHeader(http.StatusNoContent)
}

// handleListAdminLogs returns the admin audit log, newest first
func (s *Server) handleListAdminLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, maxListLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	logs, err := s.store.ListAdminLogs(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"logs": logs})
}

// handleListFeedback returns user feedback, newest first
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultListLimit, maxListLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	feedback, err := s.store.ListFeedback(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.logAdminAction(r, "view_feedback")
	s.jsonResponse(w, http.StatusOK, map[string]any{"feedback": feedback})
}

// queryInt reads a non-negative integer query parameter. A negative max
// means unbounded.
func queryInt(r *http.Request, name string, fallback, maxValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &ErrValidation{Field: name, Message: "must be a non-negative integer"}
	}
	if maxValue >= 0 && n > maxValue {
		return 0, &ErrValidation{Field: name, Message: fmt.Sprintf("must be at most %d", maxValue)}
	}
	return n, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: name, Message: "must be a UUID"}
	}
	return id, nil
}
