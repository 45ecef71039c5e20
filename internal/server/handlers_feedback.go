package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/types"
)

// handleCreateFeedback stores a user rating and comment
func (s *Server) handleCreateFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var req types.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, decodeError(err))
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if s.store == nil {
		s.writeError(w, ErrStoreUnavailable)
		return
	}

	feedback := &db.Feedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if _, err := s.store.CreateFeedback(r.Context(), feedback); err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, feedback)
}
