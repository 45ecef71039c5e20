package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/skillmatch/internal/server/middleware"
	"github.com/jonathan/skillmatch/internal/types"
)

// handleAdminLogin exchanges admin credentials for a session token
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.admins == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "admin API is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 16<<10)

	var req types.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, decodeError(err))
		return
	}

	resp, err := s.admins.Login(r.Context(), &req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// logAdminAction records an action by the authenticated admin. Failures
// are logged and never fail the request.
func (s *Server) logAdminAction(r *http.Request, action string) {
	email, err := middleware.GetAdminEmail(r)
	if err != nil {
		log.Printf("[admin] %s without admin context: %v", action, err)
		return
	}
	s.admins.audit(r.Context(), email, action)
}
