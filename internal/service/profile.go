package service

import (
	"net/http"
	"strings"

	"github.com/moneylens/backend/internal/auth"
)

func (s *FinanceService) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	// Without an identity provider (local dev) the token claims are the
	// profile.
	if s.profiles == nil {
		writeJSON(w, http.StatusOK, claims)
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

func (s *FinanceService) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.RequireAuth(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.profiles == nil {
		s.writeError(w, r, unavailable("profile updates are not configured"))
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	// Validate before the provider call; an empty name never leaves the
	// process.
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		s.writeError(w, r, badRequest("displayName must not be empty"))
		return
	}

	if err := s.profiles.UpdateDisplayName(r.Context(), claims.UID, req.DisplayName); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), claims.UID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
