package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/suitability-map/internal/dashboard"
	"github.com/couchcryptid/suitability-map/internal/domain"
)

const broadcastTimeout = 5 * time.Second

// Dashboard is the controller surface the API needs.
type Dashboard interface {
	Selection() domain.SelectionState
	SetSelection(day *int, key *domain.PreferenceKey) (domain.SelectionState, error)
	Assess(code string) (dashboard.Assessment, error)
	Sweep() dashboard.Sweep
	Broadcast(ctx context.Context) error
}

// selectionRequest carries a partial update; absent fields are left alone.
type selectionRequest struct {
	Day        *int                  `json:"day"`
	Preference *domain.PreferenceKey `json:"preference"`
}

type selectionResponse struct {
	Day        int                   `json:"day"`
	Preference domain.PreferenceKey  `json:"preference"`
	Band       domain.PreferenceBand `json:"band"`
}

func newSelectionResponse(sel domain.SelectionState) selectionResponse {
	return selectionResponse{Day: sel.Day, Preference: sel.Preference, Band: sel.Band()}
}

func (s *Server) handlePreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Preferences())
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Legend())
}

func (s *Server) handleGetSelection(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newSelectionResponse(s.dashboard.Selection()))
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Day == nil && req.Preference == nil {
		writeError(w, http.StatusBadRequest, "day or preference is required")
		return
	}

	sel, err := s.dashboard.SetSelection(req.Day, req.Preference)
	if err != nil {
		s.writeSelectionError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), broadcastTimeout)
	defer cancel()
	if err := s.dashboard.Broadcast(ctx); err != nil {
		s.logger.Error("broadcast after selection change failed", "error", err)
	}

	writeJSON(w, http.StatusOK, newSelectionResponse(sel))
}

func (s *Server) writeSelectionError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidIndex) || errors.Is(err, domain.ErrUnknownPreference) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("selection update failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleMap(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.dashboard.Sweep())
}

func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(r.PathValue("code"))
	a, err := s.dashboard.Assess(code)
	if errors.Is(err, dashboard.ErrUnknownRegion) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("assess region failed", "region", code, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // headers already sent
}
