package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	progressionerrors "ijus/contexts/legal-research/progression-service/domain/errors"
	progressionhttp "ijus/contexts/legal-research/progression-service/transport/http"
)

func (s *Server) registerProgressionRoutes() {
	s.mux.HandleFunc("POST /api/v1/progress/sessions", s.handleStartSession)
	s.mux.HandleFunc("GET /api/v1/progress/sessions/{session_id}", s.handleGetProgress)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/xp", s.handleAddXP)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/activities", s.handleRecordActivity)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/missions/{mission_id}/progress", s.handleMissionProgress)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/missions/{mission_id}/complete", s.handleCompleteMission)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/badges/{badge_id}/unlock", s.handleUnlockBadge)
	s.mux.HandleFunc("POST /api/v1/progress/sessions/{session_id}/leaderboard/opt-in", s.handleToggleLeaderboard)
	s.mux.HandleFunc("GET /api/v1/progress/leaderboard", s.handleLeaderboard)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req progressionhttp.StartSessionRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	resp, err := s.progression.Handler.StartSessionHandler(r.Context(), req)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progression.Handler.GetProgressHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddXP(w http.ResponseWriter, r *http.Request) {
	var req progressionhttp.AddXPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProgressionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.progression.Handler.AddXPHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("session_id"),
		req,
	)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req progressionhttp.RecordActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProgressionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.progression.Handler.RecordActivityHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("session_id"),
		req,
	)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMissionProgress(w http.ResponseWriter, r *http.Request) {
	var req progressionhttp.MissionProgressRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	resp, err := s.progression.Handler.UpdateMissionProgressHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("session_id"),
		r.PathValue("mission_id"),
		req,
	)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteMission(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progression.Handler.CompleteMissionHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("session_id"),
		r.PathValue("mission_id"),
	)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnlockBadge(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progression.Handler.UnlockBadgeHandler(
		r.Context(),
		r.Header.Get("Idempotency-Key"),
		r.PathValue("session_id"),
		r.PathValue("badge_id"),
	)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleToggleLeaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := s.progression.Handler.ToggleLeaderboardOptInHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, ok := queryInt(query.Get("limit"))
	if !ok {
		writeProgressionError(w, http.StatusBadRequest, "invalid_limit", "limit must be an integer")
		return
	}
	offset, ok := queryInt(query.Get("offset"))
	if !ok {
		writeProgressionError(w, http.StatusBadRequest, "invalid_offset", "offset must be an integer")
		return
	}
	resp, err := s.progression.Handler.GetLeaderboardHandler(r.Context(), limit, offset)
	if err != nil {
		writeProgressionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// recordActivity credits the caller's session for a research action. The
// research response never depends on it.
func (s *Server) recordActivity(r *http.Request, action string) {
	sessionID := strings.TrimSpace(r.Header.Get("X-Session-Id"))
	if sessionID == "" {
		return
	}
	if _, err := s.progression.Service.RecordActivity(r.Context(), "", sessionID, action); err != nil {
		s.logger.Warn("activity not recorded",
			"event", "progression_activity_record_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"session_id", sessionID,
			"action", action,
			"error", err.Error(),
		)
	}
}

func writeProgressionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progressionerrors.ErrInvalidInput):
		writeProgressionError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, progressionerrors.ErrUnknownAction):
		writeProgressionError(w, http.StatusBadRequest, "unknown_action", err.Error())
	case errors.Is(err, progressionerrors.ErrSessionNotFound):
		writeProgressionError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, progressionerrors.ErrMissionNotFound):
		writeProgressionError(w, http.StatusNotFound, "mission_not_found", err.Error())
	case errors.Is(err, progressionerrors.ErrBadgeNotFound):
		writeProgressionError(w, http.StatusNotFound, "badge_not_found", err.Error())
	case errors.Is(err, progressionerrors.ErrMissionNotReady):
		writeProgressionError(w, http.StatusConflict, "mission_not_ready", err.Error())
	case errors.Is(err, progressionerrors.ErrSessionConflict):
		writeProgressionError(w, http.StatusConflict, "session_conflict", err.Error())
	case errors.Is(err, progressionerrors.ErrIdempotencyConflict):
		writeProgressionError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	default:
		writeProgressionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeProgressionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, progressionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// decodeOptionalJSON accepts an empty body as the zero request.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeProgressionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
	return false
}

func queryInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}
