package server

import (
	"errors"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/teamgrow/studymatch/internal/matching"
	"github.com/teamgrow/studymatch/internal/scoring"
	"github.com/teamgrow/studymatch/pkg/models"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError maps the error taxonomy onto HTTP statuses: invalid-input
// becomes 400, not-found 404, anything else an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("Request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, models.InvalidInputf("malformed request body: %v", err))
		return false
	}
	return true
}

type resolveRequest struct {
	Tags []string `json:"tags"`
}

// handleResolveTags maps 1..20 raw tags onto the canonical vocabulary.
func (s *Service) handleResolveTags(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.resolver.ResolveMany(r.Context(), req.Tags)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createTagRequest struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// handleCreateTag adds a canonical tag to the vocabulary. Creating an
// existing label returns the existing row unchanged.
func (s *Service) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req createTagRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Label) == "" {
		writeError(w, models.InvalidInputf("label is required"))
		return
	}

	tag, err := s.vocab.CreateIfAbsent(r.Context(), req.Label, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// handleListTags returns the whole canonical vocabulary.
func (s *Service) handleListTags(w http.ResponseWriter, r *http.Request) {
	list, err := s.vocab.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": list})
}

type scoreRequest struct {
	Answers []models.AnswerBlock `json:"answers"`
}

// handleScoreSurvey scores a tagged survey submission.
func (s *Service) handleScoreSurvey(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := scoring.ScoreBlocks(req.Answers)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleMatches ranks a candidate pool and returns one page of results.
func (s *Service) handleMatches(w http.ResponseWriter, r *http.Request) {
	var req matching.Request
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := s.engine.Rank(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness plus a database health summary.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s.store != nil {
		db := s.store.HealthCheck(r.Context())
		resp["database"] = db
		if db.Status != "healthy" {
			resp["status"] = "degraded"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
