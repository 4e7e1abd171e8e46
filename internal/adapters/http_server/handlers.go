package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/app"
	"flex_reviews/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	M *app.ModerationService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews/hostaway", h.getReviews)
	s.mux.Patch("/v1/reviews/hostaway", h.moderateReview)
	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Get("/v1/stats", h.getStats)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeServiceError maps domain sentinels to client statuses; everything
// else is logged with context and surfaced as an opaque 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		log.Error().Err(err).Str("op", op).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "failed to process reviews")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	var propertyID *int64
	if ps := r.URL.Query().Get("propertyId"); ps != "" {
		id, err := strconv.ParseInt(ps, 10, 64)
		if err != nil || id <= 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid propertyId", "propertyId must be a positive integer")
			return
		}
		propertyID = &id
	}

	view, err := h.Q.Dashboard(r.Context(), propertyID)
	if err != nil {
		writeServiceError(w, "dashboard", err)
		return
	}
	writeJSONWithETag(w, r, view)
}

type moderateRequest struct {
	ReviewID json.Number `json:"reviewId"`
	Action   string      `json:"action"`
	Response *string     `json:"response"`
}

type moderateResponse struct {
	Success  bool          `json:"success"`
	Review   domain.Review `json:"review"`
	Previous domain.Review `json:"previousState"`
}

func (h *Handlers) moderateReview(w http.ResponseWriter, r *http.Request) {
	var body moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "malformed JSON body")
		return
	}
	if body.ReviewID == "" || body.Action == "" {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "Missing required fields: reviewId and action")
		return
	}
	id, err := body.ReviewID.Int64()
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Validation failed", "Invalid review ID")
		return
	}

	var response string
	if body.Response != nil {
		response = *body.Response
	}

	res, err := h.M.Apply(r.Context(), id, domain.Action(body.Action), response)
	if err != nil {
		observability.ObserveModeration(body.Action, moderationOutcome(err))
		writeServiceError(w, "moderate", err)
		return
	}
	observability.ObserveModeration(body.Action, "ok")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(moderateResponse{Success: true, Review: res.Review, Previous: res.Previous}); err != nil {
		log.Error().Err(err).Msg("failed to write moderation response")
	}
}

func moderationOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.ListProperties(r.Context())
	if err != nil {
		writeServiceError(w, "list properties", err)
		return
	}
	writeJSONWithETag(w, r, out)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive integer")
		return
	}
	view, err := h.Q.GetProperty(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get property", err)
		return
	}
	writeJSONWithETag(w, r, view)
}

func (h *Handlers) getStats(w http.ResponseWriter, r *http.Request) {
	view, err := h.Q.Overview(r.Context())
	if err != nil {
		writeServiceError(w, "stats overview", err)
		return
	}
	writeJSONWithETag(w, r, view)
}
