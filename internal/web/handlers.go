package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/JunMun28/littleJourney-sub003/internal/review"
)

// Handlers contains the HTTP handlers for the review API.
type Handlers struct {
	reviews *review.Service
	log     *logrus.Entry
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(reviews *review.Service) *Handlers {
	return &Handlers{
		reviews: reviews,
		log:     logrus.WithField("component", "handlers"),
	}
}

// GenerateReview creates or fetches the year-in-review for a child
// (POST /api/children/{childID}/reviews/{year}).
func (h *Handlers) GenerateReview(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}

	rev, err := h.reviews.GenerateYearInReview(r.Context(), childID, year)
	if err != nil {
		h.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// GetReview fetches a review by id (GET /api/reviews/{reviewID}).
func (h *Handlers) GetReview(w http.ResponseWriter, r *http.Request) {
	rev, err := h.reviews.GetYearInReview(chi.URLParam(r, "reviewID"))
	if err != nil {
		h.reviewError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// ListReviews lists a child's reviews, most recent year first
// (GET /api/children/{childID}/reviews).
func (h *Handlers) ListReviews(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reviews.ListYearInReviews(chi.URLParam(r, "childID")))
}

// CustomizeReview applies clip and setting changes to a review
// (POST /api/reviews/{reviewID}/customize).
func (h *Handlers) CustomizeReview(w http.ResponseWriter, r *http.Request) {
	var input review.CustomizeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	input.ReviewID = chi.URLParam(r, "reviewID")

	rev, err := h.reviews.CustomizeYearInReview(r.Context(), input)
	if err != nil {
		h.reviewError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// ResetReview restores the original curated clip list
// (POST /api/reviews/{reviewID}/reset).
func (h *Handlers) ResetReview(w http.ResponseWriter, r *http.Request) {
	rev, err := h.reviews.ResetToAISuggestion(r.Context(), chi.URLParam(r, "reviewID"))
	if err != nil {
		h.reviewError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rev)
}

// AvailableClips lists the add-back candidates for a review
// (GET /api/reviews/{reviewID}/available-clips).
func (h *Handlers) AvailableClips(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.reviews.AvailableClips(chi.URLParam(r, "reviewID")))
}

// MarkExported records the rendered video for a review
// (POST /api/reviews/{reviewID}/export).
func (h *Handlers) MarkExported(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ExportedURI string `json:"exportedUri"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ExportedURI == "" {
		respondError(w, http.StatusBadRequest, "exportedUri is required")
		return
	}

	// Tolerant of unknown ids: export callbacks may race a store reset.
	h.reviews.MarkAsExported(r.Context(), chi.URLParam(r, "reviewID"), body.ExportedURI)
	w.WriteHeader(http.StatusNoContent)
}

// GenerateRecap creates or fetches a monthly recap
// (POST /api/children/{childID}/recaps/{year}/{month}).
func (h *Handlers) GenerateRecap(w http.ResponseWriter, r *http.Request) {
	childID := chi.URLParam(r, "childID")
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		respondError(w, http.StatusBadRequest, "invalid month")
		return
	}

	recap, err := h.reviews.GenerateMonthlyRecap(r.Context(), childID, year, month)
	if err != nil {
		h.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recap)
}

// GetRecap fetches a recap by id (GET /api/recaps/{recapID}).
func (h *Handlers) GetRecap(w http.ResponseWriter, r *http.Request) {
	recap, err := h.reviews.GetMonthlyRecap(chi.URLParam(r, "recapID"))
	if err != nil {
		h.reviewError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, recap)
}

// PromptNeeded reports whether the yearly prompt should be surfaced
// (GET /api/children/{childID}/review-prompt).
func (h *Handlers) PromptNeeded(w http.ResponseWriter, r *http.Request) {
	needed, err := h.reviews.IsPromptNeeded(r.Context(), chi.URLParam(r, "childID"))
	if err != nil {
		h.serverError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"needed": needed})
}

// SendPrompt fires the yearly prompt notification
// (POST /api/children/{childID}/review-prompt).
func (h *Handlers) SendPrompt(w http.ResponseWriter, r *http.Request) {
	sent := h.reviews.SendPrompt(r.Context(), chi.URLParam(r, "childID"))
	respondJSON(w, http.StatusOK, map[string]bool{"sent": sent})
}

// MusicTracks lists the soundtrack catalog (GET /api/music-tracks).
func (h *Handlers) MusicTracks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, review.MusicCatalog())
}

// reviewError maps review-layer errors onto HTTP statuses.
func (h *Handlers) reviewError(w http.ResponseWriter, err error) {
	if errors.Is(err, review.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	h.serverError(w, err)
}

func (h *Handlers) serverError(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("request failed")
	respondError(w, http.StatusInternalServerError, "internal error")
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Error("encoding response")
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
