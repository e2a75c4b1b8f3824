package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/api/shared"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/platform/logger"
	"github.com/wikilearn/wikilearn-api/internal/service/review"
)

// SubmitReviewRequest represents the request body for submitting a card review.
type SubmitReviewRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// InteractionResponse represents the scheduling state of one card for one user.
type InteractionResponse struct {
	UserID               string     `json:"user_id"`
	CardID               string     `json:"card_id"`
	Status               string     `json:"status"`
	EaseFactor           float64    `json:"ease_factor"`
	IntervalDays         int        `json:"interval_days"`
	Repetitions          int        `json:"repetitions"`
	ConsecutiveSuccesses int        `json:"consecutive_successes"`
	NextReviewAt         time.Time  `json:"next_review_at"`
	LastReviewedAt       *time.Time `json:"last_reviewed_at,omitempty"`
}

// ProgressResponse represents per-status card counts for a user.
type ProgressResponse struct {
	Counts map[string]int `json:"counts"`
}

// ReviewHandler handles review-related HTTP requests.
type ReviewHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService review.ReviewService, log *slog.Logger) *ReviewHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ReviewHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "review_handler")),
	}
}

// SubmitReview handles POST /reviews/{cardID} requests.
// It applies the rating from the request body to the card's interaction
// for the authenticated user.
func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid rating")
		return
	}

	interaction, err := h.reviewService.ProcessReview(
		r.Context(),
		userID,
		cardID,
		domain.Rating(req.Rating),
	)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("status", string(interaction.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, interactionToResponse(interaction))
}

// GetDueCards handles GET /reviews/due requests.
func (h *ReviewHandler) GetDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	due, err := h.reviewService.GetDueCards(r.Context(), userID, limitParam(r))
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			MapErrorToStatusCode(err),
			"Failed to list due cards",
			err,
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, interactionsToResponse(due))
}

// GetLearningCards handles GET /reviews/learning requests.
func (h *ReviewHandler) GetLearningCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	learning, err := h.reviewService.GetLearningCards(r.Context(), userID, limitParam(r))
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			MapErrorToStatusCode(err),
			"Failed to list learning cards",
			err,
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, interactionsToResponse(learning))
}

// GetProgress handles GET /reviews/progress requests.
func (h *ReviewHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	counts, err := h.reviewService.GetUserProgress(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			MapErrorToStatusCode(err),
			"Failed to load progress",
			err,
		)
		return
	}

	response := ProgressResponse{Counts: make(map[string]int, len(counts))}
	for status, count := range counts {
		response.Counts[string(status)] = count
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// authenticatedUserID extracts the user ID placed in the context by the
// auth middleware, responding with 401 when it is missing.
func authenticatedUserID(
	w http.ResponseWriter,
	r *http.Request,
	log *slog.Logger,
) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// limitParam parses the optional limit query parameter. Invalid values
// fall back to 0, which the service replaces with its default.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

func interactionToResponse(interaction *domain.Interaction) InteractionResponse {
	response := InteractionResponse{
		UserID:               interaction.UserID.String(),
		CardID:               interaction.CardID.String(),
		Status:               string(interaction.Status),
		EaseFactor:           interaction.EaseFactor,
		IntervalDays:         interaction.IntervalDays,
		Repetitions:          interaction.Repetitions,
		ConsecutiveSuccesses: interaction.ConsecutiveSuccesses,
		NextReviewAt:         interaction.NextReviewAt,
	}
	if !interaction.LastReviewedAt.IsZero() {
		lastReviewedAt := interaction.LastReviewedAt
		response.LastReviewedAt = &lastReviewedAt
	}
	return response
}

func interactionsToResponse(interactions []*domain.Interaction) []InteractionResponse {
	responses := make([]InteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		responses = append(responses, interactionToResponse(interaction))
	}
	return responses
}
