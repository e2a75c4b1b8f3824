package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/api/shared"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/platform/logger"
	"github.com/wikilearn/wikilearn-api/internal/service/progression"
)

// AwardXpRequest represents the request body for granting an XP award.
type AwardXpRequest struct {
	Reason     string  `json:"reason"                validate:"required"`
	CardID     *string `json:"card_id,omitempty"     validate:"omitempty,uuid"`
	DeckID     *string `json:"deck_id,omitempty"     validate:"omitempty,uuid"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

// ProgressionHandler handles XP and streak HTTP requests.
type ProgressionHandler struct {
	progressionService progression.ProgressionService
	logger             *slog.Logger
}

// NewProgressionHandler creates a new ProgressionHandler.
func NewProgressionHandler(
	progressionService progression.ProgressionService,
	log *slog.Logger,
) *ProgressionHandler {
	if progressionService == nil {
		panic("progressionService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &ProgressionHandler{
		progressionService: progressionService,
		logger:             log.With(slog.String("component", "progression_handler")),
	}
}

// AwardXp handles POST /xp/awards requests.
func (h *ProgressionHandler) AwardXp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	var req AwardXpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid award request")
		return
	}

	reason := domain.XpReason(req.Reason)
	if !domain.IsValidXpReason(reason) {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid award reason")
		return
	}

	metadata, err := awardMetadataFromRequest(req)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid award metadata")
		return
	}

	result, err := h.progressionService.AwardXp(r.Context(), userID, reason, metadata)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("xp awarded",
		slog.String("user_id", userID.String()),
		slog.String("reason", req.Reason),
		slog.Int64("granted", result.GrantedXP))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// UpdateStreak handles POST /streak requests.
func (h *ProgressionHandler) UpdateStreak(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	result, err := h.progressionService.UpdateStreak(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("streak updated",
		slog.String("user_id", userID.String()),
		slog.Int("streak_days", result.StreakDays))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetStats handles GET /xp/stats requests.
func (h *ProgressionHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	stats, err := h.progressionService.GetXpStats(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetHeatmap handles GET /xp/heatmap requests.
func (h *ProgressionHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	activity, err := h.progressionService.GetActivityHeatmap(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(
			w,
			r,
			MapErrorToStatusCode(err),
			"Failed to load activity heatmap",
			err,
		)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, activity)
}

// awardMetadataFromRequest parses the optional entity references of an
// award request into domain metadata.
func awardMetadataFromRequest(req AwardXpRequest) (domain.AwardMetadata, error) {
	var metadata domain.AwardMetadata

	parse := func(raw *string) (*uuid.UUID, error) {
		if raw == nil {
			return nil, nil
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	var err error
	if metadata.CardID, err = parse(req.CardID); err != nil {
		return metadata, err
	}
	if metadata.DeckID, err = parse(req.DeckID); err != nil {
		return metadata, err
	}
	if metadata.CategoryID, err = parse(req.CategoryID); err != nil {
		return metadata, err
	}

	return metadata, nil
}
