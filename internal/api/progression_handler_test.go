package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikilearn/wikilearn-api/internal/api/shared"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/service/progression"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// mockProgressionService is a hand-rolled progression.ProgressionService
// for handler tests.
type mockProgressionService struct {
	awardXpFn            func(ctx context.Context, userID uuid.UUID, reason domain.XpReason, metadata domain.AwardMetadata) (*progression.AwardResult, error)
	updateStreakFn       func(ctx context.Context, userID uuid.UUID) (*progression.StreakResult, error)
	getXpStatsFn         func(ctx context.Context, userID uuid.UUID) (*progression.XpStats, error)
	getActivityHeatmapFn func(ctx context.Context, userID uuid.UUID) ([]store.DailyActivity, error)
}

func (m *mockProgressionService) AwardXp(
	ctx context.Context,
	userID uuid.UUID,
	reason domain.XpReason,
	metadata domain.AwardMetadata,
) (*progression.AwardResult, error) {
	return m.awardXpFn(ctx, userID, reason, metadata)
}

func (m *mockProgressionService) UpdateStreak(
	ctx context.Context,
	userID uuid.UUID,
) (*progression.StreakResult, error) {
	return m.updateStreakFn(ctx, userID)
}

func (m *mockProgressionService) GetXpStats(
	ctx context.Context,
	userID uuid.UUID,
) (*progression.XpStats, error) {
	return m.getXpStatsFn(ctx, userID)
}

func (m *mockProgressionService) GetActivityHeatmap(
	ctx context.Context,
	userID uuid.UUID,
) ([]store.DailyActivity, error) {
	return m.getActivityHeatmapFn(ctx, userID)
}

func newProgressionRouter(svc progression.ProgressionService, userID uuid.UUID) http.Handler {
	h := NewProgressionHandler(svc, nil)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Post("/xp/awards", h.AwardXp)
	r.Post("/streak", h.UpdateStreak)
	r.Get("/xp/stats", h.GetStats)
	r.Get("/xp/heatmap", h.GetHeatmap)

	return r
}

func TestAwardXp(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()

	t.Run("success with category metadata", func(t *testing.T) {
		svc := &mockProgressionService{
			awardXpFn: func(ctx context.Context, gotUser uuid.UUID, reason domain.XpReason, metadata domain.AwardMetadata) (*progression.AwardResult, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, domain.XpReasonCardRetained, reason)
				require.NotNil(t, metadata.CategoryID)
				assert.Equal(t, categoryID, *metadata.CategoryID)
				assert.Nil(t, metadata.CardID)
				return &progression.AwardResult{
					GrantedXP:  19,
					NewTotalXP: 119,
					Level:      2,
					LevelUp:    true,
				}, nil
			},
		}

		body := bytes.NewBufferString(
			`{"reason":"CARD_RETAINED","category_id":"` + categoryID.String() + `"}`,
		)
		req := httptest.NewRequest(http.MethodPost, "/xp/awards", body)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp progression.AwardResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(19), resp.GrantedXP)
		assert.True(t, resp.LevelUp)
	})

	t.Run("unknown reason", func(t *testing.T) {
		svc := &mockProgressionService{}

		body := bytes.NewBufferString(`{"reason":"CARD_EATEN"}`)
		req := httptest.NewRequest(http.MethodPost, "/xp/awards", body)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed metadata uuid", func(t *testing.T) {
		svc := &mockProgressionService{}

		body := bytes.NewBufferString(`{"reason":"CARD_VIEW","card_id":"nope"}`)
		req := httptest.NewRequest(http.MethodPost, "/xp/awards", body)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing profile maps to 404", func(t *testing.T) {
		svc := &mockProgressionService{
			awardXpFn: func(ctx context.Context, gotUser uuid.UUID, reason domain.XpReason, metadata domain.AwardMetadata) (*progression.AwardResult, error) {
				return nil, progression.NewAwardXpError("profile lookup failed", progression.ErrProfileNotFound)
			},
		}

		body := bytes.NewBufferString(`{"reason":"CARD_VIEW"}`)
		req := httptest.NewRequest(http.MethodPost, "/xp/awards", body)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing user in context", func(t *testing.T) {
		h := NewProgressionHandler(&mockProgressionService{}, nil)

		body := bytes.NewBufferString(`{"reason":"CARD_VIEW"}`)
		req := httptest.NewRequest(http.MethodPost, "/xp/awards", body)
		w := httptest.NewRecorder()

		r := chi.NewRouter()
		r.Post("/xp/awards", h.AwardXp)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestUpdateStreak(t *testing.T) {
	userID := uuid.New()

	t.Run("milestone bonus in response", func(t *testing.T) {
		svc := &mockProgressionService{
			updateStreakFn: func(ctx context.Context, gotUser uuid.UUID) (*progression.StreakResult, error) {
				assert.Equal(t, userID, gotUser)
				return &progression.StreakResult{StreakDays: 7, Extended: true, BonusXP: 200}, nil
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/streak", nil)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp progression.StreakResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 7, resp.StreakDays)
		assert.True(t, resp.Extended)
		assert.Equal(t, int64(200), resp.BonusXP)
	})

	t.Run("missing profile maps to 404", func(t *testing.T) {
		svc := &mockProgressionService{
			updateStreakFn: func(ctx context.Context, gotUser uuid.UUID) (*progression.StreakResult, error) {
				return nil, progression.NewUpdateStreakError("profile lookup failed", progression.ErrProfileNotFound)
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/streak", nil)
		w := httptest.NewRecorder()

		newProgressionRouter(svc, userID).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetStats(t *testing.T) {
	userID := uuid.New()

	svc := &mockProgressionService{
		getXpStatsFn: func(ctx context.Context, gotUser uuid.UUID) (*progression.XpStats, error) {
			return &progression.XpStats{
				TotalXP:             250,
				Level:               2,
				XPForNextLevel:      400,
				ProgressToNextLevel: 0.5,
				StreakDays:          10,
				StreakMultiplier:    1.85,
				Categories:          []*domain.CategoryProgress{},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/xp/stats", nil)
	w := httptest.NewRecorder()

	newProgressionRouter(svc, userID).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp progression.XpStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(250), resp.TotalXP)
	assert.Equal(t, 2, resp.Level)
	assert.InDelta(t, 1.85, resp.StreakMultiplier, 1e-9)
}

func TestGetHeatmap(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC)

	svc := &mockProgressionService{
		getActivityHeatmapFn: func(ctx context.Context, gotUser uuid.UUID) ([]store.DailyActivity, error) {
			return []store.DailyActivity{
				{Date: day, Count: 3},
				{Date: day.AddDate(0, 0, 1), Count: 1},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/xp/heatmap", nil)
	w := httptest.NewRecorder()

	newProgressionRouter(svc, userID).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []store.DailyActivity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, day, resp[0].Date)
	assert.Equal(t, 3, resp[0].Count)
}
