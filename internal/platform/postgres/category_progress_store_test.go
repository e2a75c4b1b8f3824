package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

func setupCategoryProgressStore(
	t *testing.T,
) (*PostgresCategoryProgressStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s := NewPostgresCategoryProgressStore(db, nil)

	cleanup := func() {
		_ = db.Close()
	}

	return s, mock, cleanup
}

func categoryProgressRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "category_id", "xp", "level", "cards_completed",
		"cards_gold", "created_at", "updated_at",
	})
}

func TestCategoryProgressStoreCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	progress, err := domain.NewCategoryProgress(uuid.New(), uuid.New(), now)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO category_progress`).
			WithArgs(
				progress.UserID, progress.CategoryID, int64(0), 1, 0, 0, now, now,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Create(context.Background(), progress))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate maps to ErrDuplicate", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		mock.ExpectExec(`INSERT INTO category_progress`).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := s.Create(context.Background(), progress)

		assert.ErrorIs(t, err, store.ErrDuplicate)
	})
}

func TestCategoryProgressStoreGet(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	now := time.Now().UTC()

	t.Run("found", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		rows := categoryProgressRows().
			AddRow(userID, categoryID, int64(900), 4, 12, 2, now, now)
		mock.ExpectQuery(`SELECT (.+) FROM category_progress WHERE user_id = \$1 AND category_id = \$2`).
			WithArgs(userID, categoryID).
			WillReturnRows(rows)

		got, err := s.Get(context.Background(), userID, categoryID)

		require.NoError(t, err)
		assert.Equal(t, int64(900), got.XP)
		assert.Equal(t, 4, got.Level)
		assert.Equal(t, 12, got.CardsCompleted)
	})

	t.Run("missing row maps to ErrCategoryProgressNotFound", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM category_progress`).
			WithArgs(userID, categoryID).
			WillReturnRows(categoryProgressRows())

		_, err := s.Get(context.Background(), userID, categoryID)

		assert.ErrorIs(t, err, store.ErrCategoryProgressNotFound)
	})
}

func TestCategoryProgressStoreGetForUpdateLocksRow(t *testing.T) {
	userID := uuid.New()
	categoryID := uuid.New()
	now := time.Now().UTC()

	s, mock, cleanup := setupCategoryProgressStore(t)
	defer cleanup()

	rows := categoryProgressRows().
		AddRow(userID, categoryID, int64(150), 2, 3, 0, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM category_progress WHERE user_id = \$1 AND category_id = \$2 FOR UPDATE`).
		WithArgs(userID, categoryID).
		WillReturnRows(rows)

	got, err := s.GetForUpdate(context.Background(), userID, categoryID)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryProgressStoreUpdate(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	progress, err := domain.NewCategoryProgress(uuid.New(), uuid.New(), now)
	require.NoError(t, err)
	progress.XP = 250
	progress.Level = 2
	progress.CardsCompleted = 5

	t.Run("success", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE category_progress`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Update(context.Background(), progress))
	})

	t.Run("no rows affected maps to ErrCategoryProgressNotFound", func(t *testing.T) {
		s, mock, cleanup := setupCategoryProgressStore(t)
		defer cleanup()

		mock.ExpectExec(`UPDATE category_progress`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), progress)

		assert.ErrorIs(t, err, store.ErrCategoryProgressNotFound)
	})
}

func TestCategoryProgressStoreListByUserOrdersByXP(t *testing.T) {
	userID := uuid.New()
	now := time.Now().UTC()

	s, mock, cleanup := setupCategoryProgressStore(t)
	defer cleanup()

	rows := categoryProgressRows().
		AddRow(userID, uuid.New(), int64(900), 4, 12, 2, now, now).
		AddRow(userID, uuid.New(), int64(150), 2, 3, 0, now, now)
	mock.ExpectQuery(`SELECT (.+) FROM category_progress WHERE user_id = \$1 ORDER BY xp DESC`).
		WithArgs(userID).
		WillReturnRows(rows)

	rollups, err := s.ListByUser(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, rollups, 2)
	assert.Greater(t, rollups[0].XP, rollups[1].XP)
	assert.NoError(t, mock.ExpectationsWereMet())
}
