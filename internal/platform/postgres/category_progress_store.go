package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// PostgresCategoryProgressStore implements the store.CategoryProgressStore
// interface using a PostgreSQL database as the storage backend.
type PostgresCategoryProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCategoryProgressStore creates a new PostgreSQL implementation of
// the CategoryProgressStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresCategoryProgressStore(
	db store.DBTX,
	logger *slog.Logger,
) *PostgresCategoryProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCategoryProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "category_progress_store")),
	}
}

// Ensure PostgresCategoryProgressStore implements store.CategoryProgressStore interface
var _ store.CategoryProgressStore = (*PostgresCategoryProgressStore)(nil)

// WithTx implements store.CategoryProgressStore.WithTx
func (s *PostgresCategoryProgressStore) WithTx(tx *sql.Tx) store.CategoryProgressStore {
	return &PostgresCategoryProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

const categoryProgressColumns = `user_id, category_id, xp, level, cards_completed,
		cards_gold, created_at, updated_at`

// Create implements store.CategoryProgressStore.Create
// Returns store.ErrDuplicate if a rollup already exists for the pair.
func (s *PostgresCategoryProgressStore) Create(
	ctx context.Context,
	progress *domain.CategoryProgress,
) error {
	log := s.logger.With(
		slog.String("user_id", progress.UserID.String()),
		slog.String("category_id", progress.CategoryID.String()),
	)

	if err := progress.Validate(); err != nil {
		log.Warn("category progress validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO category_progress (` + categoryProgressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		progress.CategoryID,
		progress.XP,
		progress.Level,
		progress.CardsCompleted,
		progress.CardsGold,
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert category progress", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("category progress created successfully")
	return nil
}

// Get implements store.CategoryProgressStore.Get
// Returns store.ErrCategoryProgressNotFound if no rollup exists.
func (s *PostgresCategoryProgressStore) Get(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (*domain.CategoryProgress, error) {
	query := `
		SELECT ` + categoryProgressColumns + `
		FROM category_progress
		WHERE user_id = $1 AND category_id = $2
	`
	return s.get(ctx, query, userID, categoryID)
}

// GetForUpdate implements store.CategoryProgressStore.GetForUpdate
// It locks the row with SELECT FOR UPDATE and must be called within a
// transaction.
// Returns store.ErrCategoryProgressNotFound if no rollup exists.
func (s *PostgresCategoryProgressStore) GetForUpdate(
	ctx context.Context,
	userID, categoryID uuid.UUID,
) (*domain.CategoryProgress, error) {
	query := `
		SELECT ` + categoryProgressColumns + `
		FROM category_progress
		WHERE user_id = $1 AND category_id = $2
		FOR UPDATE
	`
	return s.get(ctx, query, userID, categoryID)
}

func (s *PostgresCategoryProgressStore) get(
	ctx context.Context,
	query string,
	userID, categoryID uuid.UUID,
) (*domain.CategoryProgress, error) {
	row := s.db.QueryRowContext(ctx, query, userID, categoryID)

	progress, err := scanCategoryProgress(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrCategoryProgressNotFound
		}
		s.logger.Error("failed to get category progress",
			slog.String("user_id", userID.String()),
			slog.String("category_id", categoryID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return progress, nil
}

// Update implements store.CategoryProgressStore.Update
// Returns store.ErrCategoryProgressNotFound if no rollup exists.
func (s *PostgresCategoryProgressStore) Update(
	ctx context.Context,
	progress *domain.CategoryProgress,
) error {
	log := s.logger.With(
		slog.String("user_id", progress.UserID.String()),
		slog.String("category_id", progress.CategoryID.String()),
	)

	if err := progress.Validate(); err != nil {
		log.Warn("category progress validation failed during update",
			slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE category_progress
		SET xp = $3,
			level = $4,
			cards_completed = $5,
			cards_gold = $6,
			updated_at = $7
		WHERE user_id = $1 AND category_id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		progress.UserID,
		progress.CategoryID,
		progress.XP,
		progress.Level,
		progress.CardsCompleted,
		progress.CardsGold,
		progress.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update category progress", slog.String("error", err.Error()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrCategoryProgressNotFound
	}

	log.Debug("category progress updated successfully")
	return nil
}

// ListByUser implements store.CategoryProgressStore.ListByUser
// Rollups are returned highest XP first.
func (s *PostgresCategoryProgressStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.CategoryProgress, error) {
	query := `
		SELECT ` + categoryProgressColumns + `
		FROM category_progress
		WHERE user_id = $1
		ORDER BY xp DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		s.logger.Error("failed to query category progress",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var rollups []*domain.CategoryProgress
	for rows.Next() {
		progress, err := scanCategoryProgress(rows)
		if err != nil {
			return nil, MapError(err)
		}
		rollups = append(rollups, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return rollups, nil
}

func scanCategoryProgress(row rowScanner) (*domain.CategoryProgress, error) {
	var progress domain.CategoryProgress

	err := row.Scan(
		&progress.UserID,
		&progress.CategoryID,
		&progress.XP,
		&progress.Level,
		&progress.CardsCompleted,
		&progress.CardsGold,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &progress, nil
}
