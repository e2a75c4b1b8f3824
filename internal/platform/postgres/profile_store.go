package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProfileStore.Create
// Returns store.ErrDuplicate if a profile already exists for the user.
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := s.logger.With(slog.String("user_id", profile.UserID.String()))

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO profiles (user_id, xp, streak_days, last_activity_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		profile.UserID,
		profile.XP,
		profile.StreakDays,
		nullableTime(profile.LastActivityAt),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert profile", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("profile created successfully")
	return nil
}

// Get implements store.ProfileStore.Get
// Returns store.ErrProfileNotFound if no profile exists.
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `
		SELECT user_id, xp, streak_days, last_activity_at, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`
	return s.get(ctx, query, userID)
}

// GetForUpdate implements store.ProfileStore.GetForUpdate
// It locks the row with SELECT FOR UPDATE and must be called within a
// transaction.
// Returns store.ErrProfileNotFound if no profile exists.
func (s *PostgresProfileStore) GetForUpdate(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Profile, error) {
	query := `
		SELECT user_id, xp, streak_days, last_activity_at, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
		FOR UPDATE
	`
	return s.get(ctx, query, userID)
}

func (s *PostgresProfileStore) get(
	ctx context.Context,
	query string,
	userID uuid.UUID,
) (*domain.Profile, error) {
	var profile domain.Profile
	var lastActivityAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.XP,
		&profile.StreakDays,
		&lastActivityAt,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrProfileNotFound
		}
		s.logger.Error("failed to get profile",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if lastActivityAt.Valid {
		profile.LastActivityAt = lastActivityAt.Time
	}

	return &profile, nil
}

// Update implements store.ProfileStore.Update
// Returns store.ErrProfileNotFound if no profile exists.
func (s *PostgresProfileStore) Update(ctx context.Context, profile *domain.Profile) error {
	log := s.logger.With(slog.String("user_id", profile.UserID.String()))

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during update", slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE profiles
		SET xp = $2,
			streak_days = $3,
			last_activity_at = $4,
			updated_at = $5
		WHERE user_id = $1
	`

	result, err := s.db.ExecContext(ctx, query,
		profile.UserID,
		profile.XP,
		profile.StreakDays,
		nullableTime(profile.LastActivityAt),
		profile.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update profile", slog.String("error", err.Error()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrProfileNotFound
	}

	log.Debug("profile updated successfully")
	return nil
}
