package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
	"github.com/wikilearn/wikilearn-api/internal/store"
)

// PostgresInteractionStore implements the store.InteractionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresInteractionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInteractionStore creates a new PostgreSQL implementation of the
// InteractionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresInteractionStore(db store.DBTX, logger *slog.Logger) *PostgresInteractionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresInteractionStore{
		db:     db,
		logger: logger.With(slog.String("component", "interaction_store")),
	}
}

// Ensure PostgresInteractionStore implements store.InteractionStore interface
var _ store.InteractionStore = (*PostgresInteractionStore)(nil)

// WithTx implements store.InteractionStore.WithTx
// It returns a new InteractionStore instance backed by the given transaction.
func (s *PostgresInteractionStore) WithTx(tx *sql.Tx) store.InteractionStore {
	return &PostgresInteractionStore{
		db:     tx,
		logger: s.logger,
	}
}

const interactionColumns = `user_id, card_id, status, ease_factor, interval_days,
		repetitions, consecutive_successes, next_review_at, last_reviewed_at,
		created_at, updated_at`

// Create implements store.InteractionStore.Create
// It validates the interaction and inserts its row.
// Returns store.ErrInteractionExists if a row already exists for the
// (user, card) key.
func (s *PostgresInteractionStore) Create(
	ctx context.Context,
	interaction *domain.Interaction,
) error {
	log := s.logger.With(
		slog.String("user_id", interaction.UserID.String()),
		slog.String("card_id", interaction.CardID.String()),
	)

	if err := interaction.Validate(); err != nil {
		log.Warn("interaction validation failed during create", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO interactions (` + interactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.db.ExecContext(ctx, query,
		interaction.UserID,
		interaction.CardID,
		interaction.Status,
		interaction.EaseFactor,
		interaction.IntervalDays,
		interaction.Repetitions,
		interaction.ConsecutiveSuccesses,
		interaction.NextReviewAt,
		nullableTime(interaction.LastReviewedAt),
		interaction.CreatedAt,
		interaction.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert interaction", slog.String("error", err.Error()))
		return MapUniqueViolation(err, store.ErrInteractionExists)
	}

	log.Debug("interaction created successfully")
	return nil
}

// Get implements store.InteractionStore.Get
// Returns store.ErrInteractionNotFound if no row exists for the key.
func (s *PostgresInteractionStore) Get(
	ctx context.Context,
	key domain.InteractionKey,
) (*domain.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = $1 AND card_id = $2
	`
	return s.getByKey(ctx, query, key)
}

// GetForUpdate implements store.InteractionStore.GetForUpdate
// It locks the row with SELECT FOR UPDATE and must be called within a
// transaction.
// Returns store.ErrInteractionNotFound if no row exists for the key.
func (s *PostgresInteractionStore) GetForUpdate(
	ctx context.Context,
	key domain.InteractionKey,
) (*domain.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = $1 AND card_id = $2
		FOR UPDATE
	`
	return s.getByKey(ctx, query, key)
}

func (s *PostgresInteractionStore) getByKey(
	ctx context.Context,
	query string,
	key domain.InteractionKey,
) (*domain.Interaction, error) {
	row := s.db.QueryRowContext(ctx, query, key.UserID, key.CardID)

	interaction, err := scanInteraction(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrInteractionNotFound
		}
		s.logger.Error("failed to get interaction",
			slog.String("user_id", key.UserID.String()),
			slog.String("card_id", key.CardID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return interaction, nil
}

// Update implements store.InteractionStore.Update
// It validates the interaction and overwrites the scheduling state of the
// row identified by the key fields.
// Returns store.ErrInteractionNotFound if no row exists.
func (s *PostgresInteractionStore) Update(
	ctx context.Context,
	interaction *domain.Interaction,
) error {
	log := s.logger.With(
		slog.String("user_id", interaction.UserID.String()),
		slog.String("card_id", interaction.CardID.String()),
	)

	if err := interaction.Validate(); err != nil {
		log.Warn("interaction validation failed during update", slog.String("error", err.Error()))
		return err
	}

	query := `
		UPDATE interactions
		SET status = $3,
			ease_factor = $4,
			interval_days = $5,
			repetitions = $6,
			consecutive_successes = $7,
			next_review_at = $8,
			last_reviewed_at = $9,
			updated_at = $10
		WHERE user_id = $1 AND card_id = $2
	`

	result, err := s.db.ExecContext(ctx, query,
		interaction.UserID,
		interaction.CardID,
		interaction.Status,
		interaction.EaseFactor,
		interaction.IntervalDays,
		interaction.Repetitions,
		interaction.ConsecutiveSuccesses,
		interaction.NextReviewAt,
		nullableTime(interaction.LastReviewedAt),
		interaction.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update interaction", slog.String("error", err.Error()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rowsAffected == 0 {
		return store.ErrInteractionNotFound
	}

	log.Debug("interaction updated successfully")
	return nil
}

// ListDue implements store.InteractionStore.ListDue
// It returns interactions past their scheduled review time, soonest first.
func (s *PostgresInteractionStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = $1
			AND status = $2
			AND next_review_at <= $3
		ORDER BY next_review_at ASC
		LIMIT $4
	`
	return s.list(ctx, query, userID, domain.CardStatusReview, now, limit)
}

// ListByStatus implements store.InteractionStore.ListByStatus
func (s *PostgresInteractionStore) ListByStatus(
	ctx context.Context,
	userID uuid.UUID,
	status domain.CardStatus,
	limit int,
) ([]*domain.Interaction, error) {
	query := `
		SELECT ` + interactionColumns + `
		FROM interactions
		WHERE user_id = $1 AND status = $2
		ORDER BY next_review_at ASC
		LIMIT $3
	`
	return s.list(ctx, query, userID, status, limit)
}

func (s *PostgresInteractionStore) list(
	ctx context.Context,
	query string,
	args ...interface{},
) ([]*domain.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("failed to query interactions", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var interactions []*domain.Interaction
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, MapError(err)
		}
		interactions = append(interactions, interaction)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return interactions, nil
}

// CountByStatus implements store.InteractionStore.CountByStatus
// Every known status appears in the result, zero-valued when the user has
// no cards in it.
func (s *PostgresInteractionStore) CountByStatus(
	ctx context.Context,
	userID uuid.UUID,
) (map[domain.CardStatus]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM interactions
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		s.logger.Error("failed to count interactions by status",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[domain.CardStatus]int, len(domain.AllCardStatuses))
	for _, status := range domain.AllCardStatuses {
		counts[status] = 0
	}

	for rows.Next() {
		var status domain.CardStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, MapError(err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return counts, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInteraction(row rowScanner) (*domain.Interaction, error) {
	var interaction domain.Interaction
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&interaction.UserID,
		&interaction.CardID,
		&interaction.Status,
		&interaction.EaseFactor,
		&interaction.IntervalDays,
		&interaction.Repetitions,
		&interaction.ConsecutiveSuccesses,
		&interaction.NextReviewAt,
		&lastReviewedAt,
		&interaction.CreatedAt,
		&interaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		interaction.LastReviewedAt = lastReviewedAt.Time
	}

	return &interaction, nil
}

// nullableTime converts a zero time.Time to a NULL database value.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
