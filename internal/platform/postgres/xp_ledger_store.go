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

// PostgresXpLedgerStore implements the store.XpLedgerStore interface
// using a PostgreSQL database as the storage backend. The ledger table is
// append-only; rows are never updated or deleted.
type PostgresXpLedgerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresXpLedgerStore creates a new PostgreSQL implementation of the
// XpLedgerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresXpLedgerStore(db store.DBTX, logger *slog.Logger) *PostgresXpLedgerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresXpLedgerStore{
		db:     db,
		logger: logger.With(slog.String("component", "xp_ledger_store")),
	}
}

// Ensure PostgresXpLedgerStore implements store.XpLedgerStore interface
var _ store.XpLedgerStore = (*PostgresXpLedgerStore)(nil)

// WithTx implements store.XpLedgerStore.WithTx
func (s *PostgresXpLedgerStore) WithTx(tx *sql.Tx) store.XpLedgerStore {
	return &PostgresXpLedgerStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.XpLedgerStore.Append
// It validates the entry and inserts it.
func (s *PostgresXpLedgerStore) Append(ctx context.Context, entry *domain.XpLedgerEntry) error {
	log := s.logger.With(
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("reason", string(entry.Reason)),
	)

	if err := entry.Validate(); err != nil {
		log.Warn("ledger entry validation failed", slog.String("error", err.Error()))
		return err
	}

	query := `
		INSERT INTO xp_ledger (id, user_id, amount, reason, card_id, deck_id,
			category_id, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Amount,
		entry.Reason,
		entry.CardID,
		entry.DeckID,
		entry.CategoryID,
		entry.OccurredAt,
		entry.CreatedAt,
	)
	if err != nil {
		log.Error("failed to append ledger entry", slog.String("error", err.Error()))
		return MapError(err)
	}

	log.Debug("ledger entry appended successfully")
	return nil
}

// SumByUser implements store.XpLedgerStore.SumByUser
// A user with no entries sums to zero.
func (s *PostgresXpLedgerStore) SumByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM xp_ledger
		WHERE user_id = $1
	`

	var total int64
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&total)
	if err != nil {
		s.logger.Error("failed to sum ledger entries",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return total, nil
}

// DailyActivity implements store.XpLedgerStore.DailyActivity
// Entries are bucketed by UTC calendar day over [since, until).
func (s *PostgresXpLedgerStore) DailyActivity(
	ctx context.Context,
	userID uuid.UUID,
	since, until time.Time,
) ([]store.DailyActivity, error) {
	query := `
		SELECT date_trunc('day', occurred_at AT TIME ZONE 'UTC') AS day, COUNT(*)
		FROM xp_ledger
		WHERE user_id = $1
			AND occurred_at >= $2
			AND occurred_at < $3
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since, until)
	if err != nil {
		s.logger.Error("failed to query daily activity",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var activity []store.DailyActivity
	for rows.Next() {
		var day store.DailyActivity
		if err := rows.Scan(&day.Date, &day.Count); err != nil {
			return nil, MapError(err)
		}
		activity = append(activity, day)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return activity, nil
}
