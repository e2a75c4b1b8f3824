package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// DailyActivity is one day of ledger activity for the heatmap: the UTC
// calendar date and the number of awards recorded on it.
type DailyActivity struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// XpLedgerStore defines the interface for the append-only XP ledger.
// Entries are immutable once written; there is no update or delete.
type XpLedgerStore interface {
	// Append writes a new ledger entry.
	// It handles domain validation internally.
	Append(ctx context.Context, entry *domain.XpLedgerEntry) error

	// SumByUser returns the total XP recorded for a user across all
	// entries. Used to cross-check the profile counter in audits.
	SumByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// DailyActivity returns the number of entries per UTC calendar day
	// for a user in the half-open interval [since, until), ordered by
	// date ascending. Days with no activity are omitted.
	DailyActivity(
		ctx context.Context,
		userID uuid.UUID,
		since, until time.Time,
	) ([]DailyActivity, error)

	// WithTx returns a new XpLedgerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) XpLedgerStore
}
