package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// InteractionStore defines the interface for interaction data persistence.
// There is exactly one interaction row per (user, card) key; every mutation
// is a read-modify-write on that single row.
type InteractionStore interface {
	// Create saves a new interaction.
	// It handles domain validation internally.
	// Returns ErrInteractionExists if a row already exists for the key.
	Create(ctx context.Context, interaction *domain.Interaction) error

	// Get retrieves the interaction for a (user, card) key.
	// Returns ErrInteractionNotFound if no row exists.
	// NOTE: This method does NOT provide any row locking, so it should not
	// be used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, key domain.InteractionKey) (*domain.Interaction, error)

	// GetForUpdate retrieves the interaction with a row-level lock using
	// SELECT FOR UPDATE. It must be called within a transaction when the
	// row will be updated, so concurrent reviews of the same card cannot
	// interleave their read-modify-write.
	// Returns ErrInteractionNotFound if no row exists.
	GetForUpdate(ctx context.Context, key domain.InteractionKey) (*domain.Interaction, error)

	// Update modifies an existing interaction, identified by the key fields
	// of the given value. It handles domain validation internally.
	// Returns ErrInteractionNotFound if no row exists.
	Update(ctx context.Context, interaction *domain.Interaction) error

	// ListDue retrieves up to limit interactions in review status whose
	// next review time is at or before now, ordered by next review time
	// ascending.
	ListDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.Interaction, error)

	// ListByStatus retrieves up to limit interactions with the given
	// status, ordered by next review time ascending.
	ListByStatus(
		ctx context.Context,
		userID uuid.UUID,
		status domain.CardStatus,
		limit int,
	) ([]*domain.Interaction, error)

	// CountByStatus returns the number of interactions per status for a
	// user. Statuses with no cards are present with a zero count.
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[domain.CardStatus]int, error)

	// WithTx returns a new InteractionStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) InteractionStore
}
