package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// CategoryProgressStore defines the interface for per-category rollup
// persistence. Rollups are created lazily on the first award tagged with
// a category.
type CategoryProgressStore interface {
	// Create saves a new rollup for a (user, category) pair.
	// Returns ErrDuplicate if a rollup already exists.
	Create(ctx context.Context, progress *domain.CategoryProgress) error

	// Get retrieves the rollup for a (user, category) pair without locking.
	// Returns ErrCategoryProgressNotFound if no rollup exists.
	Get(ctx context.Context, userID, categoryID uuid.UUID) (*domain.CategoryProgress, error)

	// GetForUpdate retrieves the rollup with a row-level lock using
	// SELECT FOR UPDATE for use within a transaction that mutates it.
	// Returns ErrCategoryProgressNotFound if no rollup exists.
	GetForUpdate(ctx context.Context, userID, categoryID uuid.UUID) (*domain.CategoryProgress, error)

	// Update modifies an existing rollup.
	// Returns ErrCategoryProgressNotFound if no rollup exists.
	Update(ctx context.Context, progress *domain.CategoryProgress) error

	// ListByUser retrieves all rollups for a user, ordered by XP descending.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CategoryProgress, error)

	// WithTx returns a new CategoryProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CategoryProgressStore
}
