package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/wikilearn/wikilearn-api/internal/domain"
)

// ProfileStore defines the interface for profile data persistence.
// XP and streak updates are read-modify-write cycles on the single
// per-user row and must go through GetForUpdate inside a transaction.
type ProfileStore interface {
	// Create saves a new profile. Profiles are created at signup,
	// before any XP can be awarded.
	// Returns ErrDuplicate if a profile already exists for the user.
	Create(ctx context.Context, profile *domain.Profile) error

	// Get retrieves a profile by user ID without locking.
	// Returns ErrProfileNotFound if no profile exists.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// GetForUpdate retrieves a profile with a row-level lock using
	// SELECT FOR UPDATE. Use within a transaction before mutating XP or
	// streak state so concurrent awards to the same user serialize.
	// Returns ErrProfileNotFound if no profile exists.
	GetForUpdate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Update modifies an existing profile.
	// Returns ErrProfileNotFound if no profile exists.
	Update(ctx context.Context, profile *domain.Profile) error

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProfileStore
}
