package repository

import (
	"context"

	"github.com/giftwish/giftwish/internal/models"
)

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	GetByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	// Ensure returns the profile for the given id, lazily provisioning
	// a default row on first authenticated session.
	Ensure(ctx context.Context, id, name, username string) (*models.UserProfile, error)
	Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
}

// WishlistRepository defines the interface for wishlist item
// operations. Items carry server-assigned identity and creation
// timestamps; listings are ordered newest first.
//
// ClaimItem and UnclaimItem are conditional updates: they succeed only
// from the expected current state, so that of two racing claims
// exactly one wins. A lost race is reported as ErrConflict.
type WishlistRepository interface {
	CreateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*models.WishlistItem, error)
	UpdateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	DeleteItem(ctx context.Context, ownerID, itemID string) error
	ClaimItem(ctx context.Context, itemID, claimantID string) error
	UnclaimItem(ctx context.Context, itemID, claimantID string) error
}

// SessionRepository defines the interface for session token operations
type SessionRepository interface {
	Create(ctx context.Context, actorID string) (*models.Session, error)
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}
