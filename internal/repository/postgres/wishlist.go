package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
)

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *sql.DB) repository.WishlistRepository {
	return &wishlistRepository{db: db}
}

const itemColumns = `id, owner_id, name, price_range, priority, status, COALESCE(claimed_by, ''), image_url, link, notes, created_at`

func (r *wishlistRepository) CreateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (id, owner_id, name, price_range, priority, status, image_url, link, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	created := *item
	created.ID = uuid.NewString()
	created.Status = models.StatusAvailable
	created.ClaimedByID = ""
	created.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		created.ID,
		created.OwnerID,
		created.Name,
		created.PriceRange,
		created.Priority,
		created.Status,
		created.ImageURL,
		created.Link,
		created.Notes,
		created.CreatedAt,
	).Scan(&created.ID, &created.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}

	return &created, nil
}

func (r *wishlistRepository) GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM wishlist_items
		WHERE id = $1`

	item := &models.WishlistItem{}
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&item.ID,
		&item.OwnerID,
		&item.Name,
		&item.PriceRange,
		&item.Priority,
		&item.Status,
		&item.ClaimedByID,
		&item.ImageURL,
		&item.Link,
		&item.Notes,
		&item.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}

	return item, nil
}

func (r *wishlistRepository) GetByOwner(ctx context.Context, ownerID string) ([]*models.WishlistItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM wishlist_items
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	for rows.Next() {
		item := &models.WishlistItem{}
		if err := rows.Scan(
			&item.ID,
			&item.OwnerID,
			&item.Name,
			&item.PriceRange,
			&item.Priority,
			&item.Status,
			&item.ClaimedByID,
			&item.ImageURL,
			&item.Link,
			&item.Notes,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateItem updates the owner-editable fields of an item. Status and
// claimant are never touched here; those change only through the
// conditional ClaimItem/UnclaimItem updates.
func (r *wishlistRepository) UpdateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	query := `
		UPDATE wishlist_items
		SET name = $3, price_range = $4, priority = $5, image_url = $6, link = $7, notes = $8
		WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.OwnerID,
		item.Name,
		item.PriceRange,
		item.Priority,
		item.ImageURL,
		item.Link,
		item.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, repository.ErrNotFound
	}

	return item, nil
}

func (r *wishlistRepository) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	query := `DELETE FROM wishlist_items WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ClaimItem marks an item CLAIMED by the given actor. The update is
// guarded by the current status so that of two racing claims exactly
// one row update wins; the loser gets ErrConflict.
func (r *wishlistRepository) ClaimItem(ctx context.Context, itemID, claimantID string) error {
	query := `
		UPDATE wishlist_items
		SET status = $3, claimed_by = $2
		WHERE id = $1 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, itemID, claimantID, models.StatusClaimed, models.StatusAvailable)
	if err != nil {
		return fmt.Errorf("failed to claim wishlist item: %w", err)
	}

	return r.conditionalOutcome(ctx, result, itemID)
}

// UnclaimItem releases an item back to AVAILABLE, but only when the
// given actor is its current claimant.
func (r *wishlistRepository) UnclaimItem(ctx context.Context, itemID, claimantID string) error {
	query := `
		UPDATE wishlist_items
		SET status = $3, claimed_by = NULL
		WHERE id = $1 AND claimed_by = $2`

	result, err := r.db.ExecContext(ctx, query, itemID, claimantID, models.StatusAvailable)
	if err != nil {
		return fmt.Errorf("failed to unclaim wishlist item: %w", err)
	}

	return r.conditionalOutcome(ctx, result, itemID)
}

// conditionalOutcome maps a zero-row conditional update to ErrNotFound
// when the item is gone and ErrConflict when it exists in a different
// state than the guard expected.
func (r *wishlistRepository) conditionalOutcome(ctx context.Context, result sql.Result, itemID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE id = $1)`, itemID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check wishlist item existence: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}
