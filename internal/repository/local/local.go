// Package local implements the collaborator contract purely in memory.
// It backs guest sessions: the same mutation interface as the remote
// store, but device-local, with client-generated identities and no
// network calls.
package local

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
)

// Collaborator is an in-memory ProfileRepository + WishlistRepository.
type Collaborator struct {
	mu      sync.Mutex
	seq     atomic.Int64
	profile *models.UserProfile
	items   map[string]*models.WishlistItem
}

// New creates a guest collaborator holding a synthesized default
// profile.
func New() *Collaborator {
	return &Collaborator{
		profile: models.NewGuestProfile(),
		items:   make(map[string]*models.WishlistItem),
	}
}

func (c *Collaborator) nextID() string {
	return fmt.Sprintf("guest-item-%d", c.seq.Inc())
}

// --- ProfileRepository ---

func (c *Collaborator) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil || c.profile.ID != id {
		return nil, repository.ErrNotFound
	}
	return c.profile.Clone(), nil
}

func (c *Collaborator) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	// Guests have no friends to look up.
	return nil, repository.ErrNotFound
}

func (c *Collaborator) Ensure(ctx context.Context, id, name, username string) (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil {
		c.profile = models.NewGuestProfile()
	}
	return c.profile.Clone(), nil
}

func (c *Collaborator) Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.profile == nil || c.profile.ID != profile.ID {
		return nil, repository.ErrNotFound
	}
	profile.UpdatedAt = time.Now()
	c.profile = profile.Clone()
	return profile, nil
}

// --- WishlistRepository ---

func (c *Collaborator) CreateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	created := *item
	created.ID = c.nextID()
	created.Status = models.StatusAvailable
	created.ClaimedByID = ""
	created.CreatedAt = time.Now()
	c.items[created.ID] = &created

	out := created
	return &out, nil
}

func (c *Collaborator) GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *item
	return &out, nil
}

func (c *Collaborator) GetByOwner(ctx context.Context, ownerID string) ([]*models.WishlistItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var items []*models.WishlistItem
	for _, item := range c.items {
		if item.OwnerID == ownerID {
			cp := *item
			items = append(items, &cp)
		}
	}
	// Newest first, same contract as the remote store.
	sort.Slice(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
	return items, nil
}

func (c *Collaborator) UpdateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.items[item.ID]
	if !ok || cur.OwnerID != item.OwnerID {
		return nil, repository.ErrNotFound
	}
	cur.Name = item.Name
	cur.PriceRange = item.PriceRange
	cur.Priority = item.Priority
	cur.ImageURL = item.ImageURL
	cur.Link = item.Link
	cur.Notes = item.Notes

	out := *cur
	return &out, nil
}

func (c *Collaborator) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(c.items, itemID)
	return nil
}

func (c *Collaborator) ClaimItem(ctx context.Context, itemID, claimantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	if item.Status != models.StatusAvailable {
		return repository.ErrConflict
	}
	item.Status = models.StatusClaimed
	item.ClaimedByID = claimantID
	return nil
}

func (c *Collaborator) UnclaimItem(ctx context.Context, itemID, claimantID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	if item.ClaimedByID != claimantID {
		return repository.ErrConflict
	}
	item.Status = models.StatusAvailable
	item.ClaimedByID = ""
	return nil
}
