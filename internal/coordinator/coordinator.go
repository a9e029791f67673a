// Package coordinator applies mutating actions optimistically: local
// state changes synchronously, the matching remote mutation runs
// asynchronously, and a remote failure rolls the local write back to
// its pre-transition snapshot. The remote collaborator stays
// authoritative; the store only ever runs ahead of it, never against
// it.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/claim"
	"github.com/giftwish/giftwish/internal/metrics"
	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/store"
)

// CelebrationEvent is emitted after a successful optimistic claim, at
// the screen coordinates of the triggering interaction. Rendering it
// is the subscriber's business.
type CelebrationEvent struct {
	ItemID string
	X, Y   float64
}

// Coordinator routes every mutating action through local validation,
// an immediate store write, and an asynchronous remote call. The
// backing collaborator is swappable at runtime: guest sessions run
// against a local in-memory strategy, authenticated sessions against
// the remote one.
type Coordinator struct {
	store  *store.Store
	logger *logrus.Logger

	mu       sync.RWMutex
	profiles repository.ProfileRepository
	wishlist repository.WishlistRepository

	onError func(error)
	onClaim func(CelebrationEvent)

	wg sync.WaitGroup
}

// New creates a coordinator over the given store and collaborator
func New(st *store.Store, profiles repository.ProfileRepository, wishlist repository.WishlistRepository, logger *logrus.Logger) *Coordinator {
	return &Coordinator{
		store:    st,
		logger:   logger,
		profiles: profiles,
		wishlist: wishlist,
	}
}

// SetBackend swaps the collaborator strategy. The session bridge calls
// this when moving between guest and authenticated modes.
func (c *Coordinator) SetBackend(profiles repository.ProfileRepository, wishlist repository.WishlistRepository) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles = profiles
	c.wishlist = wishlist
}

func (c *Coordinator) backend() (repository.ProfileRepository, repository.WishlistRepository) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profiles, c.wishlist
}

// OnError registers the callback that receives non-fatal remote
// failures after the corresponding rollback has been applied. Safe to
// call while mutations are in flight.
func (c *Coordinator) OnError(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onError = fn
}

// OnClaim registers the celebration event subscriber
func (c *Coordinator) OnClaim(fn func(CelebrationEvent)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onClaim = fn
}

func (c *Coordinator) claimSubscriber() func(CelebrationEvent) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onClaim
}

// Wait blocks until all in-flight remote mutations have settled
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) async(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

func (c *Coordinator) report(err error) {
	c.logger.WithError(err).Warn("Remote mutation failed, local state rolled back")
	c.mu.RLock()
	fn := c.onError
	c.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}

func (c *Coordinator) ownID() string {
	if own := c.store.Own(); own != nil {
		return own.ID
	}
	return ""
}

// Claim claims an item on a friend's wishlist for the given actor. The
// x/y pair locates the triggering interaction for the celebration
// event. Local validation failures return synchronously and never
// reach the network.
func (c *Coordinator) Claim(ctx context.Context, actorID, ownerID, itemID string, x, y float64) error {
	cur, ok := c.store.Item(ownerID, itemID)
	if !ok {
		metrics.ActionsTotal.WithLabelValues("claim", "rejected").Inc()
		return fmt.Errorf("claim item %s: %w", itemID, repository.ErrNotFound)
	}

	next, err := claim.Claim(cur, actorID)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("claim", "rejected").Inc()
		return err
	}

	c.store.SetItem(ownerID, next)
	metrics.ActionsTotal.WithLabelValues("claim", "ok").Inc()
	if fn := c.claimSubscriber(); fn != nil {
		fn(CelebrationEvent{ItemID: itemID, X: x, Y: y})
	}

	_, wishlist := c.backend()
	c.async(func() {
		if err := wishlist.ClaimItem(ctx, itemID, actorID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				metrics.ClaimConflictsTotal.Inc()
			}
			metrics.ActionsTotal.WithLabelValues("claim", "failed").Inc()
			metrics.RollbacksTotal.Inc()
			c.store.SetItem(ownerID, cur)
			c.report(fmt.Errorf("claim item %s: %w", itemID, err))
		}
	})

	return nil
}

// Unclaim releases a claim previously made by the same actor
func (c *Coordinator) Unclaim(ctx context.Context, actorID, ownerID, itemID string) error {
	cur, ok := c.store.Item(ownerID, itemID)
	if !ok {
		metrics.ActionsTotal.WithLabelValues("unclaim", "rejected").Inc()
		return fmt.Errorf("unclaim item %s: %w", itemID, repository.ErrNotFound)
	}

	next, err := claim.Unclaim(cur, actorID)
	if err != nil {
		metrics.ActionsTotal.WithLabelValues("unclaim", "rejected").Inc()
		return err
	}

	c.store.SetItem(ownerID, next)
	metrics.ActionsTotal.WithLabelValues("unclaim", "ok").Inc()

	_, wishlist := c.backend()
	c.async(func() {
		if err := wishlist.UnclaimItem(ctx, itemID, actorID); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				metrics.ClaimConflictsTotal.Inc()
			}
			metrics.ActionsTotal.WithLabelValues("unclaim", "failed").Inc()
			metrics.RollbacksTotal.Inc()
			c.store.SetItem(ownerID, cur)
			c.report(fmt.Errorf("unclaim item %s: %w", itemID, err))
		}
	})

	return nil
}

// AddItem creates a new wishlist item on the caller's own list. The
// item appears first in the wishlist immediately under a temporary
// client-generated identity, replaced by the server-assigned one when
// the remote create confirms.
func (c *Coordinator) AddItem(ctx context.Context, ownerID string, item models.WishlistItem) (models.WishlistItem, error) {
	if ownerID != c.ownID() {
		metrics.ActionsTotal.WithLabelValues("add", "rejected").Inc()
		return models.WishlistItem{}, claim.ErrForbidden
	}
	if item.Name == "" {
		metrics.ActionsTotal.WithLabelValues("add", "rejected").Inc()
		return models.WishlistItem{}, fmt.Errorf("item name is required")
	}
	if !models.ValidPriority(item.Priority) {
		item.Priority = models.PriorityMedium
	}

	tempID := "local-" + uuid.NewString()
	item.ID = tempID
	item.OwnerID = ownerID
	item.Status = models.StatusAvailable
	item.ClaimedByID = ""
	item.CreatedAt = time.Now()

	c.store.InsertItem(ownerID, item)
	metrics.ActionsTotal.WithLabelValues("add", "ok").Inc()

	_, wishlist := c.backend()
	send := item
	c.async(func() {
		created, err := wishlist.CreateItem(ctx, &send)
		if err != nil {
			metrics.ActionsTotal.WithLabelValues("add", "failed").Inc()
			metrics.RollbacksTotal.Inc()
			c.store.RemoveItem(ownerID, tempID)
			c.report(fmt.Errorf("add item %q: %w", send.Name, err))
			return
		}
		c.store.SwapItem(ownerID, tempID, *created)
	})

	return item, nil
}

// DeleteItem removes an item from the caller's own list. Deleting the
// currently selected item clears the selection.
func (c *Coordinator) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	if ownerID != c.ownID() {
		metrics.ActionsTotal.WithLabelValues("delete", "rejected").Inc()
		return claim.ErrForbidden
	}

	removed, position, ok := c.store.RemoveItem(ownerID, itemID)
	if !ok {
		metrics.ActionsTotal.WithLabelValues("delete", "rejected").Inc()
		return fmt.Errorf("delete item %s: %w", itemID, repository.ErrNotFound)
	}
	metrics.ActionsTotal.WithLabelValues("delete", "ok").Inc()

	_, wishlist := c.backend()
	c.async(func() {
		if err := wishlist.DeleteItem(ctx, ownerID, itemID); err != nil {
			metrics.ActionsTotal.WithLabelValues("delete", "failed").Inc()
			metrics.RollbacksTotal.Inc()
			c.store.RestoreItem(ownerID, removed, position)
			c.report(fmt.Errorf("delete item %s: %w", itemID, err))
		}
	})

	return nil
}

// EditProfile updates the caller's own profile fields (name, username,
// birthday, avatar, sizes, interests, dislikes). The wishlist is not
// touched.
func (c *Coordinator) EditProfile(ctx context.Context, updated *models.UserProfile) error {
	prev := c.store.Own()
	if prev == nil || prev.ID != updated.ID {
		metrics.ActionsTotal.WithLabelValues("edit_profile", "rejected").Inc()
		return claim.ErrForbidden
	}

	c.store.UpdateOwnFields(updated)
	metrics.ActionsTotal.WithLabelValues("edit_profile", "ok").Inc()

	profiles, _ := c.backend()
	send := updated.Clone()
	c.async(func() {
		if _, err := profiles.Update(ctx, send); err != nil {
			metrics.ActionsTotal.WithLabelValues("edit_profile", "failed").Inc()
			metrics.RollbacksTotal.Inc()
			c.store.UpdateOwnFields(prev)
			c.report(fmt.Errorf("update profile %s: %w", send.ID, err))
		}
	})

	return nil
}

// ViewFriend switches the viewed-friend slot to the given profile. The
// previous friend is cleared before anything loads, so a fetch failure
// never leaves stale cross-profile state behind.
func (c *Coordinator) ViewFriend(ctx context.Context, friendID string) (*models.UserProfile, error) {
	c.store.ClearFriend()

	profiles, wishlist := c.backend()
	p, err := profiles.GetByID(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("load friend profile %s: %w", friendID, err)
	}
	items, err := wishlist.GetByOwner(ctx, friendID)
	if err != nil {
		return nil, fmt.Errorf("load friend wishlist %s: %w", friendID, err)
	}
	p.Wishlist = items

	c.store.SetFriend(p)
	return c.store.Friend(), nil
}

// RefreshOwn refetches the signed-in user's profile and wishlist from
// the collaborator into the own slot.
func (c *Coordinator) RefreshOwn(ctx context.Context, actorID string) error {
	profiles, wishlist := c.backend()

	p, err := profiles.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("refresh profile %s: %w", actorID, err)
	}
	items, err := wishlist.GetByOwner(ctx, actorID)
	if err != nil {
		return fmt.Errorf("refresh wishlist %s: %w", actorID, err)
	}
	p.Wishlist = items

	c.store.SetOwn(p)
	return nil
}
