// Package store holds the in-memory profile/wishlist state that all
// rendering reads from and all coordinator writes land in first. It
// keeps exactly two profile slots: the signed-in user's own profile
// and at most one viewed friend.
package store

import (
	"sync"

	"github.com/giftwish/giftwish/internal/models"
)

// Store is safe for concurrent use. Accessors return deep copies so
// callers never share slices with the cached state.
type Store struct {
	mu         sync.RWMutex
	own        *models.UserProfile
	friend     *models.UserProfile
	selectedID string
}

// New creates an empty store
func New() *Store {
	return &Store{}
}

// SetOwn replaces the own-profile slot
func (s *Store) SetOwn(p *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.own = p.Clone()
}

// Own returns a copy of the own profile, or nil before session resolve
func (s *Store) Own() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.own.Clone()
}

// SetFriend loads a friend profile into the viewed-friend slot. Any
// previously viewed friend is discarded; there is no multi-friend
// cache.
func (s *Store) SetFriend(p *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friend = p.Clone()
}

// Friend returns a copy of the currently viewed friend profile, or nil
func (s *Store) Friend() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.friend.Clone()
}

// ClearFriend drops the viewed-friend slot, e.g. on navigation away
func (s *Store) ClearFriend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.friend = nil
}

// Reset drops all cached state, both slots and the selection
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.own = nil
	s.friend = nil
	s.selectedID = ""
}

// Select marks an item as the currently displayed/selected one
func (s *Store) Select(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = itemID
}

// Selected returns the currently selected item ID, or ""
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedID
}

// profileLocked returns the slot holding the given owner's profile.
// Caller must hold the lock.
func (s *Store) profileLocked(ownerID string) *models.UserProfile {
	if s.own != nil && s.own.ID == ownerID {
		return s.own
	}
	if s.friend != nil && s.friend.ID == ownerID {
		return s.friend
	}
	return nil
}

// Item returns a copy of one wishlist item from either slot
func (s *Store) Item(ownerID, itemID string) (models.WishlistItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return models.WishlistItem{}, false
	}
	if item := p.ItemByID(itemID); item != nil {
		return *item, true
	}
	return models.WishlistItem{}, false
}

// SetItem replaces an existing item in place, keeping its position
func (s *Store) SetItem(ownerID string, item models.WishlistItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return false
	}
	for n, cur := range p.Wishlist {
		if cur.ID == item.ID {
			cp := item
			p.Wishlist[n] = &cp
			return true
		}
	}
	return false
}

// InsertItem prepends a new item: the wishlist is ordered newest first
func (s *Store) InsertItem(ownerID string, item models.WishlistItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return false
	}
	cp := item
	p.Wishlist = append([]*models.WishlistItem{&cp}, p.Wishlist...)
	return true
}

// SwapItem replaces the item with the given temporary ID by its
// server-confirmed version, keeping the position in the list.
func (s *Store) SwapItem(ownerID, tempID string, item models.WishlistItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return false
	}
	for n, cur := range p.Wishlist {
		if cur.ID == tempID {
			cp := item
			p.Wishlist[n] = &cp
			if s.selectedID == tempID {
				s.selectedID = item.ID
			}
			return true
		}
	}
	return false
}

// RemoveItem deletes an item and returns the removed copy with its
// former position so a failed remote delete can restore it. Removing
// the currently selected item clears the selection.
func (s *Store) RemoveItem(ownerID, itemID string) (models.WishlistItem, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return models.WishlistItem{}, 0, false
	}
	for n, cur := range p.Wishlist {
		if cur.ID == itemID {
			removed := *cur
			p.Wishlist = append(p.Wishlist[:n], p.Wishlist[n+1:]...)
			if s.selectedID == itemID {
				s.selectedID = ""
			}
			return removed, n, true
		}
	}
	return models.WishlistItem{}, 0, false
}

// RestoreItem reinserts a previously removed item at its old position
func (s *Store) RestoreItem(ownerID string, item models.WishlistItem, position int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.profileLocked(ownerID)
	if p == nil {
		return false
	}
	if position < 0 {
		position = 0
	}
	if position > len(p.Wishlist) {
		position = len(p.Wishlist)
	}
	cp := item
	p.Wishlist = append(p.Wishlist[:position], append([]*models.WishlistItem{&cp}, p.Wishlist[position:]...)...)
	return true
}

// UpdateOwnFields replaces the own profile's editable fields, leaving
// the cached wishlist untouched.
func (s *Store) UpdateOwnFields(p *models.UserProfile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.own == nil || s.own.ID != p.ID {
		return false
	}
	cp := p.Clone()
	cp.Wishlist = s.own.Wishlist
	s.own = cp
	return true
}
