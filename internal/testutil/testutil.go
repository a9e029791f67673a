// Package testutil provides in-memory fakes of the collaborator
// contract with per-call error injection, for exercising the
// optimistic coordinator and the session bridge without a database.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
)

// FakeCollaborator implements repository.ProfileRepository and
// repository.WishlistRepository in memory. Zero value is not usable;
// create with NewFakeCollaborator.
type FakeCollaborator struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	items    map[string]*models.WishlistItem
	order    []string // creation order of item ids
	seq      int
	base     time.Time

	// Error injection. CreateErrFor keys on item name.
	CreateErr        error
	CreateErrFor     map[string]error
	DeleteErr        error
	ClaimErr         error
	UnclaimErr       error
	UpdateProfileErr error

	// Call counters
	CreateCalls  int
	DeleteCalls  int
	ClaimCalls   int
	UnclaimCalls int
}

// NewFakeCollaborator creates an empty fake
func NewFakeCollaborator() *FakeCollaborator {
	return &FakeCollaborator{
		profiles: make(map[string]*models.UserProfile),
		items:    make(map[string]*models.WishlistItem),
		base:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// SeedProfile installs a profile without going through Ensure
func (f *FakeCollaborator) SeedProfile(p *models.UserProfile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.ID] = p.Clone()
}

// SeedItem installs an item with a generated id and returns it
func (f *FakeCollaborator) SeedItem(item models.WishlistItem) *models.WishlistItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertLocked(item)
}

func (f *FakeCollaborator) insertLocked(item models.WishlistItem) *models.WishlistItem {
	f.seq++
	if item.ID == "" {
		item.ID = fmt.Sprintf("srv-%d", f.seq)
	}
	item.CreatedAt = f.base.Add(time.Duration(f.seq) * time.Second)
	if item.Status == "" {
		item.Status = models.StatusAvailable
	}
	f.items[item.ID] = &item
	f.order = append(f.order, item.ID)
	out := item
	return &out
}

// ItemCount returns the number of stored items
func (f *FakeCollaborator) ItemCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// StoredItem returns a stored item copy by id
func (f *FakeCollaborator) StoredItem(id string) (models.WishlistItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[id]
	if !ok {
		return models.WishlistItem{}, false
	}
	return *item, true
}

// --- repository.ProfileRepository ---

func (f *FakeCollaborator) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (f *FakeCollaborator) GetByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.profiles {
		if p.Username == username {
			return p.Clone(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeCollaborator) Ensure(ctx context.Context, id, name, username string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[id]; ok {
		return p.Clone(), nil
	}
	p := &models.UserProfile{
		ID:        id,
		Name:      name,
		Username:  username,
		Sizes:     []models.SizeEntry{},
		Interests: []string{},
		Dislikes:  []string{},
	}
	f.profiles[id] = p
	return p.Clone(), nil
}

func (f *FakeCollaborator) Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	if f.UpdateProfileErr != nil {
		return nil, f.UpdateProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[profile.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	f.profiles[profile.ID] = profile.Clone()
	return profile, nil
}

// --- repository.WishlistRepository ---

func (f *FakeCollaborator) CreateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	f.mu.Lock()
	f.CreateCalls++
	f.mu.Unlock()

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if err, ok := f.CreateErrFor[item.Name]; ok && err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	created := *item
	created.ID = ""
	created.Status = models.StatusAvailable
	created.ClaimedByID = ""
	return f.insertLocked(created), nil
}

func (f *FakeCollaborator) GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *item
	return &out, nil
}

func (f *FakeCollaborator) GetByOwner(ctx context.Context, ownerID string) ([]*models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []*models.WishlistItem
	// Newest first.
	for n := len(f.order) - 1; n >= 0; n-- {
		item, ok := f.items[f.order[n]]
		if !ok || item.OwnerID != ownerID {
			continue
		}
		cp := *item
		items = append(items, &cp)
	}
	return items, nil
}

func (f *FakeCollaborator) UpdateItem(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.items[item.ID]
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

func (f *FakeCollaborator) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	f.mu.Lock()
	f.DeleteCalls++
	f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
	if !ok || item.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.items, itemID)
	return nil
}

func (f *FakeCollaborator) ClaimItem(ctx context.Context, itemID, claimantID string) error {
	f.mu.Lock()
	f.ClaimCalls++
	f.mu.Unlock()

	if f.ClaimErr != nil {
		return f.ClaimErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
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

func (f *FakeCollaborator) UnclaimItem(ctx context.Context, itemID, claimantID string) error {
	f.mu.Lock()
	f.UnclaimCalls++
	f.mu.Unlock()

	if f.UnclaimErr != nil {
		return f.UnclaimErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[itemID]
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

// FakeSessions implements repository.SessionRepository in memory
type FakeSessions struct {
	mu       sync.Mutex
	seq      int
	sessions map[string]*models.Session
}

// NewFakeSessions creates an empty session store
func NewFakeSessions() *FakeSessions {
	return &FakeSessions{sessions: make(map[string]*models.Session)}
}

func (f *FakeSessions) Create(ctx context.Context, actorID string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	s := &models.Session{
		Token:     fmt.Sprintf("token-%d", f.seq),
		ActorID:   actorID,
		CreatedAt: time.Now(),
	}
	f.sessions[s.Token] = s
	return s, nil
}

func (f *FakeSessions) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (f *FakeSessions) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[token]; !ok {
		return repository.ErrNotFound
	}
	delete(f.sessions, token)
	return nil
}
