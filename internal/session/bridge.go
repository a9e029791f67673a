// Package session tracks whether the app core operates on guest-local
// or remote-backed state, and migrates guest-created wishlist items to
// the remote collaborator when a session is established.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/coordinator"
	"github.com/giftwish/giftwish/internal/metrics"
	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/repository/local"
	"github.com/giftwish/giftwish/internal/store"
)

// State is the session bridge state
type State int

const (
	Unauthenticated State = iota
	Guest
	Authenticated
)

func (s State) String() string {
	switch s {
	case Guest:
		return "guest"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Change describes a session state transition
type Change struct {
	State   State
	ActorID string
}

// MigrationError reports a guest-to-authenticated migration that
// partially failed. Migration is best-effort per item: the items named
// here failed, every other item made it to remote storage.
type MigrationError struct {
	FailedItems []string
	errs        *multierror.Error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("partial migration: %d guest item(s) failed: %v",
		len(e.FailedItems), e.errs.ErrorOrNil())
}

func (e *MigrationError) Unwrap() error {
	return e.errs.ErrorOrNil()
}

// Bridge moves the core between Unauthenticated, Guest and
// Authenticated states and swaps the coordinator's collaborator
// strategy accordingly. Exactly one actor is active at a time.
type Bridge struct {
	mu     sync.Mutex
	state  State
	actor  string
	token  string
	guest  *local.Collaborator
	logger *logrus.Logger

	store    *store.Store
	coord    *coordinator.Coordinator
	profiles repository.ProfileRepository
	wishlist repository.WishlistRepository
	sessions repository.SessionRepository

	changes chan Change
}

// New creates a bridge in the Unauthenticated state. profiles and
// wishlist are the remote collaborator; the guest strategy is
// synthesized on demand.
func New(st *store.Store, coord *coordinator.Coordinator,
	profiles repository.ProfileRepository,
	wishlist repository.WishlistRepository,
	sessions repository.SessionRepository,
	logger *logrus.Logger,
) *Bridge {
	return &Bridge{
		state:    Unauthenticated,
		store:    st,
		coord:    coord,
		profiles: profiles,
		wishlist: wishlist,
		sessions: sessions,
		logger:   logger,
		changes:  make(chan Change, 8),
	}
}

// State returns the current session state
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// ActorID returns the active actor's id, or "" when unauthenticated
func (b *Bridge) ActorID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.actor
}

// Changes delivers session state transitions. Slow consumers drop
// notifications rather than blocking transitions.
func (b *Bridge) Changes() <-chan Change {
	return b.changes
}

func (b *Bridge) notify(ch Change) {
	select {
	case b.changes <- ch:
	default:
	}
}

// EnterGuest moves from Unauthenticated to Guest. A default empty
// profile is synthesized locally; no remote calls are made while the
// bridge stays in this state.
func (b *Bridge) EnterGuest() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Unauthenticated {
		return fmt.Errorf("cannot enter guest mode from %s state", b.state)
	}

	b.guest = local.New()
	b.store.SetOwn(models.NewGuestProfile())
	b.coord.SetBackend(b.guest, b.guest)
	b.state = Guest
	b.actor = models.GuestID

	b.logger.Info("Entered guest mode")
	b.notify(Change{State: Guest, ActorID: models.GuestID})
	return nil
}

// LeaveGuest exits guest mode back to Unauthenticated, irreversibly
// discarding all guest-local data.
func (b *Bridge) LeaveGuest() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != Guest {
		return fmt.Errorf("cannot leave guest mode from %s state", b.state)
	}

	b.guest = nil
	b.store.Reset()
	b.coord.SetBackend(b.profiles, b.wishlist)
	b.state = Unauthenticated
	b.actor = ""

	b.logger.Info("Left guest mode, local data discarded")
	b.notify(Change{State: Unauthenticated})
	return nil
}

// Resolve looks up an existing session token and signs its actor in
func (b *Bridge) Resolve(ctx context.Context, token string) error {
	session, err := b.sessions.GetByToken(ctx, token)
	if err != nil {
		return fmt.Errorf("resolve session: %w", err)
	}
	if err := b.SignIn(ctx, session.ActorID, "", ""); err != nil {
		return err
	}
	b.mu.Lock()
	b.token = token
	b.mu.Unlock()
	return nil
}

// SignIn completes authentication for the given actor. When arriving
// from Guest with a non-empty wishlist, every guest-created item is
// migrated to remote storage first, each independently: a failed item
// does not block the others, and partial failure is reported as a
// *MigrationError after the session is fully established.
func (b *Bridge) SignIn(ctx context.Context, actorID, name, username string) error {
	b.mu.Lock()
	fromGuest := b.state == Guest
	var pending []*models.WishlistItem
	if fromGuest {
		if own := b.store.Own(); own != nil {
			pending = own.Wishlist
		}
	}
	b.mu.Unlock()

	if _, err := b.profiles.Ensure(ctx, actorID, name, username); err != nil {
		return fmt.Errorf("sign in %s: %w", actorID, err)
	}

	var migErr *MigrationError
	if len(pending) > 0 {
		migErr = b.migrate(ctx, actorID, pending)
	}

	b.mu.Lock()
	b.guest = nil
	b.state = Authenticated
	b.actor = actorID
	b.mu.Unlock()

	b.coord.SetBackend(b.profiles, b.wishlist)
	if err := b.coord.RefreshOwn(ctx, actorID); err != nil {
		return err
	}

	b.logger.WithField("actor_id", actorID).Info("Signed in")
	b.notify(Change{State: Authenticated, ActorID: actorID})

	if migErr != nil {
		return migErr
	}
	return nil
}

// migrate recreates guest items under the new actor, oldest first so
// the remote creation order matches the guest's insertion order.
func (b *Bridge) migrate(ctx context.Context, actorID string, items []*models.WishlistItem) *MigrationError {
	var errs *multierror.Error
	var failed []string

	for n := len(items) - 1; n >= 0; n-- {
		item := *items[n]
		item.ID = ""
		item.OwnerID = actorID
		if _, err := b.wishlist.CreateItem(ctx, &item); err != nil {
			metrics.MigratedItemsTotal.WithLabelValues("failed").Inc()
			errs = multierror.Append(errs, fmt.Errorf("migrate %q: %w", item.Name, err))
			failed = append(failed, item.Name)
			continue
		}
		metrics.MigratedItemsTotal.WithLabelValues("ok").Inc()
	}

	b.logger.WithFields(logrus.Fields{
		"actor_id": actorID,
		"total":    len(items),
		"failed":   len(failed),
	}).Info("Guest wishlist migration finished")

	if len(failed) == 0 {
		return nil
	}
	return &MigrationError{FailedItems: failed, errs: errs}
}

// SignOut ends an authenticated session and clears all cached state
func (b *Bridge) SignOut(ctx context.Context) error {
	b.mu.Lock()
	token := b.token
	state := b.state
	b.mu.Unlock()

	if state != Authenticated {
		return fmt.Errorf("cannot sign out from %s state", state)
	}

	if token != "" {
		if err := b.sessions.Delete(ctx, token); err != nil && err != repository.ErrNotFound {
			b.logger.WithError(err).Warn("Failed to delete session token")
		}
	}

	b.mu.Lock()
	b.state = Unauthenticated
	b.actor = ""
	b.token = ""
	b.mu.Unlock()

	b.store.Reset()
	b.logger.Info("Signed out")
	b.notify(Change{State: Unauthenticated})
	return nil
}
