package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/claim"
	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
)

// Service is the central business logic layer that holds the
// repositories and provides high-level methods for the API server and
// the chat front end.
type Service struct {
	logger   *logrus.Logger
	Profiles repository.ProfileRepository
	Wishlist repository.WishlistRepository
	Sessions repository.SessionRepository
}

// New creates a new Service with all required dependencies.
func New(logger *logrus.Logger,
	profiles repository.ProfileRepository,
	wishlist repository.WishlistRepository,
	sessions repository.SessionRepository,
) *Service {
	return &Service{
		logger:   logger,
		Profiles: profiles,
		Wishlist: wishlist,
		Sessions: sessions,
	}
}

// EnsureProfile retrieves an existing profile, provisioning the
// default row on first contact. If the profile exists but its display
// name or username changed, the record is updated.
func (s *Service) EnsureProfile(ctx context.Context, id, name, username string) (*models.UserProfile, error) {
	name = strings.TrimSpace(name)
	username = strings.TrimSpace(username)

	profile, err := s.Profiles.Ensure(ctx, id, name, username)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure profile %s: %w", id, err)
	}

	needsUpdate := false
	if name != "" && profile.Name != name {
		profile.Name = name
		needsUpdate = true
	}
	if username != "" && profile.Username != username {
		profile.Username = username
		needsUpdate = true
	}

	if needsUpdate {
		profile, err = s.Profiles.Update(ctx, profile)
		if err != nil {
			return nil, fmt.Errorf("failed to update profile %s: %w", id, err)
		}
		s.logger.Infof("Updated profile: %s (id=%s)", profile.DisplayName(), id)
	}

	return profile, nil
}

// WishlistFor loads an owner's wishlist projected for the given
// viewer: the owner sees fulfillment without claimant identity, other
// viewers see their own claimed-by-me flag.
func (s *Service) WishlistFor(ctx context.Context, viewerID, ownerID string) ([]models.ItemView, error) {
	items, err := s.Wishlist.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist for %s: %w", ownerID, err)
	}
	return models.ProjectWishlist(items, viewerID), nil
}

// ClaimItem validates a claim against the state machine and then
// applies the conditional remote update. Validation failures never
// reach storage; a lost race surfaces as repository.ErrConflict.
func (s *Service) ClaimItem(ctx context.Context, actorID, itemID string) error {
	item, err := s.Wishlist.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := claim.Claim(*item, actorID); err != nil {
		return err
	}
	if err := s.Wishlist.ClaimItem(ctx, itemID, actorID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":  itemID,
		"actor_id": actorID,
	}).Info("Wishlist item claimed")
	return nil
}

// UnclaimItem validates and applies a claim release
func (s *Service) UnclaimItem(ctx context.Context, actorID, itemID string) error {
	item, err := s.Wishlist.GetItem(ctx, itemID)
	if err != nil {
		return err
	}
	if _, err := claim.Unclaim(*item, actorID); err != nil {
		return err
	}
	if err := s.Wishlist.UnclaimItem(ctx, itemID, actorID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"item_id":  itemID,
		"actor_id": actorID,
	}).Info("Wishlist item released")
	return nil
}

// Friend resolves a profile by username, the way viewers pick whose
// wishlist to browse.
func (s *Service) Friend(ctx context.Context, username string) (*models.UserProfile, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, repository.ErrNotFound
	}
	return s.Profiles.GetByUsername(ctx, username)
}

// IssueSession creates a session token for an actor
func (s *Service) IssueSession(ctx context.Context, actorID string) (*models.Session, error) {
	return s.Sessions.Create(ctx, actorID)
}

// ResolveSession looks up a session token
func (s *Service) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	return s.Sessions.GetByToken(ctx, token)
}

// RevokeSession deletes a session token. Revoking an unknown token is
// not an error.
func (s *Service) RevokeSession(ctx context.Context, token string) error {
	if err := s.Sessions.Delete(ctx, token); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}
