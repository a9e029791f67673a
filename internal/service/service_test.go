package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwish/giftwish/internal/claim"
	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.FakeCollaborator) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fake := testutil.NewFakeCollaborator()
	return New(logger, fake, fake, testutil.NewFakeSessions()), fake
}

func TestEnsureProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "alice", "Alice", "alice_w")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)
	assert.Equal(t, "Alice", p.Name)

	// Second contact with a changed display name updates the record.
	p, err = svc.EnsureProfile(ctx, "alice", "Alice W", "alice_w")
	require.NoError(t, err)
	assert.Equal(t, "Alice W", p.Name)

	// Empty values never overwrite existing ones.
	p, err = svc.EnsureProfile(ctx, "alice", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice W", p.Name)
	assert.Equal(t, "alice_w", p.Username)
}

func TestClaimItem(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	require.NoError(t, svc.ClaimItem(ctx, "bob", item.ID))

	stored, ok := fake.StoredItem(item.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusClaimed, stored.Status)
	assert.Equal(t, "bob", stored.ClaimedByID)

	err := svc.ClaimItem(ctx, "carol", item.ID)
	assert.ErrorIs(t, err, claim.ErrInvalidTransition, "validation catches the stale claim before storage")
}

func TestClaimItemOwnerForbidden(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	err := svc.ClaimItem(ctx, "alice", item.ID)
	assert.ErrorIs(t, err, claim.ErrForbidden)
	assert.Zero(t, fake.ClaimCalls, "forbidden claims never reach storage")
}

func TestClaimItemNotFound(t *testing.T) {
	svc, _ := newService(t)
	err := svc.ClaimItem(context.Background(), "bob", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClaimItemLostRace(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	// The snapshot read sees an available item, but the conditional
	// update runs against a store someone else already claimed in.
	fake.ClaimErr = repository.ErrConflict
	err := svc.ClaimItem(ctx, "bob", item.ID)
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestUnclaimItem(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	require.NoError(t, svc.ClaimItem(ctx, "bob", item.ID))

	err := svc.UnclaimItem(ctx, "carol", item.ID)
	assert.ErrorIs(t, err, claim.ErrForbidden)

	require.NoError(t, svc.UnclaimItem(ctx, "bob", item.ID))
	stored, _ := fake.StoredItem(item.ID)
	assert.Equal(t, models.StatusAvailable, stored.Status)
}

func TestWishlistForProjection(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()

	fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})
	claimed := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Scarf"})
	require.NoError(t, svc.ClaimItem(ctx, "bob", claimed.ID))

	ownerViews, err := svc.WishlistFor(ctx, "alice", "alice")
	require.NoError(t, err)
	require.Len(t, ownerViews, 2)
	for _, v := range ownerViews {
		assert.False(t, v.ClaimedByMe, "owner projection never sets claimed_by_me")
	}
	assert.Equal(t, models.StatusClaimed, ownerViews[0].Status, "newest first, scarf leads")

	viewerViews, err := svc.WishlistFor(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, viewerViews[0].ClaimedByMe)
	assert.False(t, viewerViews[1].ClaimedByMe)
}

func TestFriend(t *testing.T) {
	svc, fake := newService(t)
	ctx := context.Background()
	fake.SeedProfile(&models.UserProfile{ID: "alice", Name: "Alice", Username: "alice_w"})

	p, err := svc.Friend(ctx, "@alice_w")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)

	p, err = svc.Friend(ctx, " alice_w ")
	require.NoError(t, err)
	assert.Equal(t, "alice", p.ID)

	_, err = svc.Friend(ctx, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = svc.Friend(ctx, "@nobody")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	session, err := svc.IssueSession(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)

	resolved, err := svc.ResolveSession(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.ActorID)

	require.NoError(t, svc.RevokeSession(ctx, session.Token))
	_, err = svc.ResolveSession(ctx, session.Token)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.NoError(t, svc.RevokeSession(ctx, "unknown"), "revoking an unknown token is not an error")
}
