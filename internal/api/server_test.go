package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/service"
	"github.com/giftwish/giftwish/internal/testutil"
)

func newTestServer(t *testing.T) (*Server, *testutil.FakeCollaborator) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fake := testutil.NewFakeCollaborator()
	svc := service.New(logger, fake, fake, testutil.NewFakeSessions())
	return NewServer(svc, logger), fake
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetProfile(t *testing.T) {
	srv, fake := newTestServer(t)
	fake.SeedProfile(&models.UserProfile{ID: "alice", Name: "Alice", Username: "alice_w"})

	rec := doJSON(t, srv, http.MethodGet, "/api/profiles/alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[models.UserProfile](t, rec)
	assert.Equal(t, "Alice", p.Name)

	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProfileByUsername(t *testing.T) {
	srv, fake := newTestServer(t)
	fake.SeedProfile(&models.UserProfile{ID: "alice", Name: "Alice", Username: "alice_w"})

	rec := doJSON(t, srv, http.MethodGet, "/api/users/by-username/alice_w", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[models.UserProfile](t, rec)
	assert.Equal(t, "alice", p.ID)

	// The wildcard profile routes must coexist with the username
	// lookup; both resolve without ambiguity.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist?viewer=alice", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	srv, fake := newTestServer(t)
	fake.SeedProfile(&models.UserProfile{ID: "alice", Name: "Alice"})

	rec := doJSON(t, srv, http.MethodPut, "/api/profiles/alice", map[string]any{
		"name":     "Alice W",
		"birthday": "1990-04-15",
		"sizes":    []models.SizeEntry{{ID: "s1", Label: "Shirt", Value: "M"}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decodeBody[models.UserProfile](t, rec)
	assert.Equal(t, "Alice W", p.Name)
	assert.Equal(t, "1990-04-15", p.Birthday)

	rec = doJSON(t, srv, http.MethodPut, "/api/profiles/alice", map[string]any{
		"birthday": "April 15th",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddAndListWishlist(t *testing.T) {
	srv, fake := newTestServer(t)
	fake.SeedProfile(&models.UserProfile{ID: "alice", Name: "Alice"})

	rec := doJSON(t, srv, http.MethodPost, "/api/profiles/alice/wishlist?viewer=alice", map[string]any{
		"name":        "Kettle",
		"price_range": "$50-100",
		"priority":    "High",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[models.WishlistItem](t, rec)
	assert.Equal(t, "alice", created.OwnerID)
	assert.Equal(t, models.StatusAvailable, created.Status)

	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist?viewer=bob", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	views := decodeBody[[]models.ItemView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, "Kettle", views[0].Name)

	// Missing viewer context is rejected.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/profiles/alice/wishlist?viewer=alice", map[string]any{
		"name": "  ",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/profiles/alice/wishlist?viewer=alice", map[string]any{
		"name":     "Kettle",
		"priority": "Urgent",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddItemRequiresOwner(t *testing.T) {
	srv, fake := newTestServer(t)

	// A viewer cannot plant items on someone else's list.
	rec := doJSON(t, srv, http.MethodPost, "/api/profiles/alice/wishlist?viewer=bob", map[string]any{
		"name": "Kettle",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Anonymous creation is rejected outright.
	rec = doJSON(t, srv, http.MethodPost, "/api/profiles/alice/wishlist", map[string]any{
		"name": "Kettle",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, fake.ItemCount())
}

func TestClaimFlow(t *testing.T) {
	srv, fake := newTestServer(t)
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	rec := doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"/claim", map[string]any{
		"claimant_id": "bob",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Second claimant loses the race.
	rec = doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"/claim", map[string]any{
		"claimant_id": "carol",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// Owner is forbidden outright.
	fresh := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Scarf"})
	rec = doJSON(t, srv, http.MethodPut, "/api/items/"+fresh.ID+"/claim", map[string]any{
		"claimant_id": "alice",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Only the claimant may release.
	rec = doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"/unclaim", map[string]any{
		"claimant_id": "carol",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"/unclaim", map[string]any{
		"claimant_id": "bob",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClaimLostRaceMapsToConflict(t *testing.T) {
	srv, fake := newTestServer(t)
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	fake.ClaimErr = fmt.Errorf("conditional update: %w", repository.ErrConflict)
	rec := doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"/claim", map[string]any{
		"claimant_id": "bob",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWishlistProjectionOverTheWire(t *testing.T) {
	srv, fake := newTestServer(t)
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})
	require.NoError(t, fake.ClaimItem(context.Background(), item.ID, "bob"))

	// Owner sees fulfillment but the response body must not leak who.
	rec := doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist?viewer=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bob", "claimant identity never crosses the wire")

	views := decodeBody[[]models.ItemView](t, rec)
	require.Len(t, views, 1)
	assert.Equal(t, models.StatusClaimed, views[0].Status)
	assert.False(t, views[0].ClaimedByMe)

	// The claimant sees their own flag.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist?viewer=bob", nil)
	views = decodeBody[[]models.ItemView](t, rec)
	assert.True(t, views[0].ClaimedByMe)

	// A third viewer sees a taken item, nothing more.
	rec = doJSON(t, srv, http.MethodGet, "/api/profiles/alice/wishlist?viewer=carol", nil)
	assert.NotContains(t, rec.Body.String(), "bob")
	views = decodeBody[[]models.ItemView](t, rec)
	assert.False(t, views[0].ClaimedByMe)
}

func TestUpdateAndDeleteItemOwnership(t *testing.T) {
	srv, fake := newTestServer(t)
	item := fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})

	rec := doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"?viewer=bob", map[string]any{
		"name": "Teapot",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodPut, "/api/items/"+item.ID+"?viewer=alice", map[string]any{
		"name": "Teapot",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[models.WishlistItem](t, rec)
	assert.Equal(t, "Teapot", updated.Name)

	rec = doJSON(t, srv, http.MethodDelete, "/api/items/"+item.ID+"?viewer=bob", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/items/"+item.ID+"?viewer=alice", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, fake.ItemCount())
}

func TestSessionLifecycle(t *testing.T) {
	srv, fake := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]any{
		"actor_id": "alice",
		"name":     "Alice",
		"username": "alice_w",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	session := decodeBody[models.Session](t, rec)
	require.NotEmpty(t, session.Token)

	// The first session provisioned the profile.
	_, err := fake.GetByID(context.Background(), "alice")
	require.NoError(t, err)

	rec = doJSON(t, srv, http.MethodGet, "/api/sessions/"+session.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decodeBody[models.Session](t, rec)
	assert.Equal(t, "alice", resolved.ActorID)

	rec = doJSON(t, srv, http.MethodDelete, "/api/sessions/"+session.Token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/sessions/"+session.Token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/sessions", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
