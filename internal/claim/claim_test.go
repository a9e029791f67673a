package claim

import (
	"errors"
	"testing"

	"github.com/giftwish/giftwish/internal/models"
)

func available() models.WishlistItem {
	return models.WishlistItem{
		ID:      "item-1",
		OwnerID: "alice",
		Name:    "Record player",
		Status:  models.StatusAvailable,
	}
}

func claimedBy(actorID string) models.WishlistItem {
	item := available()
	item.Status = models.StatusClaimed
	item.ClaimedByID = actorID
	return item
}

func TestClaim(t *testing.T) {
	tests := []struct {
		name        string
		item        models.WishlistItem
		actor       string
		wantErr     error
		wantStatus  models.GiftStatus
		wantClaimer string
	}{
		{
			name:        "friend claims available item",
			item:        available(),
			actor:       "bob",
			wantStatus:  models.StatusClaimed,
			wantClaimer: "bob",
		},
		{
			name:        "owner cannot claim own item",
			item:        available(),
			actor:       "alice",
			wantErr:     ErrForbidden,
			wantStatus:  models.StatusAvailable,
			wantClaimer: "",
		},
		{
			name:        "empty actor is rejected",
			item:        available(),
			actor:       "",
			wantErr:     ErrForbidden,
			wantStatus:  models.StatusAvailable,
			wantClaimer: "",
		},
		{
			name:        "second claim loses",
			item:        claimedBy("bob"),
			actor:       "carol",
			wantErr:     ErrInvalidTransition,
			wantStatus:  models.StatusClaimed,
			wantClaimer: "bob",
		},
		{
			name:        "claimant cannot claim twice",
			item:        claimedBy("bob"),
			actor:       "bob",
			wantErr:     ErrInvalidTransition,
			wantStatus:  models.StatusClaimed,
			wantClaimer: "bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Claim(tt.item, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Claim() error = %v, want %v", err, tt.wantErr)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.ClaimedByID != tt.wantClaimer {
				t.Errorf("claimedBy = %q, want %q", got.ClaimedByID, tt.wantClaimer)
			}
		})
	}
}

func TestUnclaim(t *testing.T) {
	tests := []struct {
		name        string
		item        models.WishlistItem
		actor       string
		wantErr     error
		wantStatus  models.GiftStatus
		wantClaimer string
	}{
		{
			name:       "claimant releases the item",
			item:       claimedBy("bob"),
			actor:      "bob",
			wantStatus: models.StatusAvailable,
		},
		{
			name:        "other actor cannot unclaim",
			item:        claimedBy("bob"),
			actor:       "carol",
			wantErr:     ErrForbidden,
			wantStatus:  models.StatusClaimed,
			wantClaimer: "bob",
		},
		{
			name:        "owner cannot force unclaim",
			item:        claimedBy("bob"),
			actor:       "alice",
			wantErr:     ErrForbidden,
			wantStatus:  models.StatusClaimed,
			wantClaimer: "bob",
		},
		{
			name:       "available item cannot be unclaimed",
			item:       available(),
			actor:      "bob",
			wantErr:    ErrInvalidTransition,
			wantStatus: models.StatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unclaim(tt.item, tt.actor)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Unclaim() error = %v, want %v", err, tt.wantErr)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.ClaimedByID != tt.wantClaimer {
				t.Errorf("claimedBy = %q, want %q", got.ClaimedByID, tt.wantClaimer)
			}
		})
	}
}

// A claim followed by an unclaim by the same actor restores the
// original item state.
func TestClaimUnclaimRoundTrip(t *testing.T) {
	orig := available()

	claimed, err := Claim(orig, "bob")
	if err != nil {
		t.Fatalf("Claim() error = %v", err)
	}
	released, err := Unclaim(claimed, "bob")
	if err != nil {
		t.Fatalf("Unclaim() error = %v", err)
	}
	if released != orig {
		t.Errorf("round trip changed item: got %+v, want %+v", released, orig)
	}
}
