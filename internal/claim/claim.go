// Package claim implements the gift claim state machine: the pure
// transition rules between AVAILABLE and CLAIMED. Callers apply the
// returned item state; persistence and rollback are handled elsewhere.
package claim

import (
	"errors"

	"github.com/giftwish/giftwish/internal/models"
)

var (
	// ErrInvalidTransition is returned when a claim or unclaim is
	// attempted from the wrong item status.
	ErrInvalidTransition = errors.New("invalid transition for current item status")

	// ErrForbidden is returned when the actor is not permitted to
	// perform the transition (owners cannot claim their own gifts, and
	// only the claimant may unclaim).
	ErrForbidden = errors.New("actor is not permitted to perform this action")
)

// Claim transitions an AVAILABLE item to CLAIMED(actor). The owner may
// never claim their own item, and an already claimed item stays with
// its single claimant.
func Claim(item models.WishlistItem, actorID string) (models.WishlistItem, error) {
	if actorID == "" || actorID == item.OwnerID {
		return item, ErrForbidden
	}
	if item.Status != models.StatusAvailable {
		return item, ErrInvalidTransition
	}
	item.Status = models.StatusClaimed
	item.ClaimedByID = actorID
	return item, nil
}

// Unclaim releases a CLAIMED item back to AVAILABLE. Only the current
// claimant may release it; the owner cannot force-unclaim on behalf of
// someone else.
func Unclaim(item models.WishlistItem, actorID string) (models.WishlistItem, error) {
	if item.Status != models.StatusClaimed {
		return item, ErrInvalidTransition
	}
	if actorID == "" || item.ClaimedByID != actorID {
		return item, ErrForbidden
	}
	item.Status = models.StatusAvailable
	item.ClaimedByID = ""
	return item, nil
}
