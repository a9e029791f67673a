package models

import "time"

// GiftStatus represents the claim status of a wishlist item
type GiftStatus string

const (
	StatusAvailable GiftStatus = "AVAILABLE"
	StatusClaimed   GiftStatus = "CLAIMED"
)

// Priority represents how badly the owner wants an item
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ValidPriority reports whether p is one of the known priority levels
func ValidPriority(p Priority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// WishlistItem represents a single gift wish on a user's wishlist.
// ClaimedByID is set iff Status is CLAIMED; who claimed an item is
// never shown to the item's owner (see OwnerView).
type WishlistItem struct {
	ID          string     `json:"id" db:"id"`
	OwnerID     string     `json:"owner_id" db:"owner_id"`
	Name        string     `json:"name" db:"name"`
	PriceRange  string     `json:"price_range" db:"price_range"`
	Priority    Priority   `json:"priority" db:"priority"`
	Status      GiftStatus `json:"status" db:"status"`
	ClaimedByID string     `json:"claimed_by_id,omitempty" db:"claimed_by"`
	ImageURL    string     `json:"image_url,omitempty" db:"image_url"`
	Link        string     `json:"link,omitempty" db:"link"`
	Notes       string     `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// IsAvailable returns true if the item has not been claimed
func (i *WishlistItem) IsAvailable() bool {
	return i.Status == StatusAvailable
}

// IsClaimed returns true if the item has been claimed by someone
func (i *WishlistItem) IsClaimed() bool {
	return i.Status == StatusClaimed
}

// ClaimedBy returns true if the item is currently claimed by the given actor
func (i *WishlistItem) ClaimedBy(actorID string) bool {
	return i.Status == StatusClaimed && actorID != "" && i.ClaimedByID == actorID
}

// ItemView is the read-side projection of a WishlistItem. The claimant
// identity is collapsed into the ClaimedByMe flag so that a rendered
// item never carries who claimed it, only whether the viewer did.
type ItemView struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	PriceRange  string     `json:"price_range"`
	Priority    Priority   `json:"priority"`
	Status      GiftStatus `json:"status"`
	ImageURL    string     `json:"image_url,omitempty"`
	Link        string     `json:"link,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	ClaimedByMe bool       `json:"claimed_by_me"`
}

func projectItem(item *WishlistItem) ItemView {
	return ItemView{
		ID:         item.ID,
		Name:       item.Name,
		PriceRange: item.PriceRange,
		Priority:   item.Priority,
		Status:     item.Status,
		ImageURL:   item.ImageURL,
		Link:       item.Link,
		Notes:      item.Notes,
	}
}

// OwnerView projects an item for its owner. A claimed item shows only
// that it is fulfilled; the claimant identity is withheld so the
// surprise is preserved, and ClaimedByMe is always false.
func OwnerView(item *WishlistItem) ItemView {
	return projectItem(item)
}

// ViewerView projects an item for a non-owner viewer. ClaimedByMe is
// computed against the viewer's own identity only.
func ViewerView(item *WishlistItem, viewerID string) ItemView {
	v := projectItem(item)
	v.ClaimedByMe = item.ClaimedBy(viewerID)
	return v
}

// ProjectWishlist projects a whole wishlist for the given viewer,
// picking the owner or viewer transform per item.
func ProjectWishlist(items []*WishlistItem, viewerID string) []ItemView {
	views := make([]ItemView, len(items))
	for n, item := range items {
		if item.OwnerID == viewerID {
			views[n] = OwnerView(item)
		} else {
			views[n] = ViewerView(item, viewerID)
		}
	}
	return views
}
