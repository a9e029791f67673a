package models

import "time"

// GuestID is the sentinel profile ID used for unauthenticated,
// device-local sessions.
const GuestID = "guest"

// BirthdayLayout is the wire format for profile birthdays. Birthdays
// are calendar dates with no time component.
const BirthdayLayout = "2006-01-02"

// SizeEntry is one labelled size on a profile, e.g. {Shirt, L}.
// Labels are free text, not a closed set.
type SizeEntry struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// UserProfile represents a user's gift profile together with their
// wishlist. The wishlist is ordered newest first.
type UserProfile struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Username  string          `json:"username" db:"username"`
	Birthday  string          `json:"birthday" db:"birthday"`
	Avatar    string          `json:"avatar,omitempty" db:"avatar"`
	Sizes     []SizeEntry     `json:"sizes"`
	Interests []string        `json:"interests"`
	Dislikes  []string        `json:"dislikes"`
	Wishlist  []*WishlistItem `json:"wishlist,omitempty"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// NewGuestProfile synthesizes the default empty profile for a guest
// session. It never touches remote storage.
func NewGuestProfile() *UserProfile {
	return &UserProfile{
		ID:        GuestID,
		Name:      "Guest",
		Sizes:     []SizeEntry{},
		Interests: []string{},
		Dislikes:  []string{},
	}
}

// IsGuest returns true for the local-only guest profile
func (p *UserProfile) IsGuest() bool {
	return p.ID == GuestID
}

// DisplayName returns the best human-readable name for the profile
func (p *UserProfile) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return p.Name
}

// ParseBirthday parses a YYYY-MM-DD birthday string
func ParseBirthday(s string) (time.Time, error) {
	return time.Parse(BirthdayLayout, s)
}

// BirthdayDate parses the profile birthday into a date. The zero time
// is returned with an error when no birthday is set or it is malformed.
func (p *UserProfile) BirthdayDate() (time.Time, error) {
	return ParseBirthday(p.Birthday)
}

// ItemByID returns the wishlist item with the given ID, or nil
func (p *UserProfile) ItemByID(id string) *WishlistItem {
	for _, item := range p.Wishlist {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Clone returns a deep copy of the profile, including the wishlist
func (p *UserProfile) Clone() *UserProfile {
	if p == nil {
		return nil
	}
	out := *p
	out.Sizes = append([]SizeEntry(nil), p.Sizes...)
	out.Interests = append([]string(nil), p.Interests...)
	out.Dislikes = append([]string(nil), p.Dislikes...)
	if p.Wishlist != nil {
		out.Wishlist = make([]*WishlistItem, len(p.Wishlist))
		for n, item := range p.Wishlist {
			cp := *item
			out.Wishlist[n] = &cp
		}
	}
	return &out
}
