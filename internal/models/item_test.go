package models

import "testing"

func TestProjectWishlist(t *testing.T) {
	items := []*WishlistItem{
		{ID: "i1", OwnerID: "alice", Name: "Kettle", Status: StatusAvailable},
		{ID: "i2", OwnerID: "alice", Name: "Scarf", Status: StatusClaimed, ClaimedByID: "bob"},
		{ID: "i3", OwnerID: "alice", Name: "Book", Status: StatusClaimed, ClaimedByID: "carol"},
	}

	t.Run("owner never sees claimant or claimed_by_me", func(t *testing.T) {
		views := ProjectWishlist(items, "alice")
		if len(views) != 3 {
			t.Fatalf("got %d views, want 3", len(views))
		}
		for _, v := range views {
			if v.ClaimedByMe {
				t.Errorf("item %s: owner view has claimed_by_me set", v.ID)
			}
		}
		if views[1].Status != StatusClaimed {
			t.Errorf("item i2: owner should still see fulfilled status, got %q", views[1].Status)
		}
	})

	t.Run("viewer sees claimed_by_me only on own claims", func(t *testing.T) {
		views := ProjectWishlist(items, "bob")
		if views[0].ClaimedByMe {
			t.Error("available item marked claimed_by_me")
		}
		if !views[1].ClaimedByMe {
			t.Error("bob's claim not marked claimed_by_me")
		}
		if views[2].ClaimedByMe {
			t.Error("carol's claim marked claimed_by_me for bob")
		}
	})

	t.Run("anonymous viewer sees statuses but no claims", func(t *testing.T) {
		views := ProjectWishlist(items, "")
		for _, v := range views {
			if v.ClaimedByMe {
				t.Errorf("item %s: claimed_by_me set for empty viewer", v.ID)
			}
		}
	})
}

func TestClaimedBy(t *testing.T) {
	item := WishlistItem{Status: StatusClaimed, ClaimedByID: "bob"}
	if !item.ClaimedBy("bob") {
		t.Error("ClaimedBy(bob) = false, want true")
	}
	if item.ClaimedBy("carol") {
		t.Error("ClaimedBy(carol) = true, want false")
	}
	if item.ClaimedBy("") {
		t.Error("ClaimedBy(\"\") = true, want false")
	}

	open := WishlistItem{Status: StatusAvailable}
	if open.ClaimedBy("bob") {
		t.Error("available item reported as claimed")
	}
}

func TestValidPriority(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !ValidPriority(p) {
			t.Errorf("ValidPriority(%q) = false", p)
		}
	}
	if ValidPriority("Urgent") {
		t.Error("ValidPriority(Urgent) = true")
	}
	if ValidPriority("") {
		t.Error("ValidPriority(\"\") = true")
	}
}
