package handlers

import (
	"context"
	"errors"
	"io"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/service"
	"github.com/giftwish/giftwish/internal/testutil"
)

func newTestService(t *testing.T) (*service.Service, *testutil.FakeCollaborator) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fake := testutil.NewFakeCollaborator()
	return service.New(logger, fake, fake, testutil.NewFakeSessions()), fake
}

func TestActorID(t *testing.T) {
	got := actorID(&tgbotapi.User{ID: 42})
	if got != "tg-42" {
		t.Errorf("actorID = %q, want tg-42", got)
	}
}

func TestParseWishArgs(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantName     string
		wantPrice    string
		wantPriority models.Priority
	}{
		{
			name:         "name only",
			raw:          "Hiking Boots",
			wantName:     "Hiking Boots",
			wantPriority: models.PriorityMedium,
		},
		{
			name:         "name and price",
			raw:          "Hiking Boots | $150 - $200",
			wantName:     "Hiking Boots",
			wantPrice:    "$150 - $200",
			wantPriority: models.PriorityMedium,
		},
		{
			name:         "all parts",
			raw:          "Hiking Boots | $150 - $200 | High",
			wantName:     "Hiking Boots",
			wantPrice:    "$150 - $200",
			wantPriority: models.PriorityHigh,
		},
		{
			name:         "unknown priority falls back",
			raw:          "Hiking Boots | $150 | ASAP",
			wantName:     "Hiking Boots",
			wantPrice:    "$150",
			wantPriority: models.PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, price, priority := parseWishArgs(tt.raw)
			if name != tt.wantName {
				t.Errorf("name = %q, want %q", name, tt.wantName)
			}
			if price != tt.wantPrice {
				t.Errorf("price = %q, want %q", price, tt.wantPrice)
			}
			if priority != tt.wantPriority {
				t.Errorf("priority = %q, want %q", priority, tt.wantPriority)
			}
		})
	}
}

func TestItemByPosition(t *testing.T) {
	svc, fake := newTestService(t)
	ctx := context.Background()

	fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Kettle"})
	fake.SeedItem(models.WishlistItem{OwnerID: "alice", Name: "Scarf"})

	// Position 1 is the newest item.
	item, err := itemByPosition(ctx, svc, "alice", "1")
	if err != nil {
		t.Fatalf("itemByPosition() error = %v", err)
	}
	if item.Name != "Scarf" {
		t.Errorf("position 1 = %q, want Scarf", item.Name)
	}

	item, err = itemByPosition(ctx, svc, "alice", "2")
	if err != nil {
		t.Fatalf("itemByPosition() error = %v", err)
	}
	if item.Name != "Kettle" {
		t.Errorf("position 2 = %q, want Kettle", item.Name)
	}

	for _, arg := range []string{"0", "3", "-1", "two", ""} {
		if _, err := itemByPosition(ctx, svc, "alice", arg); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("itemByPosition(%q) error = %v, want ErrNotFound", arg, err)
		}
	}
}
