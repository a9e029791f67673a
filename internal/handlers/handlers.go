// Package handlers implements the chat commands of the wishlist bot.
// Each command is a small handler over the service layer; claim and
// unclaim go through the gift claim state machine before touching
// storage.
package handlers

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/repository"
	"github.com/giftwish/giftwish/internal/service"
)

// actorID derives the stable profile id for a Telegram user
func actorID(from *tgbotapi.User) string {
	return fmt.Sprintf("tg-%d", from.ID)
}

// ensureActor provisions/refreshes the sender's profile and returns it
func ensureActor(ctx context.Context, svc *service.Service, message *tgbotapi.Message) (*models.UserProfile, error) {
	name := message.From.FirstName
	if message.From.LastName != "" {
		name += " " + message.From.LastName
	}
	profile, err := svc.EnsureProfile(ctx, actorID(message.From), name, message.From.UserName)
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return profile, nil
}

// itemByPosition resolves a 1-based list position (as shown by
// /wishlist, newest first) to the underlying item.
func itemByPosition(ctx context.Context, svc *service.Service, ownerID, arg string) (*models.WishlistItem, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil || pos < 1 {
		return nil, repository.ErrNotFound
	}
	items, err := svc.Wishlist.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if pos > len(items) {
		return nil, repository.ErrNotFound
	}
	return items[pos-1], nil
}

func reply(bot *tgbotapi.BotAPI, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	bot.Send(msg)
}
