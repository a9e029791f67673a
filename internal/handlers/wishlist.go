package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/models"
	"github.com/giftwish/giftwish/internal/service"
)

// ---------------------------------------------------------------------------
// WishAddHandler – /wish <name> [| price range [| priority]]
// ---------------------------------------------------------------------------

// WishAddHandler handles the /wish command to add an item to the
// sender's own wishlist.
type WishAddHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishAddHandler creates a new WishAddHandler.
func NewWishAddHandler(svc *service.Service, logger *logrus.Logger) *WishAddHandler {
	return &WishAddHandler{svc: svc, logger: logger}
}

// Handle processes the /wish command.
func (h *WishAddHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		reply(bot, message.Chat.ID,
			"❌ Please tell me what you wish for.\n"+
				"Usage: `/wish Hiking Boots | $150 - $200 | High`")
		return nil
	}

	ctx := context.Background()

	owner, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	name, priceRange, priority := parseWishArgs(strings.Join(args, " "))

	item := &models.WishlistItem{
		OwnerID:    owner.ID,
		Name:       name,
		PriceRange: priceRange,
		Priority:   priority,
	}

	created, err := h.svc.Wishlist.CreateItem(ctx, item)
	if err != nil {
		return fmt.Errorf("add wish item: %w", err)
	}

	reply(bot, message.Chat.ID,
		fmt.Sprintf("🎁 *Added to your wishlist!*\n\n%s (%s priority)", created.Name, created.Priority))

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"owner_id": owner.ID,
		"item_id":  created.ID,
	}).Info("Wish item added")

	return nil
}

// parseWishArgs splits "name | price range | priority". Missing parts
// fall back to an empty price range and Medium priority.
func parseWishArgs(raw string) (name, priceRange string, priority models.Priority) {
	priority = models.PriorityMedium

	parts := strings.Split(raw, "|")
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		priceRange = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		p := models.Priority(strings.TrimSpace(parts[2]))
		if models.ValidPriority(p) {
			priority = p
		}
	}
	return name, priceRange, priority
}

// ---------------------------------------------------------------------------
// WishListHandler – /wishlist [@user]
// ---------------------------------------------------------------------------

// WishListHandler handles the /wishlist command.
//
// Without arguments it shows the sender's own wishlist. With a
// @username it shows that user's wishlist. Claim markers follow the
// viewing context: the list owner only ever sees "fulfilled" without
// who claimed it, so surprises are not spoiled; other viewers see
// which items are taken and which they claimed themselves.
type WishListHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishListHandler creates a new WishListHandler.
func NewWishListHandler(svc *service.Service, logger *logrus.Logger) *WishListHandler {
	return &WishListHandler{svc: svc, logger: logger}
}

// Handle processes the /wishlist command.
func (h *WishListHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	viewer, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	owner := viewer
	if len(args) > 0 && strings.HasPrefix(args[0], "@") {
		target, lookupErr := h.svc.Friend(ctx, args[0])
		if lookupErr != nil {
			reply(bot, message.Chat.ID, fmt.Sprintf("❌ User %s not found.", args[0]))
			return nil
		}
		owner = target
	}

	views, err := h.svc.WishlistFor(ctx, viewer.ID, owner.ID)
	if err != nil {
		return fmt.Errorf("get wishlist: %w", err)
	}

	isOwnList := owner.ID == viewer.ID

	var sb strings.Builder
	if isOwnList {
		sb.WriteString("🎁 *Your Wishlist*\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("🎁 *%s's Wishlist*\n\n", owner.DisplayName()))
	}

	if len(views) == 0 {
		sb.WriteString("_(empty)_\n\nAdd wishes with `/wish <item>`")
		reply(bot, message.Chat.ID, sb.String())
		return nil
	}

	for n, v := range views {
		sb.WriteString(fmt.Sprintf("*%d.* %s", n+1, v.Name))
		if v.PriceRange != "" {
			sb.WriteString(fmt.Sprintf(" — _%s_", v.PriceRange))
		}
		if v.Status == models.StatusClaimed {
			switch {
			case isOwnList:
				sb.WriteString(" ✅") // fulfilled, claimant withheld
			case v.ClaimedByMe:
				sb.WriteString(" 🎯 _claimed by you_")
			default:
				sb.WriteString(" 🔒 _taken_")
			}
		}
		sb.WriteString("\n")
	}

	if !isOwnList {
		sb.WriteString("\n_Claim a gift with_ `/claim " + "@" + owner.Username + " <number>`")
	}

	reply(bot, message.Chat.ID, sb.String())

	h.logger.WithFields(logrus.Fields{
		"chat_id":  message.Chat.ID,
		"owner_id": owner.ID,
		"items":    len(views),
	}).Info("Wishlist shown")

	return nil
}

// ---------------------------------------------------------------------------
// WishClaimHandler – /claim @user <number>
// ---------------------------------------------------------------------------

// WishClaimHandler handles the /claim command: reserve a gift on a
// friend's wishlist so nobody else buys it.
type WishClaimHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishClaimHandler creates a new WishClaimHandler.
func NewWishClaimHandler(svc *service.Service, logger *logrus.Logger) *WishClaimHandler {
	return &WishClaimHandler{svc: svc, logger: logger}
}

// Handle processes the /claim command.
func (h *WishClaimHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) < 2 || !strings.HasPrefix(args[0], "@") {
		reply(bot, message.Chat.ID,
			"❌ Usage: `/claim @username <number>` (the number from their /wishlist)")
		return nil
	}

	ctx := context.Background()

	viewer, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	owner, err := h.svc.Friend(ctx, args[0])
	if err != nil {
		reply(bot, message.Chat.ID, fmt.Sprintf("❌ User %s not found.", args[0]))
		return nil
	}

	item, err := itemByPosition(ctx, h.svc, owner.ID, args[1])
	if err != nil {
		return err
	}

	if err := h.svc.ClaimItem(ctx, viewer.ID, item.ID); err != nil {
		return err
	}

	reply(bot, message.Chat.ID,
		fmt.Sprintf("🎉 You claimed *%s* for %s. Their list will only show it as fulfilled — the surprise is safe!",
			item.Name, owner.DisplayName()))

	h.logger.WithFields(logrus.Fields{
		"item_id":    item.ID,
		"claimed_by": viewer.ID,
	}).Info("Gift claimed via chat")

	return nil
}

// ---------------------------------------------------------------------------
// WishUnclaimHandler – /unclaim @user <number>
// ---------------------------------------------------------------------------

// WishUnclaimHandler handles the /unclaim command. Only the original
// claimant can release a gift.
type WishUnclaimHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishUnclaimHandler creates a new WishUnclaimHandler.
func NewWishUnclaimHandler(svc *service.Service, logger *logrus.Logger) *WishUnclaimHandler {
	return &WishUnclaimHandler{svc: svc, logger: logger}
}

// Handle processes the /unclaim command.
func (h *WishUnclaimHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) < 2 || !strings.HasPrefix(args[0], "@") {
		reply(bot, message.Chat.ID, "❌ Usage: `/unclaim @username <number>`")
		return nil
	}

	ctx := context.Background()

	viewer, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	owner, err := h.svc.Friend(ctx, args[0])
	if err != nil {
		reply(bot, message.Chat.ID, fmt.Sprintf("❌ User %s not found.", args[0]))
		return nil
	}

	item, err := itemByPosition(ctx, h.svc, owner.ID, args[1])
	if err != nil {
		return err
	}

	if err := h.svc.UnclaimItem(ctx, viewer.ID, item.ID); err != nil {
		return err
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("↩️ Released *%s* — it's up for grabs again.", item.Name))
	return nil
}

// ---------------------------------------------------------------------------
// WishDeleteHandler – /unwish <number>
// ---------------------------------------------------------------------------

// WishDeleteHandler handles the /unwish command to delete an item from
// the sender's own wishlist, whatever its claim status.
type WishDeleteHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishDeleteHandler creates a new WishDeleteHandler.
func NewWishDeleteHandler(svc *service.Service, logger *logrus.Logger) *WishDeleteHandler {
	return &WishDeleteHandler{svc: svc, logger: logger}
}

// Handle processes the /unwish command.
func (h *WishDeleteHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		reply(bot, message.Chat.ID, "❌ Usage: `/unwish <number>` (the number from your /wishlist)")
		return nil
	}

	ctx := context.Background()

	owner, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	item, err := itemByPosition(ctx, h.svc, owner.ID, args[0])
	if err != nil {
		return err
	}

	if err := h.svc.Wishlist.DeleteItem(ctx, owner.ID, item.ID); err != nil {
		return fmt.Errorf("delete wish item: %w", err)
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("🗑 Removed *%s* from your wishlist.", item.Name))
	return nil
}
