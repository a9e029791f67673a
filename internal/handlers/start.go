package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/giftwish/giftwish/internal/service"
)

// StartHandler handles the /start command
type StartHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStartHandler creates a new StartHandler.
func NewStartHandler(svc *service.Service, logger *logrus.Logger) *StartHandler {
	return &StartHandler{svc: svc, logger: logger}
}

// Handle processes the /start command.
func (h *StartHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	reply(bot, message.Chat.ID,
		"🎁 *Welcome to Giftwish, "+profile.Name+"!*\n\n"+
			"Stop guessing — keep a wishlist your friends can actually use:\n\n"+
			"• `/wish <item>` — add something you'd love to get\n"+
			"• `/wishlist @friend` — browse a friend's wishes\n"+
			"• `/claim @friend <number>` — reserve a gift, secretly\n\n"+
			"When a friend claims one of your wishes, your list only shows "+
			"it as fulfilled. Who grabbed it stays a surprise. 🤫\n\n"+
			"See /help for everything I can do.")

	h.logger.WithField("user_id", message.From.ID).Info("New chat started")
	return nil
}
