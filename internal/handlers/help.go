package handlers

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

// NewHelpHandler creates a new HelpHandler.
func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

// Handle processes the /help command.
func (h *HelpHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	reply(bot, message.Chat.ID,
		"🎁 *Giftwish commands*\n\n"+
			"*Wishlist*\n"+
			"`/wish <name> | <price range> | <priority>` — add a wish\n"+
			"`/wishlist` — show your own wishlist\n"+
			"`/wishlist @user` — show a friend's wishlist\n"+
			"`/unwish <number>` — remove one of your wishes\n\n"+
			"*Gifting*\n"+
			"`/claim @user <number>` — reserve a friend's wish\n"+
			"`/unclaim @user <number>` — release a reservation you made\n\n"+
			"*Profile*\n"+
			"`/me` — show your gift profile\n"+
			"`/birthday YYYY-MM-DD` — set your birthday\n"+
			"`/size <label> = <value>` — record a size\n"+
			"`/interest <text>` — add a like\n"+
			"`/dislike <text>` — add a dislike\n\n"+
			"Friend groups are coming soon.")
	return nil
}
