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
// MeHandler – /me
// ---------------------------------------------------------------------------

// MeHandler handles the /me command: show the sender's gift profile
// (birthday, sizes, interests, dislikes).
type MeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(svc *service.Service, logger *logrus.Logger) *MeHandler {
	return &MeHandler{svc: svc, logger: logger}
}

// Handle processes the /me command.
func (h *MeHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("👤 *%s*\n", profile.Name))
	if profile.Birthday != "" {
		sb.WriteString(fmt.Sprintf("🎂 Birthday: %s\n", profile.Birthday))
	}
	if len(profile.Sizes) > 0 {
		sb.WriteString("\n📏 *Sizes*\n")
		for _, size := range profile.Sizes {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", size.Label, size.Value))
		}
	}
	if len(profile.Interests) > 0 {
		sb.WriteString(fmt.Sprintf("\n💡 Likes: %s\n", strings.Join(profile.Interests, ", ")))
	}
	if len(profile.Dislikes) > 0 {
		sb.WriteString(fmt.Sprintf("🚫 Dislikes: %s\n", strings.Join(profile.Dislikes, ", ")))
	}
	sb.WriteString("\n_Update with_ `/birthday`, `/interest`, `/dislike`, `/size`")

	reply(bot, message.Chat.ID, sb.String())
	return nil
}

// ---------------------------------------------------------------------------
// BirthdayHandler – /birthday YYYY-MM-DD
// ---------------------------------------------------------------------------

// BirthdayHandler handles the /birthday command
type BirthdayHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBirthdayHandler creates a new BirthdayHandler.
func NewBirthdayHandler(svc *service.Service, logger *logrus.Logger) *BirthdayHandler {
	return &BirthdayHandler{svc: svc, logger: logger}
}

// Handle processes the /birthday command.
func (h *BirthdayHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		reply(bot, message.Chat.ID, "❌ Usage: `/birthday 1996-01-15`")
		return nil
	}
	if _, err := models.ParseBirthday(args[0]); err != nil {
		reply(bot, message.Chat.ID, "❌ Birthday must look like `1996-01-15` (YYYY-MM-DD).")
		return nil
	}

	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	profile.Birthday = args[0]
	if _, err := h.svc.Profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("update birthday: %w", err)
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("🎂 Birthday set to %s.", args[0]))
	return nil
}

// ---------------------------------------------------------------------------
// InterestHandler – /interest <text>, DislikeHandler – /dislike <text>
// ---------------------------------------------------------------------------

// InterestHandler appends an interest to the sender's profile
type InterestHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewInterestHandler creates a new InterestHandler.
func NewInterestHandler(svc *service.Service, logger *logrus.Logger) *InterestHandler {
	return &InterestHandler{svc: svc, logger: logger}
}

// Handle processes the /interest command.
func (h *InterestHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		reply(bot, message.Chat.ID, "❌ Usage: `/interest Vinyl Records`")
		return nil
	}

	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	interest := strings.Join(args, " ")
	profile.Interests = append(profile.Interests, interest)
	if _, err := h.svc.Profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("update interests: %w", err)
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("💡 Noted — you like *%s*.", interest))
	return nil
}

// DislikeHandler appends a dislike to the sender's profile
type DislikeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewDislikeHandler creates a new DislikeHandler.
func NewDislikeHandler(svc *service.Service, logger *logrus.Logger) *DislikeHandler {
	return &DislikeHandler{svc: svc, logger: logger}
}

// Handle processes the /dislike command.
func (h *DislikeHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	if len(args) == 0 {
		reply(bot, message.Chat.ID, "❌ Usage: `/dislike Strong Perfumes`")
		return nil
	}

	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	dislike := strings.Join(args, " ")
	profile.Dislikes = append(profile.Dislikes, dislike)
	if _, err := h.svc.Profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("update dislikes: %w", err)
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("🚫 Noted — no *%s*.", dislike))
	return nil
}

// ---------------------------------------------------------------------------
// SizeHandler – /size <label> = <value>
// ---------------------------------------------------------------------------

// SizeHandler sets a labelled size on the sender's profile. An
// existing entry with the same label is replaced.
type SizeHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSizeHandler creates a new SizeHandler.
func NewSizeHandler(svc *service.Service, logger *logrus.Logger) *SizeHandler {
	return &SizeHandler{svc: svc, logger: logger}
}

// Handle processes the /size command.
func (h *SizeHandler) Handle(bot *tgbotapi.BotAPI, message *tgbotapi.Message, args []string) error {
	raw := strings.Join(args, " ")
	parts := strings.SplitN(raw, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		reply(bot, message.Chat.ID, "❌ Usage: `/size Shirt = L (Slim Fit)`")
		return nil
	}
	label := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])

	ctx := context.Background()

	profile, err := ensureActor(ctx, h.svc, message)
	if err != nil {
		return err
	}

	replaced := false
	for n, size := range profile.Sizes {
		if strings.EqualFold(size.Label, label) {
			profile.Sizes[n].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		profile.Sizes = append(profile.Sizes, models.SizeEntry{
			ID:    fmt.Sprintf("%d", len(profile.Sizes)+1),
			Label: label,
			Value: value,
		})
	}

	if _, err := h.svc.Profiles.Update(ctx, profile); err != nil {
		return fmt.Errorf("update sizes: %w", err)
	}

	reply(bot, message.Chat.ID, fmt.Sprintf("📏 %s size set to *%s*.", label, value))
	return nil
}
