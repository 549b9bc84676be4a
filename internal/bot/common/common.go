package common

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/bot"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/state"
)

const HelpText = `send me a screenshot of a music player showing the song that is playing.

i will figure out the song, find its lyrics and what they mean, and suggest similar songs.

/usage shows how many lookups you have left today.`

type CommonHandlers struct {
	quota *state.StateManager
}

// GetCommandHandlers returns /help and, with a quota manager, /usage.
func GetCommandHandlers(quota *state.StateManager) map[string]bot.Handler {
	handlers := newCommonHandlers(quota)
	commands := map[string]bot.Handler{
		"help": handlers.helpHandler,
	}
	if quota != nil {
		commands["usage"] = handlers.usageHandler
	}
	return commands
}

// GetCallbackHandlers returns common callback handlers
func GetCallbackHandlers() map[string]bot.Handler {
	return map[string]bot.Handler{}
}

func newCommonHandlers(quota *state.StateManager) *CommonHandlers {
	return &CommonHandlers{
		quota: quota,
	}
}

// UserKey identifies the sender of message for quotas and stats.
func UserKey(message *tgbotapi.Message) string {
	if message.From != nil && message.From.UserName != "" {
		return message.From.UserName
	}
	return "id" + strconv.FormatInt(message.Chat.ID, 10)
}

func (h *CommonHandlers) helpHandler(b *bot.Bot, update tgbotapi.Update) error {
	return b.SendMessage(update.Message.Chat.ID, HelpText)
}

func (h *CommonHandlers) usageHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	usage, err := h.quota.Check(context.Background(), UserKey(message))
	if err != nil && !errors.Is(err, state.ErrLimitReached) {
		logger.Error(fmt.Sprintf("failed to read usage for %s\nError: %v", UserKey(message), err))
		return b.SendMessage(message.Chat.ID, "could not read your usage, try again later")
	}
	return b.SendMessage(message.Chat.ID, FormatUsage(usage))
}

func FormatUsage(u state.Usage) string {
	if u.Limit == 0 {
		return fmt.Sprintf("lookups today: %d (no daily limit)", u.Used)
	}
	left := u.Limit - u.Used
	if left < 0 {
		left = 0
	}
	return fmt.Sprintf("lookups today: %d of %d, %d left", u.Used, u.Limit, left)
}
