package admin

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/bot"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/state"
	"github.com/sukalov/lyricsearch/internal/users"
)

type AdminHandlers struct {
	quota   *state.StateManager
	tracker *users.Tracker
	admins  map[string]bool
}

func NewAdminHandlers(quota *state.StateManager, tracker *users.Tracker, adminUsernames []string) *AdminHandlers {
	admins := make(map[string]bool)
	for _, username := range adminUsernames {
		admins[strings.TrimPrefix(username, "@")] = true
	}

	return &AdminHandlers{
		quota:   quota,
		tracker: tracker,
		admins:  admins,
	}
}

func (h *AdminHandlers) isAdmin(message *tgbotapi.Message) bool {
	return message.From != nil && h.admins[message.From.UserName]
}

func (h *AdminHandlers) statsHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	totals, err := h.quota.Totals(context.Background())
	if err != nil {
		logger.Error(fmt.Sprintf("failed to read totals\nError: %v", err))
		return b.SendMessage(message.Chat.ID, "failed to read stats")
	}
	return b.SendMessage(message.Chat.ID, FormatStats(totals, len(h.tracker.GetAll()), h.quota.GetLimit()))
}

func (h *AdminHandlers) limitHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if !h.isAdmin(message) {
		return b.SendMessage(message.Chat.ID, "you are not an admin")
	}

	args := strings.TrimSpace(message.CommandArguments())
	if args == "" {
		return b.SendMessage(message.Chat.ID, fmt.Sprintf("daily limit: %d\n\nset it with /limit <n>, 0 means unlimited", h.quota.GetLimit()))
	}

	limit, err := ParseLimit(args)
	if err != nil {
		return b.SendMessage(message.Chat.ID, err.Error())
	}
	if err := h.quota.SetLimit(context.Background(), limit); err != nil {
		logger.Error(fmt.Sprintf("failed to set limit\nError: %v", err))
		return b.SendMessage(message.Chat.ID, "failed to save the limit")
	}
	logger.Info(fmt.Sprintf("daily limit set to %d by @%s", limit, message.From.UserName))
	return b.SendMessage(message.Chat.ID, fmt.Sprintf("daily limit set to %d", limit))
}

// ParseLimit reads a non-negative daily limit.
func ParseLimit(arg string) (int, error) {
	limit, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("limit must be a non-negative number, got %q", arg)
	}
	return limit, nil
}

// FormatStats lists users by total lookups, most active first.
func FormatStats(totals map[string]int, active, limit int) string {
	type row struct {
		user  string
		count int
	}
	rows := make([]row, 0, len(totals))
	sum := 0
	for user, count := range totals {
		rows = append(rows, row{user, count})
		sum += count
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].user < rows[j].user
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "lookups: %d by %d users\nrunning now: %d\ndaily limit: %d\n", sum, len(rows), active, limit)
	if len(rows) > 0 {
		sb.WriteString("\n")
	}
	for idx, r := range rows {
		fmt.Fprintf(&sb, "%d. %s: %d\n", idx+1, r.user, r.count)
	}
	return strings.TrimSpace(sb.String())
}

// AddCommandHandlers registers /stats and /limit in commands.
func AddCommandHandlers(commands map[string]bot.Handler, quota *state.StateManager, tracker *users.Tracker, adminUsernames []string) {
	handlers := NewAdminHandlers(quota, tracker, adminUsernames)
	commands["stats"] = handlers.statsHandler
	commands["limit"] = handlers.limitHandler
}
