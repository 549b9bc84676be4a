package common

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/state"
)

func TestUserKey(t *testing.T) {
	named := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, From: &tgbotapi.User{UserName: "alice"}}
	if got := UserKey(named); got != "alice" {
		t.Fatalf("unexpected key: %q", got)
	}
	anon := &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 42}, From: &tgbotapi.User{}}
	if got := UserKey(anon); got != "id42" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestFormatUsage(t *testing.T) {
	tests := []struct {
		usage state.Usage
		want  string
	}{
		{state.Usage{Used: 3, Limit: 20}, "lookups today: 3 of 20, 17 left"},
		{state.Usage{Used: 25, Limit: 20}, "lookups today: 25 of 20, 0 left"},
		{state.Usage{Used: 4}, "lookups today: 4 (no daily limit)"},
	}
	for _, tt := range tests {
		if got := FormatUsage(tt.usage); got != tt.want {
			t.Errorf("FormatUsage(%+v) = %q, want %q", tt.usage, got, tt.want)
		}
	}
}

func TestGetCommandHandlers(t *testing.T) {
	if _, ok := GetCommandHandlers(nil)["usage"]; ok {
		t.Fatal("/usage needs a quota manager")
	}
	if _, ok := GetCommandHandlers(state.NewStateManager(nil, 1))["usage"]; !ok {
		t.Fatal("expected /usage")
	}
}
