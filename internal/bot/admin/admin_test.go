package admin

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/bot"
)

func TestParseLimit(t *testing.T) {
	for _, arg := range []string{"0", " 15 "} {
		if _, err := ParseLimit(arg); err != nil {
			t.Errorf("ParseLimit(%q): unexpected error %v", arg, err)
		}
	}
	for _, arg := range []string{"-1", "ten", ""} {
		if _, err := ParseLimit(arg); err == nil {
			t.Errorf("ParseLimit(%q): expected error", arg)
		}
	}
}

func TestFormatStats(t *testing.T) {
	got := FormatStats(map[string]int{"bob": 2, "alice": 5, "carol": 2}, 1, 20)
	want := "lookups: 9 by 3 users\nrunning now: 1\ndaily limit: 20\n\n1. alice: 5\n2. bob: 2\n3. carol: 2"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}

	if got := FormatStats(nil, 0, 0); got != "lookups: 0 by 0 users\nrunning now: 0\ndaily limit: 0" {
		t.Fatalf("unexpected empty stats: %q", got)
	}
}

func TestAdmins(t *testing.T) {
	h := NewAdminHandlers(nil, nil, []string{"@alice", "bob"})
	for _, tt := range []struct {
		from *tgbotapi.User
		want bool
	}{
		{&tgbotapi.User{UserName: "alice"}, true},
		{&tgbotapi.User{UserName: "bob"}, true},
		{&tgbotapi.User{UserName: "mallory"}, false},
		{nil, false},
	} {
		if got := h.isAdmin(&tgbotapi.Message{From: tt.from}); got != tt.want {
			t.Errorf("isAdmin(%+v) = %v, want %v", tt.from, got, tt.want)
		}
	}

	commands := map[string]bot.Handler{}
	AddCommandHandlers(commands, nil, nil, nil)
	if commands["stats"] == nil || commands["limit"] == nil {
		t.Fatal("expected /stats and /limit")
	}
}
