package db

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestDataSourceName(t *testing.T) {
	tests := []struct {
		url, token, want string
		wantErr          bool
	}{
		{url: "libsql://songs.turso.io", token: "tok", want: "libsql://songs.turso.io?authToken=tok"},
		{url: "libsql://songs.turso.io", want: "libsql://songs.turso.io"},
		{url: "http://127.0.0.1:8080?tls=0", token: "a b", want: "http://127.0.0.1:8080?authToken=a+b&tls=0"},
		{url: "songs.turso.io", wantErr: true},
	}
	for _, tt := range tests {
		got, err := dataSourceName(tt.url, tt.token)
		if (err != nil) != tt.wantErr {
			t.Fatalf("dataSourceName(%q): unexpected error %v", tt.url, err)
		}
		if got != tt.want {
			t.Fatalf("dataSourceName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestUserFromMessage(t *testing.T) {
	msg := &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42},
		From: &tgbotapi.User{UserName: "alice", FirstName: "Alice"},
	}
	u := UserFromMessage(msg)
	if u.ChatID != 42 || u.Username.String != "alice" || !u.Username.Valid {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.TgName.String != "Alice" {
		t.Fatalf("unexpected tg name: %q", u.TgName.String)
	}

	anon := UserFromMessage(&tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 7}, From: &tgbotapi.User{}})
	if anon.Username.Valid || anon.TgName.Valid {
		t.Fatalf("empty names should be NULL: %+v", anon)
	}
}
