package db

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/utils/e"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID       int64
	ChatID   int64
	Username sql.NullString
	TgName   sql.NullString
	AddedAt  time.Time
	Lookups  int
}

// UserFromMessage builds the registry row for the sender of message.
func UserFromMessage(message *tgbotapi.Message) User {
	u := User{ChatID: message.Chat.ID, AddedAt: time.Now()}
	if message.From == nil {
		return u
	}
	u.Username = sql.NullString{
		String: message.From.UserName,
		Valid:  message.From.UserName != "",
	}
	name := strings.TrimSpace(message.From.FirstName + " " + message.From.LastName)
	u.TgName = sql.NullString{String: name, Valid: name != ""}
	return u
}

// RegisterUser inserts user unless its chat is already known.
func (r *Registry) RegisterUser(ctx context.Context, user User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (chat_id, username, tg_name, added_at, lookups)
		VALUES (?, ?, ?, ?, 0)
		ON CONFLICT (chat_id) DO NOTHING`,
		user.ChatID,
		user.Username,
		user.TgName,
		user.AddedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return e.Wrap("failed to insert new user", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("new user registered: ID: %d, username: %s", user.ChatID, user.Username.String)
	}
	return nil
}

func (r *Registry) GetUserByChatID(ctx context.Context, chatID int64) (User, error) {
	var (
		user    User
		addedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, chat_id, username, tg_name, added_at, lookups
		FROM users WHERE chat_id = ?`, chatID,
	).Scan(&user.ID, &user.ChatID, &user.Username, &user.TgName, &addedAt, &user.Lookups)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, e.Wrap("error fetching user", err)
	}
	user.AddedAt, _ = time.Parse(time.RFC3339, addedAt)
	return user, nil
}

// IncrementLookups counts one recognition for chatID.
func (r *Registry) IncrementLookups(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET lookups = lookups + 1 WHERE chat_id = ?`, chatID)
	return e.WrapIfErr("failed to count lookup", err)
}
