package bot

import (
	"fmt"
	"log"
	"sync"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Telegram limit for one text message, in UTF-16
// code units.
const MaxMessageLength = 4096

// Handler processes one update.
type Handler func(b *Bot, update tgbotapi.Update) error

// Bot represents a configurable Telegram bot
type Bot struct {
	Client     *tgbotapi.BotAPI
	updateChan tgbotapi.UpdatesChannel
	stopChan   chan struct{}
	done       chan struct{}
	name       string
	mu         sync.Mutex
}

// New creates a new bot instance
func New(name, token string) (*Bot, error) {
	botClient, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updateChan := botClient.GetUpdatesChan(updateConfig)

	return &Bot{
		Client:     botClient,
		updateChan: updateChan,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		name:       name,
	}, nil
}

// Start processes updates until Stop is called or the update channel is
// closed. Every update runs in its own goroutine.
func (b *Bot) Start(
	commandHandlers map[string]Handler,
	messageHandlers []Handler,
	callbackHandlers map[string]Handler,
) {
	log.Printf("[%s] authorized on account %s", b.name, b.Client.Self.UserName)
	b.run(b.updateChan, func(update tgbotapi.Update) {
		b.processUpdate(update, commandHandlers, messageHandlers, callbackHandlers)
	})
}

func (b *Bot) run(updates tgbotapi.UpdatesChannel, handle func(tgbotapi.Update)) {
	defer close(b.done)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			go handle(update)
		case <-b.stopChan:
			return
		}
	}
}

func (b *Bot) processUpdate(
	update tgbotapi.Update,
	commandHandlers map[string]Handler,
	messageHandlers []Handler,
	callbackHandlers map[string]Handler,
) {
	if update.Message != nil && update.Message.IsCommand() {
		if handler, exists := commandHandlers[update.Message.Command()]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] command handler error: %v", b.name, err)
			}
			return
		}
	}

	if update.CallbackQuery != nil {
		if handler, exists := callbackHandlers[update.CallbackQuery.Data]; exists {
			if err := handler(b, update); err != nil {
				log.Printf("[%s] callback handler error: %v", b.name, err)
			}
			return
		}
	}

	for _, handler := range messageHandlers {
		if err := handler(b, update); err != nil {
			log.Printf("[%s] message handler error: %v", b.name, err)
		}
	}
}

// Stop halts the bot
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Client.StopReceivingUpdates()
	select {
	case b.stopChan <- struct{}{}:
	case <-b.done:
	}
}

func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.Client.Send(msg)
	return err
}

func (b *Bot) SendMessageWithMarkdown(chatID int64, text string, disableLinks bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	msg.DisableWebPagePreview = disableLinks
	_, err := b.Client.Send(msg)
	return err
}

// SendLongMessage sends text in as many messages as the length limit needs.
func (b *Bot) SendLongMessage(chatID int64, text string) error {
	for _, part := range SplitMessage(text, MaxMessageLength) {
		if err := b.SendMessage(chatID, part); err != nil {
			return err
		}
	}
	return nil
}

// SendStatus sends text and returns the message id for later edits.
func (b *Bot) SendStatus(chatID int64, text string) (int, error) {
	sent, err := b.Client.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

func (b *Bot) EditMessage(chatID int64, messageID int, text string) error {
	_, err := b.Client.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

// FileURL resolves a file id to a direct download link.
func (b *Bot) FileURL(fileID string) (string, error) {
	url, err := b.Client.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file %s: %w", fileID, err)
	}
	return url, nil
}

// SplitMessage cuts text into chunks of at most limit UTF-16 code units,
// the unit Telegram counts in, preferring to break after a newline.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var parts []string
	runes := []rune(text)
	for len(runes) > 0 {
		units, end, lastNewline := 0, 0, -1
		for end < len(runes) {
			w := utf16.RuneLen(runes[end])
			if w < 0 {
				w = 1
			}
			if units+w > limit {
				break
			}
			units += w
			if runes[end] == '\n' {
				lastNewline = end
			}
			end++
		}
		if end == len(runes) {
			parts = append(parts, string(runes))
			break
		}
		if end == 0 {
			end = 1
		}

		cut := end
		if lastNewline > end/2 {
			cut = lastNewline + 1
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	return parts
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}
