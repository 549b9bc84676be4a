package logger

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sukalov/lyricsearch/internal/utils/e"
)

var (
	mu        sync.RWMutex
	channelID int64
	botClient BotClient
	debug     bool
)

type BotClient interface {
	SendMessage(chatID int64, text string) error
}

// Init mirrors every log line to a Telegram channel through client.
// Calling it again replaces the previous target.
func Init(client BotClient, logChannelID int64) {
	mu.Lock()
	defer mu.Unlock()
	botClient = client
	channelID = logChannelID
}

// SetDebug toggles Debug output.
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
}

func Info(message string) {
	sendLog("ℹ️ INFO", message)
}

func Error(message string) {
	sendLog("❌ ERROR", message)
}

func Debug(message string) {
	mu.RLock()
	enabled := debug
	mu.RUnlock()
	if !enabled {
		return
	}
	sendLog("🔍 DEBUG", message)
}

func Success(message string) {
	sendLog("✅ SUCCESS", message)
}

func sendLog(prefix, message string) {
	log.Printf("%s %s", prefix, message)

	mu.RLock()
	client, chat := botClient, channelID
	mu.RUnlock()
	if client == nil || chat == 0 {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logMessage := fmt.Sprintf("[%s] %s\n%s", timestamp, prefix, message)

	go func() {
		if err := client.SendMessage(chat, logMessage); err != nil {
			log.Printf("failed to send log to channel: %v", err)
		}
	}()
}

// LogWithErr logs message as Info, or as Error with err appended, and
// returns err wrapped with message.
func LogWithErr(message string, err error) error {
	if err == nil {
		Info(message)
		return nil
	}

	Error(fmt.Sprintf("%s\nError: %v", message, err))

	return e.Wrap(message, err)
}
