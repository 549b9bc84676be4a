package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sukalov/lyricsearch/internal/bot"
	"github.com/sukalov/lyricsearch/internal/bot/common"
	"github.com/sukalov/lyricsearch/internal/db"
	"github.com/sukalov/lyricsearch/internal/download"
	"github.com/sukalov/lyricsearch/internal/imagecodec"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/pipeline"
	"github.com/sukalov/lyricsearch/internal/state"
	"github.com/sukalov/lyricsearch/internal/users"
)

// DefaultRunTimeout bounds one screenshot from download to reply.
const DefaultRunTimeout = 5 * time.Minute

const (
	tooLargeText   = "this image is too large, the limit is 20 MB"
	busyText       = "still working on your previous screenshot, hold on"
	limitText      = "daily limit reached (%d of %d). come back tomorrow"
	downloadText   = "Downloading screenshot..."
	downloadFailed = "could not download the image, please send it again"
	unknownText    = "send me a screenshot of the song that is playing. /help for details"
)

var statusText = map[pipeline.State]string{
	pipeline.Identifying:              "Identifying song...",
	pipeline.EnrichingLyrics:          "Looking up lyrics...",
	pipeline.EnrichingRecommendations: "Finding similar songs...",
	pipeline.Done:                     "Done.",
	pipeline.IdentificationFailed:     "Finished with an error.",
	pipeline.Failed:                   "Finished with an error.",
}

// Messenger is the part of *bot.Bot the recognition flow talks to.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendLongMessage(chatID int64, text string) error
	SendStatus(chatID int64, text string) (int, error)
	EditMessage(chatID int64, messageID int, text string) error
	FileURL(fileID string) (string, error)
}

// Processor runs the recognition pipeline.
type Processor interface {
	Run(ctx context.Context, imageDataURI string, creds pipeline.Credentials, observe pipeline.Observer) pipeline.Result
}

// Registry records users and their lookups. *db.Registry satisfies it.
type Registry interface {
	RegisterUser(ctx context.Context, user db.User) error
	IncrementLookups(ctx context.Context, chatID int64) error
}

// Deps are the collaborators of the client handlers. Quota and Registry
// are optional.
type Deps struct {
	Pipeline    Processor
	Credentials pipeline.Credentials
	Quota       *state.StateManager
	Tracker     *users.Tracker
	Registry    Registry
	Downloader  *download.Client
	RunTimeout  time.Duration
}

type ClientHandlers struct {
	Deps
}

func NewClientHandlers(deps Deps) *ClientHandlers {
	if deps.Tracker == nil {
		deps.Tracker = users.NewTracker()
	}
	if deps.Downloader == nil {
		deps.Downloader = download.NewClient()
	}
	if deps.RunTimeout <= 0 {
		deps.RunTimeout = DefaultRunTimeout
	}
	return &ClientHandlers{Deps: deps}
}

func (h *ClientHandlers) startHandler(b *bot.Bot, update tgbotapi.Update) error {
	message := update.Message
	if h.Registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Registry.RegisterUser(ctx, db.UserFromMessage(message)); err != nil {
			logger.Error(fmt.Sprintf("error registering user %d\nError: %v", message.Chat.ID, err))
		}
	}
	return b.SendMessage(message.Chat.ID, "hi! "+common.HelpText)
}

func (h *ClientHandlers) messageHandler(b *bot.Bot, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), h.RunTimeout)
	defer cancel()
	return h.handleMessage(ctx, b, update.Message)
}

func (h *ClientHandlers) handleMessage(ctx context.Context, m Messenger, message *tgbotapi.Message) error {
	img, ok := pickImage(message)
	if !ok {
		return m.SendMessage(message.Chat.ID, unknownText)
	}
	return h.recognize(ctx, m, message, img)
}

type imageFile struct {
	ID   string
	Size int
}

// pickImage returns the largest photo size, or an image sent as a document.
func pickImage(message *tgbotapi.Message) (imageFile, bool) {
	if n := len(message.Photo); n > 0 {
		photo := message.Photo[n-1]
		return imageFile{ID: photo.FileID, Size: photo.FileSize}, true
	}
	if doc := message.Document; doc != nil && strings.HasPrefix(doc.MimeType, "image/") {
		return imageFile{ID: doc.FileID, Size: doc.FileSize}, true
	}
	return imageFile{}, false
}

func (h *ClientHandlers) recognize(ctx context.Context, m Messenger, message *tgbotapi.Message, img imageFile) error {
	chatID := message.Chat.ID
	user := common.UserKey(message)

	if img.Size > download.MaxFileSize {
		return m.SendMessage(chatID, tooLargeText)
	}
	if !h.Tracker.Begin(chatID, user) {
		return m.SendMessage(chatID, busyText)
	}
	defer h.Tracker.End(chatID)

	reserved := false
	if h.Quota != nil {
		usage, err := h.Quota.Reserve(ctx, user)
		switch {
		case errors.Is(err, state.ErrLimitReached):
			return m.SendMessage(chatID, fmt.Sprintf(limitText, usage.Used, usage.Limit))
		case err != nil:
			logger.Error(fmt.Sprintf("quota reservation failed for %s, allowing\nError: %v", user, err))
		default:
			reserved = true
		}
	}
	release := func() {
		if !reserved {
			return
		}
		if err := h.Quota.Release(ctx, user); err != nil {
			logger.Error(fmt.Sprintf("failed to release usage for %s\nError: %v", user, err))
		}
	}

	statusID, err := m.SendStatus(chatID, downloadText)
	if err != nil {
		release()
		return err
	}
	setStatus := func(text string) {
		if err := m.EditMessage(chatID, statusID, text); err != nil {
			logger.Debug(fmt.Sprintf("failed to update status in chat %d: %v", chatID, err))
		}
	}

	data, err := h.download(ctx, m, img.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("download failed for %s\nError: %v", user, err))
		release()
		setStatus(downloadFailed)
		return nil
	}
	h.recordLookup(ctx, chatID, user, reserved)

	uri := imagecodec.EncodeDataURI(imagecodec.FromBytes(data))
	res := h.Pipeline.Run(ctx, uri, h.Credentials, func(s pipeline.State) {
		h.Tracker.SetStage(chatID, s.String())
		if text, ok := statusText[s]; ok {
			setStatus(text)
		}
	})

	return m.SendLongMessage(chatID, Render(res))
}

func (h *ClientHandlers) download(ctx context.Context, m Messenger, fileID string) ([]byte, error) {
	url, err := m.FileURL(fileID)
	if err != nil {
		return nil, err
	}
	return h.Downloader.Fetch(ctx, url)
}

func (h *ClientHandlers) recordLookup(ctx context.Context, chatID int64, user string, reserved bool) {
	if reserved {
		if err := h.Quota.Commit(ctx, user); err != nil {
			logger.Error(fmt.Sprintf("failed to record usage for %s\nError: %v", user, err))
		}
	}
	if h.Registry != nil {
		if err := h.Registry.IncrementLookups(ctx, chatID); err != nil {
			logger.Error(fmt.Sprintf("failed to count lookup for %d\nError: %v", chatID, err))
		}
	}
}

// SetupHandlers starts clientBot with the client handlers plus commands.
func SetupHandlers(clientBot *bot.Bot, deps Deps, commands map[string]bot.Handler) *ClientHandlers {
	handlers := NewClientHandlers(deps)

	commandHandlers := make(map[string]bot.Handler, len(commands)+1)
	for name, handler := range commands {
		commandHandlers[name] = handler
	}
	commandHandlers["start"] = handlers.startHandler

	go clientBot.Start(
		commandHandlers,
		[]bot.Handler{handlers.messageHandler},
		common.GetCallbackHandlers(),
	)
	return handlers
}
