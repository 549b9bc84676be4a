package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sukalov/lyricsearch/internal/bot"
	"github.com/sukalov/lyricsearch/internal/bot/admin"
	"github.com/sukalov/lyricsearch/internal/bot/client"
	"github.com/sukalov/lyricsearch/internal/bot/common"
	"github.com/sukalov/lyricsearch/internal/config"
	"github.com/sukalov/lyricsearch/internal/db"
	"github.com/sukalov/lyricsearch/internal/download"
	"github.com/sukalov/lyricsearch/internal/logger"
	"github.com/sukalov/lyricsearch/internal/redis"
	"github.com/sukalov/lyricsearch/internal/state"
	"github.com/sukalov/lyricsearch/internal/users"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (env vars override it)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger.SetDebug(cfg.Debug)

	p, err := cfg.Pipeline()
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	lyricsBot, err := bot.New("lyricsearch", cfg.Bot.Token)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}
	if cfg.Bot.LogChannelID != 0 {
		logger.Init(lyricsBot, cfg.Bot.LogChannelID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var quota *state.StateManager
	if cfg.Redis.URL != "" {
		store, err := redis.NewDBManager(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			log.Fatalf("failed to set up redis: %v", err)
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			log.Fatalf("failed to reach redis: %v", err)
		}
		quota = state.NewStateManager(store, cfg.Bot.DailyLimit)
		if err := quota.Init(ctx); err != nil {
			log.Fatalf("failed to init quotas: %v", err)
		}
	} else {
		logger.Info("REDIS_URL is not set, running without daily limits")
	}

	deps := client.Deps{
		Pipeline:    p,
		Credentials: cfg.Credentials(),
		Quota:       quota,
		Tracker:     users.NewTracker(),
		Downloader:  download.NewClient(),
	}
	if cfg.Turso.URL != "" {
		registry, err := db.Open(ctx, cfg.Turso.URL, cfg.Turso.AuthToken)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer registry.Close()
		deps.Registry = registry
	} else {
		logger.Info("TURSO_DATABASE_URL is not set, users are not recorded")
	}

	commands := common.GetCommandHandlers(quota)
	if quota != nil {
		admin.AddCommandHandlers(commands, quota, deps.Tracker, cfg.Bot.Admins)
	}
	client.SetupHandlers(lyricsBot, deps, commands)

	logger.Success(fmt.Sprintf("lyricsearch bot started as @%s (vision: %s, search: %s)",
		lyricsBot.Client.Self.UserName, cfg.Gemini.Model, cfg.Perplexity.Model))

	<-ctx.Done()
	log.Println("shutting down")
	lyricsBot.Stop()
}
