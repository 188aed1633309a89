package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-menu-calendar/internal/app"
	"school-menu-calendar/internal/cache"
	"school-menu-calendar/internal/config"
	"school-menu-calendar/internal/database"
	"school-menu-calendar/internal/feed"
	"school-menu-calendar/internal/metrics"
	"school-menu-calendar/internal/preferences"
	"school-menu-calendar/internal/sharecode"
	"school-menu-calendar/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireBuilding(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatal("MENUCAL_TELEGRAM_BOT_TOKEN environment variable not set")
	}

	// 2. Initialize Infrastructure
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	feedCache := cache.NewStore(db.SQL, cfg.CacheTTL)
	metricsStore := metrics.NewStore(db.SQL)

	prefStore, err := preferences.NewStore(cfg.PreferencesPath)
	if err != nil {
		log.Fatalf("Failed to initialize preferences: %v", err)
	}
	defer func() {
		if err := prefStore.Flush(); err != nil {
			log.Printf("Failed to flush preferences: %v", err)
		}
	}()

	// 3. Initialize Services
	client := feed.NewClient(cfg, feedCache)
	generator := app.NewGenerator(cfg, client, prefStore, sharecode.NewGenerator(sharecode.DefaultSize), metricsStore)

	// 4. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, generator, prefStore, client, metricsStore)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 5. Periodic cache cleanup
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := feedCache.Cleanup(ctx); err != nil {
					log.Printf("Cache cleanup failed: %v", err)
				} else if n > 0 {
					log.Printf("🧹 Removed %d expired cache entries", n)
				}
			}
		}
	}()

	// 6. Start Server with Graceful Shutdown
	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
