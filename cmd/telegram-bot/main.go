package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kiwi-nutriplanner/internal/analyst"
	"kiwi-nutriplanner/internal/app"
	"kiwi-nutriplanner/internal/config"
	"kiwi-nutriplanner/internal/database"
	"kiwi-nutriplanner/internal/llm"
	"kiwi-nutriplanner/internal/metrics"
	"kiwi-nutriplanner/internal/planner"
	"kiwi-nutriplanner/internal/telegram"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateForBot(); err != nil {
		log.Fatalf("Invalid bot config: %v", err)
	}

	ctx := context.Background()

	// 2. Load the menu catalog (URL, file, or embedded snapshot)
	cat, err := app.LoadCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load menu catalog: %v", err)
	}
	log.Printf("Menu catalog loaded with %d items", cat.Len())

	// 3. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := planner.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	// 4. Optional AI reviewer
	var reviewer *analyst.Reviewer
	if cfg.GeminiAPIKey != "" {
		textGen, err := llm.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		if closer, ok := textGen.(llm.Closer); ok {
			defer closer.Close()
		}
		reviewer = analyst.NewReviewer(textGen)
	} else {
		log.Println("GEMINI_API_KEY not set; /review is disabled")
	}

	// 5. Initialize Telegram Bot
	bot, err := telegram.NewBot(cfg, cat, app.NewMatcher(cfg, cat), planRepo, metricsStore, reviewer)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	// 6. Start Server with Graceful Shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
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
