package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"hotel-scout/internal/config"
	"hotel-scout/internal/history"
	"hotel-scout/internal/hotels"
	"hotel-scout/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	repo, err := history.NewFileRepository(cfg.HistoryFilePath)
	if err != nil {
		log.Fatalf("failed to init history repo: %v", err)
	}

	client := hotels.New(cfg.BaseAPIURL, cfg.RapidAPIKey, cfg.RapidAPIHost, cfg.HTTPTimeout, cfg.CityCacheTTL)

	bot, err := telegram.New(cfg.TelegramBotToken, client, repo)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	bot.Start(context.Background())
}
