package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// RapidAPI hotel search credentials
	RapidAPIKey  string `env:"RAPIDAPI_KEY,required"`
	RapidAPIHost string `env:"RAPIDAPI_HOST,required"`
	BaseAPIURL   string `env:"BASE_API_URL" envDefault:"https://hotels4.p.rapidapi.com"`

	// Storage
	HistoryFilePath string `env:"HISTORY_FILE_PATH" envDefault:"data/history.json"`

	// Tuning
	HTTPTimeout  time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	CityCacheTTL time.Duration `env:"CITY_CACHE_TTL" envDefault:"15m"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
