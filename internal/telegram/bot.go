package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hotel-scout/internal/history"
	"hotel-scout/internal/hotels"
	"hotel-scout/internal/session"
)

const (
	welcomeText     = "Привет! Я бот для поиска отелей. Выберите одну из команд: /lowprice, /guest_rating, /bestdeal, /history"
	cityPromptText  = "Введите город:"
	searchingText   = "Поиск..."
	cityRetryText   = "Не удалось найти город. Попробуйте еще раз."
	cityConfirmText = "Уточните, пожалуйста:"
	checkInPrompt   = "Выберите дату заезда:"
	checkOutPrompt  = "Выберите дату выезда:"
	staleText       = "Сессия устарела. Начните заново: /lowprice, /guest_rating, /bestdeal"
	repeatPrompt    = "Повторный поиск: /lowprice, /guest_rating, /bestdeal, /history"
	searchFailText  = "Не удалось выполнить поиск. Попробуйте позже."
	noResultsText   = "По вашему запросу ничего не найдено."
	emptyHistText   = "Ваша история пуста."
)

// historyLimit caps the number of entries shown by /history, newest first.
const historyLimit = 2

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	hotels   hotels.Client
	history  history.Repository
	sessions *session.Manager
}

func New(botToken string, client hotels.Client, repo history.Repository) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		s:        botAPISender{api: api},
		hotels:   client,
		history:  repo,
		sessions: session.NewManager(),
	}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
			continue
		}
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.s.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.s.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("failed to delete message %d: %v", messageID, err)
	}
}

func (b *Bot) answerCallback(id string) {
	if _, err := b.s.Request(tgbotapi.NewCallback(id, "")); err != nil {
		log.Printf("failed to answer callback: %v", err)
	}
}
