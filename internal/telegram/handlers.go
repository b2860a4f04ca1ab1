package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hotel-scout/internal/history"
	"hotel-scout/internal/hotels"
	"hotel-scout/internal/keyboard"
	"hotel-scout/internal/session"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	if conv, ok := b.sessions.Get(msg.From.ID); ok && conv.Stage == session.StageCity {
		b.handleCityQuery(ctx, msg, conv)
	}
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, welcomeText)
	case "lowprice":
		b.startSearch(msg, hotels.ModeLowPrice)
	case "guest_rating":
		b.startSearch(msg, hotels.ModeGuestRating)
	case "bestdeal":
		b.startSearch(msg, hotels.ModeBestDeal)
	case "history":
		b.sendHistory(msg)
	default:
		b.sendMessage(msg.Chat.ID, welcomeText)
	}
}

func (b *Bot) startSearch(msg *tgbotapi.Message, mode hotels.Mode) {
	b.sessions.Start(msg.From.ID, mode)
	b.sendMessage(msg.Chat.ID, cityPromptText)
}

func (b *Bot) handleCityQuery(ctx context.Context, msg *tgbotapi.Message, conv *session.Conversation) {
	tmp, tmpErr := b.s.Send(tgbotapi.NewMessage(msg.Chat.ID, searchingText))

	cities, err := b.hotels.ResolveCity(ctx, msg.Text)

	if tmpErr == nil {
		b.deleteMessage(msg.Chat.ID, tmp.MessageID)
	}
	if err != nil {
		log.Printf("city lookup %q failed: %v", msg.Text, err)
	}
	if err != nil || len(cities) == 0 {
		b.sendMessage(msg.Chat.ID, cityRetryText)
		return
	}

	conv.Candidates = cities
	out := tgbotapi.NewMessage(msg.Chat.ID, cityConfirmText)
	out.ReplyMarkup = keyboard.Cities(cities)
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send city candidates: %v", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer b.answerCallback(cb.ID)

	act := keyboard.Parse(cb.Data)
	if _, ok := act.(keyboard.Ignore); ok {
		return
	}

	conv, ok := b.sessions.Get(cb.From.ID)
	if !ok {
		b.sendMessage(cb.From.ID, staleText)
		return
	}

	switch a := act.(type) {
	case keyboard.SelectCity:
		if conv.Stage != session.StageCity {
			b.sendMessage(cb.From.ID, staleText)
			return
		}
		b.confirmCity(cb, conv, a)
	case keyboard.Navigate:
		if conv.Stage != session.StageCheckIn && conv.Stage != session.StageCheckOut {
			b.sendMessage(cb.From.ID, staleText)
			return
		}
		b.navigateCalendar(cb, conv, a)
	case keyboard.SelectDay:
		switch conv.Stage {
		case session.StageCheckIn:
			b.pickCheckIn(cb, conv, a)
		case session.StageCheckOut:
			b.pickCheckOut(ctx, cb, conv, a)
		default:
			b.sendMessage(cb.From.ID, staleText)
		}
	}
}

func (b *Bot) confirmCity(cb *tgbotapi.CallbackQuery, conv *session.Conversation, a keyboard.SelectCity) {
	name := ""
	for _, c := range conv.Candidates {
		if c.ID == a.ID {
			name = c.Name
			break
		}
	}
	if name == "" {
		b.sendMessage(cb.From.ID, staleText)
		return
	}

	conv.CityID = a.ID
	conv.CityName = name
	conv.Stage = session.StageCheckIn

	now := time.Now()
	out := tgbotapi.NewMessage(cb.From.ID, checkInPrompt)
	out.ReplyMarkup = keyboard.Calendar(now.Year(), int(now.Month()))
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send check-in calendar: %v", err)
	}
}

func (b *Bot) navigateCalendar(cb *tgbotapi.CallbackQuery, conv *session.Conversation, a keyboard.Navigate) {
	if cb.Message == nil {
		return
	}
	year, month := keyboard.Advance(a.Year, a.Month, a.Forward)
	prompt := checkInPrompt
	if conv.Stage == session.StageCheckOut {
		prompt = checkOutPrompt
	}
	edit := tgbotapi.NewEditMessageText(cb.Message.Chat.ID, cb.Message.MessageID, prompt)
	markup := keyboard.Calendar(year, month)
	edit.ReplyMarkup = &markup
	if _, err := b.s.Send(edit); err != nil {
		log.Printf("failed to update calendar: %v", err)
	}
}

func (b *Bot) pickCheckIn(cb *tgbotapi.CallbackQuery, conv *session.Conversation, a keyboard.SelectDay) {
	if cb.Message != nil {
		b.deleteMessage(cb.Message.Chat.ID, cb.Message.MessageID)
	}
	date := formatDate(a)
	conv.CheckIn = date
	conv.Stage = session.StageCheckOut

	b.sendMessage(cb.From.ID, "Выбрана дата заезда: "+date)
	out := tgbotapi.NewMessage(cb.From.ID, checkOutPrompt)
	out.ReplyMarkup = keyboard.Calendar(a.Year, a.Month)
	if _, err := b.s.Send(out); err != nil {
		log.Printf("failed to send check-out calendar: %v", err)
	}
}

func (b *Bot) pickCheckOut(ctx context.Context, cb *tgbotapi.CallbackQuery, conv *session.Conversation, a keyboard.SelectDay) {
	if cb.Message != nil {
		b.deleteMessage(cb.Message.Chat.ID, cb.Message.MessageID)
	}
	date := formatDate(a)
	conv.CheckOut = date
	b.sendMessage(cb.From.ID, "Выбрана дата выезда: "+date)

	// Check-out is intentionally not validated against check-in.
	rec := history.Record{
		CityID:       conv.CityID,
		CityName:     conv.CityName,
		CheckInDate:  conv.CheckIn,
		CheckOutDate: conv.CheckOut,
		SearchType:   string(conv.Mode),
	}
	if err := b.history.Append(cb.From.ID, rec); err != nil {
		log.Printf("failed to append history for %d: %v", cb.From.ID, err)
	}

	found, err := b.hotels.Search(ctx, conv.Mode, conv.CityID, conv.CheckIn, conv.CheckOut)
	b.sessions.End(cb.From.ID)
	if err != nil {
		log.Printf("search failed for %d: %v", cb.From.ID, err)
		b.sendMessage(cb.From.ID, searchFailText)
		b.sendMessage(cb.From.ID, repeatPrompt)
		return
	}

	if len(found) == 0 {
		b.sendMessage(cb.From.ID, noResultsText)
	}
	for _, h := range found {
		b.sendHotel(cb.From.ID, h)
	}
	b.sendMessage(cb.From.ID, repeatPrompt)
}

func (b *Bot) sendHotel(chatID int64, h hotels.Hotel) {
	text := fmt.Sprintf("Название: %s\nЦена: %s\nРейтинг: %s (на основе %s отзывов)",
		h.Name, h.Price, h.ReviewScore, h.ReviewCount)
	if h.ImageURL != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(h.ImageURL))
		photo.Caption = text
		if _, err := b.s.Send(photo); err != nil {
			log.Printf("failed to send photo, falling back to text: %v", err)
			b.sendMessage(chatID, text)
		}
		return
	}
	b.sendMessage(chatID, text)
}

func (b *Bot) sendHistory(msg *tgbotapi.Message) {
	recs := b.history.Load(msg.From.ID)
	if len(recs) == 0 {
		b.sendMessage(msg.Chat.ID, emptyHistText)
		return
	}

	var sb strings.Builder
	sb.WriteString("История вашего поиска:\n")
	shown := 0
	for i := len(recs) - 1; i >= 0 && shown < historyLimit; i-- {
		e := recs[i]
		sb.WriteString(fmt.Sprintf("📍Локация: %s, 📅Дата заезда: %s, 📅Дата выезда: %s, Тип поиска: %s\n",
			e.CityName, e.CheckInDate, e.CheckOutDate, e.SearchType))
		shown++
	}
	b.sendMessage(msg.Chat.ID, sb.String())
}

func formatDate(a keyboard.SelectDay) string {
	return fmt.Sprintf("%04d-%02d-%02d", a.Year, a.Month, a.Day)
}
