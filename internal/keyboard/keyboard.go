package keyboard

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"hotel-scout/internal/hotels"
)

var weekdays = [7]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"}

// Calendar renders a month as an inline keyboard: a weekday header row
// (Monday first), one row per week with inert cells for days outside the
// month, and a navigation footer. Every actionable cell carries its full
// year/month/day in the callback data so handling stays stateless.
func Calendar(year, month int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	header := make([]tgbotapi.InlineKeyboardButton, 0, 7)
	for _, d := range weekdays {
		header = append(header, tgbotapi.NewInlineKeyboardButtonData(d, ignoreData))
	}
	rows = append(rows, header)

	for _, week := range monthWeeks(year, month) {
		row := make([]tgbotapi.InlineKeyboardButton, 0, 7)
		for _, day := range week {
			if day == 0 {
				row = append(row, tgbotapi.NewInlineKeyboardButtonData(" ", ignoreData))
				continue
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(
				strconv.Itoa(day), fmt.Sprintf("%s%d_%d_%d", dayPrefix, year, month, day)))
		}
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("<", fmt.Sprintf("%s%d_%d", prevPrefix, year, month)),
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d/%d", month, year), ignoreData),
		tgbotapi.NewInlineKeyboardButtonData(">", fmt.Sprintf("%s%d_%d", nextPrefix, year, month)),
	})
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Cities renders one button per region candidate.
func Cities(cities []hotels.City) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cities))
	for _, c := range cities {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(c.Name, cityPrefix+c.ID)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Advance moves one month forward or backward, rolling over year boundaries.
func Advance(year, month int, forward bool) (int, int) {
	if forward {
		month++
		if month > 12 {
			month = 1
			year++
		}
	} else {
		month--
		if month < 1 {
			month = 12
			year--
		}
	}
	return year, month
}

// monthWeeks lays the days of a month out in Monday-first weeks, zero for
// cells outside the month.
func monthWeeks(year, month int) [][7]int {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()
	idx := (int(first.Weekday()) + 6) % 7 // Monday = 0

	var weeks [][7]int
	var week [7]int
	for day := 1; day <= days; day++ {
		week[idx] = day
		idx++
		if idx == 7 {
			weeks = append(weeks, week)
			week = [7]int{}
			idx = 0
		}
	}
	if idx > 0 {
		weeks = append(weeks, week)
	}
	return weeks
}
