package telegram

import (
	"recipebot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func replyMarkup(kb *bot.Keyboard) interface{} {
	if kb == nil {
		return nil
	}
	switch kb.Kind {
	case bot.KeyboardInline:
		if len(kb.Rows) == 0 {
			return nil
		}
		return inlineMarkup(kb)
	case bot.KeyboardReply:
		rows := make([][]tgbotapi.KeyboardButton, len(kb.Rows))
		for i, row := range kb.Rows {
			for _, b := range row {
				rows[i] = append(rows[i], tgbotapi.NewKeyboardButton(b.Text))
			}
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.OneTimeKeyboard = kb.OneTime
		return markup
	case bot.KeyboardRemove:
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

func inlineMarkup(kb *bot.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			if b.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(b.Text, b.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		rows = append(rows, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}
