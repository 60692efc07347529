package telegram

import (
	"strings"

	"recipebot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ToEvent converts an update into a bot event. Updates the bot does not
// act on (edited messages, stickers, channel posts, ...) report false.
func ToEvent(u tgbotapi.Update) (bot.Event, bool) {
	if cq := u.CallbackQuery; cq != nil {
		if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
			return bot.Event{}, false
		}
		return bot.Event{
			Type:       bot.EventCallback,
			UserID:     cq.From.ID,
			ChatID:     cq.Message.Chat.ID,
			MessageID:  cq.Message.MessageID,
			CallbackID: cq.ID,
			Data:       cq.Data,
			Username:   cq.From.UserName,
			FirstName:  cq.From.FirstName,
		}, true
	}

	m := u.Message
	if m == nil || m.From == nil || m.Chat == nil {
		return bot.Event{}, false
	}
	ev := bot.Event{
		UserID:    m.From.ID,
		ChatID:    m.Chat.ID,
		MessageID: m.MessageID,
		Username:  m.From.UserName,
		FirstName: m.From.FirstName,
	}
	switch {
	case m.IsCommand():
		ev.Type = bot.EventCommand
		ev.Command = strings.ToLower(m.Command())
		ev.Args = strings.TrimSpace(m.CommandArguments())
	case strings.TrimSpace(m.Text) != "":
		ev.Type = bot.EventText
		ev.Text = m.Text
	default:
		return bot.Event{}, false
	}
	return ev, true
}
