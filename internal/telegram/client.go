// Package telegram connects the chat-agnostic bot core to the Telegram Bot API.
package telegram

import (
	"context"
	"fmt"
	"strings"

	"recipebot/internal/bot"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SecretHeader carries the webhook secret on every update Telegram posts.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// Client sends and edits messages. It implements bot.Responder.
type Client struct {
	api *tgbotapi.BotAPI
}

var _ bot.Responder = (*Client)(nil)

func NewClient(token string, debug bool) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = debug
	return &Client{api: api}, nil
}

// NewClientWithEndpoint points the client at another Bot API server.
// The endpoint is a format string such as tgbotapi.APIEndpoint.
func NewClientWithEndpoint(token, endpoint string, httpClient tgbotapi.HTTPClient) (*Client, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	return &Client{api: api}, nil
}

func (c *Client) Username() string {
	return c.api.Self.UserName
}

func (c *Client) Send(_ context.Context, chatID int64, text string, kb *bot.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if markup := replyMarkup(kb); markup != nil {
		msg.ReplyMarkup = markup
	}
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return sent.MessageID, nil
}

func (c *Client) Edit(_ context.Context, chatID int64, messageID int, text string, kb *bot.Keyboard) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeHTML
	edit.DisableWebPagePreview = true
	if kb != nil && kb.Kind == bot.KeyboardInline {
		markup := inlineMarkup(kb)
		edit.ReplyMarkup = &markup
	}
	if _, err := c.api.Send(edit); err != nil && !notModified(err) {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

// AnswerCallback stops the client-side spinner on a pressed button.
func (c *Client) AnswerCallback(id string) error {
	if _, err := c.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		return fmt.Errorf("answer callback: %w", err)
	}
	return nil
}

func (c *Client) SetCommands(entries []bot.MenuEntry) error {
	cmds := make([]tgbotapi.BotCommand, len(entries))
	for i, e := range entries {
		cmds[i] = tgbotapi.BotCommand{Command: e.Command, Description: e.Description}
	}
	if _, err := c.api.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// SetWebhook registers url with Telegram. Updates will carry secret in
// SecretHeader.
func (c *Client) SetWebhook(url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	if _, err := c.api.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func (c *Client) DeleteWebhook() error {
	if _, err := c.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// Editing a message into identical content is rejected by the API and is
// harmless for us.
func notModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}
