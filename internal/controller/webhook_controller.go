package controller

import (
	"encoding/json"

	"recipebot/internal/pkg/serverutils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
)

// UpdateDispatcher queues a Telegram update for processing.
type UpdateDispatcher interface {
	Dispatch(u tgbotapi.Update)
}

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	ReceiveUpdate(ctx *fiber.Ctx) error
}

type webhookController struct {
	dispatcher UpdateDispatcher
	header     string
	secret     string
}

func NewWebhookController(dispatcher UpdateDispatcher, header, secret string) IWebhookController {
	return &webhookController{dispatcher: dispatcher, header: header, secret: secret}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/telegram")
	h.Post("/webhook", serverutils.SecretHeaderMiddleware(c.header, c.secret), c.ReceiveUpdate)
}

// ReceiveUpdate acknowledges as soon as the update is queued. Telegram
// retries anything that is not a 2xx, so turn failures never surface here.
func (c *webhookController) ReceiveUpdate(ctx *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(ctx.Body(), &update); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid update body"))
	}

	c.dispatcher.Dispatch(update)
	return ctx.SendStatus(fiber.StatusOK)
}
