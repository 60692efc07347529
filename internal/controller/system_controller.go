package controller

import (
	"context"

	"recipebot/internal/dto"
	"recipebot/internal/pkg/serverutils"
	"recipebot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	RecipeStats(ctx *fiber.Ctx) error
}

type systemController struct {
	ping     Pinger
	consumer service.IConsumerService
}

func NewSystemController(ping Pinger, consumer service.IConsumerService) ISystemController {
	return &systemController{ping: ping, consumer: consumer}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/healthz", c.Health)
	r.Get("/api/stats/recipes", c.RecipeStats)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	res := dto.HealthResponse{Status: "ok", Database: "ok"}
	if c.ping != nil {
		if err := c.ping(ctx.UserContext()); err != nil {
			res.Status = "degraded"
			res.Database = err.Error()
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(res)
		}
	}
	return ctx.JSON(res)
}

func (c *systemController) RecipeStats(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Recipe statistics", c.consumer.Stats()))
}
