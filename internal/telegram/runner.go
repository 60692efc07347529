package telegram

import (
	"context"
	"time"

	"recipebot/internal/bot"
	"recipebot/internal/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Handler consumes bot events; *bot.Dispatcher is the production one.
type Handler interface {
	Handle(ctx context.Context, ev bot.Event) error
}

// callbackAnswerer is the part of Client the runner needs.
type callbackAnswerer interface {
	AnswerCallback(id string) error
}

// Runner feeds Telegram updates to a Handler, one chat at a time.
type Runner struct {
	client      callbackAnswerer
	handler     Handler
	log         logger.ILogger
	queue       *chatQueue
	turnTimeout time.Duration
}

func NewRunner(client callbackAnswerer, handler Handler, log logger.ILogger, turnTimeout time.Duration) *Runner {
	if turnTimeout <= 0 {
		turnTimeout = 2 * time.Minute
	}
	return &Runner{
		client:      client,
		handler:     handler,
		log:         log,
		queue:       newChatQueue(),
		turnTimeout: turnTimeout,
	}
}

// Dispatch queues one update and returns immediately. Callback queries are
// acknowledged before the turn runs.
func (r *Runner) Dispatch(u tgbotapi.Update) {
	ev, ok := ToEvent(u)
	if !ok {
		r.log.Debug("Telegram", "Skipping unsupported update", map[string]interface{}{"update_id": u.UpdateID})
		return
	}
	if ev.Type == bot.EventCallback {
		if err := r.client.AnswerCallback(ev.CallbackID); err != nil {
			r.log.Warn("Telegram", "Failed to answer callback", map[string]interface{}{"error": err.Error()})
		}
	}
	r.queue.push(ev.ChatID, func() { r.run(ev) })
}

func (r *Runner) run(ev bot.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), r.turnTimeout)
	defer cancel()

	ctx, span := otel.Tracer("recipebot/telegram").Start(ctx, "bot.turn")
	span.SetAttributes(
		attribute.String("bot.event", ev.Type.String()),
		attribute.Int64("bot.chat_id", ev.ChatID),
	)
	defer span.End()

	if err := r.handler.Handle(ctx, ev); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Error("Telegram", "Turn failed", map[string]interface{}{
			"chat_id": ev.ChatID,
			"user_id": ev.UserID,
			"error":   err,
		})
	}
}

// Wait blocks until all queued turns have finished.
func (r *Runner) Wait() {
	r.queue.wait()
}

// Poll long-polls getUpdates until ctx is done.
func Poll(ctx context.Context, c *Client, r *Runner, log logger.ILogger) error {
	if err := c.DeleteWebhook(); err != nil {
		return err
	}
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 60
	updates := c.api.GetUpdatesChan(cfg)
	log.Info("Telegram", "Polling for updates", map[string]interface{}{"bot": c.Username()})

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			r.Wait()
			return nil
		case u, ok := <-updates:
			if !ok {
				r.Wait()
				return nil
			}
			r.Dispatch(u)
		}
	}
}
