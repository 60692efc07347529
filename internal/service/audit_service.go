package service

import (
	"context"
	"fmt"

	"recipebot/internal/pkg/logger"
	"recipebot/pkg/events"
	pktNats "recipebot/pkg/nats"
)

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error
}

// IAuditService writes every domain event to the structured log.
type IAuditService interface {
	Start(ctx context.Context) error
}

type auditService struct {
	subscriber EventSubscriber
	log        logger.ILogger
}

var auditedEvents = []string{
	events.RecipeCreated,
	events.RecipeUpdated,
	events.RecipeDeleted,
	events.UserRegistered,
}

func NewAuditService(subscriber EventSubscriber, log logger.ILogger) IAuditService {
	return &auditService{subscriber: subscriber, log: log}
}

func (s *auditService) Start(ctx context.Context) error {
	for _, eventType := range auditedEvents {
		durable := "recipebot-audit-" + eventType
		if err := s.subscriber.Subscribe(ctx, eventType, durable, s.record); err != nil {
			return fmt.Errorf("subscribe %s: %w", eventType, err)
		}
	}
	return nil
}

func (s *auditService) record(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()
	s.log.Info("Audit", event.EventType(), details)
	return nil
}
