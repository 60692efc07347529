package service

import (
	"context"
	"errors"
	"testing"

	"recipebot/internal/pkg/logger"
	"recipebot/pkg/events"
	pktNats "recipebot/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSubscriber struct {
	handlers map[string]pktNats.EventHandler
	durables []string
	failOn   string
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, eventType, durableName string, handler pktNats.EventHandler) error {
	if eventType == f.failOn {
		return errors.New("stream missing")
	}
	if f.handlers == nil {
		f.handlers = map[string]pktNats.EventHandler{}
	}
	f.handlers[eventType] = handler
	f.durables = append(f.durables, durableName)
	return nil
}

func TestAuditServiceLogsEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sub := &fakeSubscriber{}
	svc := NewAuditService(sub, logger.NewFromZap(zap.New(core)))

	require.NoError(t, svc.Start(context.Background()))
	assert.Len(t, sub.handlers, 4)
	assert.Contains(t, sub.durables, "recipebot-audit-RECIPE_CREATED")

	evt := events.New(events.RecipeDeleted, map[string]interface{}{"recipe_id": "abc", "user_id": int64(7)})
	require.NoError(t, sub.handlers[events.RecipeDeleted](context.Background(), evt))

	entries := logs.FilterMessage(events.RecipeDeleted).All()
	require.Len(t, entries, 1)
	details, ok := entries[0].ContextMap()["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc", details["recipe_id"])
}

func TestAuditServiceSubscribeFailure(t *testing.T) {
	sub := &fakeSubscriber{failOn: events.RecipeUpdated}
	err := NewAuditService(sub, logger.NewNopLogger()).Start(context.Background())
	assert.ErrorContains(t, err, events.RecipeUpdated)
}
