package service

import (
	"context"
	"encoding/json"
	"sync"

	"recipebot/internal/dto"
	"recipebot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IConsumerService keeps running counters of created recipes per source.
type IConsumerService interface {
	Consume(ctx context.Context) error
	Stats() dto.RecipeStatsResponse
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	log       logger.ILogger

	mu       sync.RWMutex
	total    int64
	bySource map[string]int64
}

func NewConsumerService(pubSub *gochannel.GoChannel, topicName string, log logger.ILogger) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		log:       log,
		bySource:  make(map[string]int64),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.RecipeCreatedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.log.Error("RecipeEvents", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}

	cs.mu.Lock()
	cs.total++
	cs.bySource[payload.Source]++
	cs.mu.Unlock()

	cs.log.Info("RecipeEvents", "Recipe created", map[string]interface{}{
		"recipe_id": payload.RecipeId.String(),
		"user_id":   payload.UserId,
		"source":    payload.Source,
	})
	msg.Ack()
}

func (cs *consumerService) Stats() dto.RecipeStatsResponse {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	bySource := make(map[string]int64, len(cs.bySource))
	for k, v := range cs.bySource {
		bySource[k] = v
	}
	return dto.RecipeStatsResponse{Total: cs.total, BySource: bySource}
}
