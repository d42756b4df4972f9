package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"ai-query-router/internal/dto"
	"ai-query-router/internal/entity"
	"ai-query-router/internal/repository/contract"
	"ai-query-router/pkg/events"
	pkgNats "ai-query-router/pkg/nats"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the audit topic: every decision message is
// persisted to the database and mirrored to NATS for external
// subscribers. The decision was already returned to the caller by the
// time a message lands here; this path is write-behind.
type consumerService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	decisionRepo contract.IRoutingDecisionRepository
	natsPub      *pkgNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	decisionRepo contract.IRoutingDecisionRepository,
	natsPub *pkgNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:       pubSub,
		topicName:    topicName,
		decisionRepo: decisionRepo,
		natsPub:      natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishDecisionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal decision message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	record := &entity.RoutingDecision{
		Id:         uuid.New(),
		RawQuery:   payload.RawQuery,
		ChosenPath: string(payload.Decision.ChosenPath),
		Confidence: payload.Decision.Confidence,
		Reasoning:  payload.Decision.Reasoning,
		Details:    payload.Decision.Details,
		CreatedAt:  payload.MadeAt,
	}

	if err := cs.decisionRepo.Create(ctx, record); err != nil {
		log.Printf("[ERROR] Failed to persist routing decision: %v", err)
		msg.Nack() // Nack for retriable errors
		return
	}

	// Mirror to NATS for anything listening outside the process. Best
	// effort: the database row is the source of truth.
	if cs.natsPub != nil {
		event := events.NewDecisionMadeEvent(record)
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			log.Printf("[WARN] Failed to publish decision event to NATS: %v", err)
		}
	}

	log.Printf("[INFO] Routing decision persisted: %s -> %s (%.2f)",
		record.Id, record.ChosenPath, record.Confidence)
	msg.Ack()
}
