package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-query-router/internal/dto"
	"ai-query-router/pkg/router"
)

type IPublisherService interface {
	PublishDecision(ctx context.Context, rawQuery string, decision *router.RouterDecision) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishDecision(_ context.Context, rawQuery string, decision *router.RouterDecision) error {
	payload, err := json.Marshal(dto.PublishDecisionMessage{
		RawQuery: rawQuery,
		Decision: *decision,
		MadeAt:   time.Now(),
	})
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	return ps.pubSub.Publish(ps.topicName, msg)
}

// auditSink adapts the publisher service onto the engine's audit
// boundary, so the engine stays ignorant of the event bus.
type auditSink struct {
	publisher IPublisherService
}

func NewAuditSink(publisher IPublisherService) router.AuditSink {
	return &auditSink{publisher: publisher}
}

func (s *auditSink) Record(ctx context.Context, rawQuery string, decision *router.RouterDecision) error {
	return s.publisher.PublishDecision(ctx, rawQuery, decision)
}
