package service

import (
	"context"
	"encoding/json"
	"log"

	"mindloop-be/internal/dto"
	"mindloop-be/internal/repository/specification"
	"mindloop-be/internal/repository/unitofwork"
	"mindloop-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
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
	var payload dto.PublishEmbedThoughtMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	thought, err := uow.ThoughtRepository().FindOne(ctx, specification.ByID{ID: payload.ThoughtId})
	if err != nil {
		log.Printf("[ERROR] Failed to get thought %s: %v", payload.ThoughtId, err)
		msg.Nack()
		return
	}
	if thought == nil {
		// Deleted before the event drained; nothing to embed.
		msg.Ack()
		return
	}
	if len(thought.Embedding) > 0 {
		msg.Ack()
		return
	}

	res, err := cs.embeddingProvider.Generate(thought.Text, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for thought %s: %v", payload.ThoughtId, err)
		msg.Nack()
		return
	}

	if err := uow.ThoughtRepository().UpdateEmbedding(ctx, thought.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for thought %s: %v", payload.ThoughtId, err)
		msg.Nack()
		return
	}

	msg.Ack()
}
