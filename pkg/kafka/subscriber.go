package kafka

import (
	"context"
	"errors"

	"github.com/Shopify/sarama"
	"github.com/wealthfund/backend/pkg/logger"
	"github.com/wealthfund/backend/pkg/pubsub"
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
	logger      logger.Logger
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
	logger logger.Logger,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
		logger:      logger,
	}, nil
}

func (g *subscriber) Stop(ctx context.Context) error {
	return g.client.Close()
}

// Subscribe consumes the topics until ctx is done. Consume is called in a loop
// because a server-side rebalance ends the current consumer session.
func (g *subscriber) Subscribe(ctx context.Context) {
	consumer := consumerGroupHandler{fn: g.handler}
	for {
		if err := g.client.Consume(ctx, g.topics, &consumer); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}

			g.logger.Errorf("Error from consumer: %v", err)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

type consumerGroupHandler struct {
	fn pubsub.SubscribeHandler
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		h.fn(session.Context(), &pubsub.Pack{
			Key: message.Key,
			Msg: message.Value,
		}, message.Timestamp)
		session.MarkMessage(message, "")
	}

	return nil
}
