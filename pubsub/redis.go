package pubsub

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"tekcit/log"
	"tekcit/tracing"
)

func NewRedisPublisher(rdb *redis.Client, watermillLogger watermill.LoggerAdapter) message.Publisher {
	var publisher message.Publisher
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: rdb,
	}, watermillLogger)
	if err != nil {
		panic(err)
	}

	publisher = log.CorrelationPublisherDecorator{Publisher: publisher}
	publisher = tracing.PublisherDecorator{Publisher: publisher}
	return publisher
}

// NewRedisSubscriberConstructor gives every handler its own consumer group,
// so signal handlers never steal each other's messages.
func NewRedisSubscriberConstructor(rdb *redis.Client, watermillLogger watermill.LoggerAdapter) SubscriberConstructor {
	return func(handlerName string) (message.Subscriber, error) {
		return redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        rdb,
			ConsumerGroup: "svc-tekcit." + handlerName,
		}, watermillLogger)
	}
}
