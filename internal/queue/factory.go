package queue

import (
	"fmt"
	"strings"

	"github.com/climadash/climadash/internal/config"
	"github.com/climadash/climadash/internal/utils"
)

// NewQueue creates a new Queue instance based on configuration.
// Default is the in-process memory queue. Type "none" has no queue and is
// rejected here; callers check config.QueueEnabled first.
func NewQueue(cfg config.QueueConfig) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = utils.QueueTypeMemory
	}

	switch queueType {
	case utils.QueueTypeMemory:
		return newMemoryQueue(), nil

	case utils.QueueTypeNATS:
		return newNATSQueue(cfg.URL)

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case utils.QueueTypeRabbitMQ:
		return newRabbitQueue(RabbitConfig{
			URL:      cfg.URL,
			Exchange: cfg.RabbitExchange,
			Queue:    cfg.RabbitQueue,
		})

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: memory, nats, redis, kafka, rabbitmq)", queueType)
	}
}
