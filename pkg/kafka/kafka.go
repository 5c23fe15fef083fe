package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
)

// KafkaConfig groups broker settings.
type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// Producer publishes messages asynchronously.
type Producer struct {
	asyncProducer sarama.AsyncProducer
}

// Consumer consumes messages as part of a consumer group.
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	ready   chan bool
	Handler ConsumerHandler
}

type ConsumerHandler interface {
	HandleMessage(msg *sarama.ConsumerMessage) error
}

// producerConfig builds the fire-and-forget producer settings. The
// success channel stays disabled because nobody reads it; the error
// channel is drained by InitProducer.
func producerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = false
	config.Producer.Return.Errors = true
	config.Producer.Partitioner = sarama.NewHashPartitioner
	return config
}

// InitProducer builds an async producer.
func InitProducer(brokers []string) (*Producer, error) {
	producer, err := sarama.NewAsyncProducer(brokers, producerConfig())
	if err != nil {
		return nil, err
	}
	// The error channel must be drained or the producer stalls.
	go func() {
		for err := range producer.Errors() {
			fmt.Printf("Kafka produce error: %v\n", err)
		}
	}()
	return &Producer{asyncProducer: producer}, nil
}

// SendMessage publishes raw bytes to topic.
func (p *Producer) SendMessage(topic string, key, value []byte) error {
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.ByteEncoder(key),
		Value: sarama.ByteEncoder(value),
	}
	p.asyncProducer.Input() <- msg
	return nil
}

// PublishJSON marshals payload and publishes it to topic keyed by key.
func (p *Producer) PublishJSON(topic, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	return p.SendMessage(topic, []byte(key), value)
}

// Close shuts down the producer.
func (p *Producer) Close() error {
	return p.asyncProducer.Close()
}

// InitConsumer builds a consumer group member.
func InitConsumer(cfg KafkaConfig, handler ConsumerHandler) (*Consumer, error) {
	config := sarama.NewConfig()
	config.Consumer.Offsets.Initial = sarama.OffsetNewest
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, config)
	if err != nil {
		return nil, err
	}
	c := &Consumer{
		group:   group,
		topics:  cfg.Topics,
		ready:   make(chan bool),
		Handler: handler,
	}
	return c, nil
}

// StartConsuming begins the consume loop and blocks until the first
// rebalance completes.
func (c *Consumer) StartConsuming(ctx context.Context) error {
	go func() {
		for {
			if err := c.group.Consume(ctx, c.topics, c); err != nil {
				fmt.Printf("Error from consumer: %v\n", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
	<-c.ready
	return nil
}

// Setup implements sarama.ConsumerGroupHandler.
func (c *Consumer) Setup(_ sarama.ConsumerGroupSession) error {
	close(c.ready)
	return nil
}

// Cleanup implements sarama.ConsumerGroupHandler.
func (c *Consumer) Cleanup(_ sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim dispatches claimed messages to the handler.
func (c *Consumer) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if err := c.Handler.HandleMessage(msg); err == nil {
			sess.MarkMessage(msg, "")
		}
	}
	return nil
}
