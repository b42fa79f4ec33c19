package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"stayledger/config"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const (
	writeTimeout   = 5 * time.Second
	commitInterval = time.Second
	retryBackoff   = 500 * time.Millisecond
)

// Message is one JSON encoded record. Key selects the partition, so events of one booking keep
// their order.
type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	value, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to encode kafka message %s: %w", m.Key, err)
	}

	return kafkaGo.Message{Key: []byte(m.Key), Value: value}, nil
}

func DecodeKafkaMessage[T any](msg kafkaGo.Message) (Message, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return Message{}, fmt.Errorf("failed to decode kafka message %s: %w", msg.Key, err)
	}

	return Message{Key: string(msg.Key), Value: value}, nil
}

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	// Consume blocks until ctx is done. The offset of a message is committed once handler returns.
	Consume(ctx context.Context, consumerGroup, topic string, handler func(message kafkaGo.Message))
	Reader(consumerGroup, topic string) *kafkaGo.Reader
}

type kafkaClientImpl struct {
	config *config.Config
	dialer *kafkaGo.Dialer
	writer *kafkaGo.Writer
}

func New(cfg *config.Config) Client {
	if !cfg.Kafka.Enable || len(cfg.Kafka.Brokers) == 0 {
		log.Warn().Msg("Kafka disabled, events will be dropped")

		return noopClient{}
	}

	var mechanism sasl.Mechanism
	if cfg.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Bool("sasl", mechanism != nil).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config: cfg,
		dialer: &kafkaGo.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: mechanism,
		},
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(cfg.Kafka.Brokers...),
			Transport:              &kafkaGo.Transport{SASL: mechanism},
			Balancer:               &kafkaGo.Hash{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafkaGo.RequireAll,
			WriteTimeout:           writeTimeout,
		},
	}
}

func (k *kafkaClientImpl) Reader(consumerGroup, topic string) *kafkaGo.Reader {
	if topic == "" {
		log.Error().Msg("Kafka reader needs a topic")

		return nil
	}

	groupID := consumerGroup
	if groupID == "" {
		groupID = k.config.Kafka.ConsumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:        k.config.Kafka.Brokers,
		Topic:          topic,
		GroupID:        groupID,
		Dialer:         k.dialer,
		StartOffset:    kafkaGo.FirstOffset,
		CommitInterval: commitInterval,
	})
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}

	records := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		record, err := message.ToKafkaMessage()
		if err != nil {
			return err
		}

		record.Topic = topic
		records = append(records, record)
	}

	if err := k.writer.WriteMessages(ctx, records...); err != nil {
		log.Error().Err(err).Str("topic", topic).Int("messages", len(records)).Msg("Failed to publish to Kafka")

		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("messages", len(records)).Msg("Published to Kafka")

	return nil
}

func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler func(message kafkaGo.Message)) {
	reader := k.Reader(consumerGroup, topic)
	if reader == nil {
		return
	}

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to close Kafka reader")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)

		switch {
		case ctx.Err() != nil:
			log.Info().Str("topic", topic).Msg("Kafka consumer stopped")

			return
		case err != nil:
			log.Error().Err(err).Str("topic", topic).Msg("Failed to fetch from Kafka")

			select {
			case <-ctx.Done():
			case <-time.After(retryBackoff):
			}

			continue
		}

		log.Debug().Str("topic", topic).Str("key", string(msg.Key)).Int64("offset", msg.Offset).Msg("Received from Kafka")

		handler(msg)

		if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Int64("offset", msg.Offset).Msg("Failed to commit Kafka offset")
		}
	}
}

type noopClient struct{}

func (noopClient) SendMessages(_ context.Context, topic string, messages ...Message) error {
	log.Debug().Str("topic", topic).Int("messages", len(messages)).Msg("Kafka disabled, dropping messages")

	return nil
}

func (noopClient) Consume(ctx context.Context, _, topic string, _ func(message kafkaGo.Message)) {
	log.Warn().Str("topic", topic).Msg("Kafka disabled, consumer idle")

	<-ctx.Done()
}

func (noopClient) Reader(_, _ string) *kafkaGo.Reader {
	return nil
}
