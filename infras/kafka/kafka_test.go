package kafka_test

import (
	"context"
	"testing"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/config"
	"stayledger/infras/kafka"
)

type event struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

func TestMessage_RoundTrip(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: event{BookingID: "b-1", Status: "cancelled"}}

	raw, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("b-1"), raw.Key)
	assert.JSONEq(t, `{"booking_id":"b-1","status":"cancelled"}`, string(raw.Value))

	decoded, err := kafka.DecodeKafkaMessage[event](raw)
	require.NoError(t, err)
	assert.Equal(t, "b-1", decoded.Key)
	assert.Equal(t, event{BookingID: "b-1", Status: "cancelled"}, decoded.Value)
}

func TestDecodeKafkaMessage_Invalid(t *testing.T) {
	_, err := kafka.DecodeKafkaMessage[event](kafkaGo.Message{Value: []byte("{")})

	assert.Error(t, err)
}

func TestNew_DisabledClientDropsMessages(t *testing.T) {
	client := kafka.New(&config.Config{})

	err := client.SendMessages(context.Background(), "booking.confirmed", kafka.Message{Key: "b-1", Value: event{}})
	assert.NoError(t, err)
	assert.Nil(t, client.Reader("", "booking.cancelled"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		client.Consume(ctx, "", "booking.cancelled", func(kafkaGo.Message) {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after context cancellation")
	}
}

func TestNew_EnabledClient(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Enable = true
	cfg.Kafka.Brokers = []string{"127.0.0.1:9092"}

	client := kafka.New(cfg)

	assert.Nil(t, client.Reader("", ""))
	assert.NoError(t, client.SendMessages(context.Background(), "booking.confirmed"))
}
