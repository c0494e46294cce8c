package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventStreamRepo definition event stream publisher
type EventStreamRepo interface {
	Publish(ctx context.Context, key, value []byte) error
	Close() error
}

type eventStreamRepo struct {
	writer *kafka.Writer
}

// NewEventStreamRepository create an EventStreamRepo over a kafka writer
func NewEventStreamRepository(writer *kafka.Writer) EventStreamRepo {
	return &eventStreamRepo{writer: writer}
}

// NewKafkaWriterWithRetry build a Kafka writer and probe the connection
func NewKafkaWriterWithRetry(k KafkaConnection) (*kafka.Writer, error) {
	var writer *kafka.Writer
	var err error

	for attempt := 1; attempt <= k.RetryCount; attempt++ {
		writer = kafka.NewWriter(kafka.WriterConfig{
			Brokers:  k.Brokers,
			Topic:    k.Topic,
			Balancer: &kafka.LeastBytes{},
		})

		// probe message confirms broker reachability
		err = writer.WriteMessages(context.Background(), kafka.Message{
			Key:   []byte("ping"),
			Value: []byte("ping"),
		})
		if err == nil {
			log.Printf("Kafka writer ready (attempt %d)", attempt)
			return writer, nil
		}

		log.Printf("Kafka writer setup failed (attempt %d/%d): %v", attempt, k.RetryCount, err)
		writer.Close()
		time.Sleep(k.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("unable to build Kafka writer after %d attempts: %v", k.RetryCount, err)
}

func (r *eventStreamRepo) Publish(ctx context.Context, key, value []byte) error {
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   key,
		Value: value,
	})
}

func (r *eventStreamRepo) Close() error {
	return r.writer.Close()
}
