package storage

import (
	"context"
	"encoding/json"
	"strconv"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher keys every event by order id so all events of one order
// land on the same partition in order.
type KafkaPublisher struct {
	Writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.Itoa(event.OrderID)),
		Value: payload,
	})
}

var _ service.OrderPublisher = (*KafkaPublisher)(nil)
