package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"food-delivery/agg-svc/internal/domain"
)

const defaultRetryDelay = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Now    func() time.Time
	// RetryDelay is the pause after a failed read before the next attempt.
	RetryDelay time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader:     reader,
		Store:      store,
		Now:        time.Now,
		RetryDelay: defaultRetryDelay,
	}
}

// Start reads the orders topic until ctx is cancelled or the reader is closed.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("[agg-svc] starting order event consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Println("[agg-svc] consumer stopped")
				return
			}
			log.Printf("[agg-svc] error reading message: %v", err)
			select {
			case <-ctx.Done():
				log.Println("[agg-svc] consumer stopped")
				return
			case <-time.After(c.RetryDelay):
			}
			continue
		}
		c.Handle(ctx, message.Value)
	}
}

// Handle decodes one message and dispatches it by event type. Events this
// service does not aggregate are skipped.
func (c *Consumer) Handle(ctx context.Context, value []byte) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		log.Printf("[agg-svc] error unmarshaling message: %v", err)
		return
	}

	if ev.Type != domain.EventOrderPlaced {
		return
	}
	if err := c.ProcessOrder(ctx, ev); err != nil {
		log.Printf("[agg-svc] order %d: %v", ev.OrderID, err)
	}
}

func (c *Consumer) ProcessOrder(ctx context.Context, ev domain.OrderEvent) error {
	if ev.OrderID <= 0 || ev.RestaurantID <= 0 || len(ev.Items) == 0 {
		return fmt.Errorf("malformed %s event", ev.Type)
	}

	fresh, err := c.Store.MarkProcessed(ctx, ev.OrderID)
	if err != nil {
		return fmt.Errorf("mark processed: %w", err)
	}
	if !fresh {
		log.Printf("[agg-svc] order %d already counted, skipping", ev.OrderID)
		return nil
	}

	if err := c.Store.IncrementOrderCounts(ctx, ev.RestaurantID, ev.Items); err != nil {
		c.release(ctx, ev.OrderID)
		return fmt.Errorf("increment order counts: %w", err)
	}

	// total_orders is committed by now; the marker stays even if this fails.
	if err := c.Store.IncrementDailyPopularity(ctx, ev.Day(c.Now()), ev.RestaurantID, ev.Items); err != nil {
		return fmt.Errorf("update daily popularity: %w", err)
	}

	log.Printf("[agg-svc] counted order %d for restaurant %d (%d lines)", ev.OrderID, ev.RestaurantID, len(ev.Items))
	return nil
}

func (c *Consumer) release(ctx context.Context, orderID int) {
	if err := c.Store.ReleaseProcessed(ctx, orderID); err != nil {
		log.Printf("[agg-svc] release marker for order %d: %v", orderID, err)
	}
}
