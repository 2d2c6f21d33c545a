package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"food-delivery/agg-svc/internal/service"
	"food-delivery/agg-svc/internal/storage"
	"food-delivery/config"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.OrdersTopic(), config.GetEnv("KAFKA_GROUP_ID", "agg-svc-consumer"))
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := storage.NewStore(db, rdb)
	consumer := service.NewConsumer(reader, store)
	consumer.RetryDelay = config.GetEnvAsDuration("CONSUMER_RETRY_DELAY", time.Second)

	log.Printf("[agg-svc] consuming topic %s", config.OrdersTopic())
	consumer.Start(ctx)
}
