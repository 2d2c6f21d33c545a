package main

import (
	"context"
	"log"
	"time"

	"food-delivery/config"
	httpapi "food-delivery/order-svc/internal/api/http"
	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"
	"food-delivery/order-svc/internal/storage"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(config.OrdersTopic())
	defer kafkaWriter.Close()

	repo := storage.NewPostgresRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to prepare schema:", err)
	}
	cancel()

	sessions := storage.NewRedisSessionStore(rdb, config.GetEnvAsDuration("SESSION_TTL", 7*24*time.Hour))
	idempotency := storage.NewRedisIdempotencyStore(rdb, config.GetEnvAsDuration("IDEMPOTENCY_TTL", 10*time.Minute))
	publisher := storage.NewKafkaPublisher(kafkaWriter)

	policy := domain.ParsePolicy(config.GetEnv("ORDER_STATUS_POLICY", string(domain.PolicyStrict)))
	log.Printf("[order-svc] order status policy: %s", policy)

	authSvc := service.NewAuthService(repo, sessions)
	restSvc := service.NewRestaurantService(repo, repo)
	menuSvc := service.NewMenuService(repo, repo)
	orderSvc := service.NewOrderService(repo, repo,
		service.WithTransitionPolicy(policy),
		service.WithIdempotencyStore(idempotency),
		service.WithPublisher(publisher),
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:3000")}),
	)

	handler := httpapi.NewHandler(authSvc, restSvc, menuSvc, orderSvc)
	httpapi.StartServer(":"+config.GetEnv("PORT", "8081"), httpapi.NewRouter(handler))
}
