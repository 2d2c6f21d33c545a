package main

import (
	"log"
	"net/http"
	"time"

	"food-delivery/api-gateway/internal/cart"
	"food-delivery/api-gateway/internal/gateway"
	"food-delivery/config"

	"github.com/rs/cors"
)

func main() {
	config.Load()

	cfg := gateway.Config{
		OrderSvcURL:     config.GetEnv("ORDER_SVC_URL", "http://localhost:8081"),
		AnalyticsSvcURL: config.GetEnv("ANALYTICS_SVC_URL", "http://localhost:8083"),
	}

	client := &http.Client{Timeout: config.GetEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second)}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	carts := cart.NewHandler(
		cart.NewManager(cart.NewRedisStorage(rdb, config.GetEnvAsDuration("CART_TTL", 30*24*time.Hour))),
		&cart.OrderServiceCatalog{BaseURL: cfg.OrderSvcURL, Client: client},
		client,
		cfg.OrderSvcURL,
	)

	gw := gateway.NewGateway(cfg, client, carts)

	r := gw.SetupRoutes()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{config.GetEnv("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Idempotency-Key", cart.SessionHeader},
		ExposedHeaders:   []string{cart.SessionHeader},
		AllowCredentials: true,
	})
	handler := c.Handler(r)

	port := config.GetEnv("PORT", "8080")
	log.Printf("API Gateway starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
