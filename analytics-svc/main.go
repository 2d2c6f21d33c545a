package main

import (
	httpapi "food-delivery/analytics-svc/internal/api/http"
	"food-delivery/analytics-svc/internal/service"
	"food-delivery/config"
)

func main() {
	config.Load()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	svc := service.NewAnalyticsService(db, rdb)
	handler := httpapi.NewHandler(svc)

	httpapi.StartServer(":"+config.GetEnv("PORT", "8083"), httpapi.NewRouter(handler))
}
