package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests)
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[analytics-svc] %s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

func StartServer(addr string, handler http.Handler) {
	log.Printf("Analytics Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
