package gateway

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"food-delivery/api-gateway/internal/cart"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL     string
	AnalyticsSvcURL string
}

type Gateway struct {
	config Config
	client HTTPClient
	cart   *cart.Handler
}

// NewGateway builds a gateway. carts may be nil, in which case the cart routes
// are not served.
func NewGateway(config Config, client HTTPClient, carts *cart.Handler) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		cart:   carts,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	log.Printf("PROXY: %s %s -> %s%s", r.Method, r.URL.Path, targetURL, r.URL.Path)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		log.Printf("ERROR: Failed to create request: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("ERROR: Failed to proxy to %s: %v", targetURL, err)
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("ERROR: Failed to copy response: %v", err)
	}
}

// orderSvcPrefixes are the resource trees owned by order-svc.
var orderSvcPrefixes = []string{
	"/api/auth",
	"/api/users",
	"/api/restaurants",
	"/api/menu",
	"/api/orders",
}

func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	log.Printf("ROUTE: %s %s", r.Method, path)

	if hasPathPrefix(path, "/api/analytics") {
		g.ProxyRequest(w, r, g.config.AnalyticsSvcURL)
		return
	}

	for _, prefix := range orderSvcPrefixes {
		if hasPathPrefix(path, prefix) {
			g.ProxyRequest(w, r, g.config.OrderSvcURL)
			return
		}
	}

	log.Printf("[GATEWAY] Unmatched API route: %s", path)
	http.Error(w, "API route not found", http.StatusNotFound)
}

func (g *Gateway) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	if g.cart != nil {
		g.cart.RegisterRoutes(r)
	}
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	return r
}
