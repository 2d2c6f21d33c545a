package httpapi

import (
	"net/http"
	"time"

	"food-delivery/order-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Auth        service.AuthServiceInterface
	Restaurants service.RestaurantServiceInterface
	Menu        service.MenuServiceInterface
	Orders      service.OrderServiceInterface
}

func NewHandler(authSvc service.AuthServiceInterface, restSvc service.RestaurantServiceInterface, menuSvc service.MenuServiceInterface, orderSvc service.OrderServiceInterface) *Handler {
	return &Handler{
		Auth:        authSvc,
		Restaurants: restSvc,
		Menu:        menuSvc,
		Orders:      orderSvc,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/auth/register", h.register).Methods("POST")
	r.HandleFunc("/api/auth/login", h.login).Methods("POST")
	r.HandleFunc("/api/auth/logout", h.RequireAuth(h.logout)).Methods("POST")

	r.HandleFunc("/api/users/profile", h.RequireAuth(h.getProfile)).Methods("GET")
	r.HandleFunc("/api/users/profile", h.RequireAuth(h.updateProfile)).Methods("PUT")
	r.HandleFunc("/api/users/change-password", h.RequireAuth(h.changePassword)).Methods("PUT")

	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants", h.RequireAuth(h.createRestaurant)).Methods("POST")
	r.HandleFunc("/api/restaurants/owner/me", h.RequireAuth(h.getOwnRestaurants)).Methods("GET")
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.RequireAuth(h.updateRestaurant)).Methods("PUT")
	r.HandleFunc("/api/restaurants/{id:[0-9]+}", h.RequireAuth(h.deleteRestaurant)).Methods("DELETE")

	r.HandleFunc("/api/menu/restaurant/{id:[0-9]+}", h.getRestaurantMenu).Methods("GET")
	r.HandleFunc("/api/menu", h.RequireAuth(h.createMenuItem)).Methods("POST")
	r.HandleFunc("/api/menu/{id:[0-9]+}", h.RequireAuth(h.updateMenuItem)).Methods("PUT")
	r.HandleFunc("/api/menu/{id:[0-9]+}", h.RequireAuth(h.deleteMenuItem)).Methods("DELETE")

	r.HandleFunc("/api/orders", h.RequireAuth(h.createOrder)).Methods("POST")
	r.HandleFunc("/api/orders/my-orders", h.RequireAuth(h.getMyOrders)).Methods("GET")
	r.HandleFunc("/api/orders/restaurant/{id:[0-9]+}", h.RequireAuth(h.getRestaurantOrders)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.RequireAuth(h.getOrder)).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/status", h.RequireAuth(h.updateOrderStatus)).Methods("PUT")
	r.HandleFunc("/api/orders/{id:[0-9]+}/rate", h.RequireAuth(h.rateOrder)).Methods("POST")
	r.HandleFunc("/api/orders/{id:[0-9]+}/qrcode", h.RequireAuth(h.getOrderQRCode)).Methods("GET")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
