package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"food-delivery/analytics-svc/internal/domain"
	"food-delivery/analytics-svc/internal/service"

	"github.com/gorilla/mux"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type Handler struct {
	Analytics service.AnalyticsInterface
}

func NewHandler(svc service.AnalyticsInterface) *Handler {
	return &Handler{Analytics: svc}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.HandleFunc("/api/analytics/top-today", h.getTopToday).Methods("GET")
	r.HandleFunc("/api/analytics/restaurants/{restaurantId:[0-9]+}/popular", h.getRestaurantPopular).Methods("GET")
}

func (h *Handler) getTopToday(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}
	data, err := h.Analytics.TopToday(r.Context(), limit)
	if err != nil {
		log.Printf("[analytics-svc] top today: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (h *Handler) getRestaurantPopular(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := strconv.Atoi(mux.Vars(r)["restaurantId"])
	if err != nil || restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid restaurant id")
		return
	}
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
			return
		}
	}
	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	data, err := h.Analytics.PopularForRestaurant(r.Context(), restaurantID, date, limit)
	if err != nil {
		log.Printf("[analytics-svc] popular for restaurant %d: %v", restaurantID, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "analytics unavailable")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
		return 0, false
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}
