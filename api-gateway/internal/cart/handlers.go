package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	CookieName    = "cart_sid"
	SessionHeader = "X-Session-ID"
	cookieMaxAge  = 30 * 24 * time.Hour
)

type Handler struct {
	Sessions    *Manager
	Catalog     Catalog
	Client      HTTPClient
	OrderSvcURL string
}

func NewHandler(sessions *Manager, catalog Catalog, client HTTPClient, orderSvcURL string) *Handler {
	return &Handler{
		Sessions:    sessions,
		Catalog:     catalog,
		Client:      client,
		OrderSvcURL: orderSvcURL,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/cart", h.clearCart).Methods("DELETE")
	r.HandleFunc("/api/cart/items", h.addItem).Methods("POST")
	r.HandleFunc("/api/cart/items/{menuItemId:[0-9]+}", h.setQuantity).Methods("PUT")
	r.HandleFunc("/api/cart/items/{menuItemId:[0-9]+}", h.removeItem).Methods("DELETE")
	r.HandleFunc("/api/cart/checkout", h.checkout).Methods("POST")
}

// sessionID reads the cart session from the cookie or header, minting a new one
// when the client has none.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if id := r.Header.Get(SessionHeader); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, id)
	return id
}

// withSession opens the caller's cart, runs fn and saves the result.
func (h *Handler) withSession(w http.ResponseWriter, r *http.Request, fn func(s *Session) bool) {
	s, err := h.Sessions.Open(r.Context(), sessionID(w, r))
	if err != nil {
		log.Printf("[cart] open session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "cart storage unavailable")
		return
	}
	if !fn(s) {
		return
	}
	if err := s.Close(r.Context()); err != nil {
		log.Printf("[cart] close session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "cart storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, s.Cart.View())
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(*Session) bool { return true })
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, func(s *Session) bool {
		s.Cart.Clear()
		return true
	})
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantID int `json:"restaurant_id"`
		MenuItemID   int `json:"menu_item_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RestaurantID <= 0 || req.MenuItemID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "restaurant_id and menu_item_id are required")
		return
	}

	item, fee, err := h.Catalog.Lookup(r.Context(), req.RestaurantID, req.MenuItemID)
	if errors.Is(err, ErrItemUnavailable) {
		writeError(w, http.StatusBadRequest, "item_unavailable", "menu item is not available")
		return
	}
	if err != nil {
		log.Printf("[cart] catalog lookup: %v", err)
		writeError(w, http.StatusBadGateway, "bad_gateway", "catalog unavailable")
		return
	}

	h.withSession(w, r, func(s *Session) bool {
		s.Cart.AddItem(*item, req.RestaurantID)
		s.Cart.DeliveryFee = fee
		return true
	})
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["menuItemId"])
	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	h.withSession(w, r, func(s *Session) bool {
		s.Cart.SetQuantity(id, req.Quantity)
		return true
	})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["menuItemId"])
	h.withSession(w, r, func(s *Session) bool {
		s.Cart.RemoveItem(id)
		return true
	})
}

type checkoutRequest struct {
	DeliveryAddress     json.RawMessage `json:"delivery_address"`
	PaymentMethod       string          `json:"payment_method"`
	SpecialInstructions string          `json:"special_instructions"`
}

type orderLine struct {
	MenuItemID int `json:"menu_item_id"`
	Quantity   int `json:"quantity"`
}

type orderPayload struct {
	RestaurantID        int             `json:"restaurant_id"`
	Items               []orderLine     `json:"items"`
	DeliveryAddress     json.RawMessage `json:"delivery_address,omitempty"`
	PaymentMethod       string          `json:"payment_method"`
	SpecialInstructions string          `json:"special_instructions"`
}

// checkout submits the cart to order-svc and relays its response. The cart is
// cleared only when an order was created.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s, err := h.Sessions.Open(r.Context(), sessionID(w, r))
	if err != nil {
		log.Printf("[cart] open session: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "cart storage unavailable")
		return
	}
	if s.Cart.Empty() {
		writeError(w, http.StatusBadRequest, "invalid_input", "cart is empty")
		return
	}

	payload := orderPayload{
		RestaurantID:        s.Cart.RestaurantID,
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	}
	for _, l := range s.Cart.Lines {
		payload.Items = append(payload.Items, orderLine{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to encode order")
		return
	}

	key := r.Header.Get("Idempotency-Key")
	if key == "" {
		key = s.Cart.EnsureCheckoutKey(uuid.NewString)
	}

	out, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.OrderSvcURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to build order request")
		return
	}
	out.Header.Set("Content-Type", "application/json")
	out.Header.Set("Idempotency-Key", key)
	if auth := r.Header.Get("Authorization"); auth != "" {
		out.Header.Set("Authorization", auth)
	}

	resp, err := h.Client.Do(out)
	if err != nil {
		log.Printf("[cart] checkout for session %s failed: %v", s.ID, err)
		writeError(w, http.StatusBadGateway, "bad_gateway", "order service unavailable")
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[cart] read order response: %v", err)
		writeError(w, http.StatusBadGateway, "bad_gateway", "order service unavailable")
		return
	}

	// order-svc answers a replayed key with 200 and the order it already placed.
	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusOK {
		s.Cart.Clear()
		log.Printf("[cart] session %s checked out", s.ID)
	}
	if err := s.Close(r.Context()); err != nil {
		log.Printf("[cart] close session after checkout: %v", err)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	w.Write(respBody)
}
