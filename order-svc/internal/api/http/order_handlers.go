package httpapi

import (
	"net/http"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"
)

type orderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req service.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CustomerID = identityFrom(r.Context()).UserID
	req.IdempotencyKey = r.Header.Get("Idempotency-Key")

	order, duplicate, err := h.Orders.PlaceOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, order)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) getMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForCustomer(r.Context(), identityFrom(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	orders, err := h.Orders.ListForRestaurant(r.Context(), identityFrom(r.Context()).UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.Orders.Get(r.Context(), identityFrom(r.Context()).UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		OrderStatus string `json:"order_status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Orders.AdvanceStatus(r.Context(), id, identityFrom(r.Context()).UserID, req.OrderStatus)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Message: "order status updated", Order: order})
}

func (h *Handler) rateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.Orders.RateOrder(r.Context(), id, identityFrom(r.Context()).UserID, req.Rating, req.Review)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderResponse{Message: "order rated", Order: order})
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	png, err := h.Orders.ReceiptQRCode(r.Context(), identityFrom(r.Context()).UserID, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
