package httpapi

import (
	"net/http"
	"strconv"

	"food-delivery/order-svc/internal/domain"
	"food-delivery/order-svc/internal/service"

	"github.com/shopspring/decimal"
)

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.RestaurantFilter{Cuisine: q.Get("cuisine")}

	if v := q.Get("rating"); v != "" {
		rating, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "rating must be a number")
			return
		}
		filter.MinRating = &rating
	}
	if v := q.Get("isOpen"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "isOpen must be true or false")
			return
		}
		filter.IsOpen = &open
	}

	restaurants, err := h.Restaurants.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getOwnRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Restaurants.ListByOwner(r.Context(), identityFrom(r.Context()).UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rest, err := h.Restaurants.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var rest domain.Restaurant
	if !decodeJSON(w, r, &rest) {
		return
	}
	if err := h.Restaurants.Create(r.Context(), identityFrom(r.Context()), &rest); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) updateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch service.RestaurantUpdate
	if !decodeJSON(w, r, &patch) {
		return
	}
	rest, err := h.Restaurants.Update(r.Context(), identityFrom(r.Context()).UserID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

func (h *Handler) deleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Restaurants.Delete(r.Context(), identityFrom(r.Context()).UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "restaurant deleted"})
}

func (h *Handler) getRestaurantMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	items, err := h.Menu.ListAvailable(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if !decodeJSON(w, r, &item) {
		return
	}
	if err := h.Menu.Create(r.Context(), identityFrom(r.Context()).UserID, &item); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var patch service.MenuItemUpdate
	if !decodeJSON(w, r, &patch) {
		return
	}
	item, err := h.Menu.Update(r.Context(), identityFrom(r.Context()).UserID, id, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Menu.Delete(r.Context(), identityFrom(r.Context()).UserID, id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "menu item removed"})
}
