package cart

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"food-delivery/api-gateway/internal/mocks"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const restaurantSeven = `{
	"id": 7,
	"delivery_fee": "2.00",
	"menu_items": [
		{"id": 1, "name": "Pizza", "price": "9.99", "is_available": true},
		{"id": 2, "name": "Salad", "price": "5.00", "is_available": true},
		{"id": 3, "name": "Soup", "price": "4.00", "is_available": false}
	]
}`

type handlerFixture struct {
	mr     *miniredis.Miniredis
	client *mocks.HTTPClient
	router *mux.Router
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	mr, store := newTestStorage(t)
	client := mocks.NewHTTPClient(t)
	catalog := &OrderServiceCatalog{BaseURL: "http://order-svc", Client: client}

	router := mux.NewRouter()
	NewHandler(NewManager(store), catalog, client, "http://order-svc").RegisterRoutes(router)

	return &handlerFixture{mr: mr, client: client, router: router}
}

func (f *handlerFixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(SessionHeader, "sid-1")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func (f *handlerFixture) expectRestaurant(status int, body string) {
	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodGet && r.URL.String() == "http://order-svc/api/restaurants/7"
	})).Return(response(status, body), nil).Once()
}

func response(status int, body string) *http.Response {
	resp := &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
	resp.Header.Set("Content-Type", "application/json")
	return resp
}

func decodeView(t *testing.T, rr *httptest.ResponseRecorder) View {
	t.Helper()
	var view View
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	return view
}

func TestHandler_AddItem(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.expectRestaurant(http.StatusOK, restaurantSeven)

	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)
	rr := f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)

	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	assert.Equal(t, 7, view.RestaurantID)
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, "19.98", view.Subtotal.StringFixed(2))
	assert.Equal(t, "2.00", view.DeliveryFee.StringFixed(2))
	assert.Equal(t, "2.00", view.Tax.StringFixed(2))
	assert.Equal(t, "23.98", view.Total.StringFixed(2))
	assert.True(t, f.mr.Exists("cart:sid-1"))
}

func TestHandler_AddItemErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		catalog    func(f *handlerFixture)
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing ids",
			body:       `{"restaurant_id":7}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_input",
		},
		{
			name:       "unavailable item",
			body:       `{"restaurant_id":7,"menu_item_id":3}`,
			catalog:    func(f *handlerFixture) { f.expectRestaurant(http.StatusOK, restaurantSeven) },
			wantStatus: http.StatusBadRequest,
			wantError:  "item_unavailable",
		},
		{
			name:       "unknown restaurant",
			body:       `{"restaurant_id":7,"menu_item_id":1}`,
			catalog:    func(f *handlerFixture) { f.expectRestaurant(http.StatusNotFound, `{"error":"not_found"}`) },
			wantStatus: http.StatusBadRequest,
			wantError:  "item_unavailable",
		},
		{
			name: "catalog down",
			body: `{"restaurant_id":7,"menu_item_id":1}`,
			catalog: func(f *handlerFixture) {
				f.client.On("Do", mock.Anything).Return(nil, errors.New("connection refused")).Once()
			},
			wantStatus: http.StatusBadGateway,
			wantError:  "bad_gateway",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newHandlerFixture(t)
			if testCase.catalog != nil {
				testCase.catalog(f)
			}

			rr := f.do(http.MethodPost, "/api/cart/items", testCase.body)

			assert.Equal(t, testCase.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), testCase.wantError)
			assert.False(t, f.mr.Exists("cart:sid-1"))
		})
	}
}

func TestHandler_UpdateAndRemove(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)
	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":2}`)

	rr := f.do(http.MethodPut, "/api/cart/items/1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 5, decodeView(t, rr).Count)

	rr = f.do(http.MethodDelete, "/api/cart/items/2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	assert.Equal(t, 4, view.Count)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 1, view.Lines[0].MenuItemID)

	rr = f.do(http.MethodPut, "/api/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeView(t, rr).Lines)
}

func TestHandler_ClearAndGet(t *testing.T) {
	f := newHandlerFixture(t)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)

	rr := f.do(http.MethodDelete, "/api/cart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, f.mr.Exists("cart:sid-1"))

	rr = f.do(http.MethodGet, "/api/cart", "")
	require.Equal(t, http.StatusOK, rr.Code)
	view := decodeView(t, rr)
	assert.Equal(t, 0, view.Count)
	assert.Equal(t, 0, view.RestaurantID)
}

func TestHandler_MintsSessionCookie(t *testing.T) {
	f := newHandlerFixture(t)

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	sid := rr.Header().Get(SessionHeader)
	assert.NotEmpty(t, sid)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, sid, cookies[0].Value)
}

func TestHandler_SessionFromCookie(t *testing.T) {
	f := newHandlerFixture(t)
	require.NoError(t, f.mr.Set("cart:from-cookie", `{"restaurant_id":7,"delivery_fee":"2.00","lines":[{"menu_item_id":1,"name":"Pizza","price":"9.99","quantity":3}],"revision":1}`))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "from-cookie"})
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 3, decodeView(t, rr).Count)
	assert.Empty(t, rr.Header().Get(SessionHeader))
}

const checkoutBody = `{"delivery_address":{"street":"1 Main St","city":"Springfield","state":"IL","zip_code":"62701"},"payment_method":"card"}`

func (f *handlerFixture) fillCart(t *testing.T) {
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.expectRestaurant(http.StatusOK, restaurantSeven)
	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)
	f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":1}`)
	rr := f.do(http.MethodPost, "/api/cart/items", `{"restaurant_id":7,"menu_item_id":2}`)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandler_Checkout(t *testing.T) {
	f := newHandlerFixture(t)
	f.fillCart(t)

	var sent orderPayload
	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		if r.Method != http.MethodPost || r.URL.String() != "http://order-svc/api/orders" {
			return false
		}
		if r.Header.Get("Authorization") != "Bearer tok" || r.Header.Get("Idempotency-Key") == "" {
			return false
		}
		return json.NewDecoder(r.Body).Decode(&sent) == nil
	})).Return(response(http.StatusCreated, `{"id":55,"total":"29.48"}`), nil).Once()

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody, "Authorization", "Bearer tok")

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.JSONEq(t, `{"id":55,"total":"29.48"}`, rr.Body.String())
	assert.Equal(t, 7, sent.RestaurantID)
	assert.Equal(t, []orderLine{{MenuItemID: 1, Quantity: 2}, {MenuItemID: 2, Quantity: 1}}, sent.Items)
	assert.Equal(t, "card", sent.PaymentMethod)
	assert.False(t, f.mr.Exists("cart:sid-1"), "cart is cleared after an order is created")
}

func TestHandler_CheckoutRejectedKeepsCart(t *testing.T) {
	f := newHandlerFixture(t)
	f.fillCart(t)

	var keys []string
	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		if r.Method != http.MethodPost {
			return false
		}
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		return true
	})).Return(func(*http.Request) *http.Response {
		return response(http.StatusBadRequest, `{"error":"item_unavailable","message":"menu item 2 is unavailable"}`)
	}, nil).Twice()

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "item_unavailable")

	rr = f.do(http.MethodPost, "/api/cart/checkout", checkoutBody)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1], "retrying an unchanged cart reuses the idempotency key")

	rr = f.do(http.MethodGet, "/api/cart", "")
	assert.Equal(t, 3, decodeView(t, rr).Count)
}

func TestHandler_CheckoutForwardsClientKey(t *testing.T) {
	f := newHandlerFixture(t)
	f.fillCart(t)

	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodPost && r.Header.Get("Idempotency-Key") == "client-key"
	})).Return(response(http.StatusOK, `{"id":55}`), nil).Once()

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody, "Idempotency-Key", "client-key")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":55}`, rr.Body.String())
}

func TestHandler_CheckoutDuplicateClearsCart(t *testing.T) {
	f := newHandlerFixture(t)
	f.fillCart(t)

	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodPost && r.Header.Get("Idempotency-Key") != ""
	})).Return(response(http.StatusOK, `{"id":55}`), nil).Once()

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":55}`, rr.Body.String())
	assert.False(t, f.mr.Exists("cart:sid-1"), "a replayed checkout means the order exists")
}

func TestHandler_CheckoutEmptyCart(t *testing.T) {
	f := newHandlerFixture(t)

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "cart is empty")
}

func TestHandler_CheckoutOrderServiceDown(t *testing.T) {
	f := newHandlerFixture(t)
	f.fillCart(t)
	f.client.On("Do", mock.MatchedBy(func(r *http.Request) bool {
		return r.Method == http.MethodPost
	})).Return(nil, errors.New("connection refused")).Once()

	rr := f.do(http.MethodPost, "/api/cart/checkout", checkoutBody)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.True(t, f.mr.Exists("cart:sid-1"))
}
