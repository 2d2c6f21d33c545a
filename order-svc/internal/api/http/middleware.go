package httpapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"food-delivery/order-svc/internal/domain"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	tokenKey
)

func identityFrom(ctx context.Context) domain.Identity {
	identity, _ := ctx.Value(identityKey).(domain.Identity)
	return identity
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAuth resolves the bearer token to an identity and rejects the request
// when that fails for any reason.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		identity, err := h.Auth.Authenticate(r.Context(), token)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), identityKey, *identity)
		ctx = context.WithValue(ctx, tokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[order-svc] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
