package cart

import (
	"context"
	"encoding/json"
	"fmt"
)

const keyPrefix = "cart:"

// Manager opens cart sessions against a Storage backend.
type Manager struct {
	store Storage
}

func NewManager(store Storage) *Manager {
	return &Manager{store: store}
}

// Session is a cart loaded for the duration of one request. Changes are
// written back by Close.
type Session struct {
	ID   string
	Cart *Cart

	store    Storage
	revision int
}

func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	s := &Session{ID: id, Cart: &Cart{}, store: m.store}

	raw, ok, err := m.store.Get(ctx, keyPrefix+id)
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", id, err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), s.Cart); err != nil {
			return nil, fmt.Errorf("decode cart %s: %w", id, err)
		}
	}
	s.revision = s.Cart.Revision
	return s, nil
}

// Close persists the cart if it changed. An emptied cart drops its key.
func (s *Session) Close(ctx context.Context) error {
	if s.Cart.Revision == s.revision {
		return nil
	}
	key := keyPrefix + s.ID
	if s.Cart.Empty() && s.Cart.RestaurantID == 0 {
		if err := s.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete cart %s: %w", s.ID, err)
		}
		s.revision = s.Cart.Revision
		return nil
	}

	data, err := json.Marshal(s.Cart)
	if err != nil {
		return fmt.Errorf("encode cart %s: %w", s.ID, err)
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("save cart %s: %w", s.ID, err)
	}
	s.revision = s.Cart.Revision
	return nil
}
