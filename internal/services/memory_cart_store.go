package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	redisclient "github.com/shopscribe/shopscribe-backend/internal/clients/redis"
	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
)

// memoryCartStore keeps carts in process memory. Used when REDIS_ADDR is not
// configured (single-instance deployments, local dev) and by tests.
type memoryCartStore struct {
	mu    sync.Mutex
	carts map[uuid.UUID][]byte
}

func NewMemoryCartStore() redisclient.CartStore {
	return &memoryCartStore{carts: make(map[uuid.UUID][]byte)}
}

func (m *memoryCartStore) Load(_ context.Context, ownerID uuid.UUID) (*pos.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.carts[ownerID]
	if !ok {
		return &pos.Cart{}, nil
	}
	var cart pos.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return &pos.Cart{}, nil
	}
	return &cart, nil
}

func (m *memoryCartStore) Save(_ context.Context, ownerID uuid.UUID, cart *pos.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cart == nil || cart.IsEmpty() {
		delete(m.carts, ownerID)
		return nil
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return pos.Wrap(pos.CodeInternal, "CartStore.Save", err)
	}
	m.carts[ownerID] = raw
	return nil
}

func (m *memoryCartStore) Delete(_ context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, ownerID)
	return nil
}

func (m *memoryCartStore) Close() error { return nil }
