package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/shopscribe/shopscribe-backend/internal/domain/pos"
	"github.com/shopscribe/shopscribe-backend/internal/pkg/logger"
	"github.com/shopscribe/shopscribe-backend/internal/utils"
)

// CartStore persists the per-operator cart document between requests.
// The cart stays ephemeral: entries expire after the configured TTL.
type CartStore interface {
	Load(ctx context.Context, ownerID uuid.UUID) (*pos.Cart, error)
	Save(ctx context.Context, ownerID uuid.UUID, cart *pos.Cart) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
	Close() error
}

type cartStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

// NewCartStore connects to Redis using REDIS_ADDR and verifies the link.
func NewCartStore(log *logger.Logger) (CartStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSeconds := utils.GetEnvAsInt("CART_TTL_SECONDS", 86400, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cartStore{
		log: log.With("client", "RedisCartStore"),
		rdb: rdb,
		ttl: time.Duration(ttlSeconds) * time.Second,
	}, nil
}

func cartKey(ownerID uuid.UUID) string {
	return "cart:" + ownerID.String()
}

func (cs *cartStore) Load(ctx context.Context, ownerID uuid.UUID) (*pos.Cart, error) {
	raw, err := cs.rdb.Get(ctx, cartKey(ownerID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return &pos.Cart{}, nil
	}
	if err != nil {
		return nil, pos.Wrap(pos.CodeRetryable, "CartStore.Load", err)
	}

	var cart pos.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		// A corrupt document is unrecoverable; start the session over.
		cs.log.Warn("Dropping unreadable cart document", "owner_id", ownerID.String(), "error", err)
		return &pos.Cart{}, nil
	}
	return &cart, nil
}

func (cs *cartStore) Save(ctx context.Context, ownerID uuid.UUID, cart *pos.Cart) error {
	if cart == nil || cart.IsEmpty() {
		return cs.Delete(ctx, ownerID)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return pos.Wrap(pos.CodeInternal, "CartStore.Save", err)
	}
	if err := cs.rdb.Set(ctx, cartKey(ownerID), raw, cs.ttl).Err(); err != nil {
		return pos.Wrap(pos.CodeRetryable, "CartStore.Save", err)
	}
	return nil
}

func (cs *cartStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	if err := cs.rdb.Del(ctx, cartKey(ownerID)).Err(); err != nil {
		return pos.Wrap(pos.CodeRetryable, "CartStore.Delete", err)
	}
	return nil
}

func (cs *cartStore) Close() error {
	return cs.rdb.Close()
}
