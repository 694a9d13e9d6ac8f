//go:generate go run go.uber.org/mock/mockgen -source=token_denylist.go -destination=mocks/mock_token_denylist.go -package=mocks

package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"messenger/pkg/logger"
)

// TokenDenylist - отозванные токены (logout) до истечения их срока
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const denylistKeyPrefix = "messenger:revoked:"

type redisTokenDenylist struct {
	redis *redis.Client
	log   logger.Logger
}

func NewRedisTokenDenylist(redis *redis.Client, log logger.Logger) TokenDenylist {
	return &redisTokenDenylist{redis: redis, log: log}
}

func (d *redisTokenDenylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := d.redis.Set(ctx, denylistKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		d.log.Error("Failed to revoke token", "error", err)
		return err
	}
	return nil
}

func (d *redisTokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.redis.Exists(ctx, denylistKeyPrefix+tokenID).Result()
	if err != nil {
		d.log.Error("Failed to check token denylist", "error", err)
		return false, err
	}
	return n > 0, nil
}

type memoryTokenDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryTokenDenylist() TokenDenylist {
	return &memoryTokenDenylist{revoked: make(map[string]time.Time), now: time.Now}
}

func (d *memoryTokenDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gc()
	if expiresAt.After(d.now()) {
		d.revoked[tokenID] = expiresAt
	}
	return nil
}

func (d *memoryTokenDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	exp, ok := d.revoked[tokenID]
	return ok && exp.After(d.now()), nil
}

// gc удаляет истекшие записи, вызывается под блокировкой
func (d *memoryTokenDenylist) gc() {
	now := d.now()
	for id, exp := range d.revoked {
		if !exp.After(now) {
			delete(d.revoked, id)
		}
	}
}
