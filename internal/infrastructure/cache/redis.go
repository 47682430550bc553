package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OpenRedis connects and pings once; the client backs both the idempotency
// store and the change-event channel.
func OpenRedis(addr, password string, db int, log *zap.Logger) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	if log != nil {
		log.Info("redis: connected", zap.String("addr", addr), zap.Int("db", db))
	}
	return r, nil
}
