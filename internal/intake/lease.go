package intake

import (
	"context"
	"time"

	"polleria_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// PhoneLease serializes concurrent messages from the same phone. Acquire
// returns false while another message holds the lease; the returned release
// function is always safe to call.
type PhoneLease interface {
	Acquire(ctx context.Context, phone string) (bool, func())
}

// NoopLease grants every acquisition. Used when Redis is not configured;
// rapid duplicate messages then race, as they did before leasing existed.
type NoopLease struct{}

func (NoopLease) Acquire(context.Context, string) (bool, func()) {
	return true, func() {}
}

// RedisLease implements PhoneLease with a SET NX key per phone.
type RedisLease struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisLease(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisLease {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLease{client: client, ttl: ttl, log: log}
}

func leaseKey(phone string) string {
	return "intake:lease:" + phone
}

func (l *RedisLease) Acquire(ctx context.Context, phone string) (bool, func()) {
	key := leaseKey(phone)
	ok, err := l.client.SetNX(ctx, key, 1, l.ttl).Result()
	if err != nil {
		// Lease is an optimization; Redis trouble must not stall intake.
		l.log.Error("phone lease unavailable", "phone", phone, "error", err)
		return true, func() {}
	}
	if !ok {
		return false, func() {}
	}
	return true, func() {
		if err := l.client.Del(context.Background(), key).Err(); err != nil {
			l.log.Error("phone lease release failed", "phone", phone, "error", err)
		}
	}
}

var (
	_ PhoneLease = NoopLease{}
	_ PhoneLease = (*RedisLease)(nil)
)
