package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"luxstay/internal/adapters/observability"
	"luxstay/internal/domain"
)

const keyPrefix = "luxstay:session:"

// SessionStore keeps sessions in Redis, one key per session with the
// session TTL as key expiry.
type SessionStore struct{ c *redis.Client }

func New(addr, pass string, db int) *SessionStore {
	return &SessionStore{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})}
}

func (r *SessionStore) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *SessionStore) Close() error { return r.c.Close() }

func (r *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	v, err := r.c.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveSession("redis", "miss")
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	observability.ObserveSession("redis", "hit")
	var s domain.Session
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionStore) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	observability.ObserveSession("redis", "set")
	return r.c.Set(ctx, keyPrefix+s.ID, b, ttl).Err()
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	observability.ObserveSession("redis", "del")
	return r.c.Del(ctx, keyPrefix+id).Err()
}
