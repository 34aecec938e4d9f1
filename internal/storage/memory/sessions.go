package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"luxstay/internal/adapters/observability"
	"luxstay/internal/domain"
)

type entry struct {
	raw     []byte
	expires time.Time
}

// SessionStore keeps sessions in process memory. Sessions are stored
// serialised so callers never share state through returned pointers.
type SessionStore struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

func New() *SessionStore {
	return &SessionStore{m: map[string]entry{}, now: time.Now}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	e, ok := s.m[id]
	if ok && !s.now().Before(e.expires) {
		delete(s.m, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		observability.ObserveSession("memory", "miss")
		return nil, domain.ErrSessionNotFound
	}
	observability.ObserveSession("memory", "hit")
	var out domain.Session
	if err := json.Unmarshal(e.raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.m[sess.ID] = entry{raw: b, expires: s.now().Add(ttl)}
	s.mu.Unlock()
	observability.ObserveSession("memory", "set")
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	observability.ObserveSession("memory", "del")
	return nil
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	now := s.now()
	var n int64
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.m {
		if !now.Before(e.expires) {
			delete(s.m, id)
			n++
		}
	}
	return n, nil
}
