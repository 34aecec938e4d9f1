package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"luxstay/internal/adapters/observability"
	"luxstay/internal/domain"
)

// SessionStore keeps sessions in the sessions table (see migrations/).
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *SessionStore { return &SessionStore{db: db, now: time.Now} }

func (r *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var raw []byte
	err := r.db.QueryRowContext(ctx, getSessionSQL, id, r.now().UTC()).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		observability.ObserveSession("mysql", "miss")
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	observability.ObserveSession("mysql", "hit")
	var s domain.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionStore) Save(ctx context.Context, s *domain.Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	observability.ObserveSession("mysql", "set")
	_, err = r.db.ExecContext(ctx, upsertSessionSQL, s.ID, string(b), r.now().UTC().Add(ttl))
	return err
}

func (r *SessionStore) Delete(ctx context.Context, id string) error {
	observability.ObserveSession("mysql", "del")
	_, err := r.db.ExecContext(ctx, deleteSessionSQL, id)
	return err
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (r *SessionStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, purgeExpiredSQL, r.now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
