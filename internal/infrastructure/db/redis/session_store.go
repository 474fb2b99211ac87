package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicreport/civic-portal/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// SessionStore keeps session records in Redis hashes.
// Key format: session:<session_id> with fields "identity" (sanitized JSON)
// and "token". A record with either field missing is no session.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Persist writes the session record. Both fields land in a single HSET inside
// a transaction with the expiry, so a partially written session cannot exist.
func (s *SessionStore) Persist(ctx context.Context, sess *domain.Session) error {
	identity, err := json.Marshal(sess.User.Sanitized())
	if err != nil {
		return fmt.Errorf("encode session identity: %w", err)
	}

	key := s.key(sess.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "identity", identity, "token", sess.Token)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Load returns the session for id. Absent, partial, or corrupt records all
// come back as ok=false; a corrupt record is deleted so it cannot wedge the
// store. A successful load slides the expiry forward.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.Session, bool, error) {
	key := s.key(id)
	fields, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}

	identity, okIdentity := fields["identity"]
	token, okToken := fields["token"]
	if !okIdentity || !okToken {
		if len(fields) > 0 {
			// Half a record is no record.
			_ = s.client.Del(ctx, key).Err()
		}
		return nil, false, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(identity), &user); err != nil {
		_ = s.client.Del(ctx, key).Err()
		return nil, false, nil
	}

	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &domain.Session{ID: id, Token: token, User: user.Sanitized()}, true, nil
}

// Clear removes the session record. Deleting an absent key is a no-op.
func (s *SessionStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return "session:" + id
}
