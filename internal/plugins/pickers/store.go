package pickers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/datepicker/internal/apperror"
)

const (
	// sessionKeyPrefix is the Redis key prefix for picker session data.
	sessionKeyPrefix = "picker:session:"

	// lockKeyPrefix is the Redis key prefix for per-session locks.
	lockKeyPrefix = "picker:lock:"

	// sessionTokenBytes is the number of random bytes in a session token.
	sessionTokenBytes = 24

	// lockTTL bounds how long a crashed request can hold a session.
	lockTTL = 5 * time.Second
)

// ErrSessionBusy is returned when another request holds a session's lock.
var ErrSessionBusy = apperror.NewConflict("picker is busy, try again")

// unlockScript deletes a lock only if it still holds our value, so a lock
// that expired and was re-acquired by someone else is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SessionStore persists picker sessions.
type SessionStore interface {
	Save(ctx context.Context, s *Session) error
	Load(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error

	// Lock takes the session's lock. The returned func releases it.
	Lock(ctx context.Context, token string) (func(), error)
}

// redisSessionStore keeps sessions as JSON strings with a sliding TTL.
type redisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore creates a Redis-backed session store. Every save resets
// the session's TTL.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) SessionStore {
	return &redisSessionStore{rdb: rdb, ttl: ttl}
}

// Save writes the session and refreshes its TTL.
func (s *redisSessionStore) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sess.Token, data, s.ttl).Err(); err != nil {
		return apperror.NewUnavailable("session storage unavailable", fmt.Errorf("storing session in Redis: %w", err))
	}
	return nil
}

// Load returns the session for token, or a not-found error once it expired.
func (s *redisSessionStore) Load(ctx context.Context, token string) (*Session, error) {
	data, err := s.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewNotFound("picker session expired or invalid")
	}
	if err != nil {
		return nil, apperror.NewUnavailable("session storage unavailable", fmt.Errorf("reading session from Redis: %w", err))
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("unmarshaling session: %w", err))
	}
	return &sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.rdb.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return apperror.NewUnavailable("session storage unavailable", fmt.Errorf("deleting session from Redis: %w", err))
	}
	return nil
}

// Lock acquires the session lock with SET NX. It does not wait; a held
// lock returns ErrSessionBusy straight away.
func (s *redisSessionStore) Lock(ctx context.Context, token string) (func(), error) {
	value, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("generating lock value: %w", err)
	}
	key := lockKeyPrefix + token

	ok, err := s.rdb.SetNX(ctx, key, value, lockTTL).Result()
	if err != nil {
		return nil, apperror.NewUnavailable("session storage unavailable", fmt.Errorf("locking session: %w", err))
	}
	if !ok {
		return nil, ErrSessionBusy
	}

	return func() {
		// The request context may already be cancelled.
		_ = unlockScript.Run(context.Background(), s.rdb, []string{key}, value).Err()
	}, nil
}

// generateToken creates a cryptographically random hex token.
func generateToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
