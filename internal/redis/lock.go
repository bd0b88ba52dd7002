package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const dispatchLockKey = "lock:dispatch"

// releaseScript deletes the lock only if it is still held by the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireDispatchLock attempts to take the dispatch lock.
// Returns the owner token and true if the lock was acquired, false if already held.
func (s *LockStore) AcquireDispatchLock(ctx context.Context, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()

	ok, err := s.client.SetNX(ctx, dispatchLockKey, token, ttl).Result()
	if err != nil {
		return "", false, err
	}

	return token, ok, nil
}

// ReleaseDispatchLock releases the dispatch lock if token still owns it.
func (s *LockStore) ReleaseDispatchLock(ctx context.Context, token string) error {
	return releaseScript.Run(ctx, s.client, []string{dispatchLockKey}, token).Err()
}
