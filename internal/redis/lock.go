package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still holds our token, so a lock
// that expired and was taken by another allocation is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles driver claim locks in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireDriverLock attempts to acquire a lock for the given driver.
// On success it returns the token needed to release it.
func (s *LockStore) AcquireDriverLock(ctx context.Context, driverID int64, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()

	ok, err := s.client.SetNX(ctx, driverLockKey(driverID), token, ttl).Result()
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseDriverLock releases the lock if token still owns it.
func (s *LockStore) ReleaseDriverLock(ctx context.Context, driverID int64, token string) error {
	return releaseScript.Run(ctx, s.client, []string{driverLockKey(driverID)}, token).Err()
}

func driverLockKey(driverID int64) string {
	return fmt.Sprintf("lock:driver:%d", driverID)
}
