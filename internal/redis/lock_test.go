package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLockStore(t *testing.T) (*LockStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLockStore(client), mr
}

func TestLockStore_AcquireIsExclusive(t *testing.T) {
	store, mr := newTestLockStore(t)
	ctx := context.Background()

	token, ok, err := store.AcquireDriverLock(ctx, 7, time.Minute)
	if err != nil || !ok || token == "" {
		t.Fatalf("expected lock, got token=%q ok=%v err=%v", token, ok, err)
	}
	if got, _ := mr.Get(driverLockKey(7)); got != token {
		t.Errorf("expected key to hold token %q, got %q", token, got)
	}

	_, ok, err = store.AcquireDriverLock(ctx, 7, time.Minute)
	if err != nil || ok {
		t.Errorf("expected second acquire to fail, got ok=%v err=%v", ok, err)
	}

	if _, ok, _ := store.AcquireDriverLock(ctx, 8, time.Minute); !ok {
		t.Error("expected lock on another driver")
	}
}

func TestLockStore_ReleaseChecksToken(t *testing.T) {
	store, mr := newTestLockStore(t)
	ctx := context.Background()

	token, _, err := store.AcquireDriverLock(ctx, 7, time.Minute)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if err := store.ReleaseDriverLock(ctx, 7, "someone-else"); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !mr.Exists(driverLockKey(7)) {
		t.Fatal("lock released with a foreign token")
	}

	if err := store.ReleaseDriverLock(ctx, 7, token); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if mr.Exists(driverLockKey(7)) {
		t.Error("expected lock to be released")
	}
}

func TestLockStore_ExpiredLockCanBeRetaken(t *testing.T) {
	store, mr := newTestLockStore(t)
	ctx := context.Background()

	stale, _, _ := store.AcquireDriverLock(ctx, 7, 10*time.Second)
	mr.FastForward(11 * time.Second)

	fresh, ok, err := store.AcquireDriverLock(ctx, 7, 10*time.Second)
	if err != nil || !ok {
		t.Fatalf("expected expired lock to be retaken, got ok=%v err=%v", ok, err)
	}

	// The first holder finishing late must not drop the new lock.
	if err := store.ReleaseDriverLock(ctx, 7, stale); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got, _ := mr.Get(driverLockKey(7)); got != fresh {
		t.Errorf("expected lock to stay with %q, got %q", fresh, got)
	}
}

func TestLockStore_RedisDown(t *testing.T) {
	store, mr := newTestLockStore(t)
	mr.Close()

	if _, ok, err := store.AcquireDriverLock(context.Background(), 7, time.Minute); err == nil || ok {
		t.Errorf("expected error with redis down, got ok=%v err=%v", ok, err)
	}
}
