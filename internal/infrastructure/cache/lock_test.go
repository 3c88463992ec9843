package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLocker(t *testing.T) (*miniredis.Miniredis, *RedisLocker) {
	t.Helper()
	s := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return s, NewRedisLocker(rdb)
}

func TestRedisLocker_Exclusive(t *testing.T) {
	s, l := newLocker(t)
	ctx := context.Background()

	unlock, ok, err := l.TryLock(ctx, "sweep", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	if ttl := s.TTL("lock:sweep"); ttl != time.Minute {
		t.Fatalf("ttl=%v", ttl)
	}

	if _, ok, err := l.TryLock(ctx, "sweep", time.Minute); err != nil || ok {
		t.Fatalf("second lock must fail: ok=%v err=%v", ok, err)
	}

	if err := unlock(ctx); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if s.Exists("lock:sweep") {
		t.Fatal("key not released")
	}
	if _, ok, err := l.TryLock(ctx, "sweep", time.Minute); err != nil || !ok {
		t.Fatalf("relock: ok=%v err=%v", ok, err)
	}
}

func TestRedisLocker_UnlockAfterExpiryKeepsNewHolder(t *testing.T) {
	s, l := newLocker(t)
	ctx := context.Background()

	unlock, ok, _ := l.TryLock(ctx, "sweep", time.Second)
	if !ok {
		t.Fatal("lock not acquired")
	}
	s.FastForward(2 * time.Second)

	if _, ok, _ := l.TryLock(ctx, "sweep", time.Minute); !ok {
		t.Fatal("expired lock not re-acquired")
	}
	holder, _ := s.Get("lock:sweep")

	if err := unlock(ctx); err != nil {
		t.Fatalf("stale unlock: %v", err)
	}
	if got, _ := s.Get("lock:sweep"); got != holder {
		t.Fatalf("stale unlock removed the new holder: %q", got)
	}
}

func TestRedisLocker_Errors(t *testing.T) {
	s, l := newLocker(t)

	if _, _, err := l.TryLock(context.Background(), "sweep", 0); !errors.Is(err, ErrLockTTL) {
		t.Fatalf("want ErrLockTTL, got %v", err)
	}

	s.SetError("LOADING")
	if _, ok, err := l.TryLock(context.Background(), "sweep", time.Second); err == nil || ok {
		t.Fatalf("want server error, ok=%v err=%v", ok, err)
	}
}

func TestOpenRedis_SharesDBWithLocker(t *testing.T) {
	s := miniredis.RunT(t)
	c, err := OpenRedis(context.Background(), s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	unlock, ok, err := NewRedisLocker(c).TryLock(context.Background(), "sweep", time.Minute)
	if err != nil || !ok {
		t.Fatalf("lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = unlock(context.Background()) }()

	s.Select(2)
	if !s.Exists("lock:sweep") {
		t.Fatal("lock key not written to db 2")
	}
	s.Select(0)
	if s.Exists("lock:sweep") {
		t.Fatal("lock key leaked into db 0")
	}
}

func TestOpenRedis_Unreachable(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not-a-real-host:6379", 0)
	if err == nil || !strings.Contains(err.Error(), "not-a-real-host:6379") {
		t.Fatalf("want error naming the address, got %v", err)
	}
}
