package cron

import (
	"context"
	"fmt"
	"testing"
	"time"

	sfredis "github.com/angelmondragon/storefront-cart/pkg/redis"
)

type fakeRedis struct {
	data map[string]string
	ttl  time.Duration
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	f.ttl = ttl
	return true, nil
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", sfredis.Nil
	}
	return v, nil
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func TestRedisLockOwnership(t *testing.T) {
	store := &fakeRedis{data: map[string]string{}}
	ctx := context.Background()

	if _, err := NewRedisLock(nil, "k", 0); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewRedisLock(store, "", 0); err == nil {
		t.Fatal("expected error for empty key")
	}

	first, _ := NewRedisLock(store, "sf:lock:cron", 0)
	second, _ := NewRedisLock(store, "sf:lock:cron", 0)

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire should win: %v %v", ok, err)
	}
	if store.ttl != defaultLockTTL {
		t.Fatalf("expected default ttl, got %s", store.ttl)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second acquire should lose")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("release by non-owner should be a no-op: %v", err)
	}
	if _, held := store.data["sf:lock:cron"]; !held {
		t.Fatal("non-owner release must not delete the lock")
	}

	store.data["sf:lock:cron"] = "someone-else"
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if _, held := store.data["sf:lock:cron"]; !held {
		t.Fatal("lock taken over by another owner must be left alone")
	}

	delete(store.data, "sf:lock:cron")
	if ok, _ := first.Acquire(ctx); !ok {
		t.Fatal("re-acquire should succeed")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if len(store.data) != 0 {
		t.Fatal("owner release should delete the key")
	}
}
