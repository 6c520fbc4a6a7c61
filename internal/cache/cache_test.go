package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	if got := Key("result", "abc"); got != "factcheck:v1:result:abc" {
		t.Errorf("Expected factcheck:v1:result:abc, got %s", got)
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected miss, got %v", err)
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, err := c.Get(ctx, "k")
	if err != nil || string(val) != "v" {
		t.Fatalf("Expected v, got %q (%v)", val, err)
	}

	added, err := c.Add(ctx, "k", []byte("other"), 0)
	if err != nil || added {
		t.Errorf("Expected Add of existing key to be refused, got %v (%v)", added, err)
	}
	added, _ = c.Add(ctx, "fresh", []byte("x"), 0)
	if !added {
		t.Error("Expected Add of a fresh key to succeed")
	}

	_ = c.Delete(ctx, "k")
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected miss after delete, got %v", err)
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute, time.Minute)

	_ = c.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected expired entry to miss, got %v", err)
	}
}

func TestDiskCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	key := Key("result", "a/b:c")
	if err := c.Set(ctx, key, []byte(`{"id":"a"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := c.Get(ctx, key)
	if err != nil || string(val) != `{"id":"a"}` {
		t.Fatalf("Unexpected value %q (%v)", val, err)
	}

	added, err := c.Add(ctx, key, []byte("x"), 0)
	if err != nil || added {
		t.Errorf("Expected Add of existing key to be refused, got %v (%v)", added, err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected one cache file, got %d", len(entries))
	}

	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Expected deleting a missing key to succeed, got %v", err)
	}
}

func TestDiskCache_Expired(t *testing.T) {
	ctx := context.Background()
	c := NewDiskCache(t.TempDir(), time.Hour)

	_ = c.Set(ctx, "k", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("Expected expired entry to miss, got %v", err)
	}
	added, err := c.Add(ctx, "k", []byte("new"), 0)
	if err != nil || !added {
		t.Errorf("Expected Add over an expired entry to succeed, got %v (%v)", added, err)
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewLayeredCache(time.Minute, dir, time.Hour)
	if added, err := first.Add(ctx, "k", []byte("v"), 0); err != nil || !added {
		t.Fatalf("Expected Add to succeed, got %v (%v)", added, err)
	}

	// A new process shares only the disk layer
	second := NewLayeredCache(time.Minute, dir, time.Hour)
	val, err := second.Get(ctx, "k")
	if err != nil || string(val) != "v" {
		t.Fatalf("Expected v from disk, got %q (%v)", val, err)
	}
	if val, err := second.memory.Get(ctx, "k"); err != nil || string(val) != "v" {
		t.Errorf("Expected value promoted to memory, got %q (%v)", val, err)
	}
	if added, _ := second.Add(ctx, "k", []byte("x"), 0); added {
		t.Error("Expected Add of existing key to be refused")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("FACTCHECK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FACTCHECK_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, "", 0, time.Minute)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer c.Close()
	defer c.Clear(ctx)

	key := Key("test", time.Now().Format(time.RFC3339Nano))
	if added, err := c.Add(ctx, key, []byte("v"), 0); err != nil || !added {
		t.Fatalf("Expected Add to succeed, got %v (%v)", added, err)
	}
	if added, _ := c.Add(ctx, key, []byte("x"), 0); added {
		t.Error("Expected second Add to be refused")
	}
	val, err := c.Get(ctx, key)
	if err != nil || string(val) != "v" {
		t.Errorf("Expected v, got %q (%v)", val, err)
	}
	if _, err := c.Get(ctx, key+"-missing"); !errors.Is(err, ErrMiss) {
		t.Errorf("Expected miss, got %v", err)
	}
}
