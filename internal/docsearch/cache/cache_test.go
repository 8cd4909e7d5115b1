package cache

import (
	"context"
	"testing"
)

func TestNew_DisabledReturnsNilWithoutError(t *testing.T) {
	c, err := New(Config{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil cache when disabled")
	}
}

func TestNilCache_LoadStoreCloseAreSafe(t *testing.T) {
	var c *Cache
	if _, ok := c.Load(context.Background(), "k"); ok {
		t.Fatalf("expected miss on nil cache")
	}
	c.Store(context.Background(), "k", []byte("v")) // must not panic
	if err := c.Close(); err != nil {
		t.Fatalf("expected nil error closing nil cache, got %v", err)
	}
}
