package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestLRUCacheBasics(t *testing.T) {
	c := NewLRUCache[string](3, time.Minute)

	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a)=%q,%v", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatal("missing key should not be found")
	}

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted key should not be found")
	}
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	// Touch k0 so k1 becomes the eviction candidate.
	c.Get("k0")
	c.Set("k3", 3)

	if c.Size() != 3 {
		t.Fatalf("size=%d, want 3", c.Size())
	}
	if _, ok := c.Get("k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("recently used k0 should survive eviction")
	}
}

func TestLRUCacheExpiration(t *testing.T) {
	c := NewLRUCache[string](10, 10*time.Millisecond)

	c.Set("a", "1")
	c.Set("b", "2")
	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry should not be returned")
	}
	if removed := c.CleanExpired(); removed != 1 {
		// Get already dropped "a" on the expired read.
		t.Fatalf("CleanExpired removed %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("size=%d after cleanup, want 0", c.Size())
	}
}
