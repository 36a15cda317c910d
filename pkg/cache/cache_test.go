package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/knapsack/pkg/knapsack"
)

func TestNullCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	t.Cleanup(func() { _ = c.Close() })

	key := NewDefaultKeyer().SolutionKey("abc", "greedy", nil)
	if err := c.Set(ctx, key, []byte(`{"total_value":9}`), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, key); err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want a clean miss", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestHash(t *testing.T) {
	// sha256("abc")
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash([]byte("abc")); got != want {
		t.Errorf("Hash(abc) = %s, want %s", got, want)
	}
	if Hash([]byte("abc")) == Hash([]byte("abd")) {
		t.Error("distinct inputs hashed equal")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	type settings struct{ Margin, Scale int }

	k1 := k.SolutionKey("abc", "dp", settings{200, 1})
	k2 := k.SolutionKey("abc", "dp", settings{200, 100})
	k3 := k.SolutionKey("abc", "bnb", settings{200, 1})
	if k1 == k2 || k1 == k3 {
		t.Error("different settings or algorithms should produce different keys")
	}
	if k1 != k.SolutionKey("abc", "dp", settings{200, 1}) {
		t.Error("SolutionKey should be deterministic")
	}
	if !strings.HasPrefix(k1, "solution:") {
		t.Errorf("SolutionKey unexpected prefix: %s", k1)
	}
}

func TestInstanceHash(t *testing.T) {
	a := knapsack.Instance{Capacity: 5, Items: []knapsack.Item{{ID: 1, Weight: 2, Value: 3}, {ID: 2, Weight: 3, Value: 4}}}
	b := knapsack.Instance{Capacity: 5, Items: []knapsack.Item{{ID: 2, Weight: 3, Value: 4}, {ID: 1, Weight: 2, Value: 3}}}
	if InstanceHash(a) != InstanceHash(a) {
		t.Error("InstanceHash should be deterministic")
	}
	if InstanceHash(a) == InstanceHash(b) {
		t.Error("item order should change the hash")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2)

	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)
	_ = c.Set(ctx, "c", []byte("3"), 0)

	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("oldest entry should have been evicted")
	}
	if data, hit, _ := c.Get(ctx, "c"); !hit || string(data) != "3" {
		t.Errorf("Get(c) = %q, %v", data, hit)
	}

	buf := []byte("x")
	_ = c.Set(ctx, "b", buf, 0)
	buf[0] = 'y'
	if data, _, _ := c.Get(ctx, "b"); string(data) != "x" {
		t.Errorf("Set should copy data, got %q", data)
	}

	_ = c.Set(ctx, "ttl", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "ttl"); hit {
		t.Error("expired entry should be a miss")
	}

	_ = c.Delete(ctx, "c")
	if _, hit, _ := c.Get(ctx, "c"); hit {
		t.Error("entry should be gone after Delete")
	}
}
