package cache

import (
	"testing"
	"time"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(4, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("pikachu", 25, time.Minute)
	if v, ok := c.Get("pikachu"); !ok || v.(int) != 25 {
		t.Fatalf("expected hit, got %v %v", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("pikachu"); ok {
		t.Error("expected expired entry to miss")
	}
	if c.Size() != 0 {
		t.Errorf("expected expired entry removed, size %d", c.Size())
	}
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(2, 0)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set("a", 1, time.Hour)
	now = now.Add(time.Second)
	c.Set("b", 2, time.Hour)
	now = now.Add(time.Second)
	c.Get("a")
	now = now.Add(time.Second)
	c.Set("c", 3, time.Hour)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("expected a to survive")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
}

func TestMemoryCacheOverwriteDoesNotEvict(t *testing.T) {
	c := NewMemoryCache(1, 0)
	c.Set("a", 1, time.Hour)
	c.Set("a", 2, time.Hour)
	if v, ok := c.Get("a"); !ok || v.(int) != 2 {
		t.Errorf("expected overwritten value 2, got %v", v)
	}
}

func TestStatsCache(t *testing.T) {
	sc := NewStatsCache(NewMemoryCache(8, 0), 8)
	sc.Set(Key("pokemon", " Pikachu "), "p", time.Hour)

	sc.Get(Key("pokemon", "pikachu"))
	sc.Get(Key("pokemon", "bulbasaur"))

	stats := sc.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}
	if stats.HitRate != 0.5 {
		t.Errorf("expected hit rate 0.5, got %f", stats.HitRate)
	}
	if stats.Size != 1 {
		t.Errorf("expected size 1, got %d", stats.Size)
	}
}
