package inmemory

import (
	"sync"
	"testing"
	"time"

	householddomain "housing-coop-go/internal/domain/household"
)

func TestHouseholdCacheReturnsCopy(t *testing.T) {
	cache := NewInMemoryHouseholdCache()
	cache.Set("h-1", &householddomain.Household{ID: "h-1", Name: "Nord", Active: true}, time.Minute)

	first, ok := cache.Get("h-1")
	if !ok {
		t.Fatalf("expected cache hit")
	}
	first.Name = "changed"

	second, ok := cache.Get("h-1")
	if !ok || second.Name != "Nord" {
		t.Fatalf("expected stored value to be unaffected, got %+v", second)
	}
}

func TestHouseholdCacheExpires(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewInMemoryHouseholdCache()
	cache.now = func() time.Time { return current }

	cache.Set("h-1", &householddomain.Household{ID: "h-1"}, 30*time.Second)
	current = current.Add(29 * time.Second)
	if _, ok := cache.Get("h-1"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	current = current.Add(time.Second)
	if _, ok := cache.Get("h-1"); ok {
		t.Fatalf("expected miss at expiry")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected expired entry to be evicted, got %d", cache.Len())
	}
}

func TestHouseholdCacheSetWithoutTTLDeletes(t *testing.T) {
	cache := NewInMemoryHouseholdCache()
	cache.Set("h-1", &householddomain.Household{ID: "h-1"}, time.Minute)
	cache.Set("h-1", &householddomain.Household{ID: "h-1"}, 0)

	if _, ok := cache.Get("h-1"); ok {
		t.Fatalf("expected zero ttl to remove entry")
	}

	cache.Set("h-2", &householddomain.Household{ID: "h-2"}, time.Minute)
	cache.Clear()
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache after clear, got %d", cache.Len())
	}
}

func TestHouseholdCacheConcurrentAccess(t *testing.T) {
	cache := NewInMemoryHouseholdCache()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Set("h-1", &householddomain.Household{ID: "h-1"}, time.Minute)
				cache.Get("h-1")
				cache.Delete("h-1")
			}
		}()
	}
	wg.Wait()
}
