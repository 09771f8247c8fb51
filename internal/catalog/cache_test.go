package catalog

import (
	"testing"
	"time"

	"github.com/five82/atelier/internal/masterpieces"
)

func TestCache_HitWithinTTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCache(0)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(false); ok {
		t.Fatalf("empty cache should miss")
	}
	c.Put([]masterpieces.ArtCollection{{ID: 1}})

	now = now.Add(179_999 * time.Millisecond)
	got, ok := c.Get(false)
	if !ok || len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("Get just inside TTL = %v, %v", got, ok)
	}
	if _, ok := c.Get(true); ok {
		t.Fatalf("forced Get should miss")
	}

	now = now.Add(time.Millisecond)
	if _, ok := c.Get(false); ok {
		t.Fatalf("Get at TTL should miss")
	}
}

func TestCache_PutRestampsAndCopies(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	items := []masterpieces.ArtCollection{{ID: 1}}
	c.Put(items)
	items[0].ID = 99

	now = now.Add(50 * time.Second)
	c.Put([]masterpieces.ArtCollection{{ID: 2}})
	now = now.Add(50 * time.Second)

	got, ok := c.Get(false)
	if !ok || got[0].ID != 2 {
		t.Fatalf("last put should win and be fresh, got %v %v", got, ok)
	}
	got[0].ID = 7
	again, _ := c.Get(false)
	if again[0].ID != 2 {
		t.Fatalf("caller mutation leaked into cache")
	}
}

func TestCache_FetchedAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewCache(time.Minute)
	c.now = func() time.Time { return now }

	if _, filled := c.FetchedAt(); filled {
		t.Fatalf("empty cache should report unfilled")
	}
	c.Put(nil)
	at, filled := c.FetchedAt()
	if !filled || !at.Equal(now) {
		t.Fatalf("FetchedAt = %v, %v, want %v, true", at, filled, now)
	}
}
