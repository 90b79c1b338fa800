package warm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/cache"
	"github.com/yourorg/realty-api/internal/events"
	"github.com/yourorg/realty-api/internal/listings"
)

func TestWarmer_PrimesAggregatesAfterSync(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	feed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path[1:]]++
		mu.Unlock()
		_ = json.NewEncoder(w).Encode([]idx.RawRecord{{"listingID": "a1"}})
	}))
	defer feed.Close()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()
	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()

	svc := &listings.Service{Client: idx.NewClientWithBaseURL("test-key", feed.URL), Cache: c}
	pub := events.NewInMemory(4)
	w := New(svc, pub, 8, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	pub.PublishSyncCompleted(ctx, events.SyncCompleted{Total: 1, Synced: 1, At: time.Now()})

	keys := []string{cache.KeyFeatured, cache.KeyInventory, cache.KeySoldPending}
	deadline := time.After(3 * time.Second)
	for {
		primed := 0
		var dest listings.AggregateResult
		for _, k := range keys {
			if hit, _ := c.Get(ctx, k, &dest); hit {
				primed++
			}
		}
		if primed == len(keys) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("caches not primed, %d of %d", primed, len(keys))
		case <-time.After(20 * time.Millisecond):
		}
	}

	// A primed entry answers without another feed round trip.
	if _, err := svc.Featured(ctx); err != nil {
		t.Fatalf("Featured() error = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if hits["featured"] != 1 {
		t.Errorf("featured hits = %d, want 1", hits["featured"])
	}
}
