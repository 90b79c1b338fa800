package warm

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yourorg/realty-api/internal/events"
	"github.com/yourorg/realty-api/internal/listings"
)

// Warmer re-primes the aggregate caches after a sync pass invalidates
// them, so the first reader after a sync does not pay the feed round trip.
// Jobs run on a small worker pool with in-flight dedupe; when the queue is
// saturated a job is dropped and the next reader warms the entry instead.
type Warmer struct {
	svc   *listings.Service
	pub   events.Publisher
	ch    chan string
	inFly sync.Map
}

func New(svc *listings.Service, pub events.Publisher, capacity, workers int) *Warmer {
	if capacity <= 0 {
		capacity = 8
	}
	if workers <= 0 {
		workers = 2
	}
	w := &Warmer{svc: svc, pub: pub, ch: make(chan string, capacity)}
	for i := 0; i < workers; i++ {
		go w.worker()
	}
	return w
}

// Run consumes sync-completed events until ctx is done.
func (w *Warmer) Run(ctx context.Context) {
	sub := w.pub.SubscribeSyncCompleted()
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub:
			log.Printf("[INFO] warm: sync completed total=%d synced=%d updated=%d", evt.Total, evt.Synced, evt.Updated)
			w.enqueue("featured")
			w.enqueue("all-listings")
			w.enqueue("soldpending")
		}
	}
}

func (w *Warmer) enqueue(name string) {
	if _, exists := w.inFly.LoadOrStore(name, struct{}{}); exists {
		return
	}
	select {
	case w.ch <- name:
	default:
		w.inFly.Delete(name)
	}
}

func (w *Warmer) worker() {
	for name := range w.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		var err error
		switch name {
		case "featured":
			_, err = w.svc.Featured(ctx)
		case "all-listings":
			_, err = w.svc.Inventory(ctx)
		case "soldpending":
			_, err = w.svc.SoldPending(ctx)
		}
		if err != nil {
			log.Printf("[WARN] warm: %s: %v", name, err)
		}
		w.inFly.Delete(name)
		cancel()
	}
}
