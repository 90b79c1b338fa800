package syncer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/cache"
	"github.com/yourorg/realty-api/internal/events"
)

// ErrSyncInProgress means another pass holds the advisory lock.
var ErrSyncInProgress = errors.New("sync already in progress")

const defaultLockTTL = 10 * time.Minute

// Store is the slice of the local store the orchestrator reconciles
// against.
type Store interface {
	ExistsByMLSNumber(ctx context.Context, mlsNumber string) (bool, error)
	InsertListing(ctx context.Context, l idx.Listing) error
	UpdateListing(ctx context.Context, l idx.Listing) error
}

// Summary reports what one pass did.
type Summary struct {
	Total   int `json:"total"`
	Synced  int `json:"synced"`
	Updated int `json:"updated"`
}

// Orchestrator drives a full synchronization pass: fetch the three feed
// result sets, dedupe, normalize, reconcile each listing against the local
// store, then invalidate the aggregate caches. Re-running a pass with the
// same feed data converges to the same stored state.
type Orchestrator struct {
	Client *idx.Client
	Store  Store
	Cache  *cache.Cache
	Pub    events.Publisher

	// Now is substituted in tests; nil means time.Now.
	Now func() time.Time
	// LockTTL bounds how long a crashed pass can hold the advisory lock.
	LockTTL time.Duration
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Run executes one pass. A failure fetching any of the three result sets
// aborts the whole pass rather than syncing against partial data; a failure
// on a single listing is logged and skipped.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var s Summary

	lockTTL := o.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}
	locked, err := o.Cache.AcquireLock(ctx, cache.SyncLockKey, lockTTL)
	if err != nil {
		return s, fmt.Errorf("acquire sync lock: %w", err)
	}
	if !locked {
		return s, ErrSyncInProgress
	}
	defer func() {
		if err := o.Cache.ReleaseLock(ctx, cache.SyncLockKey); err != nil {
			log.Printf("[WARN] sync: release lock: %v", err)
		}
	}()

	active, err := o.Client.Listings(ctx)
	if err != nil {
		return s, fmt.Errorf("fetch listings: %w", err)
	}
	featured, err := o.Client.Featured(ctx)
	if err != nil {
		return s, fmt.Errorf("fetch featured: %w", err)
	}
	sold, err := o.Client.SoldPending(ctx)
	if err != nil {
		return s, fmt.Errorf("fetch soldpending: %w", err)
	}

	combined := make([]idx.RawRecord, 0, len(active)+len(featured)+len(sold))
	combined = append(combined, active...)
	combined = append(combined, featured...)
	combined = append(combined, sold...)
	batch := idx.Deduplicate(combined)

	s.Total = len(batch)
	now := o.now()
	for _, raw := range batch {
		id := raw.ExternalID()
		if id == "" {
			continue
		}
		listing := idx.Normalize(raw, now)
		exists, err := o.Store.ExistsByMLSNumber(ctx, listing.MLSNumber)
		if err != nil {
			log.Printf("[WARN] sync: lookup %s: %v", id, err)
			continue
		}
		if exists {
			if err := o.Store.UpdateListing(ctx, listing); err != nil {
				log.Printf("[WARN] sync: update %s: %v", id, err)
				continue
			}
			s.Updated++
		} else {
			if err := o.Store.InsertListing(ctx, listing); err != nil {
				log.Printf("[WARN] sync: insert %s: %v", id, err)
				continue
			}
			s.Synced++
		}
	}

	// Aggregate views are invalidated only after every reconciliation
	// attempt has been processed, whether or not some items failed.
	if err := o.Cache.Delete(ctx, cache.KeyFeatured, cache.KeyInventory, cache.KeySoldPending); err != nil {
		log.Printf("[WARN] sync: invalidate aggregate caches: %v", err)
	}

	if o.Pub != nil {
		o.Pub.PublishSyncCompleted(ctx, events.SyncCompleted{
			Total: s.Total, Synced: s.Synced, Updated: s.Updated, At: now,
		})
	}

	log.Printf("[INFO] sync: pass complete total=%d synced=%d updated=%d", s.Total, s.Synced, s.Updated)
	return s, nil
}
