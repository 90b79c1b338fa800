package events

import (
	"context"
	"time"
)

type SyncCompleted struct {
	Total   int
	Synced  int
	Updated int
	At      time.Time
}

type Publisher interface {
	PublishSyncCompleted(ctx context.Context, evt SyncCompleted)
	SubscribeSyncCompleted() <-chan SyncCompleted
}

type inMemory struct{ ch chan SyncCompleted }

func NewInMemory(buffer int) Publisher {
	if buffer <= 0 {
		buffer = 16
	}
	return &inMemory{ch: make(chan SyncCompleted, buffer)}
}

// PublishSyncCompleted never blocks; if no consumer keeps up the event is
// dropped.
func (m *inMemory) PublishSyncCompleted(_ context.Context, evt SyncCompleted) {
	select {
	case m.ch <- evt:
	default:
	}
}

func (m *inMemory) SubscribeSyncCompleted() <-chan SyncCompleted { return m.ch }
