package events

import (
	"context"
	"testing"
	"time"
)

func TestInMemory_PublishSubscribe(t *testing.T) {
	pub := NewInMemory(2)
	sub := pub.SubscribeSyncCompleted()

	want := SyncCompleted{Total: 3, Synced: 2, Updated: 1, At: time.Now()}
	pub.PublishSyncCompleted(context.Background(), want)

	select {
	case got := <-sub:
		if got.Total != 3 || got.Synced != 2 || got.Updated != 1 {
			t.Errorf("event = %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestInMemory_PublishNeverBlocks(t *testing.T) {
	pub := NewInMemory(1)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			pub.PublishSyncCompleted(ctx, SyncCompleted{Total: i})
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no consumer")
	}
}
