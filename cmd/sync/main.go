package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/cache"
	"github.com/yourorg/realty-api/internal/env"
	"github.com/yourorg/realty-api/internal/events"
	"github.com/yourorg/realty-api/internal/store"
	"github.com/yourorg/realty-api/internal/syncer"
)

// Standalone feed sync runner. Runs one pass by default, or loops on
// SYNC_INTERVAL when set. The API server exposes the same sync through
// POST /api/idx/sync; both paths share the Redis lock.
func main() {
	_ = godotenv.Load()

	apiKey := env.Must("IDX_API_KEY")
	dsn := env.Must("PG_DSN")
	redisAddr := env.Get("REDIS_ADDR", "localhost:6379")
	interval := env.GetDuration("SYNC_INTERVAL", 0)

	st, err := store.Open(dsn)
	if err != nil {
		log.Fatalf("store open error: %v", err)
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("postgres ping error: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("postgres migrate error: %v", err)
	}

	c := cache.New(redisAddr, os.Getenv("REDIS_PASSWORD"), env.GetInt("REDIS_DB", 0))
	if err := c.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("redis ping error: %v", err)
	}
	cancel()
	defer c.Close()

	orch := &syncer.Orchestrator{
		Client: idx.NewClient(apiKey),
		Store:  st,
		Cache:  c,
		Pub:    events.NewInMemory(1),
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interval <= 0 {
		if _, err := orch.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("sync failed: %v", err)
		}
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := orch.Run(rootCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if errors.Is(err, syncer.ErrSyncInProgress) {
				log.Printf("[WARN] sync already running, skipping this tick")
			} else {
				log.Printf("[WARN] sync failed: %v", err)
			}
		}
		select {
		case <-rootCtx.Done():
			return
		case <-ticker.C:
		}
	}
}
