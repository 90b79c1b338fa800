package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpapi "github.com/yourorg/realty-api/http"
	"github.com/yourorg/realty-api/idx"
	"github.com/yourorg/realty-api/internal/cache"
	"github.com/yourorg/realty-api/internal/env"
	"github.com/yourorg/realty-api/internal/events"
	"github.com/yourorg/realty-api/internal/listings"
	"github.com/yourorg/realty-api/internal/store"
	"github.com/yourorg/realty-api/internal/syncer"
	"github.com/yourorg/realty-api/internal/warm"
)

func main() {
	_ = godotenv.Load()

	port := env.GetInt("PORT", 4002)
	// The IDX key may be absent; /idx routes answer 500 until it is set.
	apiKey := os.Getenv("IDX_API_KEY")
	dsn := env.Must("PG_DSN")
	redisAddr := env.Get("REDIS_ADDR", "localhost:6379")

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

	client := idx.NewClient(apiKey)
	svc := &listings.Service{Client: client, Cache: c}
	pub := events.NewInMemory(16)
	orch := &syncer.Orchestrator{Client: client, Store: st, Cache: c, Pub: pub}
	warmer := warm.New(svc, pub, 8, 2)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go warmer.Run(rootCtx)

	router := BuildRouter(
		httpapi.IDXDeps{Service: svc, Sync: orch},
		httpapi.PropertiesDeps{Store: st},
	)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: router}

	go func() {
		log.Printf("realty-api listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-rootCtx.Done()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] shutdown: %v", err)
	}
}
