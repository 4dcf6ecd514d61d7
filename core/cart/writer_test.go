package cart

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/background"
	"github.com/JABSONA85/gamevault-hub/kvstore"
	"github.com/JABSONA85/gamevault-hub/kvstore/memory"
	"github.com/sirupsen/logrus"
)

func testLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// gateStore blocks every Set until the gate opens, so a test can pin a
// write in flight and observe what the writer does meanwhile.
type gateStore struct {
	kvstore.Store
	gate    chan struct{}
	started chan struct{}
	writes  int32
}

func (g *gateStore) Set(ctx context.Context, key string, value string) error {
	atomic.AddInt32(&g.writes, 1)
	g.started <- struct{}{}
	<-g.gate
	return g.Store.Set(ctx, key, value)
}

func TestWriterLastTransitionWins(t *testing.T) {
	log := testLog()
	bg := background.New(log)
	inner := memory.New()
	gs := &gateStore{Store: inner, gate: make(chan struct{}), started: make(chan struct{}, 10)}

	w := NewWriter(gs, log, bg)

	w.Enqueue("cart:1", "one")
	<-gs.started

	// These arrive while "one" is still in flight; only the newest must
	// ever reach storage.
	w.Enqueue("cart:1", "two")
	w.Enqueue("cart:1", "three")

	close(gs.gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(ctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	got, ok, err := inner.Get(ctx, "cart:1")
	if err != nil || !ok {
		t.Fatalf("expected a stored snapshot, got ok=%v err=%v", ok, err)
	}
	if got != "three" {
		t.Fatalf("expected latest snapshot %q to win, got %q", "three", got)
	}

	if n := atomic.LoadInt32(&gs.writes); n != 2 {
		t.Fatalf("expected 2 writes (in-flight + coalesced latest), got %d", n)
	}
}

func TestWriterIndependentKeys(t *testing.T) {
	log := testLog()
	bg := background.New(log)
	store := memory.New()

	w := NewWriter(store, log, bg)
	w.Enqueue("cart:1", "a")
	w.Enqueue("cart:2", "b")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(ctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	for key, want := range map[string]string{"cart:1": "a", "cart:2": "b"} {
		got, ok, _ := store.Get(ctx, key)
		if !ok || got != want {
			t.Fatalf("key %s: expected %q, got %q (ok=%v)", key, want, got, ok)
		}
	}
}

func TestWriterSwallowsFailures(t *testing.T) {
	log := testLog()
	bg := background.New(log)
	store := memory.New()
	store.FailSet = errors.New("storage unavailable")

	w := NewWriter(store, log, bg)
	w.Enqueue("cart:1", "doomed")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(ctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	if _, ok, _ := store.Get(ctx, "cart:1"); ok {
		t.Fatal("failed write should not have stored anything")
	}
}
