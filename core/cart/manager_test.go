package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/background"
	"github.com/JABSONA85/gamevault-hub/kvstore/memory"
	"github.com/google/go-cmp/cmp"
)

func testManager() (*Manager, *memory.Store, *background.Background) {
	log := testLog()
	bg := background.New(log)
	store := memory.New()
	return NewManager(store, NewWriter(store, log, bg), log), store, bg
}

func TestManagerApplyPersists(t *testing.T) {
	ctx := context.Background()
	m, store, bg := testManager()

	g := testGame("g1", "Elden Ring", 49.99)
	got := m.Apply(ctx, "session-1", func(c Cart) Cart { return c.Add(g).Add(g) })

	if got.Count() != 2 || got.Total != 2*49.99 {
		t.Fatalf("unexpected cart after apply: %+v", got)
	}

	sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(sctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	snapshot, ok, _ := store.Get(ctx, Key("session-1"))
	if !ok {
		t.Fatal("expected a persisted snapshot")
	}

	rehydrated, err := Decode(snapshot)
	if err != nil {
		t.Fatalf("decoding persisted snapshot: %v", err)
	}

	if diff := cmp.Diff(got, rehydrated); diff != "" {
		t.Fatalf("persisted cart differs from in-memory cart:\n%s", diff)
	}
}

func TestManagerContendedAppliesPersistFinalCart(t *testing.T) {
	ctx := context.Background()
	m, store, bg := testManager()

	// Many goroutines hammer one cart. Snapshots are enqueued in
	// transition order, so the snapshot that settles in storage must be
	// the final cart, never one a slow goroutine enqueued late.
	g := testGame("g1", "A", 10)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Apply(ctx, "s", func(c Cart) Cart { return c.Add(g) })
		}()
	}
	wg.Wait()

	final := m.Get(ctx, "s")
	if final.Count() != 50 {
		t.Fatalf("expected 50 copies after 50 applies, got %d", final.Count())
	}

	sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(sctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	snapshot, ok, _ := store.Get(ctx, Key("s"))
	if !ok {
		t.Fatal("expected a persisted snapshot")
	}
	persisted, err := Decode(snapshot)
	if err != nil {
		t.Fatalf("decoding persisted snapshot: %v", err)
	}
	if diff := cmp.Diff(final, persisted); diff != "" {
		t.Fatalf("storage settled on a cart older than the final one:\n%s", diff)
	}
}

func TestManagerEvictionPersistsCart(t *testing.T) {
	ctx := context.Background()
	m, store, bg := testManager()

	// The write behind the transition fails; storage stays empty while
	// the in-memory cart carries on.
	store.FailSet = errors.New("storage unavailable")
	m.Apply(ctx, "s", func(c Cart) Cart { return c.Add(testGame("g1", "A", 10)) })

	sctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := bg.Shutdown(sctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	store.FailSet = nil

	m.mu.Lock()
	m.carts["s"].lastAccess = time.Now().Add(-2 * idleExpiry)
	m.mu.Unlock()

	m.evictIdle()

	dctx, dcancel := context.WithTimeout(ctx, 2*time.Second)
	defer dcancel()
	if err := bg.Shutdown(dctx); err != nil {
		t.Fatalf("draining writer: %v", err)
	}

	if _, ok, _ := store.Get(ctx, Key("s")); !ok {
		t.Fatal("eviction must persist the cart it drops")
	}

	c := m.Get(ctx, "s")
	if c.Count() != 1 {
		t.Fatalf("expected the evicted cart back from storage, got %+v", c)
	}
}

func TestManagerRehydrates(t *testing.T) {
	ctx := context.Background()
	m, store, _ := testManager()

	snapshot, err := Encode(New().Add(testGame("g1", "A", 10)))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(ctx, Key("returning"), snapshot); err != nil {
		t.Fatal(err)
	}

	c := m.Get(ctx, "returning")
	if len(c.Lines) != 1 || c.Lines[0].GameID != "g1" || c.Total != 10 {
		t.Fatalf("expected rehydrated cart, got %+v", c)
	}
}

func TestManagerCorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	m, store, _ := testManager()

	if err := store.Set(ctx, Key("corrupt"), "{definitely not json"); err != nil {
		t.Fatal(err)
	}

	c := m.Get(ctx, "corrupt")
	if !c.Empty() || c.Total != 0 {
		t.Fatalf("expected an empty cart for a corrupt snapshot, got %+v", c)
	}
}

func TestManagerMemoryIsAuthoritative(t *testing.T) {
	ctx := context.Background()
	m, store, _ := testManager()

	g := testGame("g1", "A", 10)
	m.Apply(ctx, "s", func(c Cart) Cart { return c.Add(g) })

	// Whatever happens to durable storage, the session keeps its cart.
	if err := store.Delete(ctx, Key("s")); err != nil {
		t.Fatal(err)
	}

	c := m.Get(ctx, "s")
	if c.Count() != 1 {
		t.Fatalf("expected the in-memory cart to survive, got %+v", c)
	}
}

func TestManagerClear(t *testing.T) {
	ctx := context.Background()
	m, _, _ := testManager()

	m.Apply(ctx, "s", func(c Cart) Cart { return c.Add(testGame("g1", "A", 10)) })
	c := m.Clear(ctx, "s")

	if !c.Empty() || c.Total != 0 {
		t.Fatalf("expected an empty cart after clear, got %+v", c)
	}
}
