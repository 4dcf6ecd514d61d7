package cart

import (
	"context"
	"sync"
	"time"

	"github.com/JABSONA85/gamevault-hub/api/background"
	"github.com/JABSONA85/gamevault-hub/kvstore"
	"github.com/sirupsen/logrus"
)

const writeTimeout = 5 * time.Second

// Writer persists cart snapshots without blocking the request that caused
// them. Writes for the same key are serialized: at most one is in flight,
// and while it runs only the most recent queued snapshot is kept, so the
// last transition always wins. Failed writes are logged and dropped; the
// in-memory cart stays authoritative for the session.
type Writer struct {
	store kvstore.Store
	log   logrus.FieldLogger
	bg    *background.Background

	mu      sync.Mutex
	pending map[string]*pendingWrite
}

type pendingWrite struct {
	next *string
}

func NewWriter(store kvstore.Store, log logrus.FieldLogger, bg *background.Background) *Writer {
	return &Writer{
		store:   store,
		log:     log,
		bg:      bg,
		pending: make(map[string]*pendingWrite),
	}
}

// Enqueue schedules snapshot to be written under key and returns
// immediately. A snapshot enqueued while an earlier one for the same key
// is still in flight replaces any other waiting snapshot.
func (w *Writer) Enqueue(key string, snapshot string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, ok := w.pending[key]; ok {
		p.next = &snapshot
		return
	}

	w.pending[key] = &pendingWrite{}
	w.bg.Run("cart-persist", func() error {
		w.flush(key, snapshot)
		return nil
	})
}

func (w *Writer) flush(key string, snapshot string) {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := w.store.Set(ctx, key, snapshot)
		cancel()

		if err != nil {
			w.log.WithFields(logrus.Fields{
				"key":     key,
				"message": err,
			}).Warn("cart snapshot write failed")
		}

		w.mu.Lock()
		p := w.pending[key]
		if p.next == nil {
			delete(w.pending, key)
			w.mu.Unlock()
			return
		}
		snapshot = *p.next
		p.next = nil
		w.mu.Unlock()
	}
}
