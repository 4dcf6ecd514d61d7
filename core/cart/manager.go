package cart

import (
	"context"
	"sync"
	"time"

	"github.com/JABSONA85/gamevault-hub/kvstore"
	"github.com/sirupsen/logrus"
)

// Manager owns the live carts. The in-memory cart is authoritative for the
// session: transitions are applied here first and the durable snapshot is
// written behind the request by the Writer. Mutations are serialized
// behind one mutex, so concurrent requests against the same cart cannot
// interleave a transition.
type Manager struct {
	store  kvstore.Store
	writer *Writer
	log    logrus.FieldLogger

	mu    sync.Mutex
	carts map[string]*entry
}

type entry struct {
	cart       Cart
	lastAccess time.Time
}

const idleExpiry = time.Hour

func NewManager(store kvstore.Store, writer *Writer, log logrus.FieldLogger) *Manager {
	m := &Manager{
		store:  store,
		writer: writer,
		log:    log,
		carts:  make(map[string]*entry),
	}
	go m.sweep()
	return m
}

// Get returns the cart for id, rehydrating it from durable storage on
// first access. An absent, unreadable or corrupt snapshot yields an empty
// cart; the shopper never sees an error because last visit's snapshot
// went bad.
func (m *Manager) Get(ctx context.Context, id string) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(ctx, id).cart
}

// Apply runs a transition against the cart for id and enqueues the
// resulting snapshot for persistence. The new cart is returned to the
// caller before the write lands; persistence failure never rolls the
// transition back.
func (m *Manager) Apply(ctx context.Context, id string, transition func(Cart) Cart) Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.get(ctx, id)
	e.cart = transition(e.cart)

	// Enqueue while still holding the lock. Enqueue never blocks, and
	// snapshots must reach the writer in transition order: released
	// earlier, a preempted goroutine could enqueue an older cart after a
	// newer one and the stale snapshot would settle in durable storage.
	m.persist(id, e.cart)

	return e.cart
}

// Clear empties the cart for id. The empty snapshot is queued like any
// other transition.
func (m *Manager) Clear(ctx context.Context, id string) Cart {
	return m.Apply(ctx, id, Cart.Clear)
}

// get assumes m.mu is held.
func (m *Manager) get(ctx context.Context, id string) *entry {
	if e, ok := m.carts[id]; ok {
		e.lastAccess = time.Now()
		return e
	}

	e := &entry{cart: m.rehydrate(ctx, id), lastAccess: time.Now()}
	m.carts[id] = e
	return e
}

func (m *Manager) rehydrate(ctx context.Context, id string) Cart {
	snapshot, ok, err := m.store.Get(ctx, Key(id))
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"cart_id": id,
			"message": err,
		}).Warn("cart snapshot read failed, starting empty")
		return New()
	}
	if !ok {
		return New()
	}

	c, err := Decode(snapshot)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"cart_id": id,
			"message": err,
		}).Warn("corrupt cart snapshot, starting empty")
		return New()
	}

	return c
}

func (m *Manager) persist(id string, c Cart) {
	snapshot, err := Encode(c)
	if err != nil {
		m.log.WithFields(logrus.Fields{
			"cart_id": id,
			"message": err,
		}).Warn("cart snapshot encode failed")
		return
	}
	m.writer.Enqueue(Key(id), snapshot)
}

func (m *Manager) sweep() {
	for {
		time.Sleep(10 * time.Minute)
		m.evictIdle()
	}
}

// evictIdle drops carts idle for longer than idleExpiry. Each evicted
// cart gets a final persist attempt first: the in-memory copy is the
// authoritative one, and an earlier write may have failed, so eviction
// without a last snapshot could lose the session's cart. Evicted carts
// are rehydrated from storage on next access.
func (m *Manager) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.carts {
		if time.Since(e.lastAccess) > idleExpiry {
			m.persist(id, e.cart)
			delete(m.carts, id)
		}
	}
}
