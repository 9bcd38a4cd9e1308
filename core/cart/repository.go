package cart

import (
	"context"
	"errors"
	"sync"
)

// ErrQuantity is returned when an add is attempted with a non-positive
// quantity. Updates are different: there a non-positive quantity means
// "remove the line".
var ErrQuantity = errors.New("quantity must be positive")

// ErrOutOfStock is returned when a mutation would push a line past the
// product's available stock.
var ErrOutOfStock = errors.New("out of stock")

// Repository is the injected cart backend. All implementations share one
// contract; they differ only in where the state lives. Every mutation
// returns the resulting snapshot so callers never render unconfirmed
// state.
type Repository interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Add(ctx context.Context, productID string, qty int, meta ItemMeta) (Snapshot, error)
	Update(ctx context.Context, productID string, qty int) (Snapshot, error)
	Remove(ctx context.Context, productID string) (Snapshot, error)
	Clear(ctx context.Context) (Snapshot, error)
}

// Watcher is implemented by backends that publish confirmed snapshots to
// subscribers. Widgets subscribe here instead of observing each other's
// rendered output.
type Watcher interface {
	Subscribe(fn func(Snapshot))
}

// events fans confirmed snapshots out to subscribers. Single-user
// backends embed it; the shared server-owned backend does not, since its
// snapshots belong to different customers.
type events struct {
	mu   sync.Mutex
	subs []func(Snapshot)
}

func (e *events) Subscribe(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *events) publish(snap Snapshot) {
	e.mu.Lock()
	subs := make([]func(Snapshot), len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
