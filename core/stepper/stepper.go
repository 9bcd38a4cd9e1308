// Package stepper implements the per-product quantity selector shown on
// product cards. A stepper is decoupled from the cart until an explicit
// add, and its value is always bounded by [0, stock].
package stepper

import (
	"context"
	"sync"

	"github.com/jmcastillo/karinderia/core/cart"
)

type Stepper struct {
	productID string
	stock     int
	value     int
}

// New builds a stepper for one product card. The stock ceiling is read
// once and not refreshed after adds; stock is re-validated server-side
// at checkout.
func New(productID string, stock int) *Stepper {
	if stock < 0 {
		stock = 0
	}
	return &Stepper{productID: productID, stock: stock}
}

func (s *Stepper) ProductID() string { return s.productID }

func (s *Stepper) Value() int { return s.value }

// Increment raises the value by one, capped at the stock ceiling.
func (s *Stepper) Increment() {
	if s.value >= s.stock {
		return
	}
	s.value++
}

// Decrement lowers the value by one, floored at zero.
func (s *Stepper) Decrement() {
	if s.value <= 0 {
		return
	}
	s.value--
}

func (s *Stepper) CanIncrement() bool { return s.value < s.stock }

func (s *Stepper) CanDecrement() bool { return s.value > 0 }

// AddTo hands the selected quantity to the cart and resets the display
// to zero. A zero value is a no-op and returns the cart untouched.
func (s *Stepper) AddTo(ctx context.Context, repo cart.Repository, meta cart.ItemMeta) (cart.Snapshot, error) {
	if s.value <= 0 {
		return repo.Snapshot(ctx)
	}

	snap, err := repo.Add(ctx, s.productID, s.value, meta)
	if err != nil {
		return cart.Snapshot{}, err
	}

	s.value = 0
	return snap, nil
}

// OrderButton tracks whether checkout is currently possible. It listens
// to cart change notifications instead of inspecting rendered output.
type OrderButton struct {
	mu      sync.Mutex
	enabled bool
}

func NewOrderButton(w cart.Watcher) *OrderButton {
	b := &OrderButton{}
	w.Subscribe(func(snap cart.Snapshot) {
		b.mu.Lock()
		b.enabled = !snap.Empty()
		b.mu.Unlock()
	})
	return b
}

func (b *OrderButton) Enabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enabled
}
