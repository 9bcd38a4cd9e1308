package stepper

import (
	"context"
	"testing"

	"github.com/jmcastillo/karinderia/core/cart"
)

type recordingRepo struct {
	cart *cart.Cart
	adds int
}

func (r *recordingRepo) Snapshot(context.Context) (cart.Snapshot, error) {
	return r.cart.Snapshot(), nil
}

func (r *recordingRepo) Add(_ context.Context, id string, qty int, meta cart.ItemMeta) (cart.Snapshot, error) {
	r.adds++
	r.cart.Add(id, qty, meta)
	return r.cart.Snapshot(), nil
}

func (r *recordingRepo) Update(_ context.Context, id string, qty int) (cart.Snapshot, error) {
	r.cart.Update(id, qty)
	return r.cart.Snapshot(), nil
}

func (r *recordingRepo) Remove(_ context.Context, id string) (cart.Snapshot, error) {
	r.cart.Remove(id)
	return r.cart.Snapshot(), nil
}

func (r *recordingRepo) Clear(context.Context) (cart.Snapshot, error) {
	r.cart.Clear()
	return r.cart.Snapshot(), nil
}

func TestStepperBounds(t *testing.T) {
	s := New("p1", 2)

	if s.CanDecrement() {
		t.Fatal("a fresh stepper must not decrement below zero")
	}
	s.Decrement()
	if got := s.Value(); got != 0 {
		t.Fatalf("decrement at zero must be a no-op, got %d", got)
	}

	s.Increment()
	s.Increment()
	if got := s.Value(); got != 2 {
		t.Fatalf("expected value 2, got %d", got)
	}

	if s.CanIncrement() {
		t.Fatal("stepper at the stock ceiling must not increment")
	}
	s.Increment()
	if got := s.Value(); got != 2 {
		t.Fatalf("increment at the ceiling must be a no-op, got %d", got)
	}
}

func TestStepperNegativeStock(t *testing.T) {
	s := New("p1", -3)

	s.Increment()
	if got := s.Value(); got != 0 {
		t.Fatalf("negative stock clamps to zero, got value %d", got)
	}
}

func TestStepperAddToResets(t *testing.T) {
	repo := &recordingRepo{cart: cart.New()}
	s := New("p1", 5)
	s.Increment()
	s.Increment()

	snap, err := s.AddTo(context.Background(), repo, cart.ItemMeta{Name: "Chicken Adobo", Price: 9500})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if got := snap.Quantity("p1"); got != 2 {
		t.Fatalf("expected quantity 2 in cart, got %d", got)
	}
	if got := s.Value(); got != 0 {
		t.Fatalf("stepper must reset after a successful add, got %d", got)
	}
}

func TestStepperAddToAtZero(t *testing.T) {
	repo := &recordingRepo{cart: cart.New()}
	s := New("p1", 5)

	snap, err := s.AddTo(context.Background(), repo, cart.ItemMeta{})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}

	if repo.adds != 0 {
		t.Fatalf("adding zero must not reach the cart, got %d add calls", repo.adds)
	}
	if !snap.Empty() {
		t.Fatal("cart must stay empty")
	}
}

type fakeWatcher struct {
	subs []func(cart.Snapshot)
}

func (w *fakeWatcher) Subscribe(fn func(cart.Snapshot)) { w.subs = append(w.subs, fn) }

func (w *fakeWatcher) publish(snap cart.Snapshot) {
	for _, fn := range w.subs {
		fn(snap)
	}
}

func TestOrderButtonFollowsCart(t *testing.T) {
	w := &fakeWatcher{}
	b := NewOrderButton(w)

	if b.Enabled() {
		t.Fatal("button starts disabled")
	}

	w.publish(cart.Snapshot{Items: []cart.Item{{ProductID: "p1", Quantity: 1}}})
	if !b.Enabled() {
		t.Fatal("button must enable when the cart has items")
	}

	w.publish(cart.Snapshot{Items: []cart.Item{}})
	if b.Enabled() {
		t.Fatal("button must disable when the cart empties")
	}
}
