package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/catalog"
)

// memRepo adapts the in-memory cart to the Repository contract for
// handler tests.
type memRepo struct {
	cart *Cart
}

func newMemRepo() *memRepo { return &memRepo{cart: New()} }

func (m *memRepo) Snapshot(context.Context) (Snapshot, error) { return m.cart.Snapshot(), nil }

func (m *memRepo) Add(_ context.Context, id string, qty int, meta ItemMeta) (Snapshot, error) {
	if qty <= 0 {
		return Snapshot{}, ErrQuantity
	}
	m.cart.Add(id, qty, meta)
	return m.cart.Snapshot(), nil
}

func (m *memRepo) Update(_ context.Context, id string, qty int) (Snapshot, error) {
	m.cart.Update(id, qty)
	return m.cart.Snapshot(), nil
}

func (m *memRepo) Remove(_ context.Context, id string) (Snapshot, error) {
	m.cart.Remove(id)
	return m.cart.Snapshot(), nil
}

func (m *memRepo) Clear(context.Context) (Snapshot, error) {
	m.cart.Clear()
	return m.cart.Snapshot(), nil
}

type memProducts map[string]catalog.Product

func (m memProducts) Product(_ context.Context, id string) (catalog.Product, error) {
	p, ok := m[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func fixedSelector(repo Repository) Selector {
	return func(context.Context) Repository { return repo }
}

var testProducts = memProducts{
	"p1": {ID: "p1", Name: "Chicken Adobo", Price: 9500, ImageURL: "/img/adobo.jpg", Stock: 5, Available: true},
	"p2": {ID: "p2", Name: "Halo-Halo", Price: 12000, Stock: 3, Available: false},
}

func postJSON(t *testing.T, body string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/cart/add", strings.NewReader(body))
	return w, r
}

func responseStatus(t *testing.T, err error) (int, string) {
	t.Helper()
	body, status, ok := weberr.Response(err)
	if !ok {
		t.Fatalf("error %v carries no client response", err)
	}
	b, _ := json.Marshal(body)
	return status, string(b)
}

func TestHandleAdd(t *testing.T) {
	repo := newMemRepo()
	h := HandleAdd(fixedSelector(repo), testProducts)

	w, r := postJSON(t, `{"productId": "p1", "quantity": 2}`)
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("add: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got := snap.Quantity("p1"); got != 2 {
		t.Fatalf("expected quantity 2 in response, got %d", got)
	}
}

func TestHandleAddBeyondStock(t *testing.T) {
	repo := newMemRepo()
	repo.cart.Add("p1", 4, adoboMeta)
	h := HandleAdd(fixedSelector(repo), testProducts)

	w, r := postJSON(t, `{"productId": "p1", "quantity": 2}`)
	err := h(r.Context(), w, r)
	if err == nil {
		t.Fatal("expected the add to be rejected")
	}

	status, body := responseStatus(t, err)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if !strings.Contains(body, "Out of stock: only 5 left") {
		t.Fatalf("expected remaining stock in message, got %s", body)
	}
	if got := repo.cart.Snapshot().Quantity("p1"); got != 4 {
		t.Fatalf("rejected add must not change the cart, got quantity %d", got)
	}
}

func TestHandleAddUnavailableProduct(t *testing.T) {
	h := HandleAdd(fixedSelector(newMemRepo()), testProducts)

	w, r := postJSON(t, `{"productId": "p2", "quantity": 1}`)
	err := h(r.Context(), w, r)
	if err == nil {
		t.Fatal("expected the add to be rejected")
	}

	status, body := responseStatus(t, err)
	if status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
	if !strings.Contains(body, "no longer available") {
		t.Fatalf("unexpected message: %s", body)
	}
}

func TestHandleAddUnknownProduct(t *testing.T) {
	h := HandleAdd(fixedSelector(newMemRepo()), testProducts)

	w, r := postJSON(t, `{"productId": "ghost", "quantity": 1}`)
	err := h(r.Context(), w, r)
	if err == nil {
		t.Fatal("expected the add to be rejected")
	}

	if status, _ := responseStatus(t, err); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestHandleAddNonPositiveQuantity(t *testing.T) {
	h := HandleAdd(fixedSelector(newMemRepo()), testProducts)

	w, r := postJSON(t, `{"productId": "p1", "quantity": -1}`)
	err := h(r.Context(), w, r)
	if err == nil {
		t.Fatal("expected the add to be rejected")
	}

	if status, _ := responseStatus(t, err); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", status)
	}
}

func TestHandleUpdateToZeroRemoves(t *testing.T) {
	repo := newMemRepo()
	repo.cart.Add("p1", 2, adoboMeta)
	h := HandleUpdate(fixedSelector(repo), testProducts)

	w, r := postJSON(t, `{"productId": "p1", "newQuantity": 0}`)
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("update: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !snap.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
}

func TestHandleUpdateBeyondStock(t *testing.T) {
	repo := newMemRepo()
	repo.cart.Add("p1", 2, adoboMeta)
	h := HandleUpdate(fixedSelector(repo), testProducts)

	w, r := postJSON(t, `{"productId": "p1", "newQuantity": 9}`)
	err := h(r.Context(), w, r)
	if err == nil {
		t.Fatal("expected the update to be rejected")
	}

	if status, _ := responseStatus(t, err); status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", status)
	}
}

func TestHandleRemove(t *testing.T) {
	repo := newMemRepo()
	repo.cart.Add("p1", 2, adoboMeta)
	h := HandleRemove(fixedSelector(repo))

	w, r := postJSON(t, `{"productId": "p1"}`)
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if got := repo.cart.Snapshot(); !got.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(got.Items))
	}
}

func TestHandleClear(t *testing.T) {
	repo := newMemRepo()
	repo.cart.Add("p1", 2, adoboMeta)
	h := HandleClear(fixedSelector(repo))

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/cart/clear", nil)
	if err := h(r.Context(), w, r); err != nil {
		t.Fatalf("clear: %v", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !snap.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
}
