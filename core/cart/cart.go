// Package cart owns the shopping cart state and its two interchangeable
// backends: a session-resident cart for guests and the server-owned cart
// for authenticated customers, plus an HTTP client mirroring the latter.
package cart

import (
	"encoding/json"
	"sort"

	"github.com/jmcastillo/karinderia/core/money"
)

// Item is one cart line. Price is captured at add time and only refreshed
// by the server-owned backend, which rebuilds lines from the catalog.
type Item struct {
	ProductID string         `json:"productId"`
	Name      string         `json:"name"`
	Price     money.Centavos `json:"price"`
	Image     string         `json:"image"`
	Quantity  int            `json:"quantity"`
	Stock     int            `json:"stock,omitempty"`
	Subtotal  money.Centavos `json:"subtotal"`
}

// ItemMeta carries the product details a backend needs when inserting a
// brand new line. The server-owned backend ignores it and reads the
// catalog instead.
type ItemMeta struct {
	Name  string
	Price money.Centavos
	Image string
	Stock int
}

// Snapshot is an immutable read of the cart plus derived totals.
type Snapshot struct {
	Items      []Item         `json:"items"`
	TotalPrice money.Centavos `json:"totalPrice"`
	TotalItems int            `json:"totalItems"`
}

// Empty reports whether the snapshot holds no items.
func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

// Quantity returns the stored quantity for a product, 0 if absent.
func (s Snapshot) Quantity(productID string) int {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Cart maps product IDs to lines, keeping insertion order for rendering.
// Every stored line has quantity >= 1: mutations that would leave a line
// at zero or below delete it instead.
type Cart struct {
	items map[string]*Item
	order []string
}

func New() *Cart {
	return &Cart{items: make(map[string]*Item)}
}

// Add increments an existing line by qty or inserts a new one from meta.
// Calls with qty <= 0 leave the cart untouched.
func (c *Cart) Add(productID string, qty int, meta ItemMeta) {
	if qty <= 0 {
		return
	}

	if it, ok := c.items[productID]; ok {
		it.Quantity += qty
		return
	}

	c.items[productID] = &Item{
		ProductID: productID,
		Name:      meta.Name,
		Price:     meta.Price,
		Image:     meta.Image,
		Quantity:  qty,
		Stock:     meta.Stock,
	}
	c.order = append(c.order, productID)
}

// Update sets an absolute quantity. A quantity <= 0 removes the line, and
// an absent product is a no-op.
func (c *Cart) Update(productID string, qty int) {
	it, ok := c.items[productID]
	if !ok {
		return
	}
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	it.Quantity = qty
}

// Remove deletes a line if present.
func (c *Cart) Remove(productID string) {
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = make(map[string]*Item)
	c.order = nil
}

// Snapshot derives the render model: lines in insertion order with
// computed subtotals, plus the cart totals.
func (c *Cart) Snapshot() Snapshot {
	snap := Snapshot{Items: make([]Item, 0, len(c.order))}
	for _, id := range c.order {
		it := *c.items[id]
		it.Subtotal = it.Price.Mul(it.Quantity)
		snap.Items = append(snap.Items, it)
		snap.TotalPrice += it.Subtotal
		snap.TotalItems += it.Quantity
	}
	return snap
}

// storedItem is the persisted per-line shape: the session blob is a JSON
// object mapping product IDs to these.
type storedItem struct {
	Name     string         `json:"name"`
	Price    money.Centavos `json:"price"`
	Image    string         `json:"image"`
	Quantity int            `json:"quantity"`
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	m := make(map[string]storedItem, len(c.items))
	for id, it := range c.items {
		m[id] = storedItem{Name: it.Name, Price: it.Price, Image: it.Image, Quantity: it.Quantity}
	}
	return json.Marshal(m)
}

// UnmarshalJSON loads the stored map. Storage is unordered, so lines come
// back sorted by product ID; lines with a non-positive quantity are
// dropped rather than kept in an invalid state.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var m map[string]storedItem
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	c.items = make(map[string]*Item, len(m))
	c.order = c.order[:0]
	for id, st := range m {
		if st.Quantity <= 0 {
			continue
		}
		c.items[id] = &Item{
			ProductID: id,
			Name:      st.Name,
			Price:     st.Price,
			Image:     st.Image,
			Quantity:  st.Quantity,
		}
		c.order = append(c.order, id)
	}
	sort.Strings(c.order)
	return nil
}
