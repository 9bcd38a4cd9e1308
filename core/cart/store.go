package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/jmcastillo/karinderia/core/catalog"
	"github.com/jmcastillo/karinderia/core/claims"
	"github.com/jmcastillo/karinderia/database"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// Store is the server-owned cart backend for authenticated customers.
// The database is authoritative: every mutation re-reads the catalog, so
// prices and stock ceilings in the returned snapshot are current, and
// stock bounds are enforced transactionally.
type Store struct {
	db       *sqlx.DB
	products *catalog.Cache
	log      logrus.FieldLogger
}

func NewStore(db *sqlx.DB, products *catalog.Cache, log logrus.FieldLogger) *Store {
	return &Store{db: db, products: products, log: log}
}

func (s *Store) userID(ctx context.Context) (string, error) {
	clm, err := claims.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("cart store needs an authenticated user: %w", err)
	}
	return clm.UserID, nil
}

func (s *Store) snapshot(ctx context.Context, userID string) (Snapshot, error) {
	items, err := FetchLines(ctx, s.db, userID)
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Items: items}
	for i := range snap.Items {
		snap.Items[i].Subtotal = snap.Items[i].Price.Mul(snap.Items[i].Quantity)
		snap.TotalPrice += snap.Items[i].Subtotal
		snap.TotalItems += snap.Items[i].Quantity
	}

	return snap, nil
}

func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(ctx, uid)
}

func (s *Store) Add(ctx context.Context, productID string, qty int, _ ItemMeta) (Snapshot, error) {
	if qty <= 0 {
		return Snapshot{}, ErrQuantity
	}

	uid, err := s.userID(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}

	err = database.Transaction(s.db, func(tx sqlx.ExtContext) error {
		current, err := fetchQuantity(ctx, tx, uid, productID)
		if err != nil {
			return err
		}
		if current+qty > p.Stock {
			return ErrOutOfStock
		}
		return upsertLine(ctx, tx, uid, productID, qty, time.Now().UTC())
	})
	if err != nil {
		return Snapshot{}, err
	}

	return s.snapshot(ctx, uid)
}

func (s *Store) Update(ctx context.Context, productID string, qty int) (Snapshot, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if qty <= 0 {
		return s.Remove(ctx, productID)
	}

	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return Snapshot{}, err
	}
	if qty > p.Stock {
		return Snapshot{}, ErrOutOfStock
	}

	if err := setLineQuantity(ctx, s.db, uid, productID, qty, time.Now().UTC()); err != nil {
		return Snapshot{}, err
	}

	return s.snapshot(ctx, uid)
}

func (s *Store) Remove(ctx context.Context, productID string) (Snapshot, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if err := deleteLine(ctx, s.db, uid, productID); err != nil {
		return Snapshot{}, err
	}

	return s.snapshot(ctx, uid)
}

func (s *Store) Clear(ctx context.Context) (Snapshot, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if err := ClearLines(ctx, s.db, uid); err != nil {
		return Snapshot{}, err
	}

	return Snapshot{Items: []Item{}}, nil
}
