package checkout

import (
	"context"
	"fmt"

	"github.com/jmcastillo/karinderia/core/cart"
	"github.com/jmcastillo/karinderia/core/catalog"
	"github.com/jmcastillo/karinderia/core/order"
	"github.com/jmcastillo/karinderia/database"
	"github.com/jmoiron/sqlx"
)

// DBPlacer fulfils an order in one transaction: the order and its lines
// are recorded, stock is decremented, and the server-owned cart is
// flushed. Any failure rolls the whole placement back.
type DBPlacer struct {
	DB *sqlx.DB
}

func (p DBPlacer) Place(ctx context.Context, ord order.Order, items []order.Item) error {
	err := database.Transaction(p.DB, func(tx sqlx.ExtContext) error {
		if err := order.Create(ctx, tx, ord); err != nil {
			return fmt.Errorf("creating order: %w", err)
		}

		for _, it := range items {
			if err := order.CreateItem(ctx, tx, it); err != nil {
				return fmt.Errorf("creating item: %w", err)
			}
			if err := catalog.DecrementStock(ctx, tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		if err := cart.ClearLines(ctx, tx, ord.UserID); err != nil {
			return fmt.Errorf("flushing cart: %w", err)
		}

		return nil
	})

	if err != nil {
		return fmt.Errorf("placing order[%s] for user[%s]: %w", ord.ID, ord.UserID, err)
	}
	return nil
}
