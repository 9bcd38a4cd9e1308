package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmcastillo/karinderia/core/money"
	"github.com/jmoiron/sqlx"
)

// FetchLines loads a user's cart joined with the catalog, so name, price
// and stock always reflect the current product rows. Lines come back in
// the order they were first added.
func FetchLines(ctx context.Context, db sqlx.ExtContext, userID string) ([]Item, error) {
	const q = `
	SELECT ci.product_id, p.name, p.price, p.image_url AS image, ci.quantity, p.stock
	FROM cart_items ci
	JOIN products p ON p.product_id = ci.product_id
	WHERE ci.user_id = $1
	ORDER BY ci.created_at`

	rows := []struct {
		ProductID string `db:"product_id"`
		Name      string `db:"name"`
		Price     int64  `db:"price"`
		Image     string `db:"image"`
		Quantity  int    `db:"quantity"`
		Stock     int    `db:"stock"`
	}{}

	if err := sqlx.SelectContext(ctx, db, &rows, q, userID); err != nil {
		return nil, fmt.Errorf("selecting cart lines for user[%s]: %w", userID, err)
	}

	items := make([]Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, Item{
			ProductID: r.ProductID,
			Name:      r.Name,
			Price:     money.Centavos(r.Price),
			Image:     r.Image,
			Quantity:  r.Quantity,
			Stock:     r.Stock,
		})
	}

	return items, nil
}

func fetchQuantity(ctx context.Context, db sqlx.ExtContext, userID string, productID string) (int, error) {
	const q = `SELECT quantity FROM cart_items WHERE user_id = $1 AND product_id = $2`

	var qty int
	if err := sqlx.GetContext(ctx, db, &qty, q, userID, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("selecting cart quantity for user[%s]: %w", userID, err)
	}

	return qty, nil
}

func upsertLine(ctx context.Context, db sqlx.ExtContext, userID string, productID string, qty int, now time.Time) error {
	const q = `
	INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (user_id, product_id)
	DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`

	if _, err := db.ExecContext(ctx, q, userID, productID, qty, now); err != nil {
		return fmt.Errorf("upserting cart line for user[%s]: %w", userID, err)
	}

	return nil
}

func setLineQuantity(ctx context.Context, db sqlx.ExtContext, userID string, productID string, qty int, now time.Time) error {
	const q = `
	UPDATE cart_items SET quantity = $3, updated_at = $4
	WHERE user_id = $1 AND product_id = $2`

	if _, err := db.ExecContext(ctx, q, userID, productID, qty, now); err != nil {
		return fmt.Errorf("updating cart line for user[%s]: %w", userID, err)
	}

	return nil
}

func deleteLine(ctx context.Context, db sqlx.ExtContext, userID string, productID string) error {
	const q = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	if _, err := db.ExecContext(ctx, q, userID, productID); err != nil {
		return fmt.Errorf("deleting cart line for user[%s]: %w", userID, err)
	}

	return nil
}

// ClearLines flushes a user's cart. Order fulfilment calls it inside the
// same transaction that records the order.
func ClearLines(ctx context.Context, db sqlx.ExtContext, userID string) error {
	const q = `DELETE FROM cart_items WHERE user_id = $1`

	if _, err := db.ExecContext(ctx, q, userID); err != nil {
		return fmt.Errorf("clearing cart for user[%s]: %w", userID, err)
	}

	return nil
}
