package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("product not found")

func Fetch(ctx context.Context, db sqlx.ExtContext, productID string) (Product, error) {
	const q = `SELECT * FROM products WHERE product_id = $1`

	var p Product
	if err := sqlx.GetContext(ctx, db, &p, q, productID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("selecting product[%s]: %w", productID, err)
	}

	return p, nil
}

func List(ctx context.Context, db sqlx.ExtContext) ([]Product, error) {
	const q = `SELECT * FROM products WHERE available = TRUE ORDER BY name`

	ps := []Product{}
	if err := sqlx.SelectContext(ctx, db, &ps, q); err != nil {
		return nil, fmt.Errorf("selecting products: %w", err)
	}

	return ps, nil
}

func Create(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	INSERT INTO products (product_id, name, description, price, image_url, stock, available, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.Available, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	return nil
}

func Update(ctx context.Context, db sqlx.ExtContext, p Product) error {
	const q = `
	UPDATE products SET
		name = $2, description = $3, price = $4, image_url = $5,
		stock = $6, available = $7, updated_at = $8, version = version + 1
	WHERE product_id = $1`

	if _, err := db.ExecContext(ctx, q,
		p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.Stock, p.Available, p.UpdatedAt); err != nil {
		return fmt.Errorf("updating product[%s]: %w", p.ID, err)
	}

	return nil
}

// DecrementStock reduces a product's stock as part of order fulfilment.
// The guard clause keeps stock from going negative when two orders race.
func DecrementStock(ctx context.Context, db sqlx.ExtContext, productID string, qty int) error {
	const q = `
	UPDATE products SET stock = stock - $2, updated_at = $3, version = version + 1
	WHERE product_id = $1 AND stock >= $2`

	res, err := db.ExecContext(ctx, q, productID, qty, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("decrementing stock of product[%s]: %w", productID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking stock decrement of product[%s]: %w", productID, err)
	}
	if n == 0 {
		return fmt.Errorf("product[%s]: not enough stock", productID)
	}

	return nil
}
