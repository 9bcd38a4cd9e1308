package catalog

import (
	"time"

	"github.com/jmcastillo/karinderia/core/money"
)

type Product struct {
	ID          string         `json:"id" db:"product_id"`
	Name        string         `json:"name" db:"name"`
	Description string         `json:"description" db:"description"`
	Price       money.Centavos `json:"price" db:"price"`
	ImageURL    string         `json:"imageUrl" db:"image_url"`
	Stock       int            `json:"stock" db:"stock"`
	Available   bool           `json:"available" db:"available"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
	Version     int            `json:"-" db:"version"`
}

type ProductNew struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" validate:"required,gte=0"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	Stock       int    `json:"stock" validate:"gte=0"`
}

type ProductUp struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string `json:"imageUrl"`
	Stock       *int    `json:"stock" validate:"omitempty,gte=0"`
	Available   *bool   `json:"available"`
}
