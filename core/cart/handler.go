package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/catalog"
	"github.com/jmcastillo/karinderia/validate"
)

// Wire shapes of the cart API, shared by the handlers below and APIStore.
type addRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type updateRequest struct {
	ProductID   string `json:"productId" validate:"required"`
	NewQuantity int    `json:"newQuantity"`
}

type removeRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// Selector picks the cart backend for a request: the server-owned cart
// for authenticated customers, the session cart for guests.
type Selector func(ctx context.Context) Repository

// ProductSource supplies product details for new lines and the stock
// ceiling checked before any quantity grows.
type ProductSource interface {
	Product(ctx context.Context, productID string) (catalog.Product, error)
}

func respondErr(err error, stock int) error {
	switch {
	case errors.Is(err, ErrOutOfStock):
		msg := "Out of stock"
		if stock > 0 {
			msg = fmt.Sprintf("Out of stock: only %d left", stock)
		}
		return weberr.Conflict(err, msg)
	case errors.Is(err, ErrQuantity):
		return weberr.Unprocessable(err)
	case errors.Is(err, catalog.ErrNotFound):
		return weberr.NotFound(err)
	}
	return err
}

func HandleShow(sel Selector) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		snap, err := sel(ctx).Snapshot(ctx)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}

func HandleAdd(sel Selector, products ProductSource) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req addRequest
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		p, err := products.Product(ctx, req.ProductID)
		if err != nil {
			return respondErr(err, 0)
		}

		if !p.Available {
			err := fmt.Errorf("product[%s] is not available", p.ID)
			return weberr.Conflict(err, "This item is no longer available")
		}

		repo := sel(ctx)

		snap, err := repo.Snapshot(ctx)
		if err != nil {
			return err
		}
		if snap.Quantity(req.ProductID)+req.Quantity > p.Stock {
			return respondErr(ErrOutOfStock, p.Stock)
		}

		meta := ItemMeta{Name: p.Name, Price: p.Price, Image: p.ImageURL, Stock: p.Stock}
		snap, err = repo.Add(ctx, req.ProductID, req.Quantity, meta)
		if err != nil {
			return respondErr(err, p.Stock)
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}

func HandleUpdate(sel Selector, products ProductSource) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req updateRequest
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		stock := 0
		if req.NewQuantity > 0 {
			p, err := products.Product(ctx, req.ProductID)
			if err != nil {
				return respondErr(err, 0)
			}
			if req.NewQuantity > p.Stock {
				return respondErr(ErrOutOfStock, p.Stock)
			}
			stock = p.Stock
		}

		snap, err := sel(ctx).Update(ctx, req.ProductID, req.NewQuantity)
		if err != nil {
			return respondErr(err, stock)
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}

func HandleRemove(sel Selector) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req removeRequest
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		snap, err := sel(ctx).Remove(ctx, req.ProductID)
		if err != nil {
			return respondErr(err, 0)
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}

func HandleClear(sel Selector) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		snap, err := sel(ctx).Clear(ctx)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, snap, http.StatusOK)
	}
}
