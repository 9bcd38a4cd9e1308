package toast

import (
	"context"
	"net/http"

	"github.com/jmcastillo/karinderia/api/web"
)

type flushResponse struct {
	Toasts    []Rendered `json:"toasts"`
	ClearCart bool       `json:"clearCart"`
}

// HandleFlush returns the full toast queue for redrawing. When the
// post-order clear-cart flag is consumed, onClearCart runs before the
// response so the guest cart is gone by the next sidebar render.
func HandleFlush(q *Queue, onClearCart func(ctx context.Context) error) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		rendered, clearCart := q.Flush(ctx)

		if clearCart && onClearCart != nil {
			if err := onClearCart(ctx); err != nil {
				return err
			}
		}

		return web.Respond(ctx, w, flushResponse{Toasts: rendered, ClearCart: clearCart}, http.StatusOK)
	}
}

func HandleDismiss(q *Queue) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		q.Dismiss(ctx, web.Param(r, "id"))
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}
}
