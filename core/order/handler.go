package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/claims"
	"github.com/jmcastillo/karinderia/validate"
	"github.com/jmoiron/sqlx"
)

type showResponse struct {
	Order
	Items []Item `json:"items"`
}

// HandleShow serves one order with its lines for the confirmation page.
// Customers see their own orders, admins see any; guest orders are keyed
// by session token, so a guest can read the order it just placed.
func HandleShow(db *sqlx.DB, session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orderID := web.Param(r, "order_id")
		if err := validate.CheckID(orderID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		ord, err := Fetch(ctx, db, orderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !owns(ctx, session, ord) {
			return weberr.NotFound(errors.New("order belongs to another user"))
		}

		items, err := FetchItems(ctx, db, orderID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, showResponse{Order: ord, Items: items}, http.StatusOK)
	}
}

func owns(ctx context.Context, session *scs.SessionManager, ord Order) bool {
	if claims.IsAdmin(ctx) {
		return true
	}
	if clm, err := claims.Get(ctx); err == nil {
		return clm.UserID == ord.UserID
	}
	return GuestID(session.Token(ctx)) == ord.UserID
}
