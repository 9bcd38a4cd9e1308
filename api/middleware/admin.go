package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/claims"
)

// Admin guards endpoints reserved for the admin back office.
func Admin() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			if !claims.IsAdmin(ctx) {
				return weberr.NotAuthorized(errors.New("admin role required"))
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
