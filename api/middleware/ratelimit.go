package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/rate"
)

// Throttle serializes rapid repeated mutations from one session, the
// server-side counterpart of disabling a clicked control while its
// request is in flight. Callers past the limit get a 429 and their
// cart state stays untouched.
func Throttle(limiter *rate.Limiter, session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			id := session.Token(ctx)
			if id == "" {
				id = r.RemoteAddr
			}

			if !limiter.Check(id) {
				err := errors.New("too many cart mutations in flight")
				return weberr.NewError(err, "Please wait a moment and try again", http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
