package middleware

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/core/claims"
)

// Session keys written at sign-in time by the (external) auth flow.
const (
	sessionUserID   = "userID"
	sessionUsername = "username"
	sessionRole     = "role"
)

// LoadAndSave wraps the scs middleware so every handler sees a live
// session, and promotes a signed-in user's identity into claims.
// Requests without one stay guest requests.
func LoadAndSave(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			var err error
			sh := session.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := r.Context()

				if uid := session.GetString(ctx, sessionUserID); uid != "" {
					ctx = claims.Set(ctx, claims.Claims{
						UserID:   uid,
						Username: session.GetString(ctx, sessionUsername),
						Role:     session.GetString(ctx, sessionRole),
					})
				}

				err = handler(ctx, w, r)
			}))

			sh.ServeHTTP(w, r.WithContext(ctx))
			return err
		}
		return h
	}
	return m
}
