package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/random"
)

// CSRFHeader is the header the page attaches to every mutating call,
// with the value it read from the session-issued page metadata.
const CSRFHeader = "X-CSRF-Token"

const csrfSessionKey = "csrfToken"

// CSRFToken returns the session's token, minting one on first use. Page
// renderers embed it as metadata for scripts to pick up.
func CSRFToken(ctx context.Context, session *scs.SessionManager) string {
	if tok := session.GetString(ctx, csrfSessionKey); tok != "" {
		return tok
	}

	tok, err := random.StringSecure(32)
	if err != nil {
		tok = random.String(32)
	}
	session.Put(ctx, csrfSessionKey, tok)
	return tok
}

// CSRF rejects mutating requests whose token header does not match the
// session token. Safe methods pass through and lazily mint the token.
func CSRF(session *scs.SessionManager) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				CSRFToken(ctx, session)
				return handler(ctx, w, r)
			}

			want := CSRFToken(ctx, session)
			got := r.Header.Get(CSRFHeader)
			if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
				err := errors.New("missing or stale csrf token")
				return weberr.NewError(err, "the page is stale, please reload", http.StatusForbidden)
			}

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}
