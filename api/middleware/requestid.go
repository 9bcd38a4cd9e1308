package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/random"
)

const (
	RequestIDHeader = "X-Request-Id"

	// Incoming ids longer than this are truncated before use.
	requestIDLengthLimit = 128
)

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

var reqID int64

var reqPrefix = random.String(10)

// RequestID tags every request with the caller's X-Request-Id, or a
// generated process-unique one, and stores it on the context for the
// logging middleware.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = fmt.Sprintf("%s-%d", reqPrefix, atomic.AddInt64(&reqID, 1))
			} else if len(id) > requestIDLengthLimit {
				id = id[:requestIDLengthLimit]
			}
			ctx = context.WithValue(ctx, reqIDKey, id)

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func ContextRequestID(ctx context.Context) (reqID string) {
	id := ctx.Value(reqIDKey)
	if id != nil {
		reqID = id.(string)
	}
	return
}
