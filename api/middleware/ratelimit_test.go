package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/rate"
)

func TestThrottle(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)

	limiter := rate.NewLimiter(2, 100, rate.Every(time.Hour))
	var calls int
	h := Throttle(limiter, sm)(func(c context.Context, w http.ResponseWriter, r *http.Request) error {
		calls++
		return nil
	})

	r := httptest.NewRequest(http.MethodPost, "/api/cart/add", nil)

	for i := 0; i < 2; i++ {
		if err := h(ctx, httptest.NewRecorder(), r); err != nil {
			t.Fatalf("request %d within the burst must pass: %v", i, err)
		}
	}

	err := h(ctx, httptest.NewRecorder(), r)
	if err == nil {
		t.Fatal("the request past the burst must be limited")
	}
	_, status, ok := weberr.Response(err)
	if !ok || status != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d (response=%v)", status, ok)
	}
	if calls != 2 {
		t.Fatalf("the limited request must not reach the handler, got %d calls", calls)
	}
}
