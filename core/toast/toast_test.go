package toast

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testQueue(t *testing.T) (*Queue, context.Context) {
	t.Helper()
	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return NewQueue(sm, testLogger()), ctx
}

func TestFlushRendersPersistedEntries(t *testing.T) {
	q, ctx := testQueue(t)

	q.Enqueue(ctx, "Could not update your cart", true)
	q.Enqueue(ctx, "Could not place your order", true)

	rendered, clearCart := q.Flush(ctx)
	if clearCart {
		t.Fatal("no clear-cart flag was staged")
	}
	if len(rendered) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(rendered))
	}
	for _, r := range rendered {
		if !r.IsError {
			t.Fatalf("expected error severity, got %+v", r)
		}
		if r.HideDelayMS != ErrorHideDelay.Milliseconds() {
			t.Fatalf("errors hide after %v, got %dms", ErrorHideDelay, r.HideDelayMS)
		}
	}

	// The queue is durable: a second flush still returns both entries.
	rendered, _ = q.Flush(ctx)
	if len(rendered) != 2 {
		t.Fatalf("expected the queue to survive a flush, got %d toasts", len(rendered))
	}
}

func TestFlushMergesFlashMessages(t *testing.T) {
	q, ctx := testQueue(t)

	q.Flash(ctx, "successMessage", "Order placed!")
	q.Flash(ctx, "errorMessage", "Payment bounced")

	rendered, _ := q.Flush(ctx)
	if len(rendered) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(rendered))
	}

	// Keys merge in sorted order, so errorMessage comes first.
	if !rendered[0].IsError || rendered[0].Message != "Payment bounced" {
		t.Fatalf("expected the error flash first, got %+v", rendered[0])
	}
	if rendered[1].IsError || rendered[1].Message != "Order placed!" {
		t.Fatalf("expected the success flash second, got %+v", rendered[1])
	}
	if rendered[1].HideDelayMS != SuccessHideDelay.Milliseconds() {
		t.Fatalf("successes hide after %v, got %dms", SuccessHideDelay, rendered[1].HideDelayMS)
	}

	// Flash messages are one-shot: flushed once, then gone from staging
	// but persisted in the queue.
	rendered, _ = q.Flush(ctx)
	if len(rendered) != 2 {
		t.Fatalf("expected 2 persisted toasts after the second flush, got %d", len(rendered))
	}
}

func TestFlushConsumesClearCartFlag(t *testing.T) {
	q, ctx := testQueue(t)

	q.Flash(ctx, "successMessage", "Order placed!")
	q.FlagClearCart(ctx)

	rendered, clearCart := q.Flush(ctx)
	if !clearCart {
		t.Fatal("the clear-cart flag must be reported")
	}
	if len(rendered) != 1 {
		t.Fatalf("the flag must not render as a toast, got %d toasts", len(rendered))
	}

	if _, clearCart := q.Flush(ctx); clearCart {
		t.Fatal("the flag is one-shot and must not survive a flush")
	}
}

func TestDismiss(t *testing.T) {
	q, ctx := testQueue(t)

	q.Enqueue(ctx, "first", false)
	q.Enqueue(ctx, "second", false)

	rendered, _ := q.Flush(ctx)
	if len(rendered) != 2 {
		t.Fatalf("expected 2 toasts, got %d", len(rendered))
	}

	q.Dismiss(ctx, rendered[0].ID)

	rendered, _ = q.Flush(ctx)
	if len(rendered) != 1 || rendered[0].Message != "second" {
		t.Fatalf("expected only the second toast to remain, got %+v", rendered)
	}
}

func TestCorruptQueueStartsEmpty(t *testing.T) {
	sm := scs.New()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	q := NewQueue(sm, testLogger())

	sm.Put(ctx, queueKey, []byte("{not json"))

	rendered, _ := q.Flush(ctx)
	if len(rendered) != 0 {
		t.Fatalf("corrupt queue must load empty, got %d toasts", len(rendered))
	}
}

func TestAgeLabels(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{0, "now"},
		{500 * time.Millisecond, "now"},
		{time.Second, "1s ago"},
		{42 * time.Second, "42s ago"},
		{time.Minute, "1m 0s ago"},
		{2*time.Minute + 5*time.Second, "2m 5s ago"},
	}

	for _, tt := range tests {
		if got := Age(now, now.Add(-tt.age)); got != tt.want {
			t.Errorf("Age(%v): expected %q, got %q", tt.age, tt.want, got)
		}
	}
}

func TestFlushStampsAges(t *testing.T) {
	q, ctx := testQueue(t)

	base := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	q.now = func() time.Time { return base }

	q.Enqueue(ctx, "old news", false)

	q.now = func() time.Time { return base.Add(65 * time.Second) }

	rendered, _ := q.Flush(ctx)
	if len(rendered) != 1 {
		t.Fatalf("expected one toast, got %d", len(rendered))
	}
	if got := rendered[0].AgeLabel; got != "1m 5s ago" {
		t.Fatalf("expected age label %q, got %q", "1m 5s ago", got)
	}
}
