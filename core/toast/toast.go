// Package toast keeps a durable notification queue in the session so
// messages survive page navigations. The queue also absorbs one-shot
// messages staged by handlers (the post-checkout redirect among them),
// including the clear-cart flag that rides along without rendering.
package toast

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/random"
	"github.com/sirupsen/logrus"
)

const (
	queueKey = "toastQueue"
	flashKey = "flashMessages"

	// ClearCartFlag is staged after a successful order. It instructs the
	// next flush to clear the guest cart and is never shown as a toast.
	ClearCartFlag = "clearCartOnSuccess"
)

// Errors stay on screen longer than successes before auto-hiding.
const (
	SuccessHideDelay = 4 * time.Second
	ErrorHideDelay   = 8 * time.Second
)

type Entry struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsError   bool      `json:"isError"`
	Timestamp time.Time `json:"timestamp"`
}

// Rendered is one toast as handed to the page: the entry plus its
// relative age at flush time and its auto-hide delay.
type Rendered struct {
	Entry
	AgeLabel    string `json:"ageLabel"`
	HideDelayMS int64  `json:"hideDelayMs"`
}

type Queue struct {
	session *scs.SessionManager
	log     logrus.FieldLogger
	now     func() time.Time
}

func NewQueue(session *scs.SessionManager, log logrus.FieldLogger) *Queue {
	return &Queue{session: session, log: log, now: time.Now}
}

func (q *Queue) load(ctx context.Context) []Entry {
	b := q.session.GetBytes(ctx, queueKey)
	if len(b) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		q.log.WithField("message", err).Warn("corrupt toast queue, starting empty")
		return nil
	}
	return entries
}

func (q *Queue) save(ctx context.Context, entries []Entry) {
	b, err := json.Marshal(entries)
	if err != nil {
		q.log.WithField("message", err).Warn("cannot persist toast queue")
		return
	}
	q.session.Put(ctx, queueKey, b)
}

func newID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), random.String(6))
}

// Enqueue appends one entry to the persisted queue.
func (q *Queue) Enqueue(ctx context.Context, message string, isError bool) {
	now := q.now().UTC()
	entries := append(q.load(ctx), Entry{
		ID:        newID(now),
		Message:   message,
		IsError:   isError,
		Timestamp: now,
	})
	q.save(ctx, entries)
}

// Flash stages a one-shot message under a named key, merged into the
// queue by the next Flush. Keys containing "error" (case-insensitive)
// render with error severity.
func (q *Queue) Flash(ctx context.Context, key string, message string) {
	flash := q.loadFlash(ctx)
	flash[key] = message
	q.saveFlash(ctx, flash)
}

// FlagClearCart stages the post-order flag alongside any flash messages.
func (q *Queue) FlagClearCart(ctx context.Context) {
	q.Flash(ctx, ClearCartFlag, "1")
}

func (q *Queue) loadFlash(ctx context.Context) map[string]string {
	flash := map[string]string{}
	b := q.session.GetBytes(ctx, flashKey)
	if len(b) == 0 {
		return flash
	}
	if err := json.Unmarshal(b, &flash); err != nil {
		q.log.WithField("message", err).Warn("corrupt flash messages, dropping")
		return map[string]string{}
	}
	return flash
}

func (q *Queue) saveFlash(ctx context.Context, flash map[string]string) {
	b, err := json.Marshal(flash)
	if err != nil {
		return
	}
	q.session.Put(ctx, flashKey, b)
}

// Flush merges staged one-shot messages into the queue, persists the
// result and returns the whole queue rebuilt for display, plus whether
// the clear-cart flag was consumed. Callers always redraw every toast
// from the returned list, never append.
func (q *Queue) Flush(ctx context.Context) ([]Rendered, bool) {
	entries := q.load(ctx)

	clearCart := false
	flash := q.loadFlash(ctx)
	if len(flash) > 0 {
		now := q.now().UTC()

		keys := make([]string, 0, len(flash))
		for k := range flash {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if k == ClearCartFlag {
				clearCart = true
				continue
			}
			entries = append(entries, Entry{
				ID:        newID(now),
				Message:   flash[k],
				IsError:   strings.Contains(strings.ToLower(k), "error"),
				Timestamp: now,
			})
		}
		q.session.Remove(ctx, flashKey)
	}

	q.save(ctx, entries)

	now := q.now()
	rendered := make([]Rendered, 0, len(entries))
	for _, e := range entries {
		delay := SuccessHideDelay
		if e.IsError {
			delay = ErrorHideDelay
		}
		rendered = append(rendered, Rendered{
			Entry:       e,
			AgeLabel:    Age(now, e.Timestamp),
			HideDelayMS: delay.Milliseconds(),
		})
	}

	return rendered, clearCart
}

// Dismiss drops one entry from the persisted queue.
func (q *Queue) Dismiss(ctx context.Context, id string) {
	entries := q.load(ctx)
	for i, e := range entries {
		if e.ID == id {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	q.save(ctx, entries)
}

// Age renders a toast's relative age: "now", "Ns ago" or "Mm Ss ago".
func Age(now time.Time, ts time.Time) string {
	d := now.Sub(ts)
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	default:
		m := int(d.Minutes())
		s := int(d.Seconds()) - m*60
		return fmt.Sprintf("%dm %ds ago", m, s)
	}
}
