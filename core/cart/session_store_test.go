package cart

import (
	"context"
	"io"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sessionCtx(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

func TestSessionStoreAddAccumulates(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	if _, err := s.Add(ctx, "p1", 2, adoboMeta); err != nil {
		t.Fatalf("first add: %v", err)
	}
	snap, err := s.Add(ctx, "p1", 3, adoboMeta)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if got := snap.Quantity("p1"); got != 5 {
		t.Fatalf("expected quantity 5, got %d", got)
	}
	if snap.TotalPrice != 9500*5 {
		t.Fatalf("expected total %d, got %d", 9500*5, snap.TotalPrice)
	}
}

func TestSessionStoreAddNonPositive(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	if _, err := s.Add(ctx, "p1", 0, adoboMeta); err != ErrQuantity {
		t.Fatalf("expected ErrQuantity, got %v", err)
	}
}

func TestSessionStoreUpdateToZeroRemoves(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	if _, err := s.Add(ctx, "p1", 2, adoboMeta); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, err := s.Update(ctx, "p1", 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if !snap.Empty() {
		t.Fatalf("expected empty cart, got %d lines", len(snap.Items))
	}
}

func TestSessionStorePersistsAcrossLoads(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	if _, err := s.Add(ctx, "p1", 2, adoboMeta); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snap.Quantity("p1"); got != 2 {
		t.Fatalf("expected persisted quantity 2, got %d", got)
	}
}

func TestSessionStoreCorruptBlobStartsEmpty(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	sm.Put(ctx, guestCartKey, []byte("{not json"))

	snap, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot must not fail on a corrupt blob: %v", err)
	}
	if !snap.Empty() {
		t.Fatal("corrupt blob must load as an empty cart")
	}
}

func TestSessionStoreClear(t *testing.T) {
	sm := scs.New()
	ctx := sessionCtx(t, sm)
	s := NewSessionStore(sm, testLogger())

	if _, err := s.Add(ctx, "p1", 2, adoboMeta); err != nil {
		t.Fatalf("add: %v", err)
	}
	snap, err := s.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}

	if snap.Items == nil || len(snap.Items) != 0 {
		t.Fatalf("clear must return an empty, non-nil item list, got %#v", snap.Items)
	}
	if snap, _ := s.Snapshot(ctx); !snap.Empty() {
		t.Fatal("cart must stay empty after clear")
	}
}
