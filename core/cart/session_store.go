package cart

import (
	"context"
	"encoding/json"

	"github.com/alexedwards/scs/v2"
	"github.com/sirupsen/logrus"
)

// guestCartKey is the single session key holding the guest cart blob.
const guestCartKey = "guestCart"

// SessionStore keeps guest carts in the scs session. Operations are pure
// local state transforms; the only failure mode is a corrupt blob, which
// loads as an empty cart instead of failing the request. Tabs sharing a
// session race on this key, last write wins.
type SessionStore struct {
	session *scs.SessionManager
	log     logrus.FieldLogger
}

func NewSessionStore(session *scs.SessionManager, log logrus.FieldLogger) *SessionStore {
	return &SessionStore{session: session, log: log}
}

func (s *SessionStore) load(ctx context.Context) *Cart {
	c := New()
	b := s.session.GetBytes(ctx, guestCartKey)
	if len(b) == 0 {
		return c
	}
	if err := json.Unmarshal(b, c); err != nil {
		s.log.WithField("message", err).Warn("corrupt guest cart, starting empty")
		return New()
	}
	return c
}

func (s *SessionStore) save(ctx context.Context, c *Cart) (Snapshot, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return Snapshot{}, err
	}
	s.session.Put(ctx, guestCartKey, b)
	return c.Snapshot(), nil
}

func (s *SessionStore) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.load(ctx).Snapshot(), nil
}

func (s *SessionStore) Add(ctx context.Context, productID string, qty int, meta ItemMeta) (Snapshot, error) {
	if qty <= 0 {
		return Snapshot{}, ErrQuantity
	}
	c := s.load(ctx)
	c.Add(productID, qty, meta)
	return s.save(ctx, c)
}

func (s *SessionStore) Update(ctx context.Context, productID string, qty int) (Snapshot, error) {
	c := s.load(ctx)
	c.Update(productID, qty)
	return s.save(ctx, c)
}

func (s *SessionStore) Remove(ctx context.Context, productID string) (Snapshot, error) {
	c := s.load(ctx)
	c.Remove(productID)
	return s.save(ctx, c)
}

func (s *SessionStore) Clear(ctx context.Context) (Snapshot, error) {
	s.session.Remove(ctx, guestCartKey)
	return Snapshot{Items: []Item{}}, nil
}
