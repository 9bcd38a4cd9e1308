package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"
)

// APIStore mirrors a server-owned cart over its JSON API. Every mutation
// POSTs to /api/cart/* and adopts the returned snapshot as the new source
// of truth; nothing is applied optimistically, so a failed call leaves
// the mirrored state exactly as it was. Mutations are serialized so a
// slow response can never repaint over a newer one.
type APIStore struct {
	events

	base   string
	client *http.Client
	log    logrus.FieldLogger

	// CSRF header attached to every mutating call, read once from page
	// metadata by the caller.
	csrfHeader string
	csrfToken  string

	mu      sync.Mutex
	last    Snapshot
	hasLast bool
}

func NewAPIStore(base string, client *http.Client, csrfHeader, csrfToken string, log logrus.FieldLogger) *APIStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &APIStore{
		base:       base,
		client:     client,
		csrfHeader: csrfHeader,
		csrfToken:  csrfToken,
		log:        log,
	}
}

func (s *APIStore) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	if s.hasLast {
		snap := s.last
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.base+"/api/cart", nil)
	if err != nil {
		return Snapshot{}, err
	}
	return s.roundtrip(req)
}

func (s *APIStore) Add(ctx context.Context, productID string, qty int, _ ItemMeta) (Snapshot, error) {
	if qty <= 0 {
		return Snapshot{}, ErrQuantity
	}
	return s.post(ctx, "/api/cart/add", addRequest{ProductID: productID, Quantity: qty})
}

func (s *APIStore) Update(ctx context.Context, productID string, qty int) (Snapshot, error) {
	return s.post(ctx, "/api/cart/update", updateRequest{ProductID: productID, NewQuantity: qty})
}

func (s *APIStore) Remove(ctx context.Context, productID string) (Snapshot, error) {
	return s.post(ctx, "/api/cart/remove", removeRequest{ProductID: productID})
}

func (s *APIStore) Clear(ctx context.Context) (Snapshot, error) {
	return s.post(ctx, "/api/cart/clear", struct{}{})
}

func (s *APIStore) post(ctx context.Context, path string, body any) (Snapshot, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return Snapshot{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base+path, bytes.NewReader(b))
	if err != nil {
		return Snapshot{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.csrfHeader != "" {
		req.Header.Set(s.csrfHeader, s.csrfToken)
	}

	return s.roundtrip(req)
}

func (s *APIStore) roundtrip(req *http.Request) (Snapshot, error) {
	snap, err := func() (Snapshot, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		w, err := s.client.Do(req)
		if err != nil {
			return Snapshot{}, fmt.Errorf("calling cart api: %w", err)
		}
		defer w.Body.Close()

		if w.StatusCode < 200 || w.StatusCode > 299 {
			return Snapshot{}, apiError(w)
		}

		var snap Snapshot
		if err := json.NewDecoder(w.Body).Decode(&snap); err != nil {
			return Snapshot{}, fmt.Errorf("decoding cart snapshot: %w", err)
		}

		s.last = snap
		s.hasLast = true
		return snap, nil
	}()

	if err != nil {
		return Snapshot{}, err
	}

	s.publish(snap)
	return snap, nil
}

// apiError extracts the server's {error} message when the body carries
// one, falling back to the status text.
func apiError(w *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("%s", http.StatusText(w.StatusCode))
}
