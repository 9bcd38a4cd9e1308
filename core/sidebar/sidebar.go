// Package sidebar renders the cart sidebar fragment from a snapshot.
// Rendering always rebuilds the whole fragment, so repeated renders of
// the same snapshot produce identical output with no accumulation.
package sidebar

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/core/cart"
)

//go:embed sidebar.tmpl
var sidebarTmpl string

// CheckoutKind selects the checkout affordance markup. Anchors have no
// native disabled attribute, so they are disabled with a class and
// aria-disabled instead.
type CheckoutKind int

const (
	CheckoutButton CheckoutKind = iota
	CheckoutAnchor
)

type Renderer struct {
	tmpl *template.Template
	kind CheckoutKind
}

func New(kind CheckoutKind) *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("sidebar").Parse(sidebarTmpl)),
		kind: kind,
	}
}

type renderData struct {
	Snapshot       cart.Snapshot
	AnchorCheckout bool
}

func (r *Renderer) Render(w io.Writer, snap cart.Snapshot) error {
	data := renderData{
		Snapshot:       snap,
		AnchorCheckout: r.kind == CheckoutAnchor,
	}
	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("rendering cart sidebar: %w", err)
	}
	return nil
}

// HandleFragment serves the rendered sidebar for the caller's cart.
func HandleFragment(sel cart.Selector, r *Renderer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, req *http.Request) error {
		snap, err := sel(ctx).Snapshot(ctx)
		if err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		return r.Render(w, snap)
	}
}
