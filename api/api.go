package api

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gorilla/mux"
	"github.com/jmcastillo/karinderia/api/middleware"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/cart"
	"github.com/jmcastillo/karinderia/core/catalog"
	"github.com/jmcastillo/karinderia/core/checkout"
	"github.com/jmcastillo/karinderia/core/claims"
	"github.com/jmcastillo/karinderia/core/issue"
	"github.com/jmcastillo/karinderia/core/order"
	"github.com/jmcastillo/karinderia/core/sidebar"
	"github.com/jmcastillo/karinderia/core/toast"
	"github.com/jmcastillo/karinderia/database"
	"github.com/jmcastillo/karinderia/rate"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	CorsOrigin string
	Log        logrus.FieldLogger
	DB         *sqlx.DB
	Session    *scs.SessionManager
	Redis      *redis.Client
	CacheTTL   time.Duration
	Receipts   checkout.ReceiptSaver
}

type api struct {
	*mux.Router
	mw  []web.Middleware
	log logrus.FieldLogger
}

func APIMux(cfg APIConfig) http.Handler {
	a := &api{
		Router: mux.NewRouter(),
		log:    cfg.Log,
	}

	a.mw = append(a.mw, middleware.LoadAndSave(cfg.Session))
	a.mw = append(a.mw, middleware.RequestID())
	a.mw = append(a.mw, middleware.Logger(cfg.Log))
	a.mw = append(a.mw, middleware.Errors(cfg.Log))
	a.mw = append(a.mw, middleware.Panics())
	a.mw = append(a.mw, middleware.CSRF(cfg.Session))

	if cfg.CorsOrigin != "" {
		a.mw = append(a.mw, middleware.Cors(cfg.CorsOrigin))

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}

		a.Handle(http.MethodOptions, "/{path:.*}", h)
	}

	products := catalog.NewCache(cfg.DB, cfg.Redis, cfg.CacheTTL, cfg.Log)

	guest := cart.NewSessionStore(cfg.Session, cfg.Log)
	owned := cart.NewStore(cfg.DB, products, cfg.Log)

	// Authenticated customers get the server-owned cart, everyone else
	// the session cart.
	carts := cart.Selector(func(ctx context.Context) cart.Repository {
		if claims.Authenticated(ctx) {
			return owned
		}
		return guest
	})

	toasts := toast.NewQueue(cfg.Session, cfg.Log)
	render := sidebar.New(sidebar.CheckoutAnchor)
	placer := checkout.DBPlacer{DB: cfg.DB}

	// One token every 300ms with a burst of 3 is enough for human
	// clicking and blocks double-submits from rapid repeats.
	throttle := middleware.Throttle(rate.NewLimiter(3, 10, rate.Every(300*time.Millisecond)), cfg.Session)

	admin := middleware.Admin()

	health := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if err := database.StatusCheck(ctx, cfg.DB); err != nil {
			return weberr.NewError(err, "database not ready", http.StatusServiceUnavailable)
		}
		return web.Respond(ctx, w, struct {
			Status string `json:"status"`
		}{"ok"}, http.StatusOK)
	}
	a.Handle(http.MethodGet, "/health", health)

	a.Handle(http.MethodGet, "/api/products", catalog.HandleList(cfg.DB))
	a.Handle(http.MethodGet, "/api/products/{id}", catalog.HandleShow(cfg.DB))
	a.Handle(http.MethodPost, "/api/products", catalog.HandleCreate(cfg.DB), admin)
	a.Handle(http.MethodPut, "/api/products/{id}", catalog.HandleUpdate(cfg.DB, products), admin)

	a.Handle(http.MethodGet, "/api/cart", cart.HandleShow(carts))
	a.Handle(http.MethodPost, "/api/cart/add", cart.HandleAdd(carts, products), throttle)
	a.Handle(http.MethodPost, "/api/cart/update", cart.HandleUpdate(carts, products), throttle)
	a.Handle(http.MethodPost, "/api/cart/remove", cart.HandleRemove(carts), throttle)
	a.Handle(http.MethodPost, "/api/cart/clear", cart.HandleClear(carts), throttle)
	a.Handle(http.MethodGet, "/cart/sidebar", sidebar.HandleFragment(carts, render))

	a.Handle(http.MethodPost, "/checkout", checkout.HandleStart(cfg.Session, toasts, carts))
	a.Handle(http.MethodPost, "/checkout/method", checkout.HandleSelectMethod(cfg.Session))
	a.Handle(http.MethodPost, "/checkout/submit",
		checkout.HandleSubmit(cfg.Session, toasts, carts, placer, cfg.Receipts, cfg.Log), throttle)

	clearGuestCart := func(ctx context.Context) error {
		_, err := guest.Clear(ctx)
		return err
	}
	a.Handle(http.MethodGet, "/api/toasts", toast.HandleFlush(toasts, clearGuestCart))
	a.Handle(http.MethodPost, "/api/toasts/dismiss/{id}", toast.HandleDismiss(toasts))

	a.Handle(http.MethodGet, "/api/orders/{order_id}", order.HandleShow(cfg.DB, cfg.Session))

	a.Handle(http.MethodPost, "/api/issues/order/{order_id}", issue.HandleReport(cfg.DB))
	a.Handle(http.MethodGet, "/api/issues/order/{order_id}", issue.HandleListByOrder(cfg.DB))
	a.Handle(http.MethodGet, "/api/issues/my-report/order/{order_id}", issue.HandleMyReport(cfg.DB))
	a.Handle(http.MethodPost, "/api/issues/resolve/{issue_id}", issue.HandleResolve(cfg.DB), admin)

	return a.Router
}

func (a *api) Handle(method string, path string, handler web.Handler, mw ...web.Middleware) {

	handler = web.WrapMiddleware(mw, handler)

	handler = web.WrapMiddleware(a.mw, handler)

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ctx := r.Context()

		if err := handler(ctx, w, r); err != nil {

			a.log.WithFields(logrus.Fields{
				"req_id":  middleware.ContextRequestID(ctx),
				"message": err,
			}).Error("ERROR")
		}
	})

	a.Router.Handle(path, h).Methods(method)
}
