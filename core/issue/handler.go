package issue

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/claims"
	"github.com/jmcastillo/karinderia/validate"
	"github.com/jmoiron/sqlx"
)

// HandleReport files a new problem report on an order.
func HandleReport(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orderID := web.Param(r, "order_id")
		if err := validate.CheckID(orderID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var req ReportNew
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		rep := Report{
			ID:                 validate.GenerateID(),
			OrderID:            orderID,
			Username:           clm.Username,
			Summary:            req.Summary,
			Details:            req.Details,
			AttachmentImageURL: req.AttachmentImageURL,
			Open:               true,
			ReportedAt:         time.Now().UTC(),
		}

		if err := Create(ctx, db, rep); err != nil {
			return err
		}

		return web.Respond(ctx, w, rep, http.StatusCreated)
	}
}

func HandleListByOrder(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		orderID := web.Param(r, "order_id")
		if err := validate.CheckID(orderID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		reps, err := FetchByOrder(ctx, db, orderID)
		if err != nil {
			return err
		}

		return web.Respond(ctx, w, reps, http.StatusOK)
	}
}

func HandleMyReport(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil {
			return weberr.NotAuthorized(errors.New("user not authenticated"))
		}

		orderID := web.Param(r, "order_id")
		if err := validate.CheckID(orderID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		rep, err := FetchMine(ctx, db, orderID, clm.Username)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		return web.Respond(ctx, w, rep, http.StatusOK)
	}
}

func HandleResolve(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		clm, err := claims.Get(ctx)
		if err != nil || clm.Role != claims.RoleAdmin {
			return weberr.NotAuthorized(errors.New("admin role required"))
		}

		issueID := web.Param(r, "issue_id")
		if err := validate.CheckID(issueID); err != nil {
			return weberr.NewError(err, err.Error(), http.StatusBadRequest)
		}

		var req ResolveRequest
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if err := validate.Check(req); err != nil {
			return weberr.Unprocessable(err)
		}

		rep, err := Fetch(ctx, db, issueID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return weberr.NotFound(err)
			}
			return err
		}

		if !rep.Open {
			err := errors.New("report is already resolved")
			return weberr.Conflict(err, err.Error())
		}

		now := time.Now().UTC()
		if err := Resolve(ctx, db, issueID, clm.Username, req.AdminNotes, now); err != nil {
			return err
		}

		res := Resolution{ResolvedByAdmin: clm.Username, ResolvedAt: now, AdminNotes: req.AdminNotes}
		return web.Respond(ctx, w, res, http.StatusOK)
	}
}
