package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/jmcastillo/karinderia/api/web"
	"github.com/jmcastillo/karinderia/api/weberr"
	"github.com/jmcastillo/karinderia/core/cart"
	"github.com/jmcastillo/karinderia/core/claims"
	"github.com/jmcastillo/karinderia/core/order"
	"github.com/jmcastillo/karinderia/core/toast"
	"github.com/jmcastillo/karinderia/validate"
	"github.com/sirupsen/logrus"
)

const attemptKey = "checkoutAttempt"

// maxReceiptSize bounds the uploaded GCash receipt image.
const maxReceiptSize = 8 << 20

func loadAttempt(ctx context.Context, session *scs.SessionManager) *Attempt {
	b := session.GetBytes(ctx, attemptKey)
	if len(b) == 0 {
		return NewAttempt()
	}

	a := NewAttempt()
	if err := json.Unmarshal(b, a); err != nil {
		return NewAttempt()
	}
	return a
}

func saveAttempt(ctx context.Context, session *scs.SessionManager, a *Attempt) {
	if b, err := json.Marshal(a); err == nil {
		session.Put(ctx, attemptKey, b)
	}
}

// validationError shapes a ValidationError into the response the page
// renders: an aggregate message, per-field feedback and the field to
// focus first.
func validationError(verr *ValidationError) error {
	body := struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
		First  string            `json:"firstInvalid,omitempty"`
	}{
		Error:  "Please review the highlighted fields",
		Fields: verr.Fields,
		First:  verr.First,
	}

	logFields := make(map[string]interface{}, len(verr.Fields))
	for k, v := range verr.Fields {
		logFields[k] = v
	}

	return weberr.Wrap(verr,
		weberr.WithResponse(&body, http.StatusUnprocessableEntity),
		weberr.WithFields(logFields),
	)
}

type modalResponse struct {
	Shipping ShippingForm        `json:"shipping"`
	Snapshot cart.Snapshot       `json:"snapshot"`
	Method   order.PaymentMethod `json:"method"`
}

// HandleStart validates the shipping form against the current cart and,
// on success, opens the payment step with the captured snapshot.
func HandleStart(session *scs.SessionManager, toasts *toast.Queue, carts cart.Selector) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var f ShippingForm
		if err := web.Decode(w, r, &f); err != nil {
			return weberr.BadRequest(err)
		}

		snap, err := carts(ctx).Snapshot(ctx)
		if err != nil {
			return err
		}

		if snap.Empty() {
			err := errors.New("no items to checkout")
			return weberr.Unprocessable(err)
		}

		a := loadAttempt(ctx, session)
		if err := a.Validate(f, snap); err != nil {
			saveAttempt(ctx, session, a)

			var verr *ValidationError
			if errors.As(err, &verr) {
				toasts.Enqueue(ctx, "Please review the highlighted fields", true)
				return validationError(verr)
			}
			return err
		}

		saveAttempt(ctx, session, a)

		resp := modalResponse{Shipping: a.Shipping, Snapshot: a.Snapshot, Method: a.Method}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}

// HandleSelectMethod toggles between GCash and cash on delivery while
// the payment modal is open.
func HandleSelectMethod(session *scs.SessionManager) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var req struct {
			Method order.PaymentMethod `json:"method"`
		}
		if err := web.Decode(w, r, &req); err != nil {
			return weberr.BadRequest(err)
		}

		if req.Method != order.GCash && req.Method != order.CashOnDelivery {
			err := fmt.Errorf("unknown payment method %q", req.Method)
			return weberr.Unprocessable(err)
		}

		a := loadAttempt(ctx, session)
		if err := a.SelectMethod(req.Method); err != nil {
			return weberr.Conflict(err, "checkout has not been started")
		}
		saveAttempt(ctx, session, a)

		return web.Respond(ctx, w, struct {
			Method order.PaymentMethod `json:"method"`
		}{a.Method}, http.StatusOK)
	}
}

// Placer records a confirmed order.
type Placer interface {
	Place(ctx context.Context, ord order.Order, items []order.Item) error
}

type submitResponse struct {
	OrderID     string `json:"orderId"`
	RedirectURL string `json:"redirectUrl"`
}

// HandleSubmit performs the payment-method validation and places the
// order. The attempt moves to Submitting before any slow work starts, so
// a second submit of the same attempt is rejected instead of duplicated.
func HandleSubmit(session *scs.SessionManager, toasts *toast.Queue, carts cart.Selector, placer Placer, receipts ReceiptSaver, log logrus.FieldLogger) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		a := loadAttempt(ctx, session)

		if a.State == Submitting {
			err := errors.New("an order submission is already in progress")
			return weberr.Conflict(err, err.Error())
		}

		if err := r.ParseMultipartForm(maxReceiptSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return weberr.BadRequest(fmt.Errorf("parsing payment form: %w", err))
		}

		pf := PaymentForm{
			Method:         order.PaymentMethod(r.FormValue("method")),
			GcashReference: r.FormValue("gcashReference"),
		}

		file, header, ferr := r.FormFile("receipt")
		if ferr == nil {
			defer file.Close()
			pf.HasReceipt = true
		}

		if err := a.ValidateSubmit(pf); err != nil {
			saveAttempt(ctx, session, a)

			var verr *ValidationError
			if errors.As(err, &verr) {
				toasts.Enqueue(ctx, "Please review your payment details", true)
				return validationError(verr)
			}
			return weberr.Conflict(err, "checkout has not been started")
		}

		// The Submitting state is persisted before any slow work; this
		// is the server-side twin of disabling the submit button.
		saveAttempt(ctx, session, a)

		fail := func(err error, msg string, status int) error {
			a.Fail()
			saveAttempt(ctx, session, a)
			toasts.Enqueue(ctx, msg, true)
			return weberr.NewError(err, msg, status)
		}

		// Stock and prices are re-validated against the authoritative
		// backend, not against what the modal displayed.
		snap, err := carts(ctx).Snapshot(ctx)
		if err != nil {
			return fail(err, "Could not read your cart, please try again", http.StatusInternalServerError)
		}
		if snap.Empty() {
			return fail(errors.New("no items to checkout"), "Your cart is empty", http.StatusUnprocessableEntity)
		}

		userID := order.GuestID(session.Token(ctx))
		username := ""
		if clm, err := claims.Get(ctx); err == nil {
			userID = clm.UserID
			username = clm.Username
		}

		now := time.Now().UTC()
		ord := order.Order{
			ID:             validate.GenerateID(),
			UserID:         userID,
			Status:         order.Pending,
			PaymentMethod:  a.Method,
			GcashReference: pf.GcashReference,
			FirstName:      a.Shipping.FirstName,
			LastName:       a.Shipping.LastName,
			Phone:          a.Shipping.Phone,
			Email:          a.Shipping.Email,
			Street:         a.Shipping.Street,
			Barangay:       a.Shipping.Barangay,
			Municipality:   a.Shipping.Municipality,
			Province:       a.Shipping.Province,
			HouseNo:        a.Shipping.HouseNo,
			LotNo:          a.Shipping.LotNo,
			BlockNo:        a.Shipping.BlockNo,
			TotalPrice:     snap.TotalPrice,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if a.Method == order.GCash {
			name := ord.ID + path.Ext(header.Filename)
			url, err := receipts.Save(ctx, name, file, header.Size, header.Header.Get("Content-Type"))
			if err != nil {
				return fail(err, "Could not store your receipt, please try again", http.StatusBadGateway)
			}
			ord.ReceiptURL = url
		}

		items := make([]order.Item, 0, len(snap.Items))
		for _, it := range snap.Items {
			items = append(items, order.Item{
				OrderID:   ord.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     it.Price,
				Quantity:  it.Quantity,
				CreatedAt: now,
			})
		}

		if err := placer.Place(ctx, ord, items); err != nil {
			return fail(err, "Could not place your order, please try again", http.StatusConflict)
		}

		a.Reset()
		saveAttempt(ctx, session, a)

		toasts.Flash(ctx, "successMessage",
			fmt.Sprintf("Order placed! Your total is %s.", ord.TotalPrice))
		if !claims.Authenticated(ctx) {
			toasts.FlagClearCart(ctx)
		}

		log.WithFields(logrus.Fields{
			"order_id": ord.ID,
			"user_id":  userID,
			"username": username,
			"method":   ord.PaymentMethod,
		}).Info("order placed")

		resp := submitResponse{OrderID: ord.ID, RedirectURL: "/orders/" + ord.ID + "/placed"}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
}
