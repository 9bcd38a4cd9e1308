// Package checkout validates the shipping form, bridges it with a cart
// snapshot into the payment step, and places the order. The flow is an
// explicit state machine persisted in the session between requests.
package checkout

import (
	"fmt"

	"github.com/jmcastillo/karinderia/core/cart"
	"github.com/jmcastillo/karinderia/core/order"
	"github.com/jmcastillo/karinderia/validate"
)

// ShippingForm is the flat record of delivery fields. It is copied into
// the payment step verbatim once validation passes and never mutated by
// the cart.
type ShippingForm struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	Phone        string `json:"phone" validate:"required,phoneph"`
	Email        string `json:"email" validate:"required,email"`
	Street       string `json:"street" validate:"required"`
	Barangay     string `json:"barangay" validate:"required"`
	Municipality string `json:"municipality" validate:"required"`
	Province     string `json:"province" validate:"required"`
	HouseNo      string `json:"houseNo" validate:"max=50"`
	LotNo        string `json:"lotNo" validate:"max=50"`
	BlockNo      string `json:"blockNo" validate:"max=50"`
}

// PaymentForm is what the payment modal submits.
type PaymentForm struct {
	Method         order.PaymentMethod
	GcashReference string
	HasReceipt     bool
}

type gcashReference struct {
	GcashReference string `json:"gcashReference" validate:"required,gcashref"`
}

// State of one checkout attempt. Validating and SubmitValidating are
// transient: they happen inside Validate and ValidateSubmit calls.
type State string

const (
	Idle       State = "idle"
	ModalOpen  State = "modalOpen"
	Submitting State = "submitting"
)

// ValidationError carries one message per invalid field plus the first
// invalid field so the page can scroll to and focus it.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
	First  string            `json:"first"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d invalid field(s), first %q", len(e.Fields), e.First)
}

// Attempt is one checkout in progress, persisted in the session.
type Attempt struct {
	State    State               `json:"state"`
	Shipping ShippingForm        `json:"shipping"`
	Snapshot cart.Snapshot       `json:"snapshot"`
	Method   order.PaymentMethod `json:"method"`
}

func NewAttempt() *Attempt {
	return &Attempt{State: Idle}
}

// Validate runs the shipping validators. On failure the attempt stays
// Idle and the error lists every invalid field. On success the form and
// the given cart snapshot are captured for the payment modal, the method
// resets to the GCash default, and the attempt moves to ModalOpen.
func (a *Attempt) Validate(f ShippingForm, snap cart.Snapshot) error {
	a.State = Idle

	if fields, ord := validate.CheckFields(f); fields != nil {
		return &ValidationError{Fields: fields, First: ord[0]}
	}

	a.Shipping = f
	a.Snapshot = snap
	a.Method = order.GCash
	a.State = ModalOpen
	return nil
}

// SelectMethod switches the payment method while the modal is open,
// discarding anything the other method validated.
func (a *Attempt) SelectMethod(m order.PaymentMethod) error {
	if a.State != ModalOpen {
		return fmt.Errorf("cannot select payment method in state %q", a.State)
	}
	a.Method = m
	return nil
}

// ValidateSubmit guards the final submission. Cash on delivery needs
// nothing extra; GCash requires an attached receipt and a 13-digit
// transaction reference. On success the attempt moves to Submitting,
// which blocks a second submit of the same attempt.
func (a *Attempt) ValidateSubmit(p PaymentForm) error {
	if a.State != ModalOpen {
		return fmt.Errorf("cannot submit payment in state %q", a.State)
	}

	if p.Method != order.GCash && p.Method != order.CashOnDelivery {
		return &ValidationError{
			Fields: map[string]string{"method": "unknown payment method"},
			First:  "method",
		}
	}
	a.Method = p.Method

	if p.Method == order.GCash {
		fields := map[string]string{}
		first := ""

		if refFields, _ := validate.CheckFields(gcashReference{p.GcashReference}); refFields != nil {
			for k, v := range refFields {
				fields[k] = v
			}
			first = "gcashReference"
		}
		if !p.HasReceipt {
			fields["receipt"] = "Please attach your GCash payment receipt"
			if first == "" {
				first = "receipt"
			}
		}

		if len(fields) > 0 {
			return &ValidationError{Fields: fields, First: first}
		}
	}

	a.State = Submitting
	return nil
}

// Fail returns a Submitting attempt to the open modal after a placement
// error so the customer can retry.
func (a *Attempt) Fail() {
	if a.State == Submitting {
		a.State = ModalOpen
	}
}

// Reset discards the attempt after a successful order.
func (a *Attempt) Reset() {
	*a = Attempt{State: Idle}
}
