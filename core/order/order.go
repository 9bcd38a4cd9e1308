package order

import (
	"time"

	"github.com/jmcastillo/karinderia/core/money"
)

type Status string

const (
	Pending   Status = "pending"
	Confirmed Status = "confirmed"
	Cancelled Status = "cancelled"
)

type PaymentMethod string

const (
	GCash          PaymentMethod = "gcash"
	CashOnDelivery PaymentMethod = "cod"
)

// GuestID derives the synthetic user id guest orders are filed under,
// from the guest's session token.
func GuestID(sessionToken string) string {
	return "guest:" + sessionToken
}

type Order struct {
	ID             string         `json:"id" db:"order_id"`
	UserID         string         `json:"userId" db:"user_id"`
	Status         Status         `json:"status" db:"status"`
	PaymentMethod  PaymentMethod  `json:"paymentMethod" db:"payment_method"`
	GcashReference string         `json:"gcashReference,omitempty" db:"gcash_reference"`
	ReceiptURL     string         `json:"receiptUrl,omitempty" db:"receipt_url"`
	FirstName      string         `json:"firstName" db:"first_name"`
	LastName       string         `json:"lastName" db:"last_name"`
	Phone          string         `json:"phone" db:"phone"`
	Email          string         `json:"email" db:"email"`
	Street         string         `json:"street" db:"street"`
	Barangay       string         `json:"barangay" db:"barangay"`
	Municipality   string         `json:"municipality" db:"municipality"`
	Province       string         `json:"province" db:"province"`
	HouseNo        string         `json:"houseNo,omitempty" db:"house_no"`
	LotNo          string         `json:"lotNo,omitempty" db:"lot_no"`
	BlockNo        string         `json:"blockNo,omitempty" db:"block_no"`
	TotalPrice     money.Centavos `json:"totalPrice" db:"total_price"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
}

type Item struct {
	OrderID   string         `json:"orderId" db:"order_id"`
	ProductID string         `json:"productId" db:"product_id"`
	Name      string         `json:"name" db:"name"`
	Price     money.Centavos `json:"price" db:"price"`
	Quantity  int            `json:"quantity" db:"quantity"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}
