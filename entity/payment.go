package entity

import "time"

type PaymentMethod string

const (
	PaymentMethodWallet   PaymentMethod = "wallet"
	PaymentMethodRedirect PaymentMethod = "redirect"
)

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusCharged    PaymentStatus = "charged"
	PaymentStatusConfirming PaymentStatus = "confirming"
	PaymentStatusSucceeded  PaymentStatus = "succeeded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// PaymentAttempt is one end-to-end checkout sequence. PaymentID is unique
// per attempt and must not be reused for a logically new purchase.
type PaymentAttempt struct {
	PaymentID string        `json:"payment_id"`
	BookingID string        `json:"booking_id"`
	SellerID  string        `json:"seller_id"`
	Amount    int64         `json:"amount"`
	Method    PaymentMethod `json:"method"`
	Status    PaymentStatus `json:"status"`
	// CheckoutURL is where a redirect payment hands the user off to.
	// Empty for wallet payments.
	CheckoutURL string    `json:"checkout_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (a PaymentAttempt) Terminal() bool {
	return a.Status == PaymentStatusSucceeded || a.Status == PaymentStatusFailed
}
