package gateway

import (
	"context"
	"fmt"
)

type PaymentsClient struct {
	clients *Clients
}

func NewPaymentsClient(clients *Clients) PaymentsClient {
	return PaymentsClient{clients: clients}
}

type CreateSessionRequest struct {
	BookingID string `json:"bookingId"`
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
}

type CreateSessionResponse struct {
	BookingID   string `json:"bookingId"`
	SellerID    string `json:"sellerId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// CreateSession binds a payment session to a booking and yields the seller
// context the rest of the checkout runs under.
func (c PaymentsClient) CreateSession(ctx context.Context, request CreateSessionRequest) (CreateSessionResponse, error) {
	var resp CreateSessionResponse
	if err := c.clients.postJSON(ctx, "/api/payments/session", request, &resp); err != nil {
		return CreateSessionResponse{}, fmt.Errorf("could not create payment session: %w", err)
	}
	return resp, nil
}

type ChargeWalletRequest struct {
	PaymentID string `json:"paymentId"`
	Amount    int64  `json:"amount"`
	Pin       string `json:"password"`
}

// ChargeWallet verifies the PIN and charges the wallet balance in one call.
// Any non-2xx answer is a verification/charge failure; the backend does not
// say which part failed, and neither do we.
func (c PaymentsClient) ChargeWallet(ctx context.Context, request ChargeWalletRequest) error {
	if err := c.clients.postJSON(ctx, "/api/tekcitpay", request, nil); err != nil {
		return fmt.Errorf("wallet charge rejected: %w", err)
	}
	return nil
}

// ConfirmCompletion asks whether settlement for paymentID is confirmed.
// 2xx means confirmed; everything else means "not confirmed yet or never".
func (c PaymentsClient) ConfirmCompletion(ctx context.Context, paymentID string) error {
	if err := c.clients.postJSON(ctx, "/api/payments/complete/"+paymentID, nil, nil); err != nil {
		return fmt.Errorf("payment completion not confirmed: %w", err)
	}
	return nil
}
