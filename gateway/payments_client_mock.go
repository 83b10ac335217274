package gateway

import (
	"context"
	"sync"
	"time"
)

type PaymentsMock struct {
	mock sync.Mutex

	SellerID    string
	CheckoutURL string
	SessionErr  error
	ChargeErr   error
	// ConfirmErrs are returned in order; nil past the end of the script.
	ConfirmErrs []error

	CreatedSessions map[string]CreateSessionRequest
	ChargeRequests  []ChargeWalletRequest
	ConfirmCalls    []string
	ConfirmTimes    []time.Time
}

func (m *PaymentsMock) CreateSession(ctx context.Context, request CreateSessionRequest) (CreateSessionResponse, error) {
	m.mock.Lock()
	defer m.mock.Unlock()

	if m.SessionErr != nil {
		return CreateSessionResponse{}, m.SessionErr
	}

	if m.CreatedSessions == nil {
		m.CreatedSessions = map[string]CreateSessionRequest{}
	}
	m.CreatedSessions[request.PaymentID] = request

	sellerID := m.SellerID
	if sellerID == "" {
		sellerID = "mocked-seller-id"
	}

	return CreateSessionResponse{BookingID: request.BookingID, SellerID: sellerID, CheckoutURL: m.CheckoutURL}, nil
}

func (m *PaymentsMock) ChargeWallet(ctx context.Context, request ChargeWalletRequest) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.ChargeRequests = append(m.ChargeRequests, request)
	return m.ChargeErr
}

func (m *PaymentsMock) ConfirmCompletion(ctx context.Context, paymentID string) error {
	m.mock.Lock()
	defer m.mock.Unlock()

	m.ConfirmCalls = append(m.ConfirmCalls, paymentID)
	m.ConfirmTimes = append(m.ConfirmTimes, time.Now())

	if len(m.ConfirmErrs) >= len(m.ConfirmCalls) {
		return m.ConfirmErrs[len(m.ConfirmCalls)-1]
	}
	return nil
}

func (m *PaymentsMock) Charges() []ChargeWalletRequest {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]ChargeWalletRequest(nil), m.ChargeRequests...)
}

func (m *PaymentsMock) Confirms() []string {
	m.mock.Lock()
	defer m.mock.Unlock()
	return append([]string(nil), m.ConfirmCalls...)
}
