package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/entity"
	"tekcit/gateway"
	"tekcit/payment"
)

func newWalletAttempt(t *testing.T, c *payment.Coordinator) entity.PaymentAttempt {
	t.Helper()
	attempt, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodWallet)
	require.NoError(t, err)
	return attempt
}

func TestStart_BindsSessionAndYieldsDistinctIDs(t *testing.T) {
	payments := &gateway.PaymentsMock{SellerID: "seller-9"}
	c := payment.NewCoordinator(payments)

	first := newWalletAttempt(t, c)
	second := newWalletAttempt(t, c)

	assert.NotEqual(t, first.PaymentID, second.PaymentID)
	assert.Equal(t, "seller-9", first.SellerID)
	assert.Equal(t, entity.PaymentStatusCreated, first.Status)
	assert.Contains(t, payments.CreatedSessions, first.PaymentID)
	assert.Contains(t, payments.CreatedSessions, second.PaymentID)
}

func TestStart_SessionFailureLeavesNoAttempt(t *testing.T) {
	payments := &gateway.PaymentsMock{SessionErr: errors.New("503")}
	c := payment.NewCoordinator(payments)

	_, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodWallet)
	assert.Error(t, err)
}

func TestPushDigit_PartialEntryNeverCharges(t *testing.T) {
	payments := &gateway.PaymentsMock{}
	c := payment.NewCoordinator(payments)
	attempt := newWalletAttempt(t, c)

	for _, d := range []int{1, 2, 3, 4, 5} {
		_, err := c.PushDigit(context.Background(), attempt.PaymentID, d)
		require.NoError(t, err)
	}

	assert.Empty(t, payments.Charges(), "five digits must not trigger a verify call")
}

func TestPushDigit_SixthDigitChargesExactlyOnce(t *testing.T) {
	payments := &gateway.PaymentsMock{}
	c := payment.NewCoordinator(payments)
	attempt := newWalletAttempt(t, c)

	var final entity.PaymentAttempt
	for _, d := range []int{1, 2, 3, 4, 5, 6} {
		var err error
		final, err = c.PushDigit(context.Background(), attempt.PaymentID, d)
		require.NoError(t, err)
	}

	charges := payments.Charges()
	require.Len(t, charges, 1)
	assert.Equal(t, "123456", charges[0].Pin)
	assert.Equal(t, attempt.PaymentID, charges[0].PaymentID)
	assert.Equal(t, int64(20000), charges[0].Amount)
	assert.Equal(t, entity.PaymentStatusCharged, final.Status)
}

func TestPushDigit_RejectedChargeClearsBufferAndStaysOpen(t *testing.T) {
	payments := &gateway.PaymentsMock{ChargeErr: errors.New("401")}
	c := payment.NewCoordinator(payments)
	attempt := newWalletAttempt(t, c)

	var lastErr error
	for _, d := range []int{1, 2, 3, 4, 5, 6} {
		_, lastErr = c.PushDigit(context.Background(), attempt.PaymentID, d)
	}

	assert.ErrorIs(t, lastErr, payment.ErrPINMismatch)

	n, err := c.PinLength(attempt.PaymentID)
	require.NoError(t, err)
	assert.Zero(t, n, "buffer clears after a rejected charge")

	snapshot, err := c.Attempt(attempt.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCreated, snapshot.Status, "attempt stays open for retry")

	// second complete entry goes through once the backend accepts
	payments.ChargeErr = nil
	for _, d := range []int{1, 2, 3, 4, 5, 6} {
		_, lastErr = c.PushDigit(context.Background(), attempt.PaymentID, d)
	}
	require.NoError(t, lastErr)
	assert.Len(t, payments.Charges(), 2)
}

func TestPushDigit_WalletOnly(t *testing.T) {
	payments := &gateway.PaymentsMock{}
	c := payment.NewCoordinator(payments)

	attempt, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodRedirect)
	require.NoError(t, err)

	_, err = c.PushDigit(context.Background(), attempt.PaymentID, 1)
	assert.ErrorIs(t, err, payment.ErrWalletOnly)
}

func TestStart_RedirectCarriesCheckoutURL(t *testing.T) {
	payments := &gateway.PaymentsMock{CheckoutURL: "https://pay.example.com/checkout/xyz"}
	c := payment.NewCoordinator(payments)

	redirect, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodRedirect)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/checkout/xyz", redirect.CheckoutURL)

	wallet, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodWallet)
	require.NoError(t, err)
	assert.Empty(t, wallet.CheckoutURL)
}

func TestConfirm_SucceedsOnAny2xx(t *testing.T) {
	payments := &gateway.PaymentsMock{
		ConfirmErrs: []error{errors.New("500"), nil},
	}
	c := payment.NewCoordinator(payments, payment.WithConfirmInterval(time.Millisecond))
	attempt := newWalletAttempt(t, c)

	confirmed, err := c.Confirm(context.Background(), attempt.PaymentID)
	require.NoError(t, err)

	assert.Equal(t, entity.PaymentStatusSucceeded, confirmed.Status)
	assert.Len(t, payments.Confirms(), 2)
}

func TestConfirm_ExhaustionIsTerminalAfterThreeAttempts(t *testing.T) {
	payments := &gateway.PaymentsMock{
		ConfirmErrs: []error{errors.New("500"), errors.New("500"), errors.New("500"), errors.New("500")},
	}
	interval := 5 * time.Millisecond
	c := payment.NewCoordinator(payments, payment.WithConfirmInterval(interval))
	attempt := newWalletAttempt(t, c)

	start := time.Now()
	failed, err := c.Confirm(context.Background(), attempt.PaymentID)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, payment.ErrPaymentFailed)
	assert.Equal(t, entity.PaymentStatusFailed, failed.Status)
	assert.Len(t, payments.Confirms(), 3, "bounded at three attempts")
	// linear backoff: 1x + 2x + 3x the base interval
	assert.GreaterOrEqual(t, elapsed, 6*interval)

	// a terminal attempt never polls again
	_, err = c.Confirm(context.Background(), attempt.PaymentID)
	assert.ErrorIs(t, err, payment.ErrPaymentFailed)
	assert.Len(t, payments.Confirms(), 3)
}

func TestConfirm_UnknownAttempt(t *testing.T) {
	c := payment.NewCoordinator(&gateway.PaymentsMock{})

	_, err := c.Confirm(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, payment.ErrAttemptNotFound)
}

// blockingPayments holds the first ConfirmCompletion call open so a test
// can overlap a second Confirm with a running one.
type blockingPayments struct {
	gateway.PaymentsMock

	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *blockingPayments) ConfirmCompletion(ctx context.Context, paymentID string) error {
	p.once.Do(func() { close(p.started) })
	<-p.release
	return p.PaymentsMock.ConfirmCompletion(ctx, paymentID)
}

func TestConfirm_SecondCallWhileConfirmingIsRejected(t *testing.T) {
	payments := &blockingPayments{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	c := payment.NewCoordinator(payments, payment.WithConfirmInterval(time.Millisecond))

	attempt, err := c.Start(context.Background(), "booking-1", 20000, entity.PaymentMethodWallet)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		confirmed, confirmErr := c.Confirm(context.Background(), attempt.PaymentID)
		assert.NoError(t, confirmErr)
		assert.Equal(t, entity.PaymentStatusSucceeded, confirmed.Status)
	}()

	<-payments.started
	_, err = c.Confirm(context.Background(), attempt.PaymentID)
	assert.ErrorIs(t, err, payment.ErrConfirmInFlight)

	close(payments.release)
	<-done

	assert.Len(t, payments.Confirms(), 1, "a rejected second confirm must not add backend calls")
}
