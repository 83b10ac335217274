// Package payment sequences one checkout attempt: session creation, PIN
// verification or redirect hand-off, and the bounded completion
// confirmation. Partial-failure reconciliation ("charged but confirmation
// lost") is the backend's job, not ours; everything here folds into either
// a retryable PIN error or one generic terminal failure.
package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tekcit/entity"
	"tekcit/gateway"
	"tekcit/keypad"
	"tekcit/log"
	"tekcit/metrics"
	"tekcit/retry"
)

type PaymentsGateway interface {
	CreateSession(ctx context.Context, request gateway.CreateSessionRequest) (gateway.CreateSessionResponse, error)
	ChargeWallet(ctx context.Context, request gateway.ChargeWalletRequest) error
	ConfirmCompletion(ctx context.Context, paymentID string) error
}

var (
	// ErrPINMismatch is the one message a failed verification surfaces,
	// whatever actually went wrong server-side.
	ErrPINMismatch = errors.New("비밀번호가 일치하지 않습니다")

	ErrAttemptNotFound = errors.New("unknown payment attempt")
	ErrAttemptTerminal = errors.New("payment attempt already finished")
	ErrWalletOnly      = errors.New("pin entry applies to wallet payments only")

	// ErrConfirmInFlight rejects a second Confirm while one is already
	// polling; a second loop would double the attempt budget.
	ErrConfirmInFlight = errors.New("confirmation already in progress")

	// ErrPaymentFailed is the generic terminal outcome after confirmation
	// exhaustion. Restarting checkout requires a new attempt with a new id.
	ErrPaymentFailed = errors.New("payment failed, please retry")
)

const (
	confirmMaxAttempts = 3
	confirmInterval    = 2 * time.Second
)

type attemptState struct {
	attempt entity.PaymentAttempt
	buffer  keypad.Buffer
}

type Coordinator struct {
	mu       sync.Mutex
	attempts map[string]*attemptState

	payments      PaymentsGateway
	confirmPolicy retry.Policy
	attemptTTL    time.Duration
}

type Option func(*Coordinator)

// WithConfirmInterval shortens the confirmation backoff base; tests use it
// to avoid multi-second sleeps.
func WithConfirmInterval(interval time.Duration) Option {
	return func(c *Coordinator) {
		c.confirmPolicy.Interval = interval
	}
}

func WithAttemptTTL(ttl time.Duration) Option {
	return func(c *Coordinator) {
		c.attemptTTL = ttl
	}
}

func NewCoordinator(payments PaymentsGateway, opts ...Option) *Coordinator {
	c := &Coordinator{
		attempts: map[string]*attemptState{},
		payments: payments,
		confirmPolicy: retry.Policy{
			MaxAttempts: confirmMaxAttempts,
			Interval:    confirmInterval,
			Linear:      true,
		},
		attemptTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start opens a new attempt: fresh paymentId, backend payment session,
// seller context. Two rapid calls always yield two distinct ids.
func (c *Coordinator) Start(ctx context.Context, bookingID string, amount int64, method entity.PaymentMethod) (entity.PaymentAttempt, error) {
	paymentID := NewPaymentID()

	resp, err := c.payments.CreateSession(ctx, gateway.CreateSessionRequest{
		BookingID: bookingID,
		PaymentID: paymentID,
		Amount:    amount,
	})
	if err != nil {
		return entity.PaymentAttempt{}, fmt.Errorf("could not start payment: %w", err)
	}

	attempt := entity.PaymentAttempt{
		PaymentID: paymentID,
		BookingID: bookingID,
		SellerID:  resp.SellerID,
		Amount:    amount,
		Method:    method,
		Status:    entity.PaymentStatusCreated,
		CreatedAt: time.Now(),
	}
	if method == entity.PaymentMethodRedirect {
		attempt.CheckoutURL = resp.CheckoutURL
	}

	c.mu.Lock()
	c.evictExpiredLocked()
	c.attempts[paymentID] = &attemptState{attempt: attempt}
	c.mu.Unlock()

	return attempt, nil
}

// PushDigit adds one keypad digit to the attempt's PIN buffer. Fewer than
// six digits never reach the backend; the sixth digit triggers exactly one
// verify-and-charge call. A rejected charge clears the buffer and reports
// the generic mismatch error while the attempt stays open for another try.
func (c *Coordinator) PushDigit(ctx context.Context, paymentID string, digit int) (entity.PaymentAttempt, error) {
	c.mu.Lock()
	state, ok := c.attempts[paymentID]
	if !ok {
		c.mu.Unlock()
		return entity.PaymentAttempt{}, ErrAttemptNotFound
	}
	if state.attempt.Method != entity.PaymentMethodWallet {
		c.mu.Unlock()
		return entity.PaymentAttempt{}, ErrWalletOnly
	}
	if state.attempt.Terminal() || state.attempt.Status == entity.PaymentStatusCharged {
		c.mu.Unlock()
		return entity.PaymentAttempt{}, ErrAttemptTerminal
	}

	if err := state.buffer.Push(digit); err != nil {
		c.mu.Unlock()
		return entity.PaymentAttempt{}, err
	}

	if !state.buffer.Full() {
		attempt := state.attempt
		c.mu.Unlock()
		return attempt, nil
	}

	pin := state.buffer.Value()
	state.buffer.Clear()
	request := gateway.ChargeWalletRequest{
		PaymentID: paymentID,
		Amount:    state.attempt.Amount,
		Pin:       pin,
	}
	c.mu.Unlock()

	if err := c.payments.ChargeWallet(ctx, request); err != nil {
		log.FromContext(ctx).WithError(err).WithField("payment_id", paymentID).
			Info("wallet charge rejected")
		c.mu.Lock()
		attempt := state.attempt
		c.mu.Unlock()
		return attempt, ErrPINMismatch
	}

	c.mu.Lock()
	state.attempt.Status = entity.PaymentStatusCharged
	attempt := state.attempt
	c.mu.Unlock()
	return attempt, nil
}

func (c *Coordinator) ClearPIN(paymentID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.attempts[paymentID]
	if !ok {
		return ErrAttemptNotFound
	}
	state.buffer.Clear()
	return nil
}

// Confirm polls the completion endpoint with the bounded policy: three
// attempts at 2s, 4s and 6s. Any 2xx is final success. Exhaustion marks
// the attempt failed for good; the loop never extends itself to avoid
// masking a genuinely failed payment as "still processing" forever.
func (c *Coordinator) Confirm(ctx context.Context, paymentID string) (entity.PaymentAttempt, error) {
	c.mu.Lock()
	state, ok := c.attempts[paymentID]
	if !ok {
		c.mu.Unlock()
		return entity.PaymentAttempt{}, ErrAttemptNotFound
	}
	if state.attempt.Terminal() {
		attempt := state.attempt
		c.mu.Unlock()
		if attempt.Status == entity.PaymentStatusSucceeded {
			return attempt, nil
		}
		return attempt, ErrPaymentFailed
	}
	// at most one confirmation loop per attempt
	if state.attempt.Status == entity.PaymentStatusConfirming {
		attempt := state.attempt
		c.mu.Unlock()
		return attempt, ErrConfirmInFlight
	}
	state.attempt.Status = entity.PaymentStatusConfirming
	c.mu.Unlock()

	err := retry.Do(ctx, c.confirmPolicy, func(ctx context.Context) error {
		metrics.PaymentConfirmAttempts.Inc()
		return c.payments.ConfirmCompletion(ctx, paymentID)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		state.attempt.Status = entity.PaymentStatusFailed
		metrics.PaymentAttempts.WithLabelValues("failed").Inc()
		log.FromContext(ctx).WithError(err).WithField("payment_id", paymentID).
			Warn("payment confirmation exhausted")
		return state.attempt, ErrPaymentFailed
	}

	state.attempt.Status = entity.PaymentStatusSucceeded
	metrics.PaymentAttempts.WithLabelValues("succeeded").Inc()
	return state.attempt, nil
}

// Attempt returns a snapshot of one attempt.
func (c *Coordinator) Attempt(paymentID string) (entity.PaymentAttempt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.attempts[paymentID]
	if !ok {
		return entity.PaymentAttempt{}, ErrAttemptNotFound
	}
	return state.attempt, nil
}

// PinLength reports how many digits are buffered for the attempt.
func (c *Coordinator) PinLength(paymentID string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	state, ok := c.attempts[paymentID]
	if !ok {
		return 0, ErrAttemptNotFound
	}
	return state.buffer.Len(), nil
}

// evictExpiredLocked drops finished attempts past the session-scoped TTL.
// In-progress attempts are never evicted.
func (c *Coordinator) evictExpiredLocked() {
	cutoff := time.Now().Add(-c.attemptTTL)
	for id, state := range c.attempts {
		if state.attempt.Terminal() && state.attempt.CreatedAt.Before(cutoff) {
			delete(c.attempts, id)
		}
	}
}
