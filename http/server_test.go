package http_test

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/cache"
	"tekcit/gateway"
	tekcithttp "tekcit/http"
	"tekcit/keypad"
	"tekcit/payment"
	"tekcit/session"
	"tekcit/waiting"
)

type noopBus struct{}

func (noopBus) Publish(ctx context.Context, event any) error { return nil }

func newTestServer(t *testing.T, payments *gateway.PaymentsMock) *httptest.Server {
	t.Helper()

	booking := &gateway.BookingMock{}
	waitingManager := waiting.NewManager(booking, noopBus{}, time.Minute)
	t.Cleanup(waitingManager.Stop)

	server := tekcithttp.NewServer(
		":0",
		session.NewManager(&gateway.AuthMock{}),
		waitingManager,
		payment.NewCoordinator(payments, payment.WithConfirmInterval(time.Millisecond)),
		&gateway.FestivalMock{},
		&gateway.PushMock{},
		cache.New(),
		time.Minute,
		time.Minute,
	)

	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestGetKeypad_LayoutHasAllDigitsWithNinePinnedLast(t *testing.T) {
	ts := newTestServer(t, &gateway.PaymentsMock{})

	resp, err := ts.Client().Get(ts.URL + "/keypad")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var body struct {
		Layout []int `json:"layout"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Layout, 10)
	assert.Equal(t, keypad.PinnedDigit, body.Layout[9])

	seen := map[int]bool{}
	for _, digit := range body.Layout {
		seen[digit] = true
	}
	assert.Len(t, seen, 10)
}

func TestPostPaymentPin_MismatchMapsToUnauthorized(t *testing.T) {
	payments := &gateway.PaymentsMock{ChargeErr: &gateway.StatusError{Code: nethttp.StatusUnauthorized}}
	ts := newTestServer(t, payments)

	created := postJSON(t, ts, "/payments", `{"booking_id":"booking-1","amount":20000,"method":"wallet"}`, nethttp.StatusCreated)
	paymentID := created["payment_id"].(string)

	var last *nethttp.Response
	for _, digit := range []int{1, 2, 3, 4, 5, 6} {
		body := strings.NewReader(`{"digit":` + strconv.Itoa(digit) + `}`)
		resp, err := ts.Client().Post(ts.URL+"/payments/"+paymentID+"/pin", "application/json", body)
		require.NoError(t, err)
		if last != nil {
			last.Body.Close()
		}
		last = resp
	}
	defer last.Body.Close()

	assert.Equal(t, nethttp.StatusUnauthorized, last.StatusCode)

	var errBody map[string]any
	require.NoError(t, json.NewDecoder(last.Body).Decode(&errBody))
	assert.Equal(t, "비밀번호가 일치하지 않습니다", errBody["message"])
}

func TestPostPayments_RejectsUnknownMethod(t *testing.T) {
	ts := newTestServer(t, &gateway.PaymentsMock{})

	resp, err := ts.Client().Post(ts.URL+"/payments", "application/json",
		strings.NewReader(`{"booking_id":"booking-1","amount":20000,"method":"cash"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestGetPayment_UnknownAttemptIsNotFound(t *testing.T) {
	ts := newTestServer(t, &gateway.PaymentsMock{})

	resp, err := ts.Client().Get(ts.URL + "/payments/pay_nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestPostBookingRelease_WithoutTicketIsNotFound(t *testing.T) {
	ts := newTestServer(t, &gateway.PaymentsMock{})

	resp, err := ts.Client().Post(ts.URL+"/booking/release", "application/json",
		strings.NewReader(`{"festival_id":"fest-1","reservation_date":"2026-09-01"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string, wantStatus int) map[string]any {
	t.Helper()

	resp, err := ts.Client().Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}
