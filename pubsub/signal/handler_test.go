package signal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tekcit/entity"
	"tekcit/gateway"
	"tekcit/pubsub/signal"
)

func TestWaitingReleasedHandler_DeliversToBackend(t *testing.T) {
	booking := &gateway.BookingMock{}
	handler := signal.NewHandler(booking).WaitingReleasedHandler()

	err := handler.Handle(context.Background(), &entity.WaitingReleased{
		Header:          entity.NewEventHeader(),
		FestivalID:      "fest-1",
		ReservationDate: "2026-09-01",
		UserID:          "42",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fest-1/2026-09-01"}, booking.Released())
	assert.Empty(t, booking.Exited())
}

func TestWaitingExitedHandler_DeliversToBackend(t *testing.T) {
	booking := &gateway.BookingMock{}
	handler := signal.NewHandler(booking).WaitingExitedHandler()

	err := handler.Handle(context.Background(), &entity.WaitingExited{
		Header:          entity.NewEventHeader(),
		FestivalID:      "fest-1",
		ReservationDate: "2026-09-01",
		UserID:          "42",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"fest-1/2026-09-01"}, booking.Exited())
}

func TestSignalHandlers_SwallowDeliveryFailures(t *testing.T) {
	booking := &gateway.BookingMock{
		ReleaseErr: errors.New("backend down"),
		ExitErr:    errors.New("backend down"),
	}
	h := signal.NewHandler(booking)

	// A handler error would mean redelivery, and leave signals must fire
	// at most once. Failures are logged and dropped instead.
	err := h.WaitingReleasedHandler().Handle(context.Background(), &entity.WaitingReleased{
		Header:     entity.NewEventHeader(),
		FestivalID: "fest-1",
	})
	assert.NoError(t, err)

	err = h.WaitingExitedHandler().Handle(context.Background(), &entity.WaitingExited{
		Header:     entity.NewEventHeader(),
		FestivalID: "fest-1",
	})
	assert.NoError(t, err)

	assert.Len(t, booking.Released(), 1)
	assert.Len(t, booking.Exited(), 1)
}
