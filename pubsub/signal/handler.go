// Package signal delivers the best-effort leave notifications to the
// backend. Delivery failure is swallowed by contract: these are courtesy
// signals, not protocol steps.
package signal

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"tekcit/entity"
	"tekcit/log"
	"tekcit/metrics"
)

type BookingGateway interface {
	Release(ctx context.Context, festivalID, reservationDate string) error
	Exit(ctx context.Context, festivalID, reservationDate string) error
}

type Handler struct {
	booking BookingGateway
}

func NewHandler(booking BookingGateway) Handler {
	return Handler{booking: booking}
}

func (h Handler) WaitingReleasedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"SendBookingRelease",
		func(ctx context.Context, event *entity.WaitingReleased) error {
			err := h.booking.Release(ctx, event.FestivalID, event.ReservationDate)
			if err != nil {
				log.FromContext(ctx).WithError(err).
					WithField("festival_id", event.FestivalID).
					Warn("release signal delivery failed, dropping")
				metrics.SignalDeliveryFailures.WithLabelValues("release").Inc()
			}
			// never an error: returning one would mean redelivery, and
			// these signals must fire at most once
			return nil
		},
	)
}

func (h Handler) WaitingExitedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"SendBookingExit",
		func(ctx context.Context, event *entity.WaitingExited) error {
			err := h.booking.Exit(ctx, event.FestivalID, event.ReservationDate)
			if err != nil {
				log.FromContext(ctx).WithError(err).
					WithField("festival_id", event.FestivalID).
					Warn("exit signal delivery failed, dropping")
				metrics.SignalDeliveryFailures.WithLabelValues("exit").Inc()
			}
			return nil
		},
	)
}
