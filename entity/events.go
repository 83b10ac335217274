package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

// WaitingReleased is the best-effort signal sent when a user leaves the
// booking page after admission. Delivery is a courtesy to the backend so it
// can advance the next waiting party; it is never retried and its failure is
// never surfaced.
type WaitingReleased struct {
	Header          EventHeader `json:"header"`
	FestivalID      string      `json:"festival_id"`
	ReservationDate string      `json:"reservation_date"`
	UserID          string      `json:"user_id"`
}

// WaitingExited is the voluntary leave signal from the Waiting state.
// Same best-effort semantics as WaitingReleased.
type WaitingExited struct {
	Header          EventHeader `json:"header"`
	FestivalID      string      `json:"festival_id"`
	ReservationDate string      `json:"reservation_date"`
	UserID          string      `json:"user_id"`
}
