package entity

import "time"

type WaitingStatus string

const (
	WaitingStatusIdle     WaitingStatus = "idle"
	WaitingStatusEntering WaitingStatus = "entering"
	WaitingStatusWaiting  WaitingStatus = "waiting"
	WaitingStatusAdmitted WaitingStatus = "admitted"
	WaitingStatusReleased WaitingStatus = "released"
	WaitingStatusExited   WaitingStatus = "exited"
)

// WaitingTicket is the client-held record of a queue position for one
// (festival, reservation date) pair. It lives only as long as the booking
// flow that owns it; there is no persistence across restarts.
type WaitingTicket struct {
	FestivalID      string        `json:"festival_id"`
	ReservationDate string        `json:"reservation_date"`
	UserID          string        `json:"user_id"`
	WaitingNumber   int           `json:"waiting_number"`
	ImmediateEntry  bool          `json:"immediate_entry"`
	Message         string        `json:"message"`
	Status          WaitingStatus `json:"status"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (t WaitingTicket) Admitted() bool {
	return t.Status == WaitingStatusAdmitted
}
