package gateway

import (
	"context"
	"fmt"
	"net/url"
)

type BookingClient struct {
	clients *Clients
}

func NewBookingClient(clients *Clients) BookingClient {
	return BookingClient{clients: clients}
}

type EnterResponse struct {
	UserID         string `json:"userId"`
	WaitingNumber  int    `json:"waitingNumber"`
	ImmediateEntry bool   `json:"immediateEntry"`
	Message        string `json:"message"`
}

// Enter requests a queue slot for the given festival and date. The backend
// owns the ordering; the same call doubles as the position poll.
func (c BookingClient) Enter(ctx context.Context, festivalID, reservationDate string) (EnterResponse, error) {
	query := url.Values{}
	query.Set("festivalId", festivalID)
	query.Set("reservationDate", reservationDate)

	var resp EnterResponse
	if err := c.clients.getJSON(ctx, "/api/booking/enter", query, &resp); err != nil {
		return EnterResponse{}, fmt.Errorf("could not enter waiting queue: %w", err)
	}
	return resp, nil
}

// Release tells the backend an admitted user left the booking page. The
// answer is a plain acknowledgement the caller does not need.
func (c BookingClient) Release(ctx context.Context, festivalID, reservationDate string) error {
	query := url.Values{}
	query.Set("festivalId", festivalID)
	query.Set("reservationDate", reservationDate)

	if err := c.clients.getJSON(ctx, "/api/booking/release", query, nil); err != nil {
		return fmt.Errorf("could not send release signal: %w", err)
	}
	return nil
}

// Exit tells the backend a waiting user gave up their place in line.
func (c BookingClient) Exit(ctx context.Context, festivalID, reservationDate string) error {
	query := url.Values{}
	query.Set("festivalId", festivalID)
	query.Set("reservationDate", reservationDate)

	if err := c.clients.getJSON(ctx, "/api/booking/exit", query, nil); err != nil {
		return fmt.Errorf("could not send exit signal: %w", err)
	}
	return nil
}
