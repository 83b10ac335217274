package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"tekcit/cache"
	"tekcit/entity"
	"tekcit/waiting"
)

type bookingEnterRequest struct {
	FestivalID      string `json:"festival_id"`
	ReservationDate string `json:"reservation_date"`
}

type waitingTicketResponse struct {
	FestivalID      string `json:"festival_id"`
	ReservationDate string `json:"reservation_date"`
	Status          string `json:"status"`
	WaitingNumber   int    `json:"waiting_number"`
	Admitted        bool   `json:"admitted"`
	Message         string `json:"message,omitempty"`
}

func newWaitingTicketResponse(ticket entity.WaitingTicket) waitingTicketResponse {
	return waitingTicketResponse{
		FestivalID:      ticket.FestivalID,
		ReservationDate: ticket.ReservationDate,
		Status:          string(ticket.Status),
		WaitingNumber:   ticket.WaitingNumber,
		Admitted:        ticket.Admitted(),
		Message:         ticket.Message,
	}
}

func queueStatusKey(festivalID, reservationDate string) string {
	return cache.Key("bookingStatus", festivalID, reservationDate)
}

func (s *Server) PostBookingEnter(c echo.Context) error {
	var request bookingEnterRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.FestivalID == "" || request.ReservationDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "festival_id and reservation_date are required")
	}

	ticket, err := s.waiting.Enter(c.Request().Context(), request.FestivalID, request.ReservationDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "대기열 입장에 실패했습니다")
	}

	s.queries.Invalidate(queueStatusKey(request.FestivalID, request.ReservationDate))

	return c.JSON(http.StatusOK, newWaitingTicketResponse(ticket))
}

func (s *Server) GetBookingStatus(c echo.Context) error {
	festivalID := c.QueryParam("festival_id")
	reservationDate := c.QueryParam("reservation_date")
	if festivalID == "" || reservationDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "festival_id and reservation_date are required")
	}

	value, err := s.queries.GetOrFetch(
		c.Request().Context(),
		queueStatusKey(festivalID, reservationDate),
		s.queueStatusTTL,
		func(ctx context.Context) (any, error) {
			return s.waiting.Status(festivalID, reservationDate)
		},
	)
	if err != nil {
		if errors.Is(err, waiting.ErrNotWaiting) {
			return echo.NewHTTPError(http.StatusNotFound, "no waiting ticket")
		}
		return err
	}

	return c.JSON(http.StatusOK, newWaitingTicketResponse(value.(entity.WaitingTicket)))
}

func (s *Server) GetBookings(c echo.Context) error {
	tickets := s.waiting.Tickets()
	return c.JSON(http.StatusOK, lo.Map(tickets, func(ticket entity.WaitingTicket, _ int) waitingTicketResponse {
		return newWaitingTicketResponse(ticket)
	}))
}

func (s *Server) PostBookingExit(c echo.Context) error {
	var request bookingEnterRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if err := s.waiting.Exit(request.FestivalID, request.ReservationDate); err != nil {
		if errors.Is(err, waiting.ErrNotWaiting) {
			return echo.NewHTTPError(http.StatusNotFound, "no waiting ticket")
		}
		return err
	}

	s.queries.Invalidate(queueStatusKey(request.FestivalID, request.ReservationDate))

	// the signal is dispatch-and-discard; nothing left to wait for
	return c.NoContent(http.StatusAccepted)
}

func (s *Server) PostBookingRelease(c echo.Context) error {
	var request bookingEnterRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if err := s.waiting.Release(request.FestivalID, request.ReservationDate); err != nil {
		if errors.Is(err, waiting.ErrNotWaiting) {
			return echo.NewHTTPError(http.StatusNotFound, "no waiting ticket")
		}
		return err
	}

	s.queries.Invalidate(queueStatusKey(request.FestivalID, request.ReservationDate))

	return c.NoContent(http.StatusAccepted)
}
