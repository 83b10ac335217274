package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"tekcit/entity"
	"tekcit/keypad"
	"tekcit/payment"
)

type postPaymentsRequest struct {
	BookingID string `json:"booking_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

type paymentAttemptResponse struct {
	PaymentID   string `json:"payment_id"`
	BookingID   string `json:"booking_id"`
	SellerID    string `json:"seller_id"`
	Amount      int64  `json:"amount"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	PinLength   int    `json:"pin_length"`
}

func (s *Server) newPaymentAttemptResponse(attempt entity.PaymentAttempt) paymentAttemptResponse {
	pinLength, _ := s.payments.PinLength(attempt.PaymentID)
	return paymentAttemptResponse{
		PaymentID:   attempt.PaymentID,
		BookingID:   attempt.BookingID,
		SellerID:    attempt.SellerID,
		Amount:      attempt.Amount,
		Method:      string(attempt.Method),
		Status:      string(attempt.Status),
		CheckoutURL: attempt.CheckoutURL,
		PinLength:   pinLength,
	}
}

func (s *Server) PostPayments(c echo.Context) error {
	var request postPaymentsRequest
	if err := c.Bind(&request); err != nil {
		return err
	}
	if request.BookingID == "" || request.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "booking_id and a positive amount are required")
	}

	method := entity.PaymentMethod(request.Method)
	if method != entity.PaymentMethodWallet && method != entity.PaymentMethodRedirect {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown payment method")
	}

	attempt, err := s.payments.Start(c.Request().Context(), request.BookingID, request.Amount, method)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "결제를 시작할 수 없습니다")
	}

	return c.JSON(http.StatusCreated, s.newPaymentAttemptResponse(attempt))
}

func (s *Server) GetPayment(c echo.Context) error {
	attempt, err := s.payments.Attempt(c.Param("payment_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "unknown payment attempt")
	}
	return c.JSON(http.StatusOK, s.newPaymentAttemptResponse(attempt))
}

type paymentPinRequest struct {
	Digit *int `json:"digit"`
	Clear bool `json:"clear"`
}

func (s *Server) PostPaymentPin(c echo.Context) error {
	paymentID := c.Param("payment_id")

	var request paymentPinRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Clear {
		if err := s.payments.ClearPIN(paymentID); err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "unknown payment attempt")
		}
		return c.NoContent(http.StatusNoContent)
	}

	if request.Digit == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "digit or clear is required")
	}

	attempt, err := s.payments.PushDigit(c.Request().Context(), paymentID, *request.Digit)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, s.newPaymentAttemptResponse(attempt))
	case errors.Is(err, payment.ErrPINMismatch):
		// generic on purpose: no hint about which part of the request failed
		return echo.NewHTTPError(http.StatusUnauthorized, payment.ErrPINMismatch.Error())
	case errors.Is(err, payment.ErrAttemptNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "unknown payment attempt")
	case errors.Is(err, payment.ErrWalletOnly), errors.Is(err, keypad.ErrInvalidDigit):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, payment.ErrAttemptTerminal), errors.Is(err, keypad.ErrBufferFull):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return err
	}
}

func (s *Server) PostPaymentConfirm(c echo.Context) error {
	attempt, err := s.payments.Confirm(c.Request().Context(), c.Param("payment_id"))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, s.newPaymentAttemptResponse(attempt))
	case errors.Is(err, payment.ErrAttemptNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "unknown payment attempt")
	case errors.Is(err, payment.ErrConfirmInFlight):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, payment.ErrPaymentFailed):
		return c.JSON(http.StatusPaymentRequired, s.newPaymentAttemptResponse(attempt))
	default:
		return err
	}
}

func (s *Server) GetKeypad(c echo.Context) error {
	layout, err := keypad.Shuffle()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"layout": layout[:]})
}
