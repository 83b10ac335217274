package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"tekcit/cache"
	"tekcit/entity"
	"tekcit/log"
)

type SessionManager interface {
	Bootstrap(ctx context.Context)
	Current() entity.Session
	SetAccessToken(token string)
	Clear()
}

type WaitingManager interface {
	Enter(ctx context.Context, festivalID, reservationDate string) (entity.WaitingTicket, error)
	Status(festivalID, reservationDate string) (entity.WaitingTicket, error)
	Tickets() []entity.WaitingTicket
	Release(festivalID, reservationDate string) error
	Exit(festivalID, reservationDate string) error
}

type PaymentCoordinator interface {
	Start(ctx context.Context, bookingID string, amount int64, method entity.PaymentMethod) (entity.PaymentAttempt, error)
	PushDigit(ctx context.Context, paymentID string, digit int) (entity.PaymentAttempt, error)
	ClearPIN(paymentID string) error
	Confirm(ctx context.Context, paymentID string) (entity.PaymentAttempt, error)
	Attempt(paymentID string) (entity.PaymentAttempt, error)
	PinLength(paymentID string) (int, error)
}

type FestivalGateway interface {
	Detail(ctx context.Context, festivalID string) (entity.Festival, error)
}

type PushGateway interface {
	RegisterToken(ctx context.Context, token string) error
}

type Server struct {
	addr string
	e    *echo.Echo

	sessions  SessionManager
	waiting   WaitingManager
	payments  PaymentCoordinator
	festivals FestivalGateway
	push      PushGateway

	queries        *cache.Cache
	festivalTTL    time.Duration
	queueStatusTTL time.Duration
}

func NewServer(
	addr string,
	sessions SessionManager,
	waitingManager WaitingManager,
	payments PaymentCoordinator,
	festivals FestivalGateway,
	push PushGateway,
	queries *cache.Cache,
	festivalTTL time.Duration,
	queueStatusTTL time.Duration,
) *Server {
	e := newEcho()

	server := &Server{
		addr:           addr,
		e:              e,
		sessions:       sessions,
		waiting:        waitingManager,
		payments:       payments,
		festivals:      festivals,
		push:           push,
		queries:        queries,
		festivalTTL:    festivalTTL,
		queueStatusTTL: queueStatusTTL,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/session/bootstrap", server.PostSessionBootstrap)
	e.GET("/session", server.GetSession)
	e.DELETE("/session", server.DeleteSession)

	e.POST("/booking/enter", server.PostBookingEnter)
	e.GET("/booking/status", server.GetBookingStatus)
	e.GET("/bookings", server.GetBookings)
	e.POST("/booking/exit", server.PostBookingExit)
	e.POST("/booking/release", server.PostBookingRelease)

	e.GET("/festivals/:festival_id", server.GetFestival)

	e.POST("/payments", server.PostPayments)
	e.GET("/payments/:payment_id", server.GetPayment)
	e.POST("/payments/:payment_id/pin", server.PostPaymentPin)
	e.POST("/payments/:payment_id/confirm", server.PostPaymentConfirm)

	e.GET("/keypad", server.GetKeypad)

	e.POST("/push/register", server.PostPushRegister)

	return server
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(otelecho.Middleware("tekcit"))
	e.Use(echomw.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := log.ContextWithNewCorrelationID(c.Request().Context())
			c.SetRequest(c.Request().WithContext(ctx))

			start := time.Now()
			err := next(c)

			log.FromContext(ctx).
				WithField("method", c.Request().Method).
				WithField("path", c.Path()).
				WithField("status", c.Response().Status).
				WithField("duration", time.Since(start).String()).
				Info("handled request")

			return err
		}
	})

	return e
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()
	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler exposes the echo engine for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
