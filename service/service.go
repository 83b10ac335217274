package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tekcit/cache"
	"tekcit/config"
	"tekcit/gateway"
	httpserver "tekcit/http"
	"tekcit/log"
	"tekcit/payment"
	"tekcit/pubsub"
	"tekcit/pubsub/bus"
	"tekcit/pubsub/signal"
	"tekcit/session"
	"tekcit/waiting"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type Service struct {
	watermillRouter *message.Router
	httpServer      *httpserver.Server
	waitingManager  *waiting.Manager
}

func New(cfg config.Config, redisClient *redis.Client) Service {
	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	// the reissue call authenticates with the HTTP-only refresh credential,
	// not a bearer token, so the auth client skips the session transport
	baseClients := gateway.NewClients(cfg.BackendAddr, nil)
	authClient := gateway.NewAuthClient(baseClients)
	sessions := session.NewManager(authClient)

	authedClients := gateway.NewClients(cfg.BackendAddr, session.Transport{Manager: sessions})
	bookingClient := gateway.NewBookingClient(authedClients)
	paymentsClient := gateway.NewPaymentsClient(authedClients)
	festivalClient := gateway.NewFestivalClient(authedClients)
	pushClient := gateway.NewPushClient(authedClients)

	redisPublisher := pubsub.NewRedisPublisher(redisClient, watermillLogger)

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(err)
	}

	signalHandler := signal.NewHandler(bookingClient)
	eventProcessorConfig := pubsub.NewProcessorConfig(
		pubsub.NewRedisSubscriberConstructor(redisClient, watermillLogger),
		watermillLogger,
	)

	watermillRouter, err := pubsub.NewWatermillRouter(eventProcessorConfig, signalHandler, watermillLogger)
	if err != nil {
		panic(err)
	}

	waitingManager := waiting.NewManager(bookingClient, eventBus, cfg.PollInterval)
	paymentCoordinator := payment.NewCoordinator(paymentsClient, payment.WithAttemptTTL(cfg.AttemptTTL))

	httpServer := httpserver.NewServer(
		cfg.Addr,
		sessions,
		waitingManager,
		paymentCoordinator,
		festivalClient,
		pushClient,
		cache.New(),
		cfg.FestivalTTL,
		cfg.QueueStatusTTL,
	)

	return Service{
		watermillRouter: watermillRouter,
		httpServer:      httpServer,
		waitingManager:  waitingManager,
	}
}

func (s Service) Run(ctx context.Context) error {
	defer s.waitingManager.Stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		// signal delivery must be running before we accept leave requests
		<-s.watermillRouter.Running()
		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
