package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"tekcit/config"
	"tekcit/service"
	"tekcit/tracing"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JaegerEndpoint != "" {
		tp := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer rdb.Close()

	svc := service.New(cfg, rdb)
	if err := svc.Run(ctx); err != nil {
		panic(err)
	}
}
