package config

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr           string `long:"addr" env:"ADDR" default:":8080" description:"HTTP listen address"`
	BackendAddr    string `long:"backend-addr" env:"BACKEND_ADDR" default:"http://localhost:8090" description:"ticketing backend base URL"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"redis address for the signal stream"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" description:"jaeger collector endpoint"`

	PollInterval   time.Duration `long:"poll-interval" env:"POLL_INTERVAL" default:"3s" description:"waiting queue poll interval"`
	AttemptTTL     time.Duration `long:"attempt-ttl" env:"ATTEMPT_TTL" default:"30m" description:"how long finished payment attempts are kept"`
	FestivalTTL    time.Duration `long:"festival-ttl" env:"FESTIVAL_TTL" default:"5m" description:"festival detail cache staleness window"`
	QueueStatusTTL time.Duration `long:"queue-status-ttl" env:"QUEUE_STATUS_TTL" default:"2s" description:"booking status cache staleness window"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := flags.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("could not parse config: %w", err)
	}

	return cfg, nil
}
