package main

import (
	"context"
	"stayledger/config"
	"stayledger/di"
	"stayledger/helper"
	"stayledger/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title stayledger API
// @version 1.0
// @description Booking admission, pricing, coupons and idempotent payments.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	if cfg.Kafka.Enable && cfg.Reconciler.ConsumeCancelled {
		events := di.InitializeEventHandler()

		go events.Consume(context.Background())
	}

	http := di.InitializeService()
	http.Serve()
}
