package main

import (
	"context"
	"os"
	"os/signal"
	"stayledger/config"
	"stayledger/di"
	"stayledger/shared/logger"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	argLength = 2
	argOnce   = "once"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reconciler := di.InitializeReconciler()

	if len(os.Args) >= argLength && os.Args[1] == argOnce {
		report, err := reconciler.RunOnce(ctx, time.Now())
		if err != nil {
			log.Error().Err(err).Str("run_id", report.RunID).Msg("Reconciler run failed")
			stop()
			os.Exit(1)
		}

		return
	}

	reconciler.Run(ctx)
}
