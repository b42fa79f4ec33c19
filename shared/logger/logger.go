package logger

import (
	"context"
	"io"
	"os"
	"stayledger/config"
	"stayledger/shared/constant"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var structuredEnvs = map[string]bool{
	"production": true,
	"staging":    true,
}

// InitLogger installs a human readable console logger at trace level. SetLogLevel narrows it
// once the configuration is known.
func InitLogger() {
	initLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

func initLogger(out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// SetLogLevel applies SERVER_LOG_LEVEL, defaulting to info. Production and staging switch to
// JSON lines tagged with the service name.
func SetLogLevel(cfg *config.Config) {
	if structuredEnvs[cfg.Server.Env] {
		log.Logger = zerolog.New(os.Stdout).With().
			Timestamp().
			Str("service", cfg.App.Name).
			Str("env", cfg.Server.Env).
			Logger()
	}

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil || cfg.Server.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("loglevel", level.String()).Msg("Log level set")
}

// ErrorWithStack logs err with the stack of the caller attached.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Msgf("%+v", errors.WithStack(err))
}

// Ctx returns the global logger enriched with the request id and the caller stored on ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	builder := log.Logger.With()

	if requestID := chiMiddleware.GetReqID(ctx); requestID != "" {
		builder = builder.Str("request_id", requestID)
	}

	if userID, ok := ctx.Value(constant.ContextKeyUserID).(string); ok && userID != "" {
		builder = builder.Str("user_id", userID)
	}

	logger := builder.Logger()

	return &logger
}
