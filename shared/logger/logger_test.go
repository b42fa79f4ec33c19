package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayledger/config"
	"stayledger/shared/constant"
	"stayledger/shared/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()

	original := log.Logger
	originalLevel := zerolog.GlobalLevel()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})

	return &buf
}

func TestInitLogger(t *testing.T) {
	captureLogs(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "loud", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			captureLogs(t)

			cfg := &config.Config{}
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestErrorWithStack(t *testing.T) {
	buf := captureLogs(t)

	logger.ErrorWithStack(errors.New("exclusion constraint missing"))
	logger.ErrorWithStack(nil)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	assert.Contains(t, string(lines[0]), "exclusion constraint missing")
	assert.Contains(t, string(lines[0]), `"level":"error"`)
}

func TestCtx(t *testing.T) {
	buf := captureLogs(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := context.WithValue(context.Background(), chiMiddleware.RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, constant.ContextKeyUserID, "guest-1")

	logger.Ctx(ctx).Info().Msg("booking reserved")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "guest-1", entry["user_id"])
	assert.Equal(t, "booking reserved", entry["message"])
}
