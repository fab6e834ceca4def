package logger

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func resetLogger(t *testing.T) {
	t.Helper()
	log = nil
	once = sync.Once{}
	t.Cleanup(func() {
		log = nil
		once = sync.Once{}
	})
}

func TestGetLogger_NopBeforeInit(t *testing.T) {
	resetLogger(t)
	require.NotNil(t, GetLogger())
	Info(context.Background(), "dropped")
}

func TestInitAndContextLogging(t *testing.T) {
	resetLogger(t)
	Init("development")
	require.NotNil(t, GetLogger())

	ctx := context.WithValue(context.Background(), "request_id", "req-1")
	ctx = context.WithValue(ctx, ActorIDKey, "user-1")
	require.NotNil(t, WithContext(ctx))

	Info(ctx, "info")
	Debug(ctx, "debug")
	Warn(ctx, "warn")
	Error(ctx, "error")
	LogRequest(ctx, "GET", "/health", 200, 10*time.Millisecond, "127.0.0.1")
}

func TestWithContext_NilAndTypedKey(t *testing.T) {
	resetLogger(t)
	Init("production")

	//nolint:staticcheck
	require.NotNil(t, WithContext(nil))

	ctx := context.WithValue(context.Background(), RequestIDKey, "typed-req-id")
	require.NotNil(t, WithContext(ctx))
	SetLevel(zapcore.WarnLevel)
	require.False(t, GetLogger().Core().Enabled(zapcore.InfoLevel))
}

func TestInit_PanicWhenLoggerBuildFails(t *testing.T) {
	resetLogger(t)
	origBuild := buildLogger
	t.Cleanup(func() { buildLogger = origBuild })

	buildLogger = func(zap.Config) (*zap.Logger, error) {
		return nil, errors.New("build failed")
	}

	require.Panics(t, func() { Init("production") })
}
