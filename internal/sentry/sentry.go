package sentry

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/wjt/sms-query/internal/config"
	"github.com/wjt/sms-query/internal/logger"
)

// Error monitoring is strictly opt-in: nothing is reported unless the
// config enables it and provides a DSN.

var (
	enabled bool
	log     *logger.Logger
)

// Initialize sets up Sentry error monitoring from the configuration.
// With monitoring disabled every other function in this package is a
// no-op.
func Initialize(cfg *config.Config, version string) error {
	log = logger.GetLogger().WithComponent("sentry")

	if cfg == nil || !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		enabled = false
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		SampleRate:  cfg.Sentry.SampleRate,
		Release:     fmt.Sprintf("sms-query@%s", version),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}

	enabled = true
	log.Debug().Str("environment", cfg.Sentry.Environment).Msg("Sentry initialized")
	return nil
}

// IsEnabled returns whether error monitoring is active
func IsEnabled() bool {
	return enabled
}

// CaptureError reports an error with component and operation tags
func CaptureError(err error, component, operation string) {
	if !enabled || err == nil {
		return
	}

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("component", component)
		scope.SetTag("operation", operation)
		sentry.CaptureException(err)
	})
}

// Flush waits for buffered events to be sent
func Flush(timeout time.Duration) bool {
	if !enabled {
		return true
	}
	return sentry.Flush(timeout)
}

// Close flushes and shuts down the Sentry client
func Close() {
	if !enabled {
		return
	}
	sentry.Flush(2 * time.Second)
	enabled = false
}
