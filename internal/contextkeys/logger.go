package contextkeys

import (
	"context"

	"search-service/internal/core/port"
)

// ContextWithLogger stores a request-scoped logger in ctx.
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext returns the request logger. Code running outside a
// request (tests, the cache tool before setup) gets a discarding logger.
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return discard{}
}

type discard struct{}

func (discard) Info(string, port.Fields)         {}
func (discard) Warn(string, port.Fields)         {}
func (discard) Error(string, error, port.Fields) {}
func (discard) Debug(string, port.Fields)        {}

func (d discard) WithFields(port.Fields) port.LoggerPort { return d }
