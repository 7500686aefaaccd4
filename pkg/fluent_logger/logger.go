package fluentlogger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// Config holds the Fluent Bit forward-input settings.
type Config struct {
	Host      string // "127.0.0.1" or "fluent-bit" inside docker
	Port      int    // usually 24224
	TagPrefix string // prefix for every tag emitted by this service
	// Async makes Post non-blocking; records are buffered and flushed in the background.
	Async bool
}

// NewClient creates a Fluent Bit client. The forward protocol has no
// handshake, so a nil error does not mean the collector is reachable.
func NewClient(cfg Config) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluentd tag prefix is required")
	}

	logger, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        cfg.Async,
		Timeout:      3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluentd logger: %w", err)
	}

	return logger, nil
}
