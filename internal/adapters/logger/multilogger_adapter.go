package logger_adapter

import (
	"fmt"
	"search-service/internal/core/port"
)

// MultiLoggerAdapter fans every record out to all wrapped loggers.
type MultiLoggerAdapter struct {
	sinks []port.LoggerPort
}

// NewMultiloggerAdapter skips nil loggers. A single remaining logger is
// returned as is.
func NewMultiloggerAdapter(loggers ...port.LoggerPort) (port.LoggerPort, error) {
	sinks := make([]port.LoggerPort, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			sinks = append(sinks, l)
		}
	}
	switch len(sinks) {
	case 0:
		return nil, fmt.Errorf("multilogger: at least one logger is required")
	case 1:
		return sinks[0], nil
	}
	return &MultiLoggerAdapter{sinks: sinks}, nil
}

func (m *MultiLoggerAdapter) fanOut(emit func(port.LoggerPort)) {
	for _, sink := range m.sinks {
		emit(sink)
	}
}

func (m *MultiLoggerAdapter) Info(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Info(msg, fields) })
}

func (m *MultiLoggerAdapter) Warn(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Warn(msg, fields) })
}

func (m *MultiLoggerAdapter) Error(msg string, err error, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Error(msg, err, fields) })
}

func (m *MultiLoggerAdapter) Debug(msg string, fields port.Fields) {
	m.fanOut(func(l port.LoggerPort) { l.Debug(msg, fields) })
}

func (m *MultiLoggerAdapter) WithFields(fields port.Fields) port.LoggerPort {
	child := &MultiLoggerAdapter{sinks: make([]port.LoggerPort, 0, len(m.sinks))}
	m.fanOut(func(l port.LoggerPort) { child.sinks = append(child.sinks, l.WithFields(fields)) })
	return child
}
