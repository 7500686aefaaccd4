package rabbitmq

import (
	"fmt"
	"search-service/internal/core/port"
	"search-service/pkg/rabbitmq/rabbitmq_common"
)

// brokerLogger lets pkg/rabbitmq write key/value pairs to a LoggerPort.
type brokerLogger struct {
	target port.LoggerPort
}

// NewBrokerLogger wraps logger for the AMQP connection manager and publisher.
func NewBrokerLogger(logger port.LoggerPort) rabbitmq_common.Logger {
	return brokerLogger{target: logger}
}

// pairsToFields keeps non-string keys via fmt and stores a dangling value
// under "extra".
func pairsToFields(kv []interface{}) port.Fields {
	if len(kv) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			fields["extra"] = kv[i]
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		fields[key] = kv[i+1]
	}
	return fields
}

func (b brokerLogger) Debug(msg string, kv ...interface{}) { b.target.Debug(msg, pairsToFields(kv)) }
func (b brokerLogger) Info(msg string, kv ...interface{})  { b.target.Info(msg, pairsToFields(kv)) }
func (b brokerLogger) Warn(msg string, kv ...interface{})  { b.target.Warn(msg, pairsToFields(kv)) }

func (b brokerLogger) Error(err error, msg string, kv ...interface{}) {
	b.target.Error(msg, err, pairsToFields(kv))
}
