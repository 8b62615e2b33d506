package searchapi

import (
	"github.com/rs/zerolog"

	"github.com/flight-search/flight-booking-system/internal/infrastructure/logger"
)

// leveledLogger routes retryablehttp's logs through zerolog.
type leveledLogger struct {
	log *logger.Logger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Error(), msg, keysAndValues)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Warn(), msg, keysAndValues)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Debug(), msg, keysAndValues)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(l.log.Trace(), msg, keysAndValues)
}

func (leveledLogger) emit(e *zerolog.Event, msg string, keysAndValues []interface{}) {
	if len(keysAndValues) > 0 {
		e = e.Fields(keysAndValues)
	}
	e.Msg(msg)
}
