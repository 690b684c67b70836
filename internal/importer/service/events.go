package service

import (
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/gosdk/logger"
)

// events writes notable events to both the structured logger and the dataset journal.
type events struct {
	journal port.Journal
}

func (e events) info(msg string, keysAndValues ...any) {
	logger.Infow(msg, keysAndValues...)
	e.record(port.LevelInfo, msg, keysAndValues)
}

func (e events) warn(msg string, keysAndValues ...any) {
	logger.Warnw(msg, keysAndValues...)
	e.record(port.LevelWarn, msg, keysAndValues)
}

func (e events) error(msg string, keysAndValues ...any) {
	logger.Errorw(msg, keysAndValues...)
	e.record(port.LevelError, msg, keysAndValues)
}

func (e events) record(level, msg string, keysAndValues []any) {
	if e.journal != nil {
		e.journal.Record(level, msg, keysAndValues...)
	}
}
