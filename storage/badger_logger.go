package storage

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// badgerLogger redirects badger's printf-style logs to slog, tagging each
// entry with the component so store logs stand apart from service logs.
type badgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) badger.Logger {
	return badgerLogger{logger: logger.With("component", "badger")}
}

// Badger terminates most lines with a newline.
func logLine(f string, v []any) string {
	return strings.TrimRight(fmt.Sprintf(f, v...), "\n")
}

func (l badgerLogger) Errorf(f string, v ...any)   { l.logger.Error(logLine(f, v)) }
func (l badgerLogger) Warningf(f string, v ...any) { l.logger.Warn(logLine(f, v)) }
func (l badgerLogger) Infof(f string, v ...any)    { l.logger.Info(logLine(f, v)) }
func (l badgerLogger) Debugf(f string, v ...any)   { l.logger.Debug(logLine(f, v)) }
