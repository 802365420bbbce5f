//nolint:goprintffuncname
package sql

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LoggerAdaptorConfig struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

// loggerAdaptor sends gorm's log output to logrus.
type loggerAdaptor struct {
	logger *logrus.Logger
	config LoggerAdaptorConfig
}

//nolint:ireturn
func NewLoggerAdaptor(l *logrus.Logger, cfg LoggerAdaptorConfig) logger.Interface {
	return &loggerAdaptor{logger: l, config: cfg}
}

// LogMode is a no-op: the logrus level decides what is written.
//
//nolint:ireturn
func (l *loggerAdaptor) LogMode(logger.LogLevel) logger.Interface {
	return l
}

const callerSearchDepth = 16

// entry annotates the log line with the first caller outside of gorm.
func (l *loggerAdaptor) entry(ctx context.Context) *logrus.Entry {
	entry := l.logger.WithContext(ctx).WithField("component", "gorm")

	pcs := make([]uintptr, callerSearchDepth)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(3, pcs)])

	for {
		frame, more := frames.Next()
		if frame.Function != "" &&
			!strings.HasPrefix(frame.Function, "gorm.io/") &&
			!strings.Contains(frame.Function, "store/sql.(*loggerAdaptor)") {
			return entry.WithField("caller", fmt.Sprintf("%s:%d", frame.File, frame.Line))
		}

		if !more {
			return entry
		}
	}
}

func (l *loggerAdaptor) Info(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Infof(format, args...)
}

func (l *loggerAdaptor) Warn(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Warnf(format, args...)
}

func (l *loggerAdaptor) Error(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Errorf(format, args...)
}

// Trace logs one executed statement: failures at error level, statements
// slower than SlowThreshold at warn level, everything else at debug level.
func (l *loggerAdaptor) Trace(
	ctx context.Context,
	begin time.Time,
	statement func() (sql string, rowsAffected int64),
	err error,
) {
	elapsed := time.Since(begin)

	withSQL := func() *logrus.Entry {
		sql, rows := statement()

		fields := logrus.Fields{
			"elapsed": elapsed.String(),
			"sql":     sql,
			"rows":    rows,
		}
		if rows < 0 {
			fields["rows"] = "-"
		}

		return l.entry(ctx).WithFields(fields)
	}

	switch {
	case err != nil && !(l.config.IgnoreRecordNotFoundError && errors.Is(err, gorm.ErrRecordNotFound)):
		if l.logger.IsLevelEnabled(logrus.ErrorLevel) {
			withSQL().WithError(err).Error("SQL error")
		}
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold:
		if l.logger.IsLevelEnabled(logrus.WarnLevel) {
			withSQL().Warnf("Slow SQL (>= %s)", l.config.SlowThreshold)
		}
	case l.logger.IsLevelEnabled(logrus.DebugLevel):
		withSQL().Debug("SQL trace")
	}
}
