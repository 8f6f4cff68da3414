package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger implements GORM's logger interface on top of logrus
type GormLogger struct {
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger creates a GORM logger with the given level name and slow query threshold
func NewGormLogger(level string, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		level:         MapGormLogLevel(level),
		slowThreshold: slowThreshold,
	}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.WithField("component", "gorm").Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.WithField("component", "gorm").Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.WithField("component", "gorm").Errorf(msg, data...)
	}
}

// Trace implements gormlogger.Interface and logs SQL statements
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := log.Fields{
		"component": "gorm",
		"elapsed":   elapsed.String(),
		"rows":      rows,
		"sql":       sql,
	}
	if requestID := RequestIDFrom(ctx); requestID != "" {
		fields["request_id"] = requestID
	}

	switch {
	case err != nil && l.level >= gormlogger.Error:
		if errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		fields["error"] = err.Error()
		log.WithFields(fields).Error("SQL error")
	case l.slowThreshold != 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		log.WithFields(fields).Warn(fmt.Sprintf("SLOW SQL >= %v", l.slowThreshold))
	case l.level >= gormlogger.Info:
		log.WithFields(fields).Debug("SQL query")
	}
}

// MapGormLogLevel maps a level name to a GORM log level
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "warn":
		return gormlogger.Warn
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
