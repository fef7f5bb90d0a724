package db

import (
	"fmt"
	"strings"

	"github.com/Anggit1/Toko-baju/internal/infrastructure/logger"
	gormlogger "gorm.io/gorm/logger"
)

// badgerLogger routes Badger's internal messages into the service logger
type badgerLogger struct {
	log logger.Logger
}

func newBadgerLogger(log logger.Logger) *badgerLogger {
	return &badgerLogger{log: log.WithField("component", "badger")}
}

func (b *badgerLogger) Errorf(format string, args ...interface{}) {
	b.log.Error(badgerMessage(format, args), nil)
}

func (b *badgerLogger) Warningf(format string, args ...interface{}) {
	b.log.Warn(badgerMessage(format, args), nil)
}

func (b *badgerLogger) Infof(format string, args ...interface{}) {
	b.log.Info(badgerMessage(format, args), nil)
}

func (b *badgerLogger) Debugf(format string, args ...interface{}) {
	b.log.Debug(badgerMessage(format, args), nil)
}

func badgerMessage(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}

// gormWriter feeds GORM's logger output into the service logger
type gormWriter struct {
	log logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Info(strings.TrimSpace(fmt.Sprintf(format, args...)), nil)
}

// newGormLogger maps a service log level onto GORM's levels
func newGormLogger(log logger.Logger, level logger.Level) gormlogger.Interface {
	gormLevel := gormlogger.Warn
	switch level {
	case logger.DebugLevel:
		gormLevel = gormlogger.Info
	case logger.ErrorLevel, logger.FatalLevel:
		gormLevel = gormlogger.Error
	}

	return gormlogger.New(gormWriter{log: log.WithField("component", "gorm")}, gormlogger.Config{
		LogLevel:                  gormLevel,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
