package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger builds the process logger from the configured level and format.
// An empty level means debug in development and info elsewhere. format is
// "json" or "text"; empty picks text in development and json elsewhere.
func InitLogger(level, format string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if level == "" {
		level = "info"
		if isDevelopment {
			level = "debug"
		}
	}
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if useJSON(format, isDevelopment) {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if err != nil {
		log.WithField("invalid_level", level).Warn("Invalid LOG_LEVEL, using INFO")
	}

	Logger = log
	return log
}

func useJSON(format string, isDevelopment bool) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return true
	case "text":
		return false
	default:
		return !isDevelopment
	}
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", "", false)
	}
	return Logger
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}
