// Package logging handles log setup including rotation.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"git.uuxo.net/uuxo/minimime/internal/config"
)

// Setup configures the logger from the logging section of the config.
// Without a file the log goes to stderr; with one it is rotated in place.
func Setup(log *logrus.Logger, cfg config.LoggingConfig) {
	switch cfg.Level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if cfg.File != "" {
		maxSize := cfg.MaxSize
		if maxSize == 0 {
			maxSize = 100
		}
		maxBackups := cfg.MaxBackups
		if maxBackups == 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAge
		if maxAge == 0 {
			maxAge = 28
		}

		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   cfg.Compress,
		})
	} else {
		log.SetOutput(os.Stderr)
	}

	log.Debugf("Logging initialized at level: %s", cfg.Level)
}
