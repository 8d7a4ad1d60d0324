package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	log  *logrus.Logger
	once sync.Once
)

// Init configures the shared logger. Safe to call once at startup;
// subsequent GetLogger calls return the same instance.
func Init(level string) {
	once.Do(func() {
		log = logrus.New()
		log.SetOutput(os.Stdout)
		log.SetFormatter(&logrus.JSONFormatter{})

		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			parsed = logrus.InfoLevel
		}
		log.SetLevel(parsed)
	})
}

// GetLogger returns the shared logger, initializing it with defaults if
// Init was never called (useful in tests).
func GetLogger() *logrus.Logger {
	if log == nil {
		Init("info")
	}
	return log
}
