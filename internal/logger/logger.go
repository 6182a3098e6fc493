package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/reservation-desk/backend/internal/config"
	"github.com/sirupsen/logrus"
)

// Init configures the logrus standard logger used across the service.
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.Level, err)
	}

	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
