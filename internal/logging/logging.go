package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/vancomm/minesweeper/internal/config"
)

// Setup applies cfg to every logger in loggers. Console output stays text;
// when a log file is configured each logger also writes JSON lines to it
// through a size-rotated hook.
func Setup(cfg config.Log, loggers ...*logrus.Logger) error {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("unable to parse log level: %w", err)
	}

	var hook logrus.Hook
	if cfg.File != "" {
		hook, err = rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Level:      level,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return fmt.Errorf("unable to open log file %s: %w", cfg.File, err)
		}
	}

	for _, log := range loggers {
		log.SetLevel(level)
		log.SetFormatter(&logrus.TextFormatter{ForceColors: config.Development()})
		if hook != nil {
			log.AddHook(hook)
		}
	}
	return nil
}
