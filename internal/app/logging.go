package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/five82/loopback/internal/config"
)

// newLogger builds the process logger. With a terminal front panel running,
// logs go to a rotated file; headless runs log to stderr.
func newLogger(cfg config.Log, level string, headless bool, stderr io.Writer) (*logrus.Logger, io.Closer, error) {
	if level == "" {
		level = cfg.Level
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(lvl)

	if headless {
		if stderr == nil {
			stderr = os.Stderr
		}
		logger.SetOutput(stderr)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return logger, io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return logger, file, nil
}
