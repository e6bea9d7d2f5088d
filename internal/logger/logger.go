// Package logger configures the process-wide zerolog logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls level, encoding and destination of log output.
type Config struct {
	Level      string `yaml:"level" default:"info"`      // debug, info, warn, error
	Format     string `yaml:"format" default:"console"`  // console or json
	Output     string `yaml:"output" default:"stdout"`   // stdout, stderr or a file path
	MaxSizeMB  int    `yaml:"max_size_mb" default:"50"`  // file output only
	MaxBackups int    `yaml:"max_backups" default:"5"`   // file output only
	MaxAgeDays int    `yaml:"max_age_days" default:"30"` // file output only
}

// Init builds a logger from cfg and installs it as the global zerolog logger.
func Init(cfg Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		out = &lumberjack.Logger{
			Filename:   cfg.Output,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
	}

	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "2006-01-02 15:04:05"}
	}

	l := zerolog.New(out).With().Timestamp().Caller().Logger()
	log.Logger = l
	return l, nil
}
