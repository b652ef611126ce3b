package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"symptom-triage/internal/config"
)

// New builds the process logger.  Every line goes to a size-rotated file
// (cfg.File, cfg.MaxSizeMB per file, cfg.MaxBackups kept) and, when
// cfg.Console is set, to stdout as well.  The returned closer flushes and
// closes the file sink.
func New(cfg config.LogConfig, serviceName, env string) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}

	writers := []io.Writer{sink}
	if cfg.Console {
		if env == "development" {
			writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	ctx := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName)
	if env != "development" {
		ctx = ctx.Caller()
	}
	return ctx.Logger(), sink, nil
}
