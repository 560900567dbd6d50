package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"onhostel/internal/config"

	"github.com/rs/zerolog"
)

// New собирает zerolog-логгер из настроек конфигурации. Пустые поля дают
// JSON, уровень info, stdout. Возвращаемый io.Closer ненулевой только при
// выводе в файл.
func New(cfg config.LoggingConfig, app config.AppConfig) (*zerolog.Logger, io.Closer, error) {
	output, closer, err := buildOutput(cfg)
	if err != nil {
		return nil, nil, err
	}

	if useConsole(cfg, app) {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	logger := zerolog.New(output).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()

	return &logger, closer, nil
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func buildOutput(cfg config.LoggingConfig) (io.Writer, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Output)) {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	case "file":
		if cfg.FilePath == "" {
			return nil, nil, fmt.Errorf("logging.output=file requires logging.file_path")
		}
		file, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return file, file, nil
	default:
		return os.Stdout, nil, nil
	}
}

// useConsole: человекочитаемый вывод в разработке, если формат не задан явно.
func useConsole(cfg config.LoggingConfig, app config.AppConfig) bool {
	format := strings.ToLower(strings.TrimSpace(cfg.Format))
	if format == "" {
		return app.Environment == "development"
	}
	return format == "console"
}
