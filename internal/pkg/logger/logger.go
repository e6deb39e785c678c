package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

type Config struct {
	Encoding  string `envconfig:"ENCODING" default:"console"`
	Level     string `envconfig:"LEVEL" default:"info"`
	AddSource bool   `envconfig:"ADD_SOURCE" default:"false"`
}

// New создаёт логгер приложения; console пишет в stderr, json в stdout
func New(app string, cfg *Config) *slog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = EncodingConsole
	}

	var out io.Writer = os.Stderr
	if encoding == EncodingJSON {
		out = os.Stdout
	}

	handler, err := NewHandler(out, encoding, cfg.Level, cfg.AddSource)
	if err != nil {
		panic(fmt.Errorf("invalid logger config: %w", err))
	}

	return slog.New(handler).With("app", app)
}

// NewHandler собирает slog.Handler по кодировке и уровню
func NewHandler(w io.Writer, encoding, level string, addSource bool) (slog.Handler, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
	}

	switch encoding {
	case EncodingJSON:
		return slog.NewJSONHandler(w, opts), nil
	case EncodingConsole, "":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("encoding %s is not supported", encoding)
	}
}

// ParseLevel парсит строковый уровень в slog.Level, пустая строка = info
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("level %s is not supported", level)
	}
}

// NewNop логгер без вывода, для тестов
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
