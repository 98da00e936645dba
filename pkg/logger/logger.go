package logger

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs the process-wide JSON logger. LOG_LEVEL narrows or
// widens output (debug, info, warn, error); anything else means info.
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	slog.SetDefault(slog.New(&RequestIDHandler{Handler: handler}))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
