package env

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const Local = "local"

// LoadDotEnv loads environment variables from .env files. ENV_PATH, when set,
// replaces the default paths. A missing file is only an error in local mode.
func LoadDotEnv(env string, defaultPaths ...string) error {
	paths := defaultPaths
	if p := os.Getenv("ENV_PATH"); p != "" {
		paths = strings.Split(p, ",")
	} else {
		slog.Info("ENV_PATH is not set, using default paths", "defaultPaths", defaultPaths)
	}

	err := godotenv.Load(paths...)
	if err != nil {
		if env == Local || env == "" {
			slog.Error("Failed to load environment variables in local mode", "error", err)
			return err
		}
		slog.Debug("Skipping .env ...")
	}

	return nil
}

// LogLevel reads LOG_LEVEL. Local runs default to debug, everything else to
// info.
func LogLevel(env string) slog.Level {
	var level slog.Level
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err == nil {
			return level
		}
		slog.Warn("Invalid LOG_LEVEL, using default", "value", raw)
	}
	if env == Local || env == "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// SetupLogger installs the default slog logger: text for local runs, JSON
// elsewhere.
func SetupLogger(env string) {
	opts := &slog.HandlerOptions{Level: LogLevel(env)}

	var handler slog.Handler
	if env == Local || env == "" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
