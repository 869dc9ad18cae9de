package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
)

// SetupLogger configures and initializes the process logger from config.
func SetupLogger(cfg *config.Config, process string) (*slog.Logger, error) {
	l, err := logger.Setup(logger.LoggerConfig{Level: cfg.Server.LogLevel})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return l.With(slog.String("process", process)), nil
}
