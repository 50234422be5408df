package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/devstrap/devstrap/internal/flags"
)

// BaseCmd carries the shared state embedded by every devstrap command.
type BaseCmd struct {
	logger hclog.Logger
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the current logger for the command, constructing one from
// flags and environment on first use.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	// Get log level from flags first, then environment, then default.
	logLevel := flags.LogLevel
	if logLevel == "" {
		logLevel = strings.ToLower(strings.TrimSpace(os.Getenv(flags.EnvVarLogLevel)))
		if logLevel == "" {
			logLevel = flags.DefaultLogLevel
		}
	}

	// Get log path from flags first, then environment.
	logPath := flags.LogPath
	if logPath == "" {
		logPath = strings.TrimSpace(os.Getenv(flags.EnvVarLogPath))
	}

	// If no log path is configured, don't log anywhere.
	var output io.Writer = io.Discard
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   "devstrap",
		Level:  hclog.LevelFromString(logLevel),
		Output: output,
	})

	return c.logger, nil
}
