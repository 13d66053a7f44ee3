package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Runner executes one ffmpeg invocation. Implementations must honour context
// cancellation by terminating the child process.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// Command runs the ffmpeg binary through exec.CommandContext.
type Command struct {
	Binary string
	Logger *slog.Logger
}

// NewCommand returns a Command for the given binary, defaulting to "ffmpeg".
func NewCommand(binary string, logger *slog.Logger) Command {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return Command{Binary: binary, Logger: logger}
}

// Run executes ffmpeg with the provided arguments, prefixed with flags that
// keep output quiet and overwrite existing targets.
func (c Command) Run(ctx context.Context, args ...string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg: no arguments")
	}
	binary := c.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	full := append([]string{"-hide_banner", "-nostdin", "-y", "-v", "error"}, args...)
	if c.Logger != nil {
		c.Logger.Debug("ffmpeg invocation", slog.String("binary", binary), slog.String("args", strings.Join(full, " ")))
	}
	cmd := exec.CommandContext(ctx, binary, full...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("ffmpeg: %w", ctxErr)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, args ...string) error

// Run calls f(ctx, args...).
func (f RunnerFunc) Run(ctx context.Context, args ...string) error {
	return f(ctx, args...)
}
