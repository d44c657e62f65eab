package tools

import (
	"context"
	"time"

	"github.com/bnema/mcp-docker/pkg/logger"
)

// WithLogging logs every tool call with its duration.
func WithLogging() Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, name string, args map[string]any) (string, error) {
			start := time.Now()
			logger.Debug("Tool call started", "tool", name)

			text, err := next(ctx, name, args)
			if err != nil {
				logger.Warn("Tool call failed", "tool", name, "duration", time.Since(start), "error", err)
				return text, err
			}

			logger.Info("Tool call completed", "tool", name, "duration", time.Since(start))
			return text, nil
		}
	}
}
