package audit

import (
	"context"

	"github.com/bnema/mcp-docker/internal/tools"
	"github.com/bnema/mcp-docker/pkg/logger"
)

// Middleware records every tool call after it completes. A failed insert is logged
// and never fails the call itself.
func (s *Store) Middleware() tools.Middleware {
	return func(next tools.CallFunc) tools.CallFunc {
		return func(ctx context.Context, name string, args map[string]any) (string, error) {
			start := s.now()
			text, err := next(ctx, name, args)

			entry := Entry{
				Tool:       name,
				Arguments:  encodeArguments(args),
				StartedAt:  start,
				DurationMS: s.now().Sub(start).Milliseconds(),
			}
			if err != nil {
				entry.Error = err.Error()
			}
			// Record even when the caller has gone away
			if _, rerr := s.Record(context.WithoutCancel(ctx), entry); rerr != nil {
				logger.Warn("Failed to write audit entry", "tool", name, "error", rerr)
			}
			return text, err
		}
	}
}
