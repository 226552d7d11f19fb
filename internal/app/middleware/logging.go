package middleware

import (
	"context"
	"log/slog"
	"time"

	"roomies/internal/app/queries"
)

// QueryLogging records each query with its duration; failures log at WARN.
func QueryLogging(logger *slog.Logger) QueryMiddleware {
	if logger == nil {
		panic("middleware: logger required")
	}
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			if err != nil {
				logger.Warn("query failed", "query", q.Key(), "duration", time.Since(start), "error", err)
				return res, err
			}
			logger.Debug("query served", "query", q.Key(), "duration", time.Since(start))
			return res, nil
		})
	}
}
