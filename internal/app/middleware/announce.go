package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"roomies/internal/app/queries"
)

const (
	DefaultAnnounceTimeout   = 2 * time.Second
	maxInFlightAnnouncements = 64
)

var errBacklogFull = errors.New("middleware: announcement backlog full")

// Announcer is implemented by queries that emit an event once answered.
type Announcer interface {
	Announcement(result any) (key string, payload any, ok bool)
}

// Publisher delivers encoded events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Announce publishes events for answered Announcer queries. Publishing is
// best effort and happens off the request path: each event gets its own
// context bounded by timeout, failures are logged, and events are dropped
// while too many publishes are still pending.
func Announce(pub Publisher, topic string, timeout time.Duration, logger *slog.Logger) QueryMiddleware {
	if pub == nil {
		panic("middleware: publisher required")
	}
	if timeout <= 0 {
		timeout = DefaultAnnounceTimeout
	}
	inFlight := make(chan struct{}, maxInFlightAnnouncements)
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			res, err := next.Ask(ctx, q)
			if err != nil {
				return res, err
			}
			announcer, ok := q.(Announcer)
			if !ok {
				return res, nil
			}
			key, payload, ok := announcer.Announcement(res)
			if !ok {
				return res, nil
			}
			body, encErr := json.Marshal(payload)
			if encErr != nil {
				logWarn(logger, "announcement encode failed", q.Key(), encErr)
				return res, nil
			}
			headers := map[string]string{
				"query":       q.Key(),
				"occurred_at": time.Now().UTC().Format(time.RFC3339Nano),
			}
			select {
			case inFlight <- struct{}{}:
			default:
				logWarn(logger, "announcement dropped", q.Key(), errBacklogFull)
				return res, nil
			}
			pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			go func(query string) {
				defer func() { <-inFlight }()
				defer cancel()
				if pubErr := pub.Publish(pubCtx, topic, key, body, headers); pubErr != nil {
					logWarn(logger, "announcement publish failed", query, pubErr)
				}
			}(q.Key())
			return res, nil
		})
	}
}

func logWarn(logger *slog.Logger, msg, query string, err error) {
	if logger != nil {
		logger.Warn(msg, "query", query, "error", err)
	}
}
