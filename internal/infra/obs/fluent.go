package obs

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentConfig points at a Fluent Bit forward input.
type FluentConfig struct {
	Host string
	Port int
	Tag  string
}

// NewFluentClient dials Fluent Bit asynchronously so that a missing
// collector never blocks request handling.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	client, err := fluent.New(fluent.Config{
		FluentHost: cfg.Host,
		FluentPort: cfg.Port,
		TagPrefix:  cfg.Tag,
		Async:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("fluent: connect %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}

// Poster is the part of *fluent.Fluent the handler needs.
type Poster interface {
	Post(tag string, message any) error
}

// FluentHandler ships slog records to Fluent Bit tagged by level.
type FluentHandler struct {
	client Poster
	level  slog.Leveler
	attrs  []slog.Attr
	group  string
}

func NewFluentHandler(client Poster, level slog.Leveler) *FluentHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &FluentHandler{client: client, level: level}
}

func (h *FluentHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *FluentHandler) Handle(_ context.Context, r slog.Record) error {
	data := make(map[string]any, r.NumAttrs()+len(h.attrs)+3)
	for _, a := range h.attrs {
		put(data, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(data, h.group, a)
		return true
	})
	data["level"] = strings.ToLower(r.Level.String())
	data["message"] = r.Message
	data["timestamp"] = r.Time.UTC().Format(time.RFC3339Nano)
	return h.client.Post(strings.ToLower(r.Level.String()), data)
}

func put(data map[string]any, group string, a slog.Attr) {
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			data[key] = err.Error()
			return
		}
		data[key] = fmt.Sprint(v.Any())
	case slog.KindGroup:
		for _, ga := range v.Group() {
			data[key+"."+ga.Key] = ga.Value.String()
		}
	default:
		data[key] = v.Any()
	}
}

// WithAttrs binds attrs under the groups opened so far; groups opened later
// do not apply to them.
func (h *FluentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if h.group != "" {
			a.Key = h.group + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

func (h *FluentHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group == "" {
		clone.group = name
	} else {
		clone.group += "." + name
	}
	return &clone
}

var _ slog.Handler = (*FluentHandler)(nil)
