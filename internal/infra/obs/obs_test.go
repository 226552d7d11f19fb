package obs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

type recordingPoster struct {
	mu    sync.Mutex
	tags  []string
	posts []map[string]any
}

func (p *recordingPoster) Post(tag string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tags = append(p.tags, tag)
	p.posts = append(p.posts, message.(map[string]any))
	return nil
}

func TestFanoutShipsToFluent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	poster := &recordingPoster{}
	logger := slog.New(newHandler(&buf, "prod", NewFluentHandler(poster, slog.LevelWarn)))

	logger.Info("listing served", "id", "abc")
	logger.With("component", "geoip").Warn("lookup failed", "err", errors.New("timeout"))

	if len(poster.posts) != 1 {
		t.Fatalf("fluent posts=%d want 1", len(poster.posts))
	}
	got := poster.posts[0]
	if poster.tags[0] != "warn" || got["message"] != "lookup failed" {
		t.Fatalf("tag=%q post=%v", poster.tags[0], got)
	}
	if got["component"] != "geoip" || got["err"] != "timeout" {
		t.Fatalf("attrs=%v", got)
	}

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 2 {
		t.Fatalf("stdout lines=%d want 2", len(lines))
	}
	var first map[string]any
	if err := json.Unmarshal(lines[0], &first); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if first["msg"] != "listing served" {
		t.Fatalf("first=%v", first)
	}
}

func TestFluentGroupsApplyOnlyToLaterAttrs(t *testing.T) {
	t.Parallel()

	poster := &recordingPoster{}
	logger := slog.New(NewFluentHandler(poster, slog.LevelInfo))

	logger.With("component", "geoip").WithGroup("req").With("ip", "10.0.0.1").Info("lookup", "id", 1)

	if len(poster.posts) != 1 {
		t.Fatalf("fluent posts=%d want 1", len(poster.posts))
	}
	got := poster.posts[0]
	if got["component"] != "geoip" {
		t.Fatalf("attr bound before the group was prefixed: %v", got)
	}
	if got["req.ip"] != "10.0.0.1" || got["req.id"] != int64(1) {
		t.Fatalf("grouped attrs=%v", got)
	}
	if _, ok := got["req.component"]; ok {
		t.Fatalf("unexpected req.component in %v", got)
	}
}

func TestRequestIDAndHealth(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	mw := Middleware{Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}
	ready := errors.New("mongo down")
	var readyErr error
	health := HealthHandlers{Ready: func(context.Context) error { return readyErr }}

	r := gin.New()
	r.Use(mw.RequestID(), mw.LoggerMiddleware())
	r.GET("/livez", health.Livez)
	r.GET("/readyz", health.Readyz)
	r.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, RequestIDFromContext(c.Request.Context()))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/echo", nil)
	req.Header.Set("X-Request-ID", "req-42")
	r.ServeHTTP(rec, req)
	if rec.Body.String() != "req-42" || rec.Header().Get("X-Request-ID") != "req-42" {
		t.Fatalf("body=%q header=%q", rec.Body.String(), rec.Header().Get("X-Request-ID"))
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected generated request id")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ready status=%d", rec.Code)
	}
	readyErr = ready
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("not ready status=%d", rec.Code)
	}
}
