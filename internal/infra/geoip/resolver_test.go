package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"roomies/internal/domain/geo"
)

func TestResolve_ReturnsReportedLocation(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":-6.2088,"lon":106.8456,"city":"Jakarta"}`))
	}))
	defer srv.Close()

	r := &Resolver{Endpoint: srv.URL + "/json", Client: srv.Client()}
	got := r.Resolve(context.Background(), "203.0.113.7")

	if gotPath != "/json/203.0.113.7" {
		t.Fatalf("path=%q want=/json/203.0.113.7", gotPath)
	}
	if got != (geo.Coordinate{Lat: -6.2088, Lon: 106.8456}) {
		t.Fatalf("coordinate=%+v", got)
	}
}

func TestResolve_FallsBackToOrigin(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "failed lookup",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"fail","message":"private range","query":"10.0.0.1"}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>nope</html>`))
			},
		},
		{
			name: "missing longitude",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status":"success","lat":10}`))
			},
		},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(tc.handler)
		r := &Resolver{Endpoint: srv.URL, Client: srv.Client()}
		if got := r.Resolve(context.Background(), "198.51.100.1"); got != geo.Origin {
			t.Fatalf("%s: coordinate=%+v want origin", tc.name, got)
		}
		srv.Close()
	}
}

func TestResolve_TimeoutFallsBackWithSingleAttempt(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := &Resolver{Endpoint: srv.URL, Client: srv.Client(), Timeout: 50 * time.Millisecond}
	start := time.Now()
	got := r.Resolve(context.Background(), "198.51.100.1")

	if got != geo.Origin {
		t.Fatalf("coordinate=%+v want origin", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("resolve took %s, timeout not honored", elapsed)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls=%d want=1", n)
	}
}

func TestResolve_UnreachableService(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	r := &Resolver{Endpoint: endpoint, Timeout: time.Second}
	if got := r.Resolve(context.Background(), "198.51.100.1"); got != geo.Origin {
		t.Fatalf("coordinate=%+v want origin", got)
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.RemoteAddr = "192.0.2.10:5123"
	if got := ClientIP(req); got != "192.0.2.10" {
		t.Fatalf("ip=%q want=192.0.2.10", got)
	}

	req.Header.Set("X-Forwarded-For", " 203.0.113.5 , 10.0.0.2")
	if got := ClientIP(req); got != "203.0.113.5" {
		t.Fatalf("ip=%q want=203.0.113.5", got)
	}
}
