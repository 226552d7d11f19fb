package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"roomies/internal/domain/geo"
)

const (
	DefaultEndpoint = "http://ip-api.com/json"
	DefaultTimeout  = 5 * time.Second
)

// ErrUnavailable marks a failed lookup. Resolve never returns it; it is
// attached to the warning logged when the sentinel location is used.
var ErrUnavailable = errors.New("geoip: location unavailable")

// Resolver locates client addresses through an ip-api compatible service.
type Resolver struct {
	Endpoint string
	Client   *http.Client
	Timeout  time.Duration
	Logger   *slog.Logger
}

type lookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Resolve returns the approximate location of ip. Any failure degrades to
// geo.Origin so that ranking can still proceed.
func (r *Resolver) Resolve(ctx context.Context, ip string) geo.Coordinate {
	coord, err := r.lookup(ctx, ip)
	if err != nil {
		r.logWarn("geolocation failed, using origin", ip, err)
		return geo.Origin
	}
	if r.Logger != nil {
		r.Logger.Debug("client located", "ip", ip, "area", coord.Area())
	}
	return coord
}

func (r *Resolver) lookup(ctx context.Context, ip string) (geo.Coordinate, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return geo.Coordinate{}, fmt.Errorf("%w: empty address", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	defer cancel()

	endpoint := strings.TrimRight(r.endpoint(), "/") + "/" + url.PathEscape(ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	resp, err := r.client().Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return geo.Coordinate{}, fmt.Errorf("%w: lookup timeout", ErrUnavailable)
		}
		return geo.Coordinate{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return geo.Coordinate{}, fmt.Errorf("%w: service returned %d: %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if body.Status == "fail" {
		return geo.Coordinate{}, fmt.Errorf("%w: %s", ErrUnavailable, body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return geo.Coordinate{}, fmt.Errorf("%w: response without lat/lon", ErrUnavailable)
	}
	coord := geo.Coordinate{Lat: *body.Lat, Lon: *body.Lon}
	if !coord.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: coordinate out of range (%f, %f)", ErrUnavailable, coord.Lat, coord.Lon)
	}
	return coord, nil
}

func (r *Resolver) endpoint() string {
	if r.Endpoint != "" {
		return r.Endpoint
	}
	return DefaultEndpoint
}

func (r *Resolver) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Resolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func (r *Resolver) logWarn(msg, ip string, err error) {
	if r.Logger != nil {
		r.Logger.Warn(msg, "ip", ip, "error", err)
	}
}
