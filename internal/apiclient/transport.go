package apiclient

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotelguru/internal/domain"
	"hotelguru/internal/observability"
	"hotelguru/internal/tokens"
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// interceptor runs before every outbound request. It reads the persisted
// token record fresh from storage rather than from in-memory session state,
// so a login or logout in another process sharing the storage takes effect
// on the next call.
type interceptor struct {
	storage  domain.ClientStorage
	basePath string
	next     http.RoundTripper
}

func (t *interceptor) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	r := req.Clone(ctx)

	requestID, ok := observability.RequestID(ctx)
	if !ok {
		requestID = uuid.New().String()
	}
	r.Header.Set("X-Request-ID", requestID)

	authenticated := false
	if pair, ok := tokens.Load(ctx, t.storage); ok {
		r.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		authenticated = true
	}

	endpoint := endpointLabel(strings.TrimPrefix(r.URL.Path, t.basePath))
	log := observability.FromContext(ctx).With(
		slog.String("method", r.Method),
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID))
	log.Debug("sending api request", slog.Bool("authenticated", authenticated))

	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	observability.APIRequestDuration.WithLabelValues(r.Method, endpoint, status).Observe(duration)
	observability.APIRequestsTotal.WithLabelValues(r.Method, endpoint, status, strconv.FormatBool(authenticated)).Inc()

	if err != nil {
		log.Warn("api request failed", slog.String("error", err.Error()))
		return nil, err
	}
	log.Debug("api response", slog.Int("status", resp.StatusCode), slog.Float64("duration_s", duration))
	return resp, nil
}

// endpointLabel collapses numeric path segments for metric labels
func endpointLabel(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/{id}$1")
	}
	return path
}
