package repositories

import (
	"charging-route-service/internal/domain"
	"charging-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const maxFeedBytes = 16 << 20

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// HTTPStationRepository reads the station list from a JSON or YAML feed.
type HTTPStationRepository struct {
	url     string
	session *http.Client

	maxAttempts int
	backoff     time.Duration
}

func NewHTTPStationRepository(url string, client *http.Client) (*HTTPStationRepository, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("new http station repository: url is empty")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPStationRepository{
		url:         url,
		session:     client,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

// Return all stations published by the feed.
func (h *HTTPStationRepository) ListStations(ctx context.Context) (_ []domain.Waypoint, err error) {
	defer obs.Time(ctx, "stations.fetch")(&err)

	resp, err := h.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json, application/yaml")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list stations: fetch %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("list stations: read body: %w", err)
	}

	format := FormatFromPath(resp.Request.URL.Path)
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}

	stations, err := DecodeStations(raw, format)
	if err != nil {
		return nil, fmt.Errorf("list stations: %w", err)
	}
	return stations, nil
}

func (h *HTTPStationRepository) do(req *http.Request) (*http.Response, error) {
	resp, err := h.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries network errors, 429 and 5xx responses with
// exponential backoff until ctx is done.
func (h *HTTPStationRepository) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := h.backoff

	var lastErr error

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := h.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == h.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
