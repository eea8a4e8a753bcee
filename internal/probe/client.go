package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/healthlogger/internal/domain"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected http status")
	ErrMissingLogs      = errors.New("status response has no logs")
	ErrEmptyBody        = errors.New("empty json body")
)

// HTTPBackend talks to the health service over HTTP.
type HTTPBackend struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPBackend builds a backend client. A zero timeout leaves requests
// bounded only by the caller's context.
func NewHTTPBackend(baseURL string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

func (b *HTTPBackend) endpoint(path string) string {
	return strings.TrimRight(b.BaseURL, "/") + path
}

// Health issues GET {base}/health and decodes the payload.
func (b *HTTPBackend) Health(ctx context.Context) (domain.HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint("/health"), nil)
	if err != nil {
		return domain.HealthReport{}, err
	}
	b.authorize(req)

	var hr *domain.HealthReport
	if err := b.do(req, &hr); err != nil {
		return domain.HealthReport{}, fmt.Errorf("health: %w", err)
	}
	if hr == nil {
		return domain.HealthReport{}, fmt.Errorf("health: %w", ErrEmptyBody)
	}
	return *hr, nil
}

// Report posts the outcome to {base}/status and returns the server's log list.
func (b *HTTPBackend) Report(ctx context.Context, out domain.ProbeOutcome) ([]domain.LogEntry, error) {
	body, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint("/status"), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	b.authorize(req)

	var resp *struct {
		Logs *[]domain.LogEntry `json:"logs"`
	}
	if err := b.do(req, &resp); err != nil {
		return nil, fmt.Errorf("report: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("report: %w", ErrEmptyBody)
	}
	if resp.Logs == nil {
		return nil, fmt.Errorf("report: %w", ErrMissingLogs)
	}
	logs := *resp.Logs
	if logs == nil {
		logs = []domain.LogEntry{}
	}
	return logs, nil
}

func (b *HTTPBackend) authorize(req *http.Request) {
	if b.APIKey != "" {
		req.Header.Set("X-API-Key", b.APIKey)
	}
}

func (b *HTTPBackend) do(req *http.Request, dst any) error {
	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
