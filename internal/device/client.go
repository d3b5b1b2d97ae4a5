package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/slumber/internal/capability"
	"github.com/five82/slumber/internal/sleep"
)

// ErrNilClient is returned when a method is called on a nil *Client.
var ErrNilClient = errors.New("client is nil")

// Ensure Client satisfies the interfaces the stores consume.
var (
	_ capability.API      = (*Client)(nil)
	_ sleep.SessionReader = (*Client)(nil)
)

// Client talks to the local health bridge over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	defaultDeviceBind = "127.0.0.1:8765"
	defaultUserAgent  = "slumber/0.1"
	requestTimeout    = 15 * time.Second
)

// NewClient builds a Client using the provided host:port (or URL) value.
// Pass nil logger to disable logging.
func NewClient(bind string, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(bind)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger.Named("device"),
	}, nil
}

// BaseURL returns the bridge address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Status reports the health subsystem availability.
func (c *Client) Status(ctx context.Context) (capability.Status, error) {
	if c == nil {
		return capability.StatusUnknown, ErrNilClient
	}
	var payload StatusResponse
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/sdk/status"}, &payload); err != nil {
		return capability.StatusUnknown, err
	}
	return capability.ParseStatus(payload.Status), nil
}

// Initialize asks the bridge to initialize the health subsystem.
func (c *Client) Initialize(ctx context.Context) (bool, error) {
	if c == nil {
		return false, ErrNilClient
	}
	var payload InitializeResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/api/sdk/initialize"}, &payload); err != nil {
		return false, err
	}
	return payload.Initialized, nil
}

// GrantedPermissions lists the permissions currently granted.
func (c *Client) GrantedPermissions(ctx context.Context) ([]capability.Grant, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	var payload PermissionsResponse
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/api/permissions"}, &payload); err != nil {
		return nil, err
	}
	return payload.Granted, nil
}

// SleepSessions reads sleep sessions between start and end. Malformed
// records are skipped.
func (c *Client) SleepSessions(ctx context.Context, start, end time.Time) ([]sleep.Session, error) {
	if c == nil {
		return nil, ErrNilClient
	}
	values := url.Values{}
	values.Set("start", start.UTC().Format(time.RFC3339))
	values.Set("end", end.UTC().Format(time.RFC3339))
	rel := &url.URL{Path: "/api/records/" + capability.RecordSleepSession, RawQuery: values.Encode()}

	var payload RecordsResponse
	if err := c.do(ctx, http.MethodGet, rel, &payload); err != nil {
		return nil, err
	}

	sessions := make([]sleep.Session, 0, len(payload.Records))
	for _, rec := range payload.Records {
		s, ok := rec.Session()
		if !ok {
			c.logger.Debug("skipping malformed sleep record",
				zap.String("start", rec.StartTime), zap.String("end", rec.EndTime))
			continue
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("bridge response",
		zap.String("method", method),
		zap.String("path", rel.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(bind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(bind)
	if trimmed == "" {
		trimmed = defaultDeviceBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse device_bind %q: %w", bind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
