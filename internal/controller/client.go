package controller

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Logger defines the logging interface used by the Client.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

const (
	// DefaultTimeout is the per-request HTTP timeout when none is configured.
	DefaultTimeout = 5 * time.Second

	// DefaultAckPhrase is the acknowledgment text expected in a command
	// response body when none is configured.
	DefaultAckPhrase = "Command received"

	statusPath  = "/getController"
	commandPath = "/setPattern"

	// maxResponseBytes bounds how much of a response body is read.
	// Controller responses are tiny; anything larger is garbage.
	maxResponseBytes = 1 << 20
)

// Config contains the settings needed to reach the controller.
type Config struct {
	// Host is the controller's IP address or hostname (no scheme).
	Host string

	// Timeout is the per-request HTTP timeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// AckPhrase is the literal text the controller returns to confirm a
	// command. Empty means DefaultAckPhrase.
	AckPhrase string
}

// Client is a stateless HTTP client for the lighting controller.
//
// It owns no state beyond address and timeout configuration. It never
// retries: retry policy lives in the verification runner and the zone
// poller, which re-invoke the client on their own schedules.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	host   string
	ack    string
	http   *http.Client
	logger Logger
}

// New creates a controller client from the given configuration.
//
// Returns:
//   - *Client: Ready-to-use client
//   - error: ErrInvalidHost if the host is empty or contains a path/scheme
func New(cfg Config) (*Client, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		return nil, fmt.Errorf("%w: host is empty", ErrInvalidHost)
	}
	if strings.ContainsAny(host, "/ ") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ack := cfg.AckPhrase
	if ack == "" {
		ack = DefaultAckPhrase
	}

	return &Client{
		host:   host,
		ack:    ack,
		http:   &http.Client{Timeout: timeout},
		logger: noopLogger{},
	}, nil
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	c.logger = logger
}

// BaseURL returns the controller's base URL.
func (c *Client) BaseURL() string {
	return "http://" + c.host
}

// StatusURL returns the full status-query URL.
func (c *Client) StatusURL() string {
	return c.BaseURL() + statusPath
}

// CommandURL builds a full setPattern command URL from an encoded query string.
func (c *Client) CommandURL(query string) string {
	return c.BaseURL() + commandPath + "?" + query
}

// SendCommand issues a command URL against the controller.
//
// A command succeeds only if the HTTP status is 200 AND the response body
// contains the acknowledgment phrase; any other combination is a failure,
// regardless of HTTP-level success.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - rawURL: The full command URL (typically built via CommandURL)
//
// Returns:
//   - error: nil on acknowledged success; ErrUnreachable, ErrBadStatus or
//     ErrNoAck otherwise (check with errors.Is)
func (c *Client) SendCommand(ctx context.Context, rawURL string) error {
	body, status, err := c.get(ctx, rawURL)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, status)
	}
	if !strings.Contains(string(body), c.ack) {
		return fmt.Errorf("%w: body %q", ErrNoAck, truncate(string(body), 120))
	}

	c.logger.Debug("command acknowledged", "url", rawURL)
	return nil
}

// FetchStatus queries the controller for the status of every zone.
//
// The controller sometimes returns its JSON payload pre-parsed (a bare
// array) and sometimes as a JSON string requiring a second decode; both
// shapes are normalised here so callers only ever see typed records.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - []ZoneStatus: One record per zone, as reported by the controller
//   - error: ErrUnreachable, ErrBadStatus or ErrBadPayload
func (c *Client) FetchStatus(ctx context.Context) ([]ZoneStatus, error) {
	body, status, err := c.get(ctx, c.StatusURL())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, status)
	}

	records, err := decodeStatus(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return records, nil
}

// get performs a GET request and returns the body and HTTP status.
// Transport-level failures are wrapped in ErrUnreachable with the
// underlying reason preserved for logging.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrInvalidHost, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("controller request failed", "url", rawURL, "error", err)
		return nil, 0, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: reading body: %v", ErrUnreachable, err)
	}
	return body, resp.StatusCode, nil
}

// truncate shortens s for inclusion in error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
