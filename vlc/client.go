package vlc

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	statusPath = "/requests/status.xml"
)

// ErrKind tags the failure categories of a status fetch so callers (and
// tests) can tell a dead connection from a rejected request or a mangled
// document.
type ErrKind int

const (
	ErrKindNetwork ErrKind = iota + 1
	ErrKindHTTP
	ErrKindParse
)

// Error is a tagged status-fetch failure.
type Error struct {
	Kind ErrKind
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrKindNetwork:
		return fmt.Sprintf("vlc: request failed: %v", e.Err)
	case ErrKindHTTP:
		return fmt.Sprintf("vlc: status request rejected: %v", e.Err)
	case ErrKindParse:
		return fmt.Sprintf("vlc: invalid status document: %v", e.Err)
	default:
		return fmt.Sprintf("vlc: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Client talks to one VLC instance over its HTTP status interface. It is
// stateless between calls; the media-player subsystem owns the snapshot and
// serializes access.
type Client struct {
	logf       func(string, ...interface{})
	host       string
	port       int
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(host string, port int, username string, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		logf: func(s string, i ...interface{}) {
			log.Printf("VLC: "+s, i...)
		},
		host:       host,
		port:       port,
		username:   username,
		password:   password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) statusURL(command string) string {
	url := fmt.Sprintf("http://%s:%d%s", c.host, c.port, statusPath)
	if command != "" {
		url = fmt.Sprintf("%s?command=%s", url, command)
	}
	return url
}

// fetch performs a single status GET, optionally with a control command
// appended. Commands are passed through as-is: VLC's command grammar uses
// literal '&' separators, so they must not be query-escaped here.
func (c *Client) fetch(ctx context.Context, command string) (Status, error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL(command), nil)
	if reqErr != nil {
		return Status{}, &Error{Kind: ErrKindNetwork, Err: reqErr}
	}
	req.SetBasicAuth(c.username, c.password)

	resp, respErr := c.httpClient.Do(req)
	if respErr != nil {
		return Status{}, &Error{Kind: ErrKindNetwork, Err: respErr}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, &Error{
			Kind: ErrKindHTTP,
			Err:  fmt.Errorf("response code %d", resp.StatusCode),
		}
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return Status{}, &Error{Kind: ErrKindNetwork, Err: readErr}
	}

	status, decodeErr := decodeStatus(body)
	if decodeErr != nil {
		return Status{}, &Error{Kind: ErrKindParse, Err: decodeErr}
	}
	return status, nil
}

// Status polls the player. Any failure is logged and degrades to the empty
// status; nothing propagates to the caller.
func (c *Client) Status(ctx context.Context) Status {
	status, fetchErr := c.fetch(ctx, "")
	if fetchErr != nil {
		c.logf("status fetch failed: %v", fetchErr)
		return Status{}
	}
	return status
}

// Command sends a control command and returns the status document VLC
// replies with. Failures degrade to the empty status, same as Status; the
// command may still have been applied remotely.
func (c *Client) Command(ctx context.Context, command string) Status {
	status, fetchErr := c.fetch(ctx, command)
	if fetchErr != nil {
		c.logf("command %q failed: %v", command, fetchErr)
		return Status{}
	}
	return status
}
