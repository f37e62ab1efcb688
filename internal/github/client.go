// Package github talks to the GitHub REST API: the identity endpoint and
// the contents endpoint holding the synced Export Document.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// File is a stored file and its blob SHA.
type File struct {
	Content []byte
	SHA     string
}

// PutRequest writes a file. SHA is the revision the caller expects to
// replace; empty means "create".
type PutRequest struct {
	Content []byte
	SHA     string
	Message string
}

// Client is a GitHub REST client scoped to one repository file.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// Config returns the client's settings.
func (c *Client) Config() Config {
	return c.cfg
}

type userResponse struct {
	Login string `json:"login"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	SHA      string `json:"sha"`
}

type putBody struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
	Branch  string `json:"branch,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// GetUser returns the login of the token's owner.
func (c *Client) GetUser(ctx context.Context, token string) (string, error) {
	var resp userResponse
	if err := c.do(ctx, "get_user", http.MethodGet, c.cfg.userURL(), token, nil, &resp); err != nil {
		return "", err
	}
	return resp.Login, nil
}

// GetContent reads the synced file. An empty token reads anonymously,
// which only works for public repositories.
func (c *Client) GetContent(ctx context.Context, token string) (*File, error) {
	u := c.cfg.contentsURL()
	if c.cfg.Branch != "" {
		u += "?ref=" + url.QueryEscape(c.cfg.Branch)
	}
	var resp contentResponse
	if err := c.do(ctx, "get_content", http.MethodGet, u, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return nil, fmt.Errorf("unsupported content encoding %q", resp.Encoding)
	}
	// The API wraps base64 content at 60 columns.
	raw := strings.ReplaceAll(resp.Content, "\n", "")
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding content: %w", err)
	}
	return &File{Content: data, SHA: resp.SHA}, nil
}

// PutContent creates or replaces the synced file and returns its new SHA.
func (c *Client) PutContent(ctx context.Context, token string, req PutRequest) (string, error) {
	body := putBody{
		Message: req.Message,
		Content: base64.StdEncoding.EncodeToString(req.Content),
		SHA:     req.SHA,
		Branch:  c.cfg.Branch,
	}
	var resp putResponse
	if err := c.do(ctx, "put_content", http.MethodPut, c.cfg.contentsURL(), token, body, &resp); err != nil {
		return "", err
	}
	return resp.Content.SHA, nil
}

func (c *Client) do(ctx context.Context, op, method, u, token string, body, out any) error {
	start := time.Now()
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	status, err := c.doRequest(ctx, method, u, token, body, out)

	event := CallEvent{
		Operation: op,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", ErrTimeout, err)
		} else if ctx.Err() != nil {
			err = fmt.Errorf("request cancelled: %w", ctx.Err())
		} else if isConnectionError(err) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		event.ErrorCode = errorCode(err)
	}
	c.observer.OnCallComplete(event)
	return err
}

func (c *Client) doRequest(ctx context.Context, method, u, token string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "token "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, statusError(httpResp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return httpResp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return httpResp.StatusCode, nil
}

func statusError(status int, body []byte) error {
	var er errorResponse
	_ = json.Unmarshal(body, &er)
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", ErrConflict, er.Message)
	default:
		return &APIError{Status: status, Message: er.Message}
	}
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("HTTP_%d", apiErr.Status)
	default:
		return "UNKNOWN"
	}
}
