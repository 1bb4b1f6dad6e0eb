package samplegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// Client talks to a running dashboard server.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health verifies the service is up.
func (c *Client) Health(ctx context.Context) error {
	body, status, err := c.do(ctx, http.MethodGet, "/healthz", nil, "")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status %d: %s", status, apiMessage(body))
	}
	return nil
}

// Upload posts the files as a new session and reads back the default view
// to report the team and action universes.
func (c *Client) Upload(ctx context.Context, paths []string) (Summary, error) {
	payload, contentType, err := multipartFiles(paths)
	if err != nil {
		return Summary{}, err
	}
	body, status, err := c.do(ctx, http.MethodPost, "/sessions", payload, contentType)
	if err != nil {
		return Summary{}, fmt.Errorf("upload failed: %w", err)
	}
	if status != http.StatusCreated {
		return Summary{}, fmt.Errorf("upload rejected with status %d: %s", status, apiMessage(body))
	}

	res := gjson.ParseBytes(body)
	s := Summary{
		SessionID: res.Get("id").String(),
		Rows:      res.Get("rows").Int(),
		Files:     strs(res.Get("files")),
	}
	if s.SessionID == "" {
		return Summary{}, fmt.Errorf("upload response has no session id")
	}

	body, status, err = c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(s.SessionID)+"/view", nil, "")
	if err != nil {
		return s, fmt.Errorf("view request failed: %w", err)
	}
	if status != http.StatusOK {
		return s, fmt.Errorf("view rejected with status %d: %s", status, apiMessage(body))
	}
	s.Teams = strs(gjson.GetBytes(body, "options.teams"))
	s.Actions = strs(gjson.GetBytes(body, "options.actions"))
	return s, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, resp.StatusCode, nil
}

func multipartFiles(paths []string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		part, err := mw.CreateFormFile("files", filepath.Base(p))
		if err != nil {
			return nil, "", err
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open %s: %w", p, err)
		}
		_, err = io.Copy(part, f)
		_ = f.Close()
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", p, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

// apiMessage extracts the message of a {"code","message"} error body.
func apiMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}
	return strings.TrimSpace(string(body))
}

func strs(r gjson.Result) []string {
	var out []string
	r.ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}
