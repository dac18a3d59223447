package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://adventofcode.com"

// apiClient is the HTTP session used for one run. The session cookie and
// User-Agent ride along on every request.
type apiClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// newAPIClient creates a client for baseURL. An empty session sends no cookie.
func newAPIClient(baseURL, session, userAgent string) (*apiClient, error) {
	if baseURL == "" {
		return nil, errors.New("base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", baseURL)
	}
	u.Path = strings.TrimRight(u.Path, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if session = strings.TrimSpace(session); session != "" {
		jar.SetCookies(u, []*http.Cookie{{Name: "session", Value: session, Path: "/"}})
	}

	c := &apiClient{
		baseURL:   u.String(),
		userAgent: userAgent,
		http: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}
	if c.userAgent == "" {
		c.userAgent = defaultUA
	}
	return c, nil
}

// apiError is a non-2xx response.
type apiError struct {
	StatusCode int
	Reason     string
	Body       []byte
}

func (e *apiError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("http %d", e.StatusCode)
}

// snippet is the first line of the response body, cut to a readable length.
func (e *apiError) snippet() string {
	const maxSnippet = 120
	line, _, _ := strings.Cut(strings.TrimSpace(string(e.Body)), "\n")
	line = strings.TrimSpace(line)
	if r := []rune(line); len(r) > maxSnippet {
		line = string(r[:maxSnippet]) + "..."
	}
	return line
}

// get fetches path relative to the base URL and returns the body.
func (c *apiClient) get(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	const maxResponseSize = 10 * 1024 * 1024 // 10MB limit
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apiError{StatusCode: resp.StatusCode, Reason: statusReason(resp), Body: b}
	}
	return b, nil
}

// statusReason strips the numeric code from resp.Status ("404 Not Found").
func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

// inputPath is the puzzle input resource for one day.
func inputPath(year, day int) string {
	return fmt.Sprintf("/%d/day/%d/input", year, day)
}
