package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"devconsole/internal/model"
)

// ErrNoToken is returned before any I/O when no bearer token was saved.
var ErrNoToken = errors.New("no API token saved; log in first")

// Header is one response header, name lowercased.
type Header struct {
	Name  string
	Value string
}

// Result is one completed call. It is rendered once and dropped.
type Result struct {
	StatusCode  int
	Status      string
	StatusText  string
	Elapsed     time.Duration
	Headers     []Header
	ContentType string
	Body        []byte
}

const DefaultTimeout = 30 * time.Second

type Client struct {
	http *http.Client
}

// New returns a client. A zero timeout means calls wait for the backend
// until their context is cancelled.
func New(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewWithHTTP wraps an existing *http.Client, e.g. one from httptest.
func NewWithHTTP(c *http.Client) *Client {
	return &Client{http: c}
}

// RequestHeaders are sent with every call, body or not.
func RequestHeaders(token string) map[string]string {
	return map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	}
}

// Execute sends d with the JSON and bearer headers and reads the whole
// response. Transport failures are wrapped with the method and URL.
func (c *Client) Execute(ctx context.Context, token string, d model.Descriptor) (Result, error) {
	var body io.Reader
	if d.Body != nil {
		b, err := json.Marshal(d.Body)
		if err != nil {
			return Result{}, fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, d.URL, body)
	if err != nil {
		return Result{}, fmt.Errorf("new request: %w", err)
	}
	for k, v := range RequestHeaders(token) {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, fmt.Errorf("send %s %s: %w", d.Method, d.URL, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read response body: %w", err)
	}

	return Result{
		StatusCode:  resp.StatusCode,
		Status:      resp.Status,
		StatusText:  statusText(resp),
		Elapsed:     elapsed.Round(time.Millisecond),
		Headers:     orderedHeaders(resp.Header),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
	}, nil
}

// statusText is the reason phrase the server sent, without the code.
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, code))
}

// orderedHeaders lists headers the way a browser iterates them: lower-case
// names in sorted order, repeated values joined with ", ".
func orderedHeaders(h http.Header) []Header {
	out := make([]Header, 0, len(h))
	for k, vals := range h {
		out = append(out, Header{Name: strings.ToLower(k), Value: strings.Join(vals, ", ")})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
