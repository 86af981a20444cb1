package mcapd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines the backend operations the console depends on. It is
// implemented by *Client and can be swapped for a fake in tests.
type Service interface {
	ListLogs(ctx context.Context) ([]LogRecord, error)
	GetLog(ctx context.Context, id int64) (*LogRecord, error)
	UploadLog(ctx context.Context, name string, file io.Reader) error
	UpdateLog(ctx context.Context, id int64, payload UpdatePayload, mode UpdateMode) error
	DeleteLog(ctx context.Context, id int64) error
	FetchGeometry(ctx context.Context, id int64) (*FeatureCollection, error)
	DownloadLog(ctx context.Context, id int64) (Download, error)
	FetchVehicles(ctx context.Context) ([]LookupEntity, error)
	FetchOperators(ctx context.Context) ([]LookupEntity, error)
	FetchEventTypes(ctx context.Context) ([]LookupEntity, error)
	ParseSummary(ctx context.Context) (json.RawMessage, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the mcapd HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultAPIBase        = "127.0.0.1:8000"
	defaultUserAgent      = "paddock/0.1"
	defaultRequestTimeout = 15 * time.Second
)

// NewClient builds a Client for the provided base address. Timeout bounds
// every request; zero uses the default.
func NewClient(apiBase string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// ListLogs retrieves the full log collection in server order. A success
// response that is not an array is normalized to an empty collection.
func (c *Client) ListLogs(ctx context.Context) ([]LogRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.raw(ctx, http.MethodGet, "/mcap-logs/", nil)
	if err != nil {
		return nil, err
	}
	var logs []LogRecord
	if err := json.Unmarshal(body, &logs); err != nil {
		var probe any
		if json.Unmarshal(body, &probe) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return logs, nil
}

// GetLog retrieves a single log record.
func (c *Client) GetLog(ctx context.Context, id int64) (*LogRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var record LogRecord
	if err := c.do(ctx, http.MethodGet, logPath(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UploadLog submits a new recording as a multipart form with field "file".
// The server assigns the record; callers resync by listing afterwards.
func (c *Client) UploadLog(ctx context.Context, name string, file io.Reader) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("finish form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, &url.URL{Path: "/mcap-logs/"}, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return checkStatus(resp)
}

// UpdateLog applies an edit to a record. UpdateMerge maps to PATCH,
// UpdateReplace to PUT.
func (c *Client) UpdateLog(ctx context.Context, id int64, payload UpdatePayload, mode UpdateMode) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	method := http.MethodPatch
	if mode == UpdateReplace {
		method = http.MethodPut
	}
	return c.do(ctx, method, logPath(id), payload, nil)
}

// DeleteLog removes a record.
func (c *Client) DeleteLog(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, logPath(id), nil, nil)
}

// FetchGeometry retrieves the spatial track for a log. Callers treat a
// failure as "no geometry" rather than escalating.
func (c *Client) FetchGeometry(ctx context.Context, id int64) (*FeatureCollection, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var fc FeatureCollection
	if err := c.do(ctx, http.MethodGet, logPath(id)+"geojson", nil, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// DownloadLog retrieves the original file bytes. The suggested filename
// comes from the Content-Disposition header, with a synthesized fallback.
func (c *Client) DownloadLog(ctx context.Context, id int64) (Download, error) {
	if c == nil {
		return Download{}, fmt.Errorf("client is nil")
	}
	req, err := c.newRequest(ctx, http.MethodGet, &url.URL{Path: logPath(id) + "download"}, nil)
	if err != nil {
		return Download{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Download{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return Download{}, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("read response: %w", err)
	}
	return Download{
		Filename: downloadFilename(resp.Header.Get("Content-Disposition"), id),
		Data:     data,
	}, nil
}

// FetchVehicles retrieves the vehicle lookup collection.
func (c *Client) FetchVehicles(ctx context.Context) ([]LookupEntity, error) {
	return c.fetchLookup(ctx, "/cars/")
}

// FetchOperators retrieves the operator lookup collection.
func (c *Client) FetchOperators(ctx context.Context) ([]LookupEntity, error) {
	return c.fetchLookup(ctx, "/drivers/")
}

// FetchEventTypes retrieves the event-category lookup collection.
func (c *Client) FetchEventTypes(ctx context.Context) ([]LookupEntity, error) {
	return c.fetchLookup(ctx, "/event-types/")
}

// ParseSummary requests the backend's parse summary and returns the raw
// JSON payload for display.
func (c *Client) ParseSummary(ctx context.Context) (json.RawMessage, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	body, err := c.raw(ctx, http.MethodPost, "/parse/summary/", nil)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) fetchLookup(ctx context.Context, path string) ([]LookupEntity, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var entities []LookupEntity
	if err := c.do(ctx, http.MethodGet, path, nil, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}
	req, err := c.newRequest(ctx, method, &url.URL{Path: path}, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// raw performs a request and returns the success body verbatim.
func (c *Client) raw(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	req, err := c.newRequest(ctx, method, &url.URL{Path: path}, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method string, rel *url.URL, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if method != http.MethodGet {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return req, nil
}

// checkStatus classifies a non-success response, consuming its body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return classifyError(resp.StatusCode, http.StatusText(resp.StatusCode), body)
}

func logPath(id int64) string {
	return "/mcap-logs/" + strconv.FormatInt(id, 10) + "/"
}

// downloadFilename extracts the filename="..." parameter from a
// Content-Disposition header, synthesizing a default when absent or
// unparsable.
func downloadFilename(header string, id int64) string {
	if strings.TrimSpace(header) == "" {
		return DefaultDownloadName(id)
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return DefaultDownloadName(id)
	}
	name := strings.TrimSpace(params["filename"])
	if name == "" {
		return DefaultDownloadName(id)
	}
	return name
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
