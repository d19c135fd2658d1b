// Package kaggle is a client for the Kaggle public API (v1).
//
// The client covers the operation families the MCP tools expose:
// competitions, datasets, kernels, and models. All domain complexity
// (pagination tokens, upload handshakes, rate limiting) lives here;
// callers get one method per remote operation.
package kaggle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the base URL for the Kaggle API.
	DefaultBaseURL = "https://www.kaggle.com/api/v1"

	// defaultTimeout bounds non-download requests. Downloads stream and
	// rely on context cancellation instead.
	defaultTimeout = 2 * time.Minute

	// defaultRequestsPerSecond is a polite client-side ceiling so a chatty
	// MCP session does not trip Kaggle's server-side limits.
	defaultRequestsPerSecond = 5
)

// Client is a Kaggle API client authenticated with username + API key.
type Client struct {
	baseURL    string
	username   string
	key        string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures optional Client features.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithRateLimit overrides the client-side request rate ceiling.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1) }
}

// New creates a Kaggle API client.
func New(username, key string, opts ...Option) (*Client, error) {
	if username == "" {
		return nil, fmt.Errorf("kaggle username is required")
	}
	if key == "" {
		return nil, fmt.Errorf("kaggle API key is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		username:   username,
		key:        key,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultRequestsPerSecond+1),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx response from the Kaggle API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kaggle API error (status %d): %s", e.StatusCode, e.Message)
}

// apiErrorBody matches the error payload shapes the API returns.
type apiErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs a JSON request against the API and unmarshals the response
// into result (which may be nil for fire-and-forget calls).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	resp, err := c.roundTrip(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if err := checkStatus(resp.StatusCode, respBody); err != nil {
		return err
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshaling response: %w", err)
		}
	}
	return nil
}

// roundTrip builds and executes one authenticated request. Callers own
// the response body.
func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.username, c.key)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("kaggle API request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// checkStatus converts a non-2xx response into an APIError, preferring the
// server's own message when one is present.
func checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	msg := http.StatusText(statusCode)
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Message != "":
			msg = parsed.Message
		case parsed.Error != "":
			msg = parsed.Error
		}
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// download streams a GET response to destDir. fileName overrides the name
// derived from Content-Disposition; force allows overwriting. Returns the
// absolute path written.
func (c *Client) download(ctx context.Context, path string, query url.Values, destDir, fileName string, force bool) (string, error) {
	resp, err := c.roundTrip(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", checkStatus(resp.StatusCode, body)
	}

	if fileName == "" {
		fileName = fileNameFromResponse(resp, path)
	}

	return writeStream(resp.Body, destDir, fileName, force)
}

// downloadURL streams an absolute URL (e.g. a kernel output file link)
// without API authentication.
func (c *Client) downloadURL(ctx context.Context, rawURL, destDir, fileName string, force bool) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", checkStatus(resp.StatusCode, body)
	}

	return writeStream(resp.Body, destDir, fileName, force)
}

// writeStream writes r to destDir/fileName, creating destDir as needed.
// Without force, an existing file is an error (no silent overwrite).
func writeStream(r io.Reader, destDir, fileName string, force bool) (string, error) {
	if err := os.MkdirAll(destDir, 0o750); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	dest := filepath.Join(destDir, fileName)
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(dest, flags, 0o640) // #nosec G304 -- destination validated by caller
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()        //nolint:errcheck
		os.Remove(dest)  //nolint:errcheck // partial download, do not leave it behind
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dest, err)
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil
	}
	return abs, nil
}

// fileNameFromResponse extracts a file name from Content-Disposition,
// falling back to the last URL path segment.
func fileNameFromResponse(resp *http.Response, path string) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; name != "" {
				return filepath.Base(name)
			}
		}
	}
	return filepath.Base(path)
}

// uploadResult is the server's answer to an upload-slot request.
type uploadResult struct {
	Token     string `json:"token"`
	CreateURL string `json:"createUrl"`
}

// uploadFile performs the two-step file upload handshake: request an
// upload slot for the file, then PUT the bytes to the returned URL.
// Returns the blob token to reference in a subsequent create call.
func (c *Client) uploadFile(ctx context.Context, slotPath, filePath string) (string, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", filePath, err)
	}

	slot := fmt.Sprintf("%s/%d/%d", slotPath, info.Size(), info.ModTime().Unix())
	var res uploadResult
	if err := c.do(ctx, http.MethodPost, slot, url.Values{"fileName": {filepath.Base(filePath)}}, nil, &res); err != nil {
		return "", fmt.Errorf("requesting upload slot for %s: %w", filepath.Base(filePath), err)
	}
	if res.CreateURL == "" {
		return "", fmt.Errorf("upload slot for %s has no create URL", filepath.Base(filePath))
	}

	f, err := os.Open(filePath) // #nosec G304 -- path validated by caller
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", filePath, err)
	}
	defer f.Close() //nolint:errcheck

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, res.CreateURL, f)
	if err != nil {
		return "", fmt.Errorf("creating upload request: %w", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filepath.Base(filePath), err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", checkStatus(resp.StatusCode, body)
	}
	return res.Token, nil
}

// uploadFolder uploads every regular file directly under folder and
// returns their blob tokens. Subdirectories are skipped, matching the
// upstream CLI's default dir_mode.
func (c *Client) uploadFolder(ctx context.Context, slotPath, folder string, skip map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("reading folder %s: %w", folder, err)
	}

	var tokens []string
	for _, entry := range entries {
		if entry.IsDir() || skip[entry.Name()] {
			continue
		}
		token, err := c.uploadFile(ctx, slotPath, filepath.Join(folder, entry.Name()))
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// pageQuery builds the common pageToken/pageSize query pair.
func pageQuery(pageToken string, pageSize int) url.Values {
	q := url.Values{}
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	return q
}
