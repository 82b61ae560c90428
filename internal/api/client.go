package api

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/http/cookiejar"
    "net/url"
    "path"
    "strings"
    "sync"
    "time"

    retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// Client talks to the Cinephoria API.  It owns a cookie jar so that
// http-only session cookies set by the cookie login endpoints are
// carried on subsequent requests, and optionally a bearer token for
// the token login mechanism.  Transient failures are retried with
// backoff; 4xx responses are never retried.
type Client struct {
    baseURL *url.URL
    http    *retryablehttp.Client

    mu    sync.Mutex
    token string
}

// ClientConfig provides configuration details for the API client.
type ClientConfig struct {
    // URL of the Cinephoria API, e.g. "https://api.cinephoria.fr".
    URL string
    // Per-request timeout.  Zero means 10 seconds.
    Timeout time.Duration
    // Override the default transport (used by tests).
    Transport http.RoundTripper
}

// NewClient builds a Client from the config.  The cookie jar is
// created here and lives for the client's lifetime, mirroring the
// browser keeping its session cookie across pages.
func NewClient(config ClientConfig) (*Client, error) {
    base, err := url.Parse(config.URL)
    if err != nil || base.Host == "" {
        return nil, fmt.Errorf("invalid api url: %q", config.URL)
    }
    if config.Timeout == 0 {
        config.Timeout = 10 * time.Second
    }
    if config.Transport == nil {
        config.Transport = http.DefaultTransport
    }
    jar, err := cookiejar.New(nil)
    if err != nil {
        return nil, err
    }
    client := &Client{baseURL: base}
    client.http = &retryablehttp.Client{
        HTTPClient: &http.Client{
            Transport: config.Transport,
            Jar:       jar,
            Timeout:   config.Timeout,
        },
        Backoff:      retryablehttp.DefaultBackoff,
        CheckRetry:   retryablehttp.DefaultRetryPolicy,
        ErrorHandler: retryablehttp.PassthroughErrorHandler,
        RetryWaitMin: 200 * time.Millisecond,
        RetryWaitMax: 2 * time.Second,
        RetryMax:     3,
    }
    return client, nil
}

// SetToken installs the bearer token sent on subsequent requests.
// An empty string clears it.
func (c *Client) SetToken(token string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.token = token
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.token
}

// envelope is the wire wrapper every endpoint responds with.
type envelope struct {
    Success bool            `json:"success"`
    Data    json.RawMessage `json:"data"`
    Err     *envelopeError  `json:"error"`
}

type envelopeError struct {
    Message string `json:"message"`
    Code    string `json:"code,omitempty"`
}

// do issues a request and decodes the envelope into out.  A nil out
// discards the data payload.  Envelope failures become *Error values
// except for 401 and 404, which map to the sentinel errors so callers
// can branch with errors.Is.
func (c *Client) do(ctx context.Context, method, p string, body, out any, headers http.Header) error {
    u := *c.baseURL
    u.Path = path.Join(u.Path, p)

    var rdr io.Reader
    if body != nil {
        b, err := json.Marshal(body)
        if err != nil {
            return err
        }
        rdr = bytes.NewReader(b)
    }
    req, err := retryablehttp.NewRequestWithContext(ctx, method, u.String(), rdr)
    if err != nil {
        return err
    }
    req.Header.Set("Accept", "application/json")
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }
    for k, vs := range headers {
        for _, v := range vs {
            req.Header.Add(k, v)
        }
    }
    if tok := c.Token(); tok != "" {
        req.Header.Set("Authorization", "Bearer "+tok)
    }

    resp, err := c.http.Do(req)
    if err != nil {
        return fmt.Errorf("%s %s: %w", method, p, err)
    }
    defer resp.Body.Close()

    var env envelope
    if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
        return fmt.Errorf("%s %s: decode response: %w", method, p, err)
    }
    if !env.Success {
        return envelopeFailure(resp.StatusCode, env.Err)
    }
    if out != nil && len(env.Data) > 0 {
        if err := json.Unmarshal(env.Data, out); err != nil {
            return fmt.Errorf("%s %s: decode data: %w", method, p, err)
        }
    }
    return nil
}

func envelopeFailure(status int, ee *envelopeError) error {
    e := &Error{Status: status}
    if ee != nil {
        e.Message = ee.Message
        e.Code = ee.Code
    }
    switch status {
    case http.StatusUnauthorized:
        return fmt.Errorf("%w: %s", ErrUnauthorized, e.Error())
    case http.StatusNotFound:
        return fmt.Errorf("%w: %s", ErrNotFound, e.Error())
    }
    return e
}

func (c *Client) get(ctx context.Context, p string, out any) error {
    return c.do(ctx, http.MethodGet, p, nil, out, nil)
}

func (c *Client) post(ctx context.Context, p string, body, out any, headers http.Header) error {
    return c.do(ctx, http.MethodPost, p, body, out, headers)
}

// joinPath builds a path from segments, keeping ids out of format
// strings.
func joinPath(parts ...string) string {
    return "/" + strings.Join(parts, "/")
}
