package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/scipunch/newsflash/config"
	"github.com/scipunch/newsflash/publisher"
)

const (
	name           = "twitter"
	DefaultBaseURL = "https://api.twitter.com"
	tweetsPath     = "/2/tweets"
)

// Client posts tweets through the v2 API using OAuth 1.0a user context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL string
	base    *http.Client
	timeout time.Duration
}

// WithBaseURL points the client at another API host.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the transport used underneath the OAuth signer.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.base = c }
}

// WithTimeout bounds every API call.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// New creates a client signing requests with the four static credentials.
// Incomplete credentials are not rejected here; the API will refuse the calls.
func New(creds config.TwitterCredentials, opts ...Option) *Client {
	o := clientOptions{baseURL: DefaultBaseURL, base: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, o.base)
	hc := cfg.Client(ctx, token)
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	return &Client{
		baseURL:    o.baseURL,
		httpClient: hc,
	}
}

// Name returns the publisher identifier
func (c *Client) Name() string {
	return name
}

type tweetRequest struct {
	Text string `json:"text"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type errorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e errorResponse) message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	case len(e.Errors) > 0:
		return e.Errors[0].Message
	}
	return ""
}

// Publish creates a tweet with the given text.
func (c *Client) Publish(ctx context.Context, text string) error {
	body, err := json.Marshal(tweetRequest{Text: text})
	if err != nil {
		return fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tweetsPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var tr tweetResponse
		if err := json.Unmarshal(respBody, &tr); err != nil {
			return fmt.Errorf("decode tweet response: %w", err)
		}
		return nil
	}

	var er errorResponse
	_ = json.Unmarshal(respBody, &er)
	msg := er.message()
	if msg == "" {
		msg = strings.TrimSpace(string(respBody))
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &publisher.RateLimitError{
			Reset:   parseReset(resp.Header.Get("x-rate-limit-reset")),
			Message: msg,
		}
	}

	return &publisher.APIError{
		StatusCode: resp.StatusCode,
		Message:    msg,
	}
}

// parseReset reads the epoch-seconds reset header, zero when absent.
func parseReset(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
