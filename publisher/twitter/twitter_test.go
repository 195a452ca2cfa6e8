package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/scipunch/newsflash/config"
	"github.com/scipunch/newsflash/publisher"
)

var testCreds = config.TwitterCredentials{
	APIKey:       "consumer-key",
	APISecret:    "consumer-secret",
	AccessToken:  "access-token",
	AccessSecret: "access-secret",
}

func TestClient_Publish(t *testing.T) {
	var gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "OAuth ") {
			t.Errorf("expected OAuth authorization header, got %q", auth)
		}
		if !strings.Contains(auth, `oauth_consumer_key="consumer-key"`) {
			t.Errorf("consumer key missing from header: %q", auth)
		}
		if !strings.Contains(auth, `oauth_token="access-token"`) {
			t.Errorf("access token missing from header: %q", auth)
		}

		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotText = body.Text

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1","text":"ok"}}`))
	}))
	defer srv.Close()

	c := New(testCreds, WithBaseURL(srv.URL), WithTimeout(5*time.Second))
	if c.Name() != "twitter" {
		t.Errorf("Name = %q, want twitter", c.Name())
	}

	if err := c.Publish(context.Background(), "BREAKING: hello https://example.com"); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if gotText != "BREAKING: hello https://example.com" {
		t.Errorf("server received %q", gotText)
	}
}

func TestClient_Publish_RateLimited(t *testing.T) {
	reset := time.Now().Add(15 * time.Minute).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-rate-limit-reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"title":"Too Many Requests","detail":"Too Many Requests","status":429}`))
	}))
	defer srv.Close()

	err := New(testCreds, WithBaseURL(srv.URL)).Publish(context.Background(), "x")
	rl, ok := publisher.IsRateLimit(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.Reset.Unix() != reset {
		t.Errorf("reset = %v, want %v", rl.Reset.Unix(), reset)
	}
	if rl.Message != "Too Many Requests" {
		t.Errorf("message = %q", rl.Message)
	}
}

func TestClient_Publish_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "detail",
			status:  http.StatusForbidden,
			body:    `{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content."}`,
			wantMsg: "duplicate content",
		},
		{
			name:    "legacy errors array",
			status:  http.StatusUnauthorized,
			body:    `{"errors":[{"message":"Could not authenticate you"}]}`,
			wantMsg: "Could not authenticate you",
		},
		{
			name:    "plain text",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantMsg: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := New(testCreds, WithBaseURL(srv.URL)).Publish(context.Background(), "x")
			var apiErr *publisher.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if !strings.Contains(apiErr.Message, tt.wantMsg) {
				t.Errorf("message = %q, want it to contain %q", apiErr.Message, tt.wantMsg)
			}
			if _, ok := publisher.IsRateLimit(err); ok {
				t.Error("non-429 error reported as rate limit")
			}
		})
	}
}

func TestClient_Publish_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if err := New(testCreds, WithBaseURL(url)).Publish(context.Background(), "x"); err == nil {
		t.Fatal("expected error against a closed server")
	}
}

func TestParseReset(t *testing.T) {
	if !parseReset("").IsZero() {
		t.Error("empty header should give zero time")
	}
	if !parseReset("soon").IsZero() {
		t.Error("garbage header should give zero time")
	}
	if got := parseReset("1700000000"); got.Unix() != 1700000000 {
		t.Errorf("parseReset = %v", got)
	}
}
