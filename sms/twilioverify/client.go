package twilioverify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://verify.twilio.com/v2"

// ErrNotApproved is an exported constant or variable used by the authentication engine.
var ErrNotApproved = errors.New("verification code not approved")

// Config defines a public type used by tourauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	AccountSID string
	AuthToken  string
	ServiceSID string

	// BaseURL overrides the Twilio endpoint, for tests.
	BaseURL string
	// HTTPClient overrides the transport. Defaults to a client with a
	// 10 second timeout.
	HTTPClient *http.Client
}

// Client is the Twilio Verify-backed SMSVerifier.
type Client struct {
	config Config
	http   *http.Client
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(cfg Config) (*Client, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.ServiceSID == "" {
		return nil, errors.New("account SID, auth token, and service SID are required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Client{config: cfg, http: httpClient}, nil
}

// StartVerification asks Twilio to deliver a verification code to the phone
// number over the given channel ("sms" or "call").
func (c *Client) StartVerification(ctx context.Context, phoneNumber, channel string) error {
	form := url.Values{
		"To":      {phoneNumber},
		"Channel": {channel},
	}

	_, err := c.post(ctx, "/Services/"+c.config.ServiceSID+"/Verifications", form)
	return err
}

// CheckVerification forwards the user-supplied code to Twilio and fails with
// [ErrNotApproved] unless Twilio reports the check approved.
func (c *Client) CheckVerification(ctx context.Context, phoneNumber, code string) error {
	form := url.Values{
		"To":   {phoneNumber},
		"Code": {code},
	}

	body, err := c.post(ctx, "/Services/"+c.config.ServiceSID+"/VerificationCheck", form)
	if err != nil {
		return err
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode verification check: %w", err)
	}
	if result.Status != "approved" {
		return ErrNotApproved
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.config.AccountSID, c.config.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("twilio verify: unexpected status %d: %s", resp.StatusCode, truncate(body))
	}

	return body, nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) > max {
		body = body[:max]
	}
	return string(body)
}
