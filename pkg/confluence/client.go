package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/worklogbot/worklog/pkg/constants"
)

// DefaultTimeout bounds every request unless SetTimeout or SetHTTPClient says otherwise.
const DefaultTimeout = 10 * time.Second

// NewClientParams carries everything needed to talk to one Confluence space.
type NewClientParams struct {
	// BaseURL is the v2 REST root, e.g. https://acme.atlassian.net/wiki/api/v2
	BaseURL string
	// BaseURLV1 is the v1 REST root used for templates.
	BaseURLV1 string
	SpaceID   string
	User      string
	APIToken  string
	Logger    zerolog.Logger
}

// Client is a minimal Confluence REST client covering folders, pages and templates.
// Every call is fire-once: no retries, no caching.
type Client struct {
	baseURL   string
	baseURLV1 string
	spaceID   string
	user      string
	apiToken  string

	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(p NewClientParams) *Client {
	c := Client{
		baseURL:   strings.TrimRight(p.BaseURL, "/"),
		baseURLV1: strings.TrimRight(p.BaseURLV1, "/"),
		spaceID:   p.SpaceID,
		user:      p.User,
		apiToken:  p.APIToken,
		logger:    p.Logger,
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	return &c
}

func (c *Client) SetTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

func (c *Client) SetHTTPClient(client *http.Client) *Client {
	c.httpClient = client
	return c
}

func (c *Client) newRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	body := io.Reader(http.NoBody)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, url, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth(c.user, c.apiToken)

	return req, nil
}

// MakeRequest performs req and returns the response body for any 2xx status.
// Other statuses come back as *APIError; network failures are wrapped as is.
func (c *Client) MakeRequest(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Redacted(), err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", req.Method, req.URL.Redacted(), err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Int("status", resp.StatusCode).
		Msg("confluence request")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return respBytes, nil
	}

	return nil, &APIError{
		Method:     req.Method,
		URL:        req.URL.Redacted(),
		StatusCode: resp.StatusCode,
		Body:       string(respBytes),
	}
}

// send issues one request and decodes the JSON response into res when res is non-nil.
func (c *Client) send(ctx context.Context, method, url string, payload, res any) error {
	req, err := c.newRequest(ctx, method, url, payload)
	if err != nil {
		return err
	}

	respData, err := c.MakeRequest(req)
	if err != nil {
		return err
	}

	if res == nil {
		return nil
	}
	if err := json.Unmarshal(respData, res); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", constants.ErrUnexpectedResponse, method, url, err)
	}
	return nil
}
