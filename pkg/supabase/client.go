package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"eau-clair-web/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

// DefaultTimeout bounds every backend round-trip when the caller's context has no earlier deadline.
const DefaultTimeout = 10 * time.Second

// Options configures a Client.
type Options struct {
	URL        string
	AnonKey    string
	ServiceKey string
	Timeout    time.Duration
	// Verifier, when set, validates access tokens locally instead of asking the auth server.
	Verifier *jwt.Verifier
}

// Client talks to the hosted backend service: its auth server and its object storage.
// Table access goes through gorm instead (see pkg/database).
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	timeout    time.Duration
	verifier   *jwt.Verifier
}

func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.URL, "/"),
		anonKey:    opts.AnonKey,
		serviceKey: opts.ServiceKey,
		timeout:    timeout,
		verifier:   opts.Verifier,
	}
}

// APIError is a non-2xx answer from the backend; Message is the backend's own text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func parseAPIError(status int, body []byte) *APIError {
	var payload struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
		Error            string `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Msg
	for _, candidate := range []string{payload.ErrorDescription, payload.Message, payload.Error} {
		if msg != "" {
			break
		}
		msg = candidate
	}
	if msg == "" {
		msg = fmt.Sprintf("backend request failed with status %d", status)
	}
	return &APIError{Status: status, Message: msg}
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// send runs the agent and decodes a 2xx JSON body into out (when out is non-nil).
func (c *Client) send(ctx context.Context, a *fiber.Agent, out interface{}) error {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(a)
		return errors.Wrap(err, "backend request")
	}
	a.Timeout(c.requestTimeout(ctx))

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return errors.Wrap(errs[0], "backend request")
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return parseAPIError(code, body)
	}
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(err, "decode backend response")
		}
	}
	return nil
}

func newAgent(method, url string) *fiber.Agent {
	switch method {
	case fiber.MethodGet:
		return fiber.Get(url)
	case fiber.MethodPut:
		return fiber.Put(url)
	default:
		return fiber.Post(url)
	}
}

// authAgent prepares a request against the auth server. Without an access
// token the request is made with the anon key.
func (c *Client) authAgent(method, path, accessToken string) *fiber.Agent {
	a := newAgent(method, c.baseURL+"/auth/v1"+path)
	a.Set("apikey", c.anonKey)
	if accessToken == "" {
		accessToken = c.anonKey
	}
	a.Set(fiber.HeaderAuthorization, "Bearer "+accessToken)
	return a
}
