package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"exam-admin-console/internal/config"
	"exam-admin-console/internal/logger"
	errs "exam-admin-console/pkg/errors"

	"github.com/rs/zerolog"
)

// Client wraps every call to the remote exam service. The bearer token is
// passed explicitly on each request; there is no shared default header.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func New(cfg *config.Config) *Client {
	timeout := cfg.Remote.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.Remote.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.Named("apiclient"),
	}
}

// APIError is a non-2xx response from the remote service. Message holds the
// service message when it is a single string; Fields holds it when it is a
// field-keyed validation object.
type APIError struct {
	Status  int
	Message string
	Fields  errs.FieldErrors
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("remote API error (HTTP %d): %s", e.Status, e.Message)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("remote API error (HTTP %d): %s", e.Status, e.Fields.Flatten())
	}
	return fmt.Sprintf("remote API error (HTTP %d)", e.Status)
}

// Notice renders the error the way the console shows it: the message string
// as-is, or all field messages joined into one line.
func (e *APIError) Notice() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Fields.Flatten()
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, token, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, token, method, path string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	return c.do(ctx, token, method, path, nil, bytes.NewReader(data), "application/json", out)
}

// decodeError reads the service error body. The message field is either a
// plain string or an object keyed by field name.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Message) == 0 {
		return apiErr
	}

	var msg string
	if err := json.Unmarshal(envelope.Message, &msg); err == nil {
		apiErr.Message = msg
		return apiErr
	}

	var fields map[string]string
	if err := json.Unmarshal(envelope.Message, &fields); err == nil {
		apiErr.Fields = fields
		return apiErr
	}

	// Some validation responses key each field to a list of messages.
	var multi map[string][]string
	if err := json.Unmarshal(envelope.Message, &multi); err == nil {
		apiErr.Fields = make(errs.FieldErrors, len(multi))
		for k, v := range multi {
			if len(v) > 0 {
				apiErr.Fields[k] = v[0]
			}
		}
	}
	return apiErr
}
