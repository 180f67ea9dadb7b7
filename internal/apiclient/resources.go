package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"exam-admin-console/internal/model"
)

func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	payload := map[string]string{
		"username": username,
		"password": password,
	}
	var resp model.LoginResponse
	if err := c.sendJSON(ctx, "", http.MethodPost, "/api/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, token, "/api/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRecords fetches a collection endpoint, optionally scoped by query
// parameters (for example a parent exam-event id).
func (c *Client) ListRecords(ctx context.Context, token, path string, query url.Values) ([]model.Record, error) {
	var records []model.Record
	if err := c.getJSON(ctx, token, path, query, &records); err != nil {
		return nil, err
	}
	c.log.Debug().Str("path", path).Int("count", len(records)).Msg("Collection fetched")
	return records, nil
}

// ListGrouped fetches an endpoint that returns several named collections at
// once, like the student lookup meta endpoint.
func (c *Client) ListGrouped(ctx context.Context, token, path string) (map[string][]model.Record, error) {
	var groups map[string][]model.Record
	if err := c.getJSON(ctx, token, path, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateRecord(ctx context.Context, token, path string, payload map[string]any) error {
	return c.sendJSON(ctx, token, http.MethodPost, path, payload, nil)
}

func (c *Client) UpdateRecord(ctx context.Context, token, path, id string, payload map[string]any) error {
	return c.sendJSON(ctx, token, http.MethodPut, path+"/"+id, payload, nil)
}

func (c *Client) DeleteRecord(ctx context.Context, token, path, id string) error {
	return c.do(ctx, token, http.MethodDelete, path+"/"+id, nil, nil, "", nil)
}

// Import uploads a bulk file plus its target-context id as multipart form
// data. A 2xx response is a success even when some rows were rejected; the
// rejected rows come back in the result's error list.
func (c *Client) Import(ctx context.Context, token, path, targetField, targetID, filename string, file []byte) (*model.ImportResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.WriteField(targetField, targetID); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	var result model.ImportResult
	if err := c.do(ctx, token, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadTemplate retrieves the fixed import-template file for client-side
// save. No state transition is involved; the bytes pass through untouched.
func (c *Client) DownloadTemplate(ctx context.Context, token, path string) (*model.TemplateFile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	tpl := &model.TemplateFile{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
		Filename:    "template.csv",
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			tpl.Filename = params["filename"]
		}
	}
	return tpl, nil
}

func (c *Client) Health(ctx context.Context, token string) (*model.HealthResponse, error) {
	var health model.HealthResponse
	if err := c.getJSON(ctx, token, "/api/health-check", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
