package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ChaosForCurio/Xieriee-Store/constants"
	"github.com/ChaosForCurio/Xieriee-Store/logger"
)

const maxResponseBytes = 8 << 20

type Client interface {
	ListApps(ctx context.Context) ([]App, error)
	GetApp(ctx context.Context, id string) (*App, error)
	Upload(ctx context.Context, uploadRequest *UploadRequest) error
}

type client struct {
	baseUrl    string
	httpClient *http.Client
}

func NewClient(baseUrl string) *client {
	return &client{
		baseUrl: baseUrl,
		httpClient: &http.Client{
			Timeout: constants.UPSTREAM_REQUEST_TIMEOUT,
		},
	}
}

func (c *client) ListApps(ctx context.Context) ([]App, error) {
	var apps []App
	if err := c.getJSON(ctx, "/apps", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *client) GetApp(ctx context.Context, id string) (*App, error) {
	var app App
	if err := c.getJSON(ctx, "/apps/"+id, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Upload publishes a new app package. Single-shot, all or nothing: no
// chunking, no progress reporting, no retry.
func (c *client) Upload(ctx context.Context, uploadRequest *UploadRequest) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", uploadRequest.Filename)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	if _, err := part.Write(uploadRequest.File); err != nil {
		return &APIError{Message: err.Error()}
	}

	fields := map[string]string{
		"title":       uploadRequest.Title,
		"developer":   uploadRequest.Developer,
		"description": uploadRequest.Description,
		"category_id": uploadRequest.CategoryId,
		"platform":    uploadRequest.Platform,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return &APIError{Message: err.Error()}
		}
	}
	if err := writer.Close(); err != nil {
		return &APIError{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseUrl+"/apps/upload", &body)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	// the success body is upstream-defined JSON we do not consume
	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes)); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to drain upload response body")
	}
	return nil
}

func (c *client) getJSON(ctx context.Context, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+path, nil)
	if err != nil {
		return &APIError{Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errorFromResponse(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read response: %s", err.Error())}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return &APIError{Message: fmt.Sprintf("failed to decode response: %s", err.Error()), Status: resp.StatusCode}
	}
	return nil
}

// errorFromResponse standardizes upstream failures: the message from the
// structured {error} body when present, else the HTTP status text.
func errorFromResponse(resp *http.Response) *APIError {
	apiError := &APIError{
		Message: resp.Status,
		Status:  resp.StatusCode,
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apiError
	}

	var body upstreamErrorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiError.Message = body.Error
	}

	if apiError.Status >= 500 {
		logger.Logger.Error().Int("status", apiError.Status).Str("message", apiError.Message).Msg("Upstream server error")
	}
	return apiError
}
