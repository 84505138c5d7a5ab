// Package mindee wraps the Mindee expense-receipts prediction endpoint.
package mindee

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"receipt-bot/pkg/config"

	"go.uber.org/zap"
)

const defaultEndpoint = "https://api.mindee.net/v1/products/mindee/expense_receipts/v3/predict"

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.MindeeConfig, logger *zap.Logger) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// ParseReceipt submits the image to the prediction endpoint and returns the
// decoded prediction. The response shape is decoded into typed fields; a
// malformed body surfaces as a decode error rather than a blank prediction.
func (c *Client) ParseReceipt(ctx context.Context, image []byte, filename string) (*Prediction, error) {
	if len(image) == 0 {
		return nil, errors.New("empty receipt image")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("prediction failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	c.logger.Debug("Receipt prediction received",
		zap.String("filename", filename),
		zap.Int("image_bytes", len(image)),
	)
	return &parsed.Document.Inference.Prediction, nil
}
