// Package telegram provides a client for the Telegram Bot API: update
// delivery, file metadata lookup, file download and outbound messages.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"receipt-bot/pkg/config"

	"go.uber.org/zap"
)

type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.TelegramConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	// The client timeout must exceed the long-poll window, otherwise
	// getUpdates calls are cut short.
	if cfg.PollTimeout >= timeout {
		timeout = cfg.PollTimeout + 5*time.Second
	}

	return &Client{
		apiURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// call performs one Bot API method call and decodes the result envelope.
func (c *Client) call(ctx context.Context, method string, params url.Values, result any) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("%s failed with status %d: %s", method, resp.StatusCode, envelope.Description)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode %s result: %w", method, err)
		}
	}
	return nil
}

// GetFile resolves a file identifier to its transient download path.
func (c *Client) GetFile(ctx context.Context, fileID string) (string, error) {
	params := url.Values{}
	params.Set("file_id", fileID)

	var file File
	if err := c.call(ctx, "getFile", params, &file); err != nil {
		return "", err
	}
	if file.FilePath == "" {
		return "", fmt.Errorf("getFile returned no file_path for %s", fileID)
	}
	return file.FilePath, nil
}

// DownloadFile fetches the raw bytes behind a path returned by GetFile.
func (c *Client) DownloadFile(ctx context.Context, filePath string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/file/bot%s/%s", c.apiURL, c.token, filePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("file download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("file download failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file download returned no data for %s", filePath)
	}

	c.logger.Debug("File downloaded",
		zap.String("file_path", filePath),
		zap.Int("size", len(data)),
	)
	return data, nil
}

// SendMessage sends a plain text message to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("text", text)
	return c.call(ctx, "sendMessage", params, nil)
}

// ReplyTo sends a text message as a direct reply to an earlier message.
func (c *Client) ReplyTo(ctx context.Context, chatID, messageID int64, text string) error {
	params := url.Values{}
	params.Set("chat_id", strconv.FormatInt(chatID, 10))
	params.Set("reply_to_message_id", strconv.FormatInt(messageID, 10))
	params.Set("text", text)
	return c.call(ctx, "sendMessage", params, nil)
}

// SetWebhook registers url as the update delivery endpoint.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	params := url.Values{}
	params.Set("url", webhookURL)
	return c.call(ctx, "setWebhook", params, nil)
}

// DeleteWebhook removes any registered webhook, optionally discarding the
// pending update backlog.
func (c *Client) DeleteWebhook(ctx context.Context, dropPending bool) error {
	params := url.Values{}
	params.Set("drop_pending_updates", strconv.FormatBool(dropPending))
	return c.call(ctx, "deleteWebhook", params, nil)
}

// GetUpdates long-polls for new updates. A negative offset asks for the most
// recent update only; timeout zero makes the call return immediately.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(int(timeout.Seconds())))

	var updates []Update
	if err := c.call(ctx, "getUpdates", params, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}
