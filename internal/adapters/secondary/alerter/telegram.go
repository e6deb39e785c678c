package alerter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const apiTimeout = 10 * time.Second

// Client отправляет алерты в Telegram группу (или топик форума) через Bot API
type Client struct {
	httpClient      *http.Client
	url             string
	chatID          int64
	messageThreadID *int64
	log             *slog.Logger
}

func NewClient(cfg *Config, log *slog.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: apiTimeout},
		url:             strings.TrimRight(cfg.BaseURL, "/") + "/bot" + cfg.BotToken + "/sendMessage",
		chatID:          cfg.ChatID,
		messageThreadID: cfg.MessageThreadID,
		log:             log,
	}
}

type sendMessageRequest struct {
	ChatID          int64  `json:"chat_id"`
	Text            string `json:"text"`
	MessageThreadID *int64 `json:"message_thread_id,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendAlert реализует service.IAlerterService
func (c *Client) SendAlert(ctx context.Context, message string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:          c.chatID,
		Text:            message,
		MessageThreadID: c.messageThreadID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read alert response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("failed to decode alert response (status %d): %w", resp.StatusCode, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error (status %d): %s", resp.StatusCode, apiResp.Description)
	}

	c.log.Debug("alert sent successfully",
		"chat_id", c.chatID,
		"message_thread_id", c.messageThreadID,
	)

	return nil
}
