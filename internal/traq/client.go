package traq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StampWhiteCheckMark is the acknowledgement stamp the bot reacts with after a
// successful command.
const StampWhiteCheckMark = "93d376c3-80c9-4bb2-909b-2bbe2fbf9e93"

type Message struct {
	ID        string `json:"id"`
	ChannelID string `json:"channelId"`
}

// Client talks to the traQ REST API. It is the only component that knows the
// wire format; everything above it deals in channel/message ids and plain text.
type Client struct {
	baseURL     string
	accessToken string
	http        *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		http:        &http.Client{Timeout: 10 * time.Second},
	}
}

type messageRequest struct {
	Content string `json:"content"`
	Embed   bool   `json:"embed"`
}

func (c *Client) CreateMessage(ctx context.Context, channelID, content string, embed bool) (*Message, error) {
	url := fmt.Sprintf("%s/channels/%s/messages", c.baseURL, channelID)

	resp, err := c.post(ctx, url, messageRequest{Content: content, Embed: embed})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, unexpectedStatus("create message", resp)
	}

	var msg Message
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, fmt.Errorf("decode create message response: %w", err)
	}

	return &msg, nil
}

func (c *Client) UpdateMessage(ctx context.Context, messageID, content string, embed bool) error {
	url := fmt.Sprintf("%s/messages/%s", c.baseURL, messageID)

	body, err := json.Marshal(messageRequest{Content: content, Embed: embed})
	if err != nil {
		return fmt.Errorf("marshal update message request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build update message request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("update message", resp)
	}

	return nil
}

type stampRequest struct {
	Count int `json:"count"`
}

func (c *Client) AddStamp(ctx context.Context, messageID, stampID string) error {
	url := fmt.Sprintf("%s/messages/%s/stamps/%s", c.baseURL, messageID, stampID)

	resp, err := c.post(ctx, url, stampRequest{Count: 1})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return unexpectedStatus("add stamp", resp)
	}

	return nil
}

func (c *Client) post(ctx context.Context, url string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	return resp, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
}

func unexpectedStatus(op string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode, string(detail))
}
