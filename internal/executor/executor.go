package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrTimeout marks a command that exceeded the bounded-time contract. The
// session stays alive; only the single command fails.
var ErrTimeout = errors.New("executor timeout")

// Executor turns natural-language command text into a textual result. The
// gateway treats it as a black box; it must be idempotent-safe or stateless
// across sessions since no command context survives a disconnect.
type Executor interface {
	Run(ctx context.Context, commandText string) (string, error)
}

// HTTPExecutor relays commands to an agent server over its /chat endpoint.
type HTTPExecutor struct {
	BaseURL string
	Timeout time.Duration
	Client  *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Messages []chatMessage `json:"messages"`
}

func (e *HTTPExecutor) Run(ctx context.Context, commandText string) (string, error) {
	timeout := e.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{Messages: []chatMessage{{Role: "user", Content: commandText}}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := e.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("executor returned %s: %s", resp.Status, bytes.TrimSpace(b))
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode executor response: %w", err)
	}
	for _, m := range out.Messages {
		if m.Role == "assistant" {
			return m.Content, nil
		}
	}
	return "", errors.New("no assistant reply in executor response")
}
