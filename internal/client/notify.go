package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"freshmarket/internal/config"
	"freshmarket/internal/dto"

	"github.com/sony/gobreaker/v2"
)

// NotifyClient posts orders and leads to the human-facing notification
// channel. The channel is best effort: a circuit breaker keeps a flapping
// channel from slowing checkout down.
type NotifyClient interface {
	Send(ctx context.Context, req *dto.NotifyRequest) (*dto.NotifyResponse, error)
}

type notifyClientImpl struct {
	httpClient *http.Client
	url        string
	token      string
	breaker    *gobreaker.CircuitBreaker[*dto.NotifyResponse]
}

func NewNotifyClient(notifyCfg *config.Notify) NotifyClient {
	breaker := gobreaker.NewCircuitBreaker[*dto.NotifyResponse](gobreaker.Settings{
		Name:        "notify-channel",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
	})

	return &notifyClientImpl{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		url:     notifyCfg.URL,
		token:   notifyCfg.Token,
		breaker: breaker,
	}
}

func (c *notifyClientImpl) Send(ctx context.Context, req *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	return c.breaker.Execute(func() (*dto.NotifyResponse, error) {
		return c.send(ctx, req)
	})
}

func (c *notifyClientImpl) send(ctx context.Context, notice *dto.NotifyRequest) (*dto.NotifyResponse, error) {
	body, err := json.Marshal(notice)
	if err != nil {
		return nil, fmt.Errorf("marshal notify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("notify channel error %d: %s", resp.StatusCode, string(b))
	}

	var result dto.NotifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode notify response: %w", err)
	}

	return &result, nil
}
