// Package client is a small Go client for the mailslot HTTP API, used
// by the sender and reader utilities.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/perchos/mailslot/internal/infrastructure/resilience"
)

// Client talks to a mailslot service instance. Transport failures feed
// a circuit breaker; once it opens, calls fail fast with
// resilience.ErrCircuitOpen until the service recovers.
type Client struct {
	resty   *resty.Client
	breaker *resilience.Breaker
}

// New creates a client for the service at baseURL.
func New(baseURL string) *Client {
	rc := resty.New()
	rc.
		SetBaseURL(baseURL).
		SetTimeout(10*time.Second).
		SetHeader("User-Agent", "mailslot-client/1.0")

	return &Client{
		resty: rc,
		breaker: resilience.New("mailslot-api", resilience.Settings{
			MaxRequests: 2,
			Timeout:     5 * time.Second,
		}),
	}
}

// execute runs a request through the breaker. Only transport errors
// count against it; an error response from the service means the
// service is reachable.
func (c *Client) execute(req func() (*resty.Response, error)) (*resty.Response, error) {
	var resp *resty.Response
	err := c.breaker.Execute(func() error {
		var reqErr error
		resp, reqErr = req()
		return reqErr
	})
	return resp, err
}

type openResponse struct {
	Success  bool   `json:"success"`
	HandleID string `json:"handle_id"`
	Error    string `json:"error"`
}

type opResponse struct {
	Success      bool   `json:"success"`
	BytesWritten int    `json:"bytes_written"`
	Data         string `json:"data"`
	Bytes        int    `json:"bytes"`
	Error        string `json:"error"`
}

// Open creates a handle on a slot id.
func (c *Client) Open(ctx context.Context, slot uint32) (string, error) {
	return c.open(ctx, map[string]interface{}{"slot": slot})
}

// OpenByName creates a handle on a named slot from the device table.
func (c *Client) OpenByName(ctx context.Context, name string) (string, error) {
	return c.open(ctx, map[string]interface{}{"name": name})
}

func (c *Client) open(ctx context.Context, body map[string]interface{}) (string, error) {
	var out openResponse
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.resty.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&out).
			SetError(&out).
			Post("/handles")
	})
	if err != nil {
		return "", fmt.Errorf("open failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return "", fmt.Errorf("open failed: %s", out.Error)
	}
	return out.HandleID, nil
}

// Select selects the channel for a handle.
func (c *Client) Select(ctx context.Context, handleID string, channel uint32) error {
	var out opResponse
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.resty.R().
			SetContext(ctx).
			SetBody(map[string]interface{}{"channel": channel}).
			SetResult(&out).
			SetError(&out).
			Post(fmt.Sprintf("/handles/%s/select", handleID))
	})
	if err != nil {
		return fmt.Errorf("select failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return fmt.Errorf("select failed: %s", out.Error)
	}
	return nil
}

// Write stores a message on the handle's selected channel and returns
// the number of bytes stored.
func (c *Client) Write(ctx context.Context, handleID string, data []byte) (int, error) {
	var out opResponse
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.resty.R().
			SetContext(ctx).
			SetBody(map[string]interface{}{"data": string(data)}).
			SetResult(&out).
			SetError(&out).
			Post(fmt.Sprintf("/handles/%s/write", handleID))
	})
	if err != nil {
		return 0, fmt.Errorf("write failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return 0, fmt.Errorf("write failed: %s", out.Error)
	}
	return out.BytesWritten, nil
}

// Read returns the message on the handle's selected channel.
func (c *Client) Read(ctx context.Context, handleID string, capacity int) ([]byte, error) {
	var out opResponse
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.resty.R().
			SetContext(ctx).
			SetQueryParam("capacity", fmt.Sprintf("%d", capacity)).
			SetResult(&out).
			SetError(&out).
			Get(fmt.Sprintf("/handles/%s/read", handleID))
	})
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return nil, fmt.Errorf("read failed: %s", out.Error)
	}
	return []byte(out.Data), nil
}

// Close discards a handle.
func (c *Client) Close(ctx context.Context, handleID string) error {
	var out opResponse
	resp, err := c.execute(func() (*resty.Response, error) {
		return c.resty.R().
			SetContext(ctx).
			SetResult(&out).
			SetError(&out).
			Delete(fmt.Sprintf("/handles/%s", handleID))
	})
	if err != nil {
		return fmt.Errorf("close failed: %w", err)
	}
	if resp.IsError() || !out.Success {
		return fmt.Errorf("close failed: %s", out.Error)
	}
	return nil
}
