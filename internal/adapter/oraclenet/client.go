// Package oraclenet is the HTTP client for the external oracle network. The
// network computes credit scores off-chain; this client only submits opaque
// requests and hands back the correlation id. Answers arrive later on the
// fulfillment webhook.
package oraclenet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"lendpool-backend/internal/usecase/oracle"
)

type Client struct {
	url    string
	token  string
	client *http.Client
	log    *logrus.Logger
}

func NewClient(url, token string, log *logrus.Logger) *Client {
	return &Client{
		url:   url,
		token: token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

type submitResponse struct {
	RequestID string `json:"request_id"`
}

// Submit fires the scoring request and returns the network-assigned
// correlation id synchronously.
func (c *Client) Submit(ctx context.Context, req oracle.SubmitRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/requests", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("oracle network unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("oracle network returned %d: %s", resp.StatusCode, body)
	}

	var out submitResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.RequestID == "" {
		return "", fmt.Errorf("oracle network returned empty request id")
	}
	c.log.WithFields(logrus.Fields{"request_id": out.RequestID, "loan_id": req.LoanID}).
		Debug("scoring request submitted")
	return out.RequestID, nil
}
