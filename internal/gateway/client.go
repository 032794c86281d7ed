package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"caritas/internal/dto"
	apperrors "caritas/internal/errors"
)

const (
	maxErrorBody    = 64 << 10
	maxResponseBody = 8 << 20
)

// TokenSource yields the bearer token for a request made on behalf of the
// caller carried by ctx. An empty token means the request goes out
// unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) string
}

// Client talks to the remote Cáritas admin API (base path /api/admin).
// Every failure is returned as *errors.RemoteError; nothing is retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxConnsPerHost:     10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		logger:  logger,
	}
}

type call struct {
	method    string
	path      string
	body      any
	out       any
	anonymous bool
}

func (c *Client) send(ctx context.Context, cl call) error {
	op := cl.method + " " + cl.path

	var reader io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return apperrors.NewInternalError("encoding request body for "+op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, reader)
	if err != nil {
		return apperrors.NewInternalError("building request "+op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !cl.anonymous && c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransportError(op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejection(op, resp)
	}

	body := io.LimitReader(resp.Body, maxResponseBody+1)
	if cl.out == nil {
		// drained so the connection goes back to the pool
		_, _ = io.Copy(io.Discard, body)
		return nil
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return apperrors.NewTransportError(op, err)
	}
	if len(data) > maxResponseBody {
		return apperrors.NewTransportError(op, fmt.Errorf("response body exceeds %d bytes", maxResponseBody))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, cl.out); err != nil {
		return apperrors.NewTransportError(op, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}

func rejection(op string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body dto.RemoteErrorBody
	message := ""
	if err := json.Unmarshal(data, &body); err == nil {
		message = body.Message
		if message == "" {
			message = body.Error
		}
	}

	return apperrors.NewRejectionError(op, resp.StatusCode, message)
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
