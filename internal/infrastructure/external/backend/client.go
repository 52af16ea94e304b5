package backend

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

	"github.com/fieldsales/visitform/internal/application/port"
	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

const (
	verifyUserPath = "/api/verify-user"
	sendMailPath   = "/api/send-mail"

	// maxResponseBytes caps the body read from the backend
	maxResponseBytes = 1 << 20
)

// Config holds backend client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the visit backend. It implements port.Verifier and port.SubmissionGateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new backend client
func NewClient(cfg Config, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Verify checks the phone number against POST /api/verify-user
func (c *Client) Verify(ctx context.Context, phoneNumber string) (*entity.Salesperson, error) {
	const op = "backend.verify"

	var resp entity.VerifyUserResponse
	status, errMsg, err := c.postJSON(ctx, verifyUserPath, entity.VerifyUserRequest{UserPhoneNumber: phoneNumber}, &resp)
	if err != nil {
		return nil, failure.Network(err, op, failure.TitleConnectionError, failure.MsgConnectionError)
	}

	switch {
	case status >= 200 && status < 300:
		if resp.User == nil {
			return nil, failure.Network(fmt.Errorf("response without user"), op, failure.TitleConnectionError, failure.MsgConnectionError)
		}
		return resp.User, nil
	case status == http.StatusTooManyRequests:
		return nil, failure.New(failure.KindRateLimited, op, failure.TitleAccessDenied, errMsg)
	case status >= 400 && status < 500, errMsg != "":
		// any rejection carrying a server message is shown as access denied
		return nil, failure.New(failure.KindUnauthorized, op, failure.TitleAccessDenied, errMsg)
	default:
		return nil, failure.Network(fmt.Errorf("status %d", status), op, failure.TitleConnectionError, failure.MsgConnectionError)
	}
}

// Submit delivers the visit through POST /api/send-mail
func (c *Client) Submit(ctx context.Context, submission entity.Submission) error {
	const op = "backend.submit"

	status, errMsg, err := c.postJSON(ctx, sendMailPath, submission, nil)
	if err != nil {
		return failure.Network(err, op, failure.TitleSendError, "")
	}
	if status < 200 || status >= 300 {
		if errMsg == "" {
			errMsg = failure.MsgServerError
		}
		return failure.Network(fmt.Errorf("status %d", status), op, failure.TitleSendError, errMsg)
	}

	return nil
}

// postJSON posts body and decodes a 2xx response into out.
// For other statuses it returns the "error" field of the response body.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, out interface{}) (int, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed",
			zap.String("path", path),
			zap.Error(err))
		return 0, "", fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read response: %w", err)
	}

	c.logger.Debug("Backend request completed",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, "", fmt.Errorf("decode response: %w", err)
			}
		}
		return resp.StatusCode, "", nil
	}

	var errResp entity.ErrorResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &errResp)
	}
	return resp.StatusCode, errResp.Error, nil
}

var (
	_ port.Verifier          = (*Client)(nil)
	_ port.SubmissionGateway = (*Client)(nil)
)
