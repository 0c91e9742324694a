// Package api is the HTTP client for the loan scoring backend. It owns the
// wire contract: bearer auth, the eleven-field predict body, and the mapping
// from HTTP outcomes to the domain error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"loan-predictor/domain"
)

// Client talks to the scoring backend. The base URL is explicit construction
// state, never read from the environment here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// detailBody is the FastAPI-style error envelope.
type detailBody struct {
	Detail string `json:"detail"`
}

// Login exchanges credentials for a session. A 401 or 400 surfaces the
// backend's detail as an AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Session, error) {
	creds := domain.Credentials{Username: username, Password: password}
	return c.authenticate(ctx, "/auth/login", creds)
}

// Signup registers a new account and returns the issued session.
func (c *Client) Signup(ctx context.Context, email, username, password string) (domain.Session, error) {
	creds := domain.Credentials{Username: username, Password: password, Email: email}
	return c.authenticate(ctx, "/auth/signup", creds)
}

func (c *Client) authenticate(ctx context.Context, path string, creds domain.Credentials) (domain.Session, error) {
	status, body, err := c.do(ctx, http.MethodPost, path, "", creds)
	if err != nil {
		return domain.Session{}, err
	}

	switch {
	case status >= 200 && status < 300:
		var session domain.Session
		if err := json.Unmarshal(body, &session); err != nil || session.Token == "" {
			return domain.Session{}, &domain.TransportError{
				Cause: fmt.Errorf("malformed auth response: %w", err),
			}
		}
		return session, nil
	case status == http.StatusUnauthorized, status >= 400 && status < 500:
		return domain.Session{}, &domain.AuthError{Detail: detail(body, "invalid credentials")}
	default:
		return domain.Session{}, &domain.TransportError{
			Cause: fmt.Errorf("auth endpoint returned status %d", status),
		}
	}
}

// Predict submits a validated application under the given bearer token.
func (c *Client) Predict(ctx context.Context, token string, app domain.LoanApplication) (domain.PredictionResult, error) {
	status, body, err := c.do(ctx, http.MethodPost, "/predict", token, app)
	if err != nil {
		return domain.PredictionResult{}, err
	}

	switch {
	case status >= 200 && status < 300:
		var result domain.PredictionResult
		if err := json.Unmarshal(body, &result); err != nil {
			return domain.PredictionResult{}, &domain.ScoringError{
				Detail: "unreadable prediction response",
			}
		}
		return result, nil
	case status == http.StatusUnauthorized:
		return domain.PredictionResult{}, domain.ErrAuthExpired
	case status >= 400 && status < 500:
		return domain.PredictionResult{}, &domain.ValidationError{Detail: detail(body, "rejected by backend")}
	case status == http.StatusInternalServerError:
		// The model pipeline reports its own failures as a 500 with detail.
		if d := detail(body, ""); d != "" {
			return domain.PredictionResult{}, &domain.ScoringError{Detail: d}
		}
		fallthrough
	default:
		return domain.PredictionResult{}, &domain.TransportError{
			Cause: fmt.Errorf("predict endpoint returned status %d", status),
		}
	}
}

// History lists past predictions for the token's user, most recent first.
func (c *Client) History(ctx context.Context, token string, limit int) ([]domain.HistoryEntry, error) {
	path := "/history?limit=" + strconv.Itoa(limit)
	status, body, err := c.do(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		entries := []domain.HistoryEntry{}
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, &domain.TransportError{
				Cause: fmt.Errorf("malformed history response: %w", err),
			}
		}
		return entries, nil
	case status == http.StatusUnauthorized:
		return nil, domain.ErrAuthExpired
	case status >= 400 && status < 500:
		return nil, &domain.ValidationError{Detail: detail(body, "rejected by backend")}
	default:
		return nil, &domain.TransportError{
			Cause: fmt.Errorf("history endpoint returned status %d", status),
		}
	}
}

// ModelInfo fetches metadata about the deployed model. Unauthenticated.
func (c *Client) ModelInfo(ctx context.Context) (domain.ModelInfo, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/model-info", "", nil)
	if err != nil {
		return domain.ModelInfo{}, err
	}
	if status < 200 || status >= 300 {
		return domain.ModelInfo{}, &domain.TransportError{
			Cause: fmt.Errorf("model-info endpoint returned status %d", status),
		}
	}
	var info domain.ModelInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return domain.ModelInfo{}, &domain.TransportError{
			Cause: fmt.Errorf("malformed model-info response: %w", err),
		}
	}
	return info, nil
}

// do executes one request. Network-level failures come back as
// TransportError; HTTP statuses are the caller's to classify.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (int, []byte, error) {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", redact(path)),
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0, nil, &domain.TransportError{Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &domain.TransportError{Cause: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", redact(path)),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	return resp.StatusCode, data, nil
}

// detail extracts the backend's error message, falling back when the body
// is not the expected envelope.
func detail(body []byte, fallback string) string {
	var d detailBody
	if err := json.Unmarshal(body, &d); err == nil && d.Detail != "" {
		return d.Detail
	}
	return fallback
}

// redact strips query strings from logged paths.
func redact(path string) string {
	if u, err := url.Parse(path); err == nil {
		return u.Path
	}
	return path
}
