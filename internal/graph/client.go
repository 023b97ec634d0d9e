// Package graph talks to a Uniswap V3 subgraph over GraphQL.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the hosted Uniswap V3 subgraph.
const DefaultEndpoint = "https://api.thegraph.com/subgraphs/name/uniswap/uniswap-v3"

const (
	defaultTimeout     = 15 * time.Second
	defaultMaxAttempts = 3
	defaultBackoff     = 300 * time.Millisecond
	backoffFactor      = 3
)

// ErrMissingData means the response had a 2xx status and no errors payload
// but the data field was absent.
var ErrMissingData = errors.New("graph response missing data field")

// StatusError is a non-2xx HTTP response from the graph endpoint.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("graph request failed, status=%d", e.Status)
}

// QueryError is a GraphQL-level error: the transport succeeded but the
// response carried a populated errors array. It is never retried, because a
// malformed query will not self-correct on retry.
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	if len(e.Messages) == 0 {
		return "graph error: unknown graph error"
	}
	return "graph error: " + strings.Join(e.Messages, "; ")
}

// Config holds construction parameters for a Client.
type Config struct {
	Endpoint string
	// APIKey enables gateway authentication: sent both as a bearer token and
	// as a raw apikey header, since deployments differ on which they expect.
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
	// Limiter, when set, paces outbound requests across all callers.
	Limiter *rate.Limiter
	// MaxAttempts and BaseBackoff override the retry policy; zero values keep
	// the defaults (3 attempts, 300ms base, x3 per attempt).
	MaxAttempts int
	BaseBackoff time.Duration
}

// Client executes GraphQL queries with retry and backoff. It is immutable
// after construction and safe for concurrent use; each call builds and
// consumes its own request and response.
type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	limiter     *rate.Limiter
	logger      *zap.Logger
	maxAttempts int
	baseBackoff time.Duration
}

// NewClient builds a Client from Config, applying defaults for unset fields.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = defaultBackoff
	}
	return &Client{
		httpClient:  httpClient,
		endpoint:    endpoint,
		apiKey:      cfg.APIKey,
		limiter:     cfg.Limiter,
		logger:      logger,
		maxAttempts: maxAttempts,
		baseBackoff: baseBackoff,
	}
}

type graphRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphErrorItem struct {
	Message string `json:"message"`
}

type graphEnvelope struct {
	Data   json.RawMessage  `json:"data"`
	Errors []graphErrorItem `json:"errors"`
}

// execute posts {query, variables} and unmarshals the data field into out.
// Success requires a 2xx status, a parseable envelope, no errors array, and a
// present data field. Failing statuses other than 400 are retried with
// exponential backoff; everything else fails on the first attempt.
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	payload, err := json.Marshal(graphRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal graph request: %w", err)
	}

	backoff := c.baseBackoff
	for attempt := 1; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("rate limiter: %w", err)
			}
		}

		c.logger.Debug("graph request",
			zap.String("endpoint", c.endpoint),
			zap.Int("attempt", attempt),
		)

		err := c.post(ctx, payload, out)
		if err == nil {
			return nil
		}

		var statusErr *StatusError
		retryable := errors.As(err, &statusErr) && statusErr.Status != http.StatusBadRequest
		if !retryable || attempt >= c.maxAttempts {
			return err
		}

		c.logger.Info("graph request failed, backing off",
			zap.String("endpoint", c.endpoint),
			zap.Int("attempt", attempt),
			zap.Int("status", statusErr.Status),
			zap.Duration("backoff", backoff),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		backoff *= backoffFactor
	}
}

func (c *Client) post(ctx context.Context, payload []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "positionscope/0.1")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("apikey", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read graph response: %w", err)
	}

	var envelope graphEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode graph envelope: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, item := range envelope.Errors {
			messages = append(messages, item.Message)
		}
		return &QueryError{Messages: messages}
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return ErrMissingData
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode graph data: %w", err)
	}
	return nil
}
