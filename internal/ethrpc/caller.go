// Package ethrpc wraps a single eth_call request/response cycle over JSON-RPC.
// There is no retry at this layer; on-chain reads are issued once per logical
// field and retry policy, if any, belongs to the caller.
package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultTimeout = 15 * time.Second

// ErrEmptyResult means the JSON-RPC response carried no usable result field.
var ErrEmptyResult = errors.New("empty eth_call result")

// Caller issues eth_call requests against a single RPC endpoint. It is
// immutable after construction and safe for concurrent use.
type Caller struct {
	httpClient *http.Client
	endpoint   string
	logger     *zap.Logger
}

// NewCaller builds a Caller. A nil httpClient gets a default with a 15s
// timeout; a nil logger is replaced with a no-op.
func NewCaller(endpoint string, httpClient *http.Client, logger *zap.Logger) *Caller {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Caller{
		httpClient: httpClient,
		endpoint:   endpoint,
		logger:     logger,
	}
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      string        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result string    `json:"result"`
	Error  *rpcError `json:"error"`
}

// Call performs eth_call with the given calldata against `to` at the latest
// block and returns the raw return bytes.
func (c *Caller) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	reqID := uuid.NewString()
	payload, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		ID:      reqID,
		Method:  "eth_call",
		Params: []interface{}{
			callParams{To: to.Hex(), Data: hexutil.Encode(data)},
			"latest",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal eth_call request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build eth_call request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("eth_call",
		zap.String("to", to.Hex()),
		zap.String("request_id", reqID),
		zap.Int("data_len", len(data)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eth_call transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("eth_call status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read eth_call response: %w", err)
	}

	var envelope rpcResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode eth_call envelope: %w", err)
	}
	if envelope.Error != nil {
		return nil, fmt.Errorf("eth_call rpc error %d: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if envelope.Result == "" || envelope.Result == "0x" {
		return nil, ErrEmptyResult
	}

	out, err := hexutil.Decode(envelope.Result)
	if err != nil {
		return nil, fmt.Errorf("decode eth_call result: %w", err)
	}
	return out, nil
}
