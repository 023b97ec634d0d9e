package ethrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

var testAddr = common.HexToAddress("0xC36442b4a4522E871399CD717aBDD847Ab11FE88")

func rpcServer(t *testing.T, handler func(req rpcRequest) (string, int)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		body, status := handler(req)
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestCallReturnsResultBytes(t *testing.T) {
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	srv := rpcServer(t, func(req rpcRequest) (string, int) {
		require.Equal(t, "2.0", req.Jsonrpc)
		require.Equal(t, "eth_call", req.Method)
		require.Len(t, req.Params, 2)
		return `{"jsonrpc":"2.0","id":"1","result":"` + hexutil.Encode(want) + `"}`, http.StatusOK
	})
	defer srv.Close()

	caller := NewCaller(srv.URL, srv.Client(), nil)
	got, err := caller.Call(context.Background(), testAddr, []byte{0x01})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestCallEmptyResult(t *testing.T) {
	srv := rpcServer(t, func(rpcRequest) (string, int) {
		return `{"jsonrpc":"2.0","id":"1","result":"0x"}`, http.StatusOK
	})
	defer srv.Close()

	caller := NewCaller(srv.URL, srv.Client(), nil)
	_, err := caller.Call(context.Background(), testAddr, nil)
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestCallMissingResult(t *testing.T) {
	srv := rpcServer(t, func(rpcRequest) (string, int) {
		return `{"jsonrpc":"2.0","id":"1"}`, http.StatusOK
	})
	defer srv.Close()

	caller := NewCaller(srv.URL, srv.Client(), nil)
	_, err := caller.Call(context.Background(), testAddr, nil)
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestCallRPCError(t *testing.T) {
	srv := rpcServer(t, func(rpcRequest) (string, int) {
		return `{"jsonrpc":"2.0","id":"1","error":{"code":-32000,"message":"execution reverted"}}`, http.StatusOK
	})
	defer srv.Close()

	caller := NewCaller(srv.URL, srv.Client(), nil)
	_, err := caller.Call(context.Background(), testAddr, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "execution reverted")
}

func TestCallMalformedEnvelope(t *testing.T) {
	srv := rpcServer(t, func(rpcRequest) (string, int) {
		return `{"jsonrpc":`, http.StatusOK
	})
	defer srv.Close()

	caller := NewCaller(srv.URL, srv.Client(), nil)
	_, err := caller.Call(context.Background(), testAddr, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode eth_call envelope")
}

func TestCallTransportFailure(t *testing.T) {
	srv := rpcServer(t, func(rpcRequest) (string, int) { return "", http.StatusOK })
	srv.Close() // connection refused from here on

	caller := NewCaller(srv.URL, nil, nil)
	_, err := caller.Call(context.Background(), testAddr, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "transport")
}
