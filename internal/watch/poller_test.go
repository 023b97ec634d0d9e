package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"positionScope/internal/graph"
)

func TestRunRequiresTargets(t *testing.T) {
	p := NewPoller(Config{}, graph.NewClient(graph.Config{}), nil)
	require.Error(t, p.Run(context.Background()))
}

func TestCycleSurvivesFailures(t *testing.T) {
	var goodQuotes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Variables["id"] == "0xbad" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		atomic.AddInt32(&goodQuotes, 1)
		fmt.Fprint(w, `{"data":{"pool":{"id":"0xgood","feeTier":"500"}}}`)
	}))
	defer srv.Close()

	client := graph.NewClient(graph.Config{Endpoint: srv.URL, BaseBackoff: time.Millisecond})
	p := NewPoller(Config{
		PoolIDs:  []string{"0xbad", "0xgood"},
		Interval: 5 * time.Millisecond,
	}, client, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&goodQuotes) >= 3
	}, 2*time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// the failing pool never stopped the healthy one from being quoted
	require.GreaterOrEqual(t, atomic.LoadInt32(&goodQuotes), int32(3))
}
