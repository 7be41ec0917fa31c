package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// rpcStub answers every JSON-RPC call with the given hex result.
func rpcStub(result string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  result,
		})
	})
}

func TestNewRPCClientRequiresURLs(t *testing.T) {
	_, err := NewRPCClient(nil, time.Second, time.Second)
	require.Error(t, err)
}

func TestGetClientFailsOverAndDropsBrokenNode(t *testing.T) {
	good := httptest.NewServer(rpcStub("0x1"))
	defer good.Close()

	// dialed fine (http dialing is lazy) but refuses every request
	bad := httptest.NewServer(http.NotFoundHandler())
	bad.Close()

	c, err := NewRPCClient([]string{bad.URL, good.URL}, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	defer c.Close()

	chainID, err := c.ChainID(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, chainID.Int64())

	// the broken connection was dropped, not kept for reuse
	c.mu.Lock()
	require.Nil(t, c.clients[0])
	require.Equal(t, 1, c.current)
	c.mu.Unlock()

	// subsequent calls stick to the healthy node
	_, err = c.SuggestGasPrice(context.Background())
	require.NoError(t, err)
}

func TestGetClientAllNodesUnavailable(t *testing.T) {
	bad := httptest.NewServer(http.NotFoundHandler())
	bad.Close()

	c, err := NewRPCClient([]string{bad.URL}, 10*time.Millisecond, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ChainID(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unavailable")
}
