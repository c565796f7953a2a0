package solanarpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sh00ty/leader-geo/internal/models"
)

type recordedCall struct {
	Method string
	Params []json.RawMessage
}

type fakeNode struct {
	mu      sync.Mutex
	calls   []recordedCall
	results map[string]string
	errors  map[string]string
	status  int
}

func (n *fakeNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	req := struct {
		Version string            `json:"jsonrpc"`
		ID      json.RawMessage   `json:"id"`
		Method  string            `json:"method"`
		Params  []json.RawMessage `json:"params"`
	}{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	n.mu.Lock()
	n.calls = append(n.calls, recordedCall{Method: req.Method, Params: req.Params})
	status := n.status
	result, hasResult := n.results[req.Method]
	rpcErr, hasErr := n.errors[req.Method]
	n.mu.Unlock()

	if status != 0 {
		http.Error(w, "upstream is sad", status)
		return
	}
	id := string(req.ID)
	if id == "" {
		id = "0"
	}
	w.Header().Set("Content-Type", "application/json")
	switch {
	case hasErr:
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + id + `,"error":` + rpcErr + `}`))
	case hasResult:
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + id + `,"result":` + result + `}`))
	default:
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + id + `,"error":{"code":-32601,"message":"Method not found"}}`))
	}
}

func (n *fakeNode) lastCall() recordedCall {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[len(n.calls)-1]
}

func newTestClient(t *testing.T, node *fakeNode) *Client {
	t.Helper()
	srv := httptest.NewServer(node)
	t.Cleanup(srv.Close)

	clnt, err := NewClient(Config{Endpoint: srv.URL, Timeout: time.Second, Commitment: "finalized"})
	require.NoError(t, err)
	return clnt
}

func TestNewClientValidatesEndpoint(t *testing.T) {
	_, err := NewClient(Config{Endpoint: "ftp://example.com"})
	assert.Error(t, err)
	_, err = NewClient(Config{Endpoint: "://bad"})
	assert.Error(t, err)
	_, err = NewClient(Config{Endpoint: "https://api.mainnet-beta.solana.com"})
	assert.NoError(t, err)
}

func TestGetSlot(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getSlot": "100"}}
	clnt := newTestClient(t, node)

	slot, err := clnt.GetSlot(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 100, slot)

	call := node.lastCall()
	assert.Equal(t, "getSlot", call.Method)
	require.Len(t, call.Params, 1)
	assert.JSONEq(t, `{"commitment":"finalized"}`, string(call.Params[0]))
}

func TestGetEpochInfo(t *testing.T) {
	node := &fakeNode{results: map[string]string{
		"getEpochInfo": `{"absoluteSlot":100,"blockHeight":90,"epoch":3,"slotIndex":6,"slotsInEpoch":432000}`,
	}}
	clnt := newTestClient(t, node)

	info, err := clnt.GetEpochInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.EpochInfo{
		AbsoluteSlot: 100,
		BlockHeight:  90,
		Epoch:        3,
		SlotIndex:    6,
		SlotsInEpoch: 432000,
	}, info)
}

const (
	leaderA = "Vote111111111111111111111111111111111111111"
	leaderB = "Stake11111111111111111111111111111111111111"
)

func TestGetLeaderSchedule(t *testing.T) {
	node := &fakeNode{results: map[string]string{
		"getLeaderSchedule": `{"` + leaderA + `":[6,7],"` + leaderB + `":[8]}`,
	}}
	clnt := newTestClient(t, node)

	schedule, ok, err := clnt.GetLeaderSchedule(context.Background(), 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.LeaderSchedule{leaderA: {6, 7}, leaderB: {8}}, schedule)

	call := node.lastCall()
	require.Len(t, call.Params, 2)
	assert.JSONEq(t, `100`, string(call.Params[0]))
	assert.JSONEq(t, `{"commitment":"finalized"}`, string(call.Params[1]))
}

func TestGetLeaderScheduleRejectsBadIdentity(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getLeaderSchedule": `{"not base58 !":[1]}`}}
	clnt := newTestClient(t, node)

	_, _, err := clnt.GetLeaderSchedule(context.Background(), 100)
	assert.Error(t, err)
}

func TestGetLeaderScheduleAbsent(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getLeaderSchedule": `null`}}
	clnt := newTestClient(t, node)

	schedule, ok, err := clnt.GetLeaderSchedule(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, schedule)
}

func TestGetClusterNodes(t *testing.T) {
	node := &fakeNode{results: map[string]string{
		"getClusterNodes": `[
			{"pubkey":"LeaderX","gossip":"203.0.113.5:8000","tpu":null,"rpc":null,"version":"2.1.0"},
			{"pubkey":"NoGossip","gossip":null,"tpu":"198.51.100.1:8003","tvu":"198.51.100.1:8004"}
		]`,
	}}
	clnt := newTestClient(t, node)

	nodes, err := clnt.GetClusterNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	assert.Equal(t, "LeaderX", nodes[0].Pubkey)
	require.NotNil(t, nodes[0].Gossip)
	assert.Equal(t, "203.0.113.5:8000", *nodes[0].Gossip)
	assert.Nil(t, nodes[0].TPU)
	assert.Nil(t, nodes[0].TVU)

	assert.Nil(t, nodes[1].Gossip)
	require.NotNil(t, nodes[1].TVU)
	assert.Equal(t, "198.51.100.1:8004", *nodes[1].TVU)

	assert.Empty(t, node.lastCall().Params)
}

func TestRPCErrorIsReturned(t *testing.T) {
	node := &fakeNode{errors: map[string]string{"getSlot": `{"code":-32005,"message":"Node is behind"}`}}
	clnt := newTestClient(t, node)

	_, err := clnt.GetSlot(context.Background())
	require.Error(t, err)

	rpcErr := &jsonrpc.RPCError{}
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32005, rpcErr.Code)
	assert.Equal(t, "Node is behind", rpcErr.Message)
}

func TestHTTPErrorIsReturned(t *testing.T) {
	node := &fakeNode{status: http.StatusTooManyRequests}
	clnt := newTestClient(t, node)

	_, err := clnt.GetClusterNodes(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "getClusterNodes")
}

func TestNullResultIsAnError(t *testing.T) {
	node := &fakeNode{results: map[string]string{
		"getSlot":         "null",
		"getEpochInfo":    "null",
		"getClusterNodes": "null",
	}}
	clnt := newTestClient(t, node)

	slot, err := clnt.GetSlot(context.Background())
	require.ErrorIs(t, err, ErrNullResult)
	assert.Zero(t, slot)

	info, err := clnt.GetEpochInfo(context.Background())
	require.ErrorIs(t, err, ErrNullResult)
	assert.Equal(t, models.EpochInfo{}, info)

	nodes, err := clnt.GetClusterNodes(context.Background())
	require.ErrorIs(t, err, ErrNullResult)
	assert.Nil(t, nodes)
}

func TestEmptyClusterIsNotNull(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getClusterNodes": "[]"}}
	clnt := newTestClient(t, node)

	nodes, err := clnt.GetClusterNodes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestMalformedResultIsReturned(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getSlot": `"not a number"`}}
	clnt := newTestClient(t, node)

	_, err := clnt.GetSlot(context.Background())
	assert.Error(t, err)
}

func TestCanceledContext(t *testing.T) {
	node := &fakeNode{results: map[string]string{"getSlot": "1"}}
	clnt := newTestClient(t, node)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := clnt.GetSlot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
