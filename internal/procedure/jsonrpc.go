package procedure

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sh00ty/leader-geo/internal/georesolver"
	"github.com/Sh00ty/leader-geo/internal/leader"
)

const jsonRPCVersion = "2.0"

const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInternal       = -32603
	CodeUpstream       = -32001
	CodeLeaderNotFound = -32002
)

type rpcRequest struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcResponse struct {
	Version string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleRPC(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		writeError(c, nil, CodeParseError, "failed to read request body")
		return
	}
	req := rpcRequest{}
	err = json.Unmarshal(body, &req)
	if err != nil {
		if !json.Valid(body) {
			writeError(c, nil, CodeParseError, "parse error")
			return
		}
		writeError(c, nil, CodeInvalidRequest, "invalid request")
		return
	}
	if req.Version != jsonRPCVersion || req.Method == "" {
		writeError(c, req.ID, CodeInvalidRequest, "invalid request")
		return
	}

	switch req.Method {
	case MethodGeo:
		s.handleGeo(c, req)
	default:
		writeError(c, req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, leader.ErrLeaderNotFound):
		return CodeLeaderNotFound
	case errors.Is(err, georesolver.ErrUpstream):
		return CodeUpstream
	}
	return CodeInternal
}

func writeResult(c *gin.Context, id json.RawMessage, result any) {
	c.JSON(http.StatusOK, rpcResponse{
		Version: jsonRPCVersion,
		ID:      id,
		Result:  result,
	})
}

func writeError(c *gin.Context, id json.RawMessage, code int, msg string) {
	c.JSON(http.StatusOK, rpcResponse{
		Version: jsonRPCVersion,
		ID:      id,
		Error: &rpcError{
			Code:    code,
			Message: msg,
		},
	})
}
