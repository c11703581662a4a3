// Package transport adapts wire shapes to invocations and outcomes back to
// wire shapes. Business logic and validation order live in the dispatcher;
// the adapters only marshal.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitwit/mcpay/dispatch"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/types"
)

// JSON-RPC 2.0 error codes not covered by types.ErrorKind.
const codeParseError = -32700

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope. A nil ID marshals as
// null, matching the JSON-RPC rule for requests without an id.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type toolsCallParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// JSONRPC serves the JSON-RPC shape of the protocol on a single endpoint.
type JSONRPC struct {
	dispatcher *dispatch.Dispatcher
	log        logger.Logger
}

// NewJSONRPC creates the JSON-RPC adapter.
func NewJSONRPC(d *dispatch.Dispatcher, log logger.Logger) *JSONRPC {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &JSONRPC{dispatcher: d, log: log}
}

// Register mounts the endpoint on the router.
func (h *JSONRPC) Register(r gin.IRouter) {
	r.POST("/mcp", h.Handle)
}

// Handle processes one JSON-RPC request. Envelope errors are answered in
// the error envelope with the request id echoed (null when absent);
// payment challenges are answered as HTTP 402 with the challenge body.
func (h *JSONRPC) Handle(c *gin.Context) {
	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "parse error"},
		})
		return
	}

	if req.JSONRPC != "2.0" {
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &rpcError{
				Code:    types.ErrInvalidRequest.JSONRPCCode(),
				Message: "invalid request: jsonrpc must be \"2.0\"",
			},
		})
		return
	}

	// Client acknowledgment, no response body.
	if req.Method == "notifications/initialized" {
		c.Status(http.StatusAccepted)
		return
	}

	inv := &types.Invocation{
		Method:       req.Method,
		PaymentProof: c.GetHeader(types.PaymentHeader),
		RequestID:    uuid.NewString(),
		RouteKey:     req.Method,
	}

	if req.Method == dispatch.MethodToolsCall {
		var params toolsCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				c.JSON(http.StatusOK, rpcResponse{
					JSONRPC: "2.0",
					ID:      req.ID,
					Error: &rpcError{
						Code:    types.ErrInvalidParams.JSONRPCCode(),
						Message: "invalid params",
					},
				})
				return
			}
		}
		inv.Capability = params.Name
		inv.Arguments = params.Arguments
		inv.RouteKey = types.Capability(params.Name).RouteKey()
	}

	h.log.Debug("jsonrpc request", map[string]any{
		"method":     req.Method,
		"request_id": inv.RequestID,
	})

	outcome := h.dispatcher.Dispatch(c.Request.Context(), inv)
	h.render(c, req, inv, outcome)
}

func (h *JSONRPC) render(c *gin.Context, req rpcRequest, inv *types.Invocation, outcome types.Outcome) {
	switch outcome.Kind {
	case types.OutcomeSuccess:
		result := outcome.Value
		if inv.Method == dispatch.MethodToolsCall {
			result = toolCallResult(outcome)
		}
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  result,
		})

	case types.OutcomePaymentRequired:
		// The 402 outcome is not a JSON-RPC error: it renders as the HTTP
		// status with the challenge body on every transport.
		c.JSON(http.StatusPaymentRequired, outcome.Challenge)

	default:
		c.JSON(http.StatusOK, rpcResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &rpcError{
				Code:    outcome.Failure.Kind.JSONRPCCode(),
				Message: outcome.Failure.Message,
				Data:    failureData(outcome.Failure),
			},
		})
	}
}

// toolCallResult shapes a successful tool execution as an MCP call result:
// a text content block plus the structured value.
func toolCallResult(outcome types.Outcome) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": outcome.Text},
		},
		"structuredContent": outcome.Value,
	}
}

func failureData(f *types.Failure) interface{} {
	if len(f.Data) == 0 {
		return nil
	}
	return f.Data
}
