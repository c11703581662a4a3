// Package dispatch orchestrates one request: normalize → payment check (if
// priced) → execute → outcome. Every transport calls the same Dispatch
// function; transports differ only in marshalling.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/vitwit/mcpay/executor"
	"github.com/vitwit/mcpay/gate"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/metrics"
	"github.com/vitwit/mcpay/registry"
	"github.com/vitwit/mcpay/types"
)

// ProtocolVersion is the MCP protocol revision advertised on initialize.
const ProtocolVersion = "2024-11-05"

// Supported JSON-RPC methods.
const (
	MethodInitialize    = "initialize"
	MethodToolsList     = "tools/list"
	MethodPromptsList   = "prompts/list"
	MethodResourcesList = "resources/list"
	MethodToolsCall     = "tools/call"
)

// ServerInfo identifies the server on initialize.
type ServerInfo struct {
	Name    string
	Version string
}

// Dispatcher routes normalized invocations to the registry, gate and
// executor. Stateless across requests; all fields are immutable after
// construction.
type Dispatcher struct {
	registry *registry.Registry
	executor *executor.Executor
	gate     *gate.Gate
	info     ServerInfo
	log      logger.Logger
	metrics  metrics.Recorder
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) {
		d.log = l
	}
}

// WithMetrics sets the dispatcher metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(d *Dispatcher) {
		d.metrics = r
	}
}

// New creates a Dispatcher.
func New(reg *registry.Registry, exec *executor.Executor, g *gate.Gate, info ServerInfo, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		executor: exec,
		gate:     g,
		info:     info,
		log:      logger.NoopLogger{},
		metrics:  metrics.Noop{},
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatch processes one invocation to its terminal outcome. Nothing
// escapes as an unhandled fault: handler panics become INTERNAL_ERROR
// failures.
func (d *Dispatcher) Dispatch(ctx context.Context, inv *types.Invocation) (out types.Outcome) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.log.Error("handler panic", map[string]any{
				"method":     inv.Method,
				"request_id": inv.RequestID,
				"panic":      fmt.Sprint(r),
			})
			out = types.Fail(&types.Failure{
				Kind:    types.ErrInternal,
				Message: "internal server error",
				Data:    map[string]interface{}{"detail": fmt.Sprint(r)},
			})
		}

		d.metrics.IncCounter("dispatch_"+string(out.Kind), map[string]string{"route": inv.RouteKey})
		d.metrics.ObserveLatency("dispatch", time.Since(start), map[string]string{"route": inv.RouteKey})
	}()

	switch inv.Method {
	case MethodInitialize:
		return types.Success(d.initializeResult())
	case MethodToolsList:
		return types.Success(map[string]interface{}{"tools": d.registry.Tools()})
	case MethodPromptsList:
		return types.Success(map[string]interface{}{"prompts": d.registry.Prompts()})
	case MethodResourcesList:
		return types.Success(map[string]interface{}{"resources": d.registry.Resources()})
	case MethodToolsCall:
		return d.callTool(ctx, inv)
	default:
		return types.Fail(types.NewFailure(types.ErrMethodNotFound,
			fmt.Sprintf("method not found: %s", inv.Method)))
	}
}

// callTool runs the priced tool path: validate, then payment check, then
// execute. Validation failures short-circuit before the gate so malformed
// requests are never charged or challenged.
func (d *Dispatcher) callTool(ctx context.Context, inv *types.Invocation) types.Outcome {
	if inv.Capability == "" {
		return types.Fail(types.NewFailure(types.ErrInvalidParams, "tool name is required"))
	}

	capability, ok := types.ParseCapability(inv.Capability)
	if !ok {
		return types.Fail(types.NewFailure(types.ErrMethodNotFound,
			fmt.Sprintf("unknown tool: %s", inv.Capability)))
	}

	if f := d.executor.Validate(capability, inv.Arguments); f != nil {
		return types.Fail(f)
	}

	decision := d.gate.Check(ctx, inv.RouteKey, inv.PaymentProof)
	if !decision.Allow {
		d.log.Info("payment required", map[string]any{
			"tool":       capability.String(),
			"request_id": inv.RequestID,
		})
		return types.PaymentRequired(decision.Challenge)
	}

	result, f := d.executor.Execute(capability, inv.Arguments)
	if f != nil {
		return types.Fail(f)
	}

	d.log.Debug("tool executed", map[string]any{
		"tool":       capability.String(),
		"request_id": inv.RequestID,
	})

	return types.SuccessText(result.Value, result.Text)
}

func (d *Dispatcher) initializeResult() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"serverInfo": map[string]interface{}{
			"name":    d.info.Name,
			"version": d.info.Version,
		},
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"prompts":   map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
	}
}
