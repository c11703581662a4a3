package types

// Invocation is the transport-independent form of one inbound request.
// Created per request by a protocol adapter, owned exclusively by that
// request's processing, and discarded once the response is rendered.
type Invocation struct {
	// Method is the JSON-RPC method name ("initialize", "tools/list",
	// "prompts/list", "resources/list", "tools/call"). REST calls are
	// normalized to "tools/call".
	Method string

	// Capability is the tool name for tools/call invocations.
	Capability string

	// Arguments are the decoded call arguments.
	Arguments map[string]interface{}

	// RouteKey identifies the route for price lookup, shared between the
	// JSON-RPC and REST shapes of the same capability.
	RouteKey string

	// PaymentProof is the raw X-PAYMENT header value, empty when absent.
	PaymentProof string

	// RequestID is a correlation id attached to logs for this request.
	RequestID string
}

// OutcomeKind tags the terminal state of a dispatch.
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeFailure         OutcomeKind = "failure"
	OutcomePaymentRequired OutcomeKind = "payment_required"
)

// Outcome is the exhaustive result of dispatching one Invocation. Exactly
// one of Value, Failure, Challenge is set, matching Kind.
type Outcome struct {
	Kind      OutcomeKind
	Value     map[string]interface{}
	Failure   *Failure
	Challenge *PaymentChallenge

	// Text is a short rendering of a successful tool result, used for MCP
	// content blocks. Empty for listing results.
	Text string
}

// Success wraps a handler result value.
func Success(value map[string]interface{}) Outcome {
	return Outcome{Kind: OutcomeSuccess, Value: value}
}

// SuccessText wraps a tool result value with its text rendering.
func SuccessText(value map[string]interface{}, text string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Value: value, Text: text}
}

// Fail wraps a typed failure.
func Fail(f *Failure) Outcome {
	return Outcome{Kind: OutcomeFailure, Failure: f}
}

// PaymentRequired wraps a 402 challenge.
func PaymentRequired(challenge *PaymentChallenge) Outcome {
	return Outcome{Kind: OutcomePaymentRequired, Challenge: challenge}
}
