package gate

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/mcpay/types"
)

type stubFacilitator struct {
	calls    int
	lastReq  *types.VerifyRequest
	response *types.VerifyResponse
	err      error
	delay    time.Duration
}

func (s *stubFacilitator) Verify(ctx context.Context, req *types.VerifyRequest) (*types.VerifyResponse, error) {
	s.calls++
	s.lastReq = req

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if s.err != nil {
		return nil, s.err
	}
	return s.response, nil
}

func testPrices() map[string]types.PriceEntry {
	return map[string]types.PriceEntry{
		"tool:calculate": {
			Amount:            "0.001",
			Currency:          "USDC",
			Network:           "base-sepolia",
			PayTo:             "0x209693Bc6afc0C5328bA36FaF03C514EF312287C",
			Asset:             "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			MaxTimeoutSeconds: 60,
			Resource:          "http://localhost:8080/calculate",
			Description:       "Paid access to the calculate tool",
		},
	}
}

func TestUnpricedRouteIsAllowed(t *testing.T) {
	fac := &stubFacilitator{}
	g, err := New(testPrices(), fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:echo", "")
	assert.True(t, decision.Allow)
	assert.Nil(t, decision.Challenge)
	assert.Zero(t, fac.calls)
}

func TestMissingProofDenies(t *testing.T) {
	fac := &stubFacilitator{}
	g, err := New(testPrices(), fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:calculate", "")
	require.False(t, decision.Allow)
	require.NotNil(t, decision.Challenge)
	assert.Zero(t, fac.calls)

	ch := decision.Challenge
	assert.Equal(t, 1, ch.X402Version)
	assert.Equal(t, "X-PAYMENT header is required", ch.Error)
	require.Len(t, ch.Accepts, 1)

	req := ch.Accepts[0]
	assert.Equal(t, "exact", req.Scheme)
	assert.Equal(t, "base-sepolia", req.Network)
	assert.Equal(t, "1000", req.MaxAmountRequired)
	assert.Equal(t, "http://localhost:8080/calculate", req.Resource)
	assert.Equal(t, "0x209693Bc6afc0C5328bA36FaF03C514EF312287C", req.PayTo)
	assert.Equal(t, "0x036CbD53842c5426634e7929541eC2318f3dCF7e", req.Asset)
	assert.Equal(t, 60, req.MaxTimeoutSeconds)
	assert.Equal(t, "application/json", req.MimeType)
	assert.Equal(t, map[string]interface{}{"name": "USDC", "version": "2"}, req.Extra)
}

func TestChallengeIsStableAcrossDenials(t *testing.T) {
	g, err := New(testPrices(), &stubFacilitator{})
	require.NoError(t, err)

	first, err := json.Marshal(g.Check(context.Background(), "tool:calculate", "").Challenge)
	require.NoError(t, err)
	second, err := json.Marshal(g.Check(context.Background(), "tool:calculate", "").Challenge)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestValidProofAllows(t *testing.T) {
	fac := &stubFacilitator{response: &types.VerifyResponse{IsValid: true, Payer: "0xabc"}}
	g, err := New(testPrices(), fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:calculate", "proof-blob")
	assert.True(t, decision.Allow)
	assert.Equal(t, 1, fac.calls)

	require.NotNil(t, fac.lastReq)
	assert.Equal(t, 1, fac.lastReq.X402Version)
	assert.Equal(t, "proof-blob", fac.lastReq.PaymentPayload.Payload)
	assert.Equal(t, "exact", fac.lastReq.PaymentPayload.Scheme)
	assert.Equal(t, "base-sepolia", fac.lastReq.PaymentPayload.Network)
	assert.Equal(t, "1000", fac.lastReq.PaymentRequirements.MaxAmountRequired)
}

func TestInvalidProofDenies(t *testing.T) {
	fac := &stubFacilitator{response: &types.VerifyResponse{IsValid: false, InvalidReason: "insufficient funds"}}
	g, err := New(testPrices(), fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:calculate", "proof-blob")
	require.False(t, decision.Allow)
	assert.Equal(t, "insufficient funds", decision.Challenge.Error)
	assert.Len(t, decision.Challenge.Accepts, 1)
}

func TestFacilitatorErrorDenies(t *testing.T) {
	fac := &stubFacilitator{err: errors.New("connection refused")}
	g, err := New(testPrices(), fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:calculate", "proof-blob")
	require.False(t, decision.Allow)
	assert.Equal(t, "payment verification failed", decision.Challenge.Error)
}

func TestVerificationTimeoutDenies(t *testing.T) {
	prices := testPrices()
	entry := prices["tool:calculate"]
	entry.MaxTimeoutSeconds = 1
	prices["tool:calculate"] = entry

	fac := &stubFacilitator{
		delay:    2 * time.Second,
		response: &types.VerifyResponse{IsValid: true},
	}
	g, err := New(prices, fac)
	require.NoError(t, err)

	decision := g.Check(context.Background(), "tool:calculate", "proof-blob")
	require.False(t, decision.Allow)
	assert.Equal(t, "payment verification failed", decision.Challenge.Error)
}

func TestInvalidPriceEntryFailsConstruction(t *testing.T) {
	prices := testPrices()
	entry := prices["tool:calculate"]
	entry.Amount = "0.0000001"
	prices["tool:calculate"] = entry

	_, err := New(prices, &stubFacilitator{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool:calculate")
}

func TestRequirementsLookup(t *testing.T) {
	g, err := New(testPrices(), &stubFacilitator{})
	require.NoError(t, err)

	assert.True(t, g.Priced("tool:calculate"))
	assert.False(t, g.Priced("tool:echo"))

	req, ok := g.Requirements("tool:calculate")
	require.True(t, ok)
	assert.Equal(t, "1000", req.MaxAmountRequired)

	_, ok = g.Requirements("tool:echo")
	assert.False(t, ok)
}
