package facilitator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/mcpay/types"
)

func validRequest() *types.VerifyRequest {
	return &types.VerifyRequest{
		X402Version: 1,
		PaymentPayload: types.PaymentPayload{
			X402Version: 1,
			Scheme:      "exact",
			Network:     "base-sepolia",
			Payload:     "proof-blob",
		},
		PaymentRequirements: types.PaymentRequirements{
			Scheme:            "exact",
			Network:           "base-sepolia",
			MaxAmountRequired: "1000",
			Resource:          "http://localhost:8080/calculate",
			PayTo:             "0x209693Bc6afc0C5328bA36FaF03C514EF312287C",
			Asset:             "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
			MaxTimeoutSeconds: 60,
		},
	}
}

func TestVerifySuccess(t *testing.T) {
	var received types.VerifyRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/verify", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.VerifyResponse{IsValid: true, Payer: "0xabc"})
	}))
	defer srv.Close()

	client := NewHTTPClient(&Config{URL: srv.URL})
	resp, err := client.Verify(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsValid)
	assert.Equal(t, "0xabc", resp.Payer)
	assert.Equal(t, "proof-blob", received.PaymentPayload.Payload)
	assert.Equal(t, "1000", received.PaymentRequirements.MaxAmountRequired)
}

func TestVerifyInvalidPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.VerifyResponse{IsValid: false, InvalidReason: "expired"})
	}))
	defer srv.Close()

	client := NewHTTPClient(&Config{URL: srv.URL})
	resp, err := client.Verify(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	assert.Equal(t, "expired", resp.InvalidReason)
}

func TestVerifyNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "facilitator down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewHTTPClient(&Config{URL: srv.URL})
	_, err := client.Verify(context.Background(), validRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "facilitator down")
}

func TestVerifyRejectsInvalidRequest(t *testing.T) {
	client := NewHTTPClient(&Config{URL: "http://localhost:0"})

	req := validRequest()
	req.PaymentPayload.Payload = ""

	_, err := client.Verify(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid verify request")
}

func TestVerifyHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := NewHTTPClient(&Config{URL: srv.URL})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Verify(ctx, validRequest())
	require.Error(t, err)
}
