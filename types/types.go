package types

import "fmt"

// X402Version is the version of the x402 protocol spoken by this server.
const X402Version = 1

// PaymentHeader is the request header carrying the client's payment proof.
const PaymentHeader = "X-PAYMENT"

// PriceEntry is the configured price for a single route key. One entry per
// priced route; routes without an entry are always free.
type PriceEntry struct {
	// Amount is the price in whole units of the currency, as a decimal
	// string (e.g. "0.001").
	Amount string `json:"amount" validate:"required"`

	// Currency is the settlement currency symbol (e.g. "USDC").
	Currency string `json:"currency" validate:"required"`

	// Network is the chain identifier payments must be made on.
	Network string `json:"network" validate:"required"`

	// PayTo is the address payments must be sent to.
	PayTo string `json:"payTo" validate:"required"`

	// Asset is the address of the token contract used for payment.
	Asset string `json:"asset" validate:"required"`

	// MaxTimeoutSeconds bounds the facilitator verification call.
	MaxTimeoutSeconds int `json:"maxTimeoutSeconds" validate:"gt=0"`

	// Resource is the URL advertised in challenges for this route.
	Resource string `json:"resource" validate:"required,url"`

	// Description of the resource being purchased.
	Description string `json:"description,omitempty"`
}

// PaymentRequirements defines one payment method a route accepts. It is the
// element type of the challenge `accepts` array.
type PaymentRequirements struct {
	// Scheme of the payment protocol to use (e.g. "exact").
	Scheme string `json:"scheme"`

	// Network of the blockchain to send payment on.
	Network string `json:"network"`

	// Maximum amount required to pay for the resource in atomic units of
	// the asset. Represented as a string because Go does not support uint256.
	MaxAmountRequired string `json:"maxAmountRequired"`

	// URL of the resource to pay for.
	Resource string `json:"resource"`

	// Description of the resource being purchased.
	Description string `json:"description"`

	// MIME type of the resource response.
	MimeType string `json:"mimeType"`

	// Address to which the payment must be sent.
	PayTo string `json:"payTo"`

	// Maximum time in seconds for the resource server to respond.
	MaxTimeoutSeconds int `json:"maxTimeoutSeconds"`

	// Address of the token contract used for payment.
	Asset string `json:"asset"`

	// Extra information about payment details specific to the scheme.
	// For the `exact` scheme this names the asset and its EIP-712 version.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// Validate checks that the PaymentRequirements contain all required fields.
func (pr *PaymentRequirements) Validate() error {
	if pr.Scheme == "" {
		return fmt.Errorf("paymentRequirements.scheme is required")
	}

	if pr.Network == "" {
		return fmt.Errorf("paymentRequirements.network is required")
	}

	if pr.MaxAmountRequired == "" {
		return fmt.Errorf("paymentRequirements.maxAmountRequired is required")
	}

	if pr.PayTo == "" {
		return fmt.Errorf("paymentRequirements.payTo is required")
	}

	if pr.Asset == "" {
		return fmt.Errorf("paymentRequirements.asset is required")
	}

	if pr.MaxTimeoutSeconds <= 0 {
		return fmt.Errorf("paymentRequirements.maxTimeoutSeconds must be greater than 0")
	}

	return nil
}

// PaymentChallenge is the exact HTTP 402 response body, one accepts entry
// per acceptable payment method for the route.
type PaymentChallenge struct {
	// Version of the x402 payment protocol.
	X402Version int `json:"x402Version"`

	// Message indicating why payment is being requested.
	Error string `json:"error"`

	// List of payment requirements the route accepts.
	Accepts []PaymentRequirements `json:"accepts"`
}

// PaymentPayload wraps the opaque proof blob a client presents. The server
// never interprets the blob beyond presence; verification is delegated to
// the facilitator.
type PaymentPayload struct {
	// Version of the x402 payment protocol.
	X402Version int `json:"x402Version"`

	Scheme string `json:"scheme"`

	Network string `json:"network"`

	// Payload is the base64 blob from the X-PAYMENT header.
	Payload string `json:"payload"`
}

// VerifyRequest is the payload sent to a facilitator to verify a payment.
type VerifyRequest struct {
	// Version of the x402 payment protocol.
	X402Version int `json:"x402Version"`

	// Encoded payment header from the client.
	PaymentPayload PaymentPayload `json:"paymentPayload"`

	// Payment requirements being verified against.
	PaymentRequirements PaymentRequirements `json:"paymentRequirements"`
}

// Validate checks that the VerifyRequest contains all required fields.
func (v *VerifyRequest) Validate() error {
	if v.X402Version <= 0 {
		return fmt.Errorf("x402Version must be greater than 0")
	}

	if v.PaymentPayload.Payload == "" {
		return fmt.Errorf("paymentPayload is required")
	}

	return v.PaymentRequirements.Validate()
}

// VerifyResponse is the facilitator's verification result.
type VerifyResponse struct {
	// Indicates whether the payment is valid.
	IsValid bool `json:"isValid"`

	// Provides a reason if the payment is invalid, otherwise empty.
	InvalidReason string `json:"invalidReason,omitempty"`

	Payer string `json:"payer,omitempty"`
}
