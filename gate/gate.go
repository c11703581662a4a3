// Package gate decides whether a priced route may execute. It owns price
// lookup and challenge construction; cryptographic verification is
// delegated to the facilitator.
package gate

import (
	"context"
	"fmt"
	"time"

	"github.com/vitwit/mcpay/facilitator"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/metrics"
	"github.com/vitwit/mcpay/types"
	"github.com/vitwit/mcpay/utils"
)

// MissingPaymentError is the challenge error when no proof accompanies a
// priced request.
const MissingPaymentError = "X-PAYMENT header is required"

// Decision is the gate's verdict for one request.
type Decision struct {
	Allow bool

	// Challenge is set when Allow is false. Its accepts content is
	// identical for every denial of the same route, so clients can retry
	// the same call with a proof attached.
	Challenge *types.PaymentChallenge
}

// Gate gates execution of priced routes. Immutable after construction.
type Gate struct {
	prices       map[string]types.PriceEntry
	requirements map[string]types.PaymentRequirements
	client       facilitator.Client
	log          logger.Logger
	metrics      metrics.Recorder
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger sets the gate logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Gate) {
		g.log = l
	}
}

// WithMetrics sets the gate metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(g *Gate) {
		g.metrics = r
	}
}

// New builds a Gate from the configured price table. Payment requirements
// are derived once here so the same PriceEntry yields byte-identical
// challenge content on every transport.
func New(prices map[string]types.PriceEntry, client facilitator.Client, opts ...Option) (*Gate, error) {
	g := &Gate{
		prices:       prices,
		requirements: make(map[string]types.PaymentRequirements, len(prices)),
		client:       client,
		log:          logger.NoopLogger{},
		metrics:      metrics.Noop{},
	}

	for _, opt := range opts {
		opt(g)
	}

	for routeKey, entry := range prices {
		req, err := requirementsFromEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid price entry for route %s: %w", routeKey, err)
		}
		g.requirements[routeKey] = req
	}

	return g, nil
}

// Check decides whether the request may execute. Routes without a price
// entry are always allowed. Any facilitator error, including a deadline
// hit, is a denial, never a fatal error.
func (g *Gate) Check(ctx context.Context, routeKey, proof string) Decision {
	entry, priced := g.prices[routeKey]
	if !priced {
		return Decision{Allow: true}
	}

	req := g.requirements[routeKey]

	if proof == "" {
		g.metrics.IncCounter("payment_required", map[string]string{"route": routeKey})
		return g.deny(req, MissingPaymentError)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, time.Duration(entry.MaxTimeoutSeconds)*time.Second)
	defer cancel()

	verifyReq := &types.VerifyRequest{
		X402Version: types.X402Version,
		PaymentPayload: types.PaymentPayload{
			X402Version: types.X402Version,
			Scheme:      req.Scheme,
			Network:     req.Network,
			Payload:     proof,
		},
		PaymentRequirements: req,
	}

	start := time.Now()
	resp, err := g.client.Verify(verifyCtx, verifyReq)
	g.metrics.ObserveLatency("facilitator_verify", time.Since(start), map[string]string{"route": routeKey})

	if err != nil {
		g.log.Warn("facilitator verification failed", map[string]any{
			"route": routeKey,
			"error": err.Error(),
		})
		g.metrics.IncCounter("payment_denied", map[string]string{"route": routeKey})
		return g.deny(req, "payment verification failed")
	}

	if !resp.IsValid {
		reason := resp.InvalidReason
		if reason == "" {
			reason = "payment verification failed"
		}
		g.log.Info("payment rejected", map[string]any{
			"route":  routeKey,
			"reason": reason,
		})
		g.metrics.IncCounter("payment_denied", map[string]string{"route": routeKey})
		return g.deny(req, reason)
	}

	g.log.Debug("payment verified", map[string]any{
		"route": routeKey,
		"payer": resp.Payer,
	})
	g.metrics.IncCounter("payment_verified", map[string]string{"route": routeKey})
	return Decision{Allow: true}
}

// Priced reports whether a route key has a price entry.
func (g *Gate) Priced(routeKey string) bool {
	_, ok := g.prices[routeKey]
	return ok
}

// Requirements returns the derived payment requirements for a priced route.
func (g *Gate) Requirements(routeKey string) (types.PaymentRequirements, bool) {
	req, ok := g.requirements[routeKey]
	return req, ok
}

func (g *Gate) deny(req types.PaymentRequirements, errMsg string) Decision {
	return Decision{
		Allow: false,
		Challenge: &types.PaymentChallenge{
			X402Version: types.X402Version,
			Error:       errMsg,
			Accepts:     []types.PaymentRequirements{req},
		},
	}
}

func requirementsFromEntry(entry types.PriceEntry) (types.PaymentRequirements, error) {
	atomic, err := utils.AtomicAmount(entry.Amount, utils.USDCDecimals)
	if err != nil {
		return types.PaymentRequirements{}, err
	}

	req := types.PaymentRequirements{
		Scheme:            "exact",
		Network:           entry.Network,
		MaxAmountRequired: atomic,
		Resource:          entry.Resource,
		Description:       entry.Description,
		MimeType:          "application/json",
		PayTo:             entry.PayTo,
		MaxTimeoutSeconds: entry.MaxTimeoutSeconds,
		Asset:             entry.Asset,
		Extra: map[string]interface{}{
			"name":    entry.Currency,
			"version": "2",
		},
	}

	if err := req.Validate(); err != nil {
		return types.PaymentRequirements{}, err
	}

	return req, nil
}
