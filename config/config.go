// Package config loads and validates server configuration from the
// environment and derives the per-route price table.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/vitwit/mcpay/types"
)

// Defaults applied when the corresponding variable is unset.
const (
	DefaultListenAddr        = ":8080"
	DefaultBaseURL           = "http://localhost:8080"
	DefaultFacilitatorURL    = "https://x402.org/facilitator"
	DefaultNetwork           = "base-sepolia"
	DefaultCurrency          = "USDC"
	DefaultMaxTimeoutSeconds = 60
	DefaultLogLevel          = "info"
)

// USDC contract addresses per supported network, used when MCPAY_ASSET is
// not set explicitly.
var defaultAssets = map[string]string{
	"base":         "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913",
	"base-sepolia": "0x036CbD53842c5426634e7929541eC2318f3dCF7e",
	"polygon":      "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
	"polygon-amoy": "0x41E94Eb019C0762f9Bfcf9Fb1E58725BfB0e7582",
}

// Config is the complete runtime configuration.
type Config struct {
	// ListenAddr is the HTTP bind address.
	ListenAddr string `validate:"required"`

	// BaseURL is the externally reachable URL of this server. Challenge
	// resource URLs are derived from it at startup, never from the
	// request, so both transports advertise the same resource.
	BaseURL string `validate:"required,url"`

	// FacilitatorURL is the base URL of the payment facilitator.
	FacilitatorURL string `validate:"required,url"`

	// PayTo is the address payments are sent to. Required when any tool
	// is priced.
	PayTo string `validate:"omitempty,eth_addr"`

	// Asset is the payment token contract address.
	Asset string `validate:"omitempty,eth_addr"`

	// Network is the chain identifier payments settle on.
	Network string `validate:"required"`

	// Currency is the settlement currency symbol.
	Currency string `validate:"required"`

	// Prices maps tool names to decimal amounts in whole currency units.
	// Tools absent from the map are free.
	Prices map[string]string

	// MaxTimeoutSeconds bounds each facilitator verification call.
	MaxTimeoutSeconds int `validate:"gt=0"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `validate:"oneof=debug info warn error"`

	// ServerName and ServerVersion are advertised on initialize.
	ServerName    string `validate:"required"`
	ServerVersion string `validate:"required"`
}

// FromEnv reads configuration from MCPAY_* environment variables and
// applies defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:        envOr("MCPAY_LISTEN_ADDR", DefaultListenAddr),
		BaseURL:           strings.TrimRight(envOr("MCPAY_BASE_URL", DefaultBaseURL), "/"),
		FacilitatorURL:    strings.TrimRight(envOr("MCPAY_FACILITATOR_URL", DefaultFacilitatorURL), "/"),
		PayTo:             os.Getenv("MCPAY_PAY_TO"),
		Asset:             os.Getenv("MCPAY_ASSET"),
		Network:           envOr("MCPAY_NETWORK", DefaultNetwork),
		Currency:          envOr("MCPAY_CURRENCY", DefaultCurrency),
		Prices:            pricesFromEnv(),
		MaxTimeoutSeconds: DefaultMaxTimeoutSeconds,
		LogLevel:          envOr("MCPAY_LOG_LEVEL", DefaultLogLevel),
		ServerName:        envOr("MCPAY_SERVER_NAME", "mcpay"),
		ServerVersion:     envOr("MCPAY_SERVER_VERSION", "dev"),
	}

	if raw := os.Getenv("MCPAY_MAX_TIMEOUT_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid MCPAY_MAX_TIMEOUT_SECONDS: %w", err)
		}
		cfg.MaxTimeoutSeconds = n
	}

	if cfg.Asset == "" {
		cfg.Asset = defaultAssets[cfg.Network]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// pricesFromEnv reads one MCPAY_PRICE_<TOOL> variable per tool. An unset
// or empty variable leaves the tool free.
func pricesFromEnv() map[string]string {
	prices := make(map[string]string)
	for _, capability := range types.Capabilities() {
		key := "MCPAY_PRICE_" + strings.ToUpper(capability.String())
		if v := os.Getenv(key); v != "" {
			prices[capability.String()] = v
		}
	}
	return prices
}

// Validate checks structural constraints and cross-field rules.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("eth_addr", func(fl validator.FieldLevel) bool {
		return common.IsHexAddress(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !types.Network(c.Network).IsKnown() {
		return fmt.Errorf("unknown network %q, supported: %v", c.Network, types.KnownNetworks())
	}

	if len(c.Prices) > 0 {
		if c.PayTo == "" {
			return fmt.Errorf("MCPAY_PAY_TO is required when any tool is priced")
		}
		if c.Asset == "" {
			return fmt.Errorf("MCPAY_ASSET is required when any tool is priced on network %q", c.Network)
		}
	}

	for name, amount := range c.Prices {
		if _, ok := types.ParseCapability(name); !ok {
			return fmt.Errorf("price configured for unknown tool %q", name)
		}
		if _, err := strconv.ParseFloat(amount, 64); err != nil {
			return fmt.Errorf("invalid price %q for tool %q", amount, name)
		}
	}

	return nil
}

// PriceTable derives the route-keyed price entries the gate consumes. The
// resource URL is the tool's REST path under BaseURL; because the entry is
// keyed by route key, the JSON-RPC shape of the same tool advertises the
// identical resource.
func (c *Config) PriceTable() map[string]types.PriceEntry {
	table := make(map[string]types.PriceEntry, len(c.Prices))
	for name, amount := range c.Prices {
		capability, ok := types.ParseCapability(name)
		if !ok {
			continue
		}
		table[capability.RouteKey()] = types.PriceEntry{
			Amount:            amount,
			Currency:          c.Currency,
			Network:           c.Network,
			PayTo:             c.PayTo,
			Asset:             c.Asset,
			MaxTimeoutSeconds: c.MaxTimeoutSeconds,
			Resource:          c.BaseURL + capability.Path(),
			Description:       fmt.Sprintf("Paid access to the %s tool", capability),
		}
	}
	return table
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
