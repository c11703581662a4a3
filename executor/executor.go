// Package executor runs one named capability against validated arguments.
// Validation lives here so every transport shares it; adapters only
// marshal.
package executor

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/vitwit/mcpay/types"
)

// Result is a successful tool execution: a structured value plus a short
// text rendering for MCP content blocks.
type Result struct {
	Value map[string]interface{}
	Text  string
}

// Executor executes tool capabilities. The zero dependencies are real: no
// handler touches the network or disk.
type Executor struct {
	now func() time.Time
}

// New creates an Executor using the wall clock.
func New() *Executor {
	return &Executor{now: time.Now}
}

// NewWithClock creates an Executor with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Executor {
	return &Executor{now: now}
}

// Validate checks the arguments of a capability without executing it. The
// dispatcher calls it before any payment check so malformed requests are
// never asked to pay.
func (e *Executor) Validate(c types.Capability, args map[string]interface{}) *types.Failure {
	switch c {
	case types.CapabilityCalculate:
		_, _, _, f := parseCalculateArgs(args)
		return f
	case types.CapabilityWeather:
		_, _, f := parseWeatherArgs(args)
		return f
	case types.CapabilityEcho:
		_, f := parseEchoArgs(args)
		return f
	case types.CapabilityTimestamp:
		// Lenient: every format value is accepted.
		return nil
	default:
		return types.NewFailure(types.ErrMethodNotFound, fmt.Sprintf("unknown tool: %s", c))
	}
}

// Execute runs one capability. The switch is exhaustive over the closed
// capability enumeration; unknown names are rejected before dispatch.
func (e *Executor) Execute(c types.Capability, args map[string]interface{}) (Result, *types.Failure) {
	switch c {
	case types.CapabilityCalculate:
		return e.calculate(args)
	case types.CapabilityWeather:
		return e.weather(args)
	case types.CapabilityEcho:
		return e.echo(args)
	case types.CapabilityTimestamp:
		return e.timestamp(args)
	default:
		return Result{}, types.NewFailure(types.ErrMethodNotFound, fmt.Sprintf("unknown tool: %s", c))
	}
}

func parseCalculateArgs(args map[string]interface{}) (op string, a, b float64, f *types.Failure) {
	op, ok := stringArg(args, "operation")
	if !ok {
		return "", 0, 0, missingParams(types.CapabilityCalculate, "operation")
	}

	a, okA := numberArg(args, "a")
	b, okB := numberArg(args, "b")
	if !okA || !okB {
		missing := make([]string, 0, 2)
		if !okA {
			missing = append(missing, "a")
		}
		if !okB {
			missing = append(missing, "b")
		}
		return "", 0, 0, missingParams(types.CapabilityCalculate, missing...)
	}

	switch op {
	case "add", "subtract", "multiply":
	case "divide":
		if b == 0 {
			return "", 0, 0, &types.Failure{
				Kind:    types.ErrInvalidParams,
				Message: "division by zero is not allowed",
				Data: map[string]interface{}{
					"operation": op,
					"operands":  []float64{a, b},
				},
			}
		}
	default:
		return "", 0, 0, &types.Failure{
			Kind:    types.ErrInvalidParams,
			Message: fmt.Sprintf("unknown operation: %s", op),
			Data: map[string]interface{}{
				"operations": []string{"add", "subtract", "multiply", "divide"},
				"example":    calculateExample,
			},
		}
	}

	return op, a, b, nil
}

func (e *Executor) calculate(args map[string]interface{}) (Result, *types.Failure) {
	op, a, b, f := parseCalculateArgs(args)
	if f != nil {
		return Result{}, f
	}

	var result float64
	switch op {
	case "add":
		result = a + b
	case "subtract":
		result = a - b
	case "multiply":
		result = a * b
	case "divide":
		result = a / b
	}

	expression := fmt.Sprintf("%s %s %s = %s",
		formatNumber(a), op, formatNumber(b), formatNumber(result))

	return Result{
		Value: map[string]interface{}{
			"operation":  op,
			"operands":   []float64{a, b},
			"result":     result,
			"expression": expression,
		},
		Text: expression,
	}, nil
}

// Fixed ranges and condition set for the simulated weather reading. The
// handler is deliberately non-deterministic; there is no live data source.
var weatherConditions = []string{"sunny", "cloudy", "rainy", "stormy", "snowy", "foggy", "windy"}

const (
	weatherTempMinC   = -10.0
	weatherTempMaxC   = 35.0
	weatherHumidityLo = 30
	weatherHumidityHi = 90
	weatherWindMaxKmh = 40.0
)

func parseWeatherArgs(args map[string]interface{}) (location, unit string, f *types.Failure) {
	location, ok := stringArg(args, "location")
	if !ok {
		return "", "", missingParams(types.CapabilityWeather, "location")
	}

	unit, _ = stringArg(args, "unit")
	if unit == "" {
		unit = "celsius"
	}
	if unit != "celsius" && unit != "fahrenheit" {
		return "", "", &types.Failure{
			Kind:    types.ErrInvalidParams,
			Message: fmt.Sprintf("unknown unit: %s", unit),
			Data: map[string]interface{}{
				"units": []string{"celsius", "fahrenheit"},
			},
		}
	}

	return location, unit, nil
}

func parseEchoArgs(args map[string]interface{}) (string, *types.Failure) {
	message, ok := stringArg(args, "message")
	if !ok {
		return "", missingParams(types.CapabilityEcho, "message")
	}
	return message, nil
}

func (e *Executor) weather(args map[string]interface{}) (Result, *types.Failure) {
	location, unit, f := parseWeatherArgs(args)
	if f != nil {
		return Result{}, f
	}

	temp := weatherTempMinC + rand.Float64()*(weatherTempMaxC-weatherTempMinC)
	if unit == "fahrenheit" {
		temp = temp*9/5 + 32
	}
	temp = roundTo(temp, 1)

	condition := weatherConditions[rand.Intn(len(weatherConditions))]
	humidity := weatherHumidityLo + rand.Intn(weatherHumidityHi-weatherHumidityLo+1)
	wind := roundTo(rand.Float64()*weatherWindMaxKmh, 1)
	generatedAt := e.now().UTC().Format(time.RFC3339)

	return Result{
		Value: map[string]interface{}{
			"location":    location,
			"temperature": temp,
			"unit":        unit,
			"condition":   condition,
			"humidity":    humidity,
			"wind_speed":  wind,
			"timestamp":   generatedAt,
		},
		Text: fmt.Sprintf("%s: %s%s and %s", location, formatNumber(temp), unitSymbol(unit), condition),
	}, nil
}

func (e *Executor) echo(args map[string]interface{}) (Result, *types.Failure) {
	message, f := parseEchoArgs(args)
	if f != nil {
		return Result{}, f
	}

	echoed := "Echo: " + message
	return Result{
		Value: map[string]interface{}{"echo": echoed},
		Text:  echoed,
	}, nil
}

func (e *Executor) timestamp(args map[string]interface{}) (Result, *types.Failure) {
	format, _ := stringArg(args, "format")

	now := e.now()
	var rendered string
	switch format {
	case "unix":
		rendered = strconv.FormatInt(now.Unix(), 10)
	case "locale":
		rendered = now.Format(time.RFC1123)
	case "iso":
		rendered = now.UTC().Format(time.RFC3339)
	default:
		// Unknown formats fall back to iso instead of failing.
		format = "iso"
		rendered = now.UTC().Format(time.RFC3339)
	}

	return Result{
		Value: map[string]interface{}{
			"format":    format,
			"timestamp": rendered,
		},
		Text: rendered,
	}, nil
}

// exampleCall returns a literal example invocation for a capability,
// attached to missing-parameter failures.
func exampleCall(c types.Capability) map[string]interface{} {
	switch c {
	case types.CapabilityCalculate:
		return calculateExample
	case types.CapabilityWeather:
		return map[string]interface{}{"location": "Berlin", "unit": "celsius"}
	case types.CapabilityEcho:
		return map[string]interface{}{"message": "hello"}
	default:
		return map[string]interface{}{"format": "iso"}
	}
}

var calculateExample = map[string]interface{}{
	"operation": "add",
	"a":         10,
	"b":         5,
}

func missingParams(c types.Capability, names ...string) *types.Failure {
	return &types.Failure{
		Kind:    types.ErrInvalidParams,
		Message: fmt.Sprintf("missing required parameter(s): %v", names),
		Data: map[string]interface{}{
			"required": names,
			"example":  exampleCall(c),
		},
	}
}

// stringArg extracts a non-empty string argument.
func stringArg(args map[string]interface{}, name string) (string, bool) {
	v, ok := args[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// numberArg extracts a numeric argument, accepting JSON numbers and the
// string form query parameters arrive in.
func numberArg(args map[string]interface{}, name string) (float64, bool) {
	v, ok := args[name]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func unitSymbol(unit string) string {
	if unit == "fahrenheit" {
		return "°F"
	}
	return "°C"
}

func roundTo(v float64, places int) float64 {
	shift := 1.0
	for i := 0; i < places; i++ {
		shift *= 10
	}
	return math.Round(v*shift) / shift
}
