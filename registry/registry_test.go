package registry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/mcpay/types"
)

func TestCatalogContents(t *testing.T) {
	r := New()

	tools := r.Tools()
	require.Len(t, tools, 4)

	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	assert.Equal(t, []string{"calculate", "get_weather", "echo", "get_timestamp"}, names)

	prompts := r.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, "weather_report", prompts[0].Name)

	resources := r.Resources()
	require.Len(t, resources, 1)
	assert.Equal(t, "mcpay://pricing", resources[0].URI)
}

func TestToolLookup(t *testing.T) {
	r := New()

	tool, ok := r.Tool(types.CapabilityCalculate)
	require.True(t, ok)
	assert.Equal(t, "calculate", tool.Name)
	assert.Equal(t, []string{"operation", "a", "b"}, tool.InputSchema.Required)

	_, ok = r.Tool(types.Capability("nope"))
	assert.False(t, ok)
}

func TestSchemas(t *testing.T) {
	r := New()

	weather, ok := r.Tool(types.CapabilityWeather)
	require.True(t, ok)
	assert.Equal(t, []string{"location"}, weather.InputSchema.Required)
	assert.Equal(t, "celsius", weather.InputSchema.Properties["unit"].Default)

	ts, ok := r.Tool(types.CapabilityTimestamp)
	require.True(t, ok)
	assert.Empty(t, ts.InputSchema.Required)
	assert.Equal(t, []string{"iso", "unix", "locale"}, ts.InputSchema.Properties["format"].Enum)
}

func TestListingsAreDeterministic(t *testing.T) {
	// Successive listings must serialize identically; clients may cache
	// them and diff across calls.
	r := New()

	first, err := json.Marshal(r.Tools())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := json.Marshal(r.Tools())
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	other := New()
	otherTools, err := json.Marshal(other.Tools())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(otherTools))
}
