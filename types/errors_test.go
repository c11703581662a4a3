package types

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindMappings(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		code   int
		status int
	}{
		{ErrInvalidRequest, -32600, http.StatusBadRequest},
		{ErrInvalidParams, -32602, http.StatusBadRequest},
		{ErrMethodNotFound, -32601, http.StatusNotFound},
		{ErrInternal, -32603, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.code, tc.kind.JSONRPCCode(), string(tc.kind))
		assert.Equal(t, tc.status, tc.kind.HTTPStatus(), string(tc.kind))
	}
}

func TestFailureError(t *testing.T) {
	f := NewFailure(ErrInvalidParams, "missing message")
	assert.Equal(t, "missing message", f.Error())
	assert.Equal(t, ErrInvalidParams, f.Kind)
}

func TestRouteKeySharedAcrossTransports(t *testing.T) {
	assert.Equal(t, "tool:calculate", CapabilityCalculate.RouteKey())
	assert.Equal(t, "/weather", CapabilityWeather.Path())

	c, ok := ParseCapability("get_timestamp")
	assert.True(t, ok)
	assert.Equal(t, CapabilityTimestamp, c)

	_, ok = ParseCapability("teleport")
	assert.False(t, ok)
}

func TestNetworks(t *testing.T) {
	assert.True(t, Network("base-sepolia").IsKnown())
	assert.True(t, Network("base-sepolia").IsTestnet())
	assert.False(t, Network("base").IsTestnet())
	assert.False(t, Network("dogechain").IsKnown())
}
