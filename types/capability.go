package types

// Capability is the closed enumeration of tool names this server exposes.
// Unknown names never reach an executor; they terminate in a single
// METHOD_NOT_FOUND path.
type Capability string

const (
	CapabilityCalculate Capability = "calculate"
	CapabilityWeather   Capability = "get_weather"
	CapabilityEcho      Capability = "echo"
	CapabilityTimestamp Capability = "get_timestamp"
)

// Capabilities lists every tool capability in registry order.
func Capabilities() []Capability {
	return []Capability{
		CapabilityCalculate,
		CapabilityWeather,
		CapabilityEcho,
		CapabilityTimestamp,
	}
}

// ParseCapability maps a wire name onto the enumeration.
func ParseCapability(name string) (Capability, bool) {
	switch Capability(name) {
	case CapabilityCalculate, CapabilityWeather, CapabilityEcho, CapabilityTimestamp:
		return Capability(name), true
	default:
		return "", false
	}
}

func (c Capability) String() string {
	return string(c)
}

// RouteKey is the transport-independent pricing identifier for a tool. The
// JSON-RPC tools/call path and the REST mirror of the same tool share it,
// so both produce byte-identical challenges.
func (c Capability) RouteKey() string {
	return "tool:" + string(c)
}

// Path is the REST endpoint mirroring the tool.
func (c Capability) Path() string {
	switch c {
	case CapabilityCalculate:
		return "/calculate"
	case CapabilityWeather:
		return "/weather"
	case CapabilityEcho:
		return "/echo"
	case CapabilityTimestamp:
		return "/timestamp"
	default:
		return ""
	}
}

// InputSchema describes a tool's parameters as a JSON schema object.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single input parameter.
type Property struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
}

// ToolDescriptor is the advertised definition of one tool.
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`
}

// PromptDescriptor is the advertised definition of one prompt.
type PromptDescriptor struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Arguments   []PromptArgument `json:"arguments,omitempty"`
}

// PromptArgument describes one prompt argument.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// ResourceDescriptor is the advertised definition of one resource.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}
