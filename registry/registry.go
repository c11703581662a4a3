// Package registry holds the static capability catalog: the tools, prompts
// and resources this server advertises. The catalog is fixed for the
// process lifetime; listings are pure and identical across calls and
// transports.
package registry

import "github.com/vitwit/mcpay/types"

// Registry is the immutable capability catalog, constructed once at startup
// and shared read-only by all requests.
type Registry struct {
	tools     []types.ToolDescriptor
	prompts   []types.PromptDescriptor
	resources []types.ResourceDescriptor
	byName    map[types.Capability]types.ToolDescriptor
}

// New builds the fixed catalog.
func New() *Registry {
	tools := toolDescriptors()

	byName := make(map[types.Capability]types.ToolDescriptor, len(tools))
	for _, t := range tools {
		byName[types.Capability(t.Name)] = t
	}

	return &Registry{
		tools:     tools,
		prompts:   promptDescriptors(),
		resources: resourceDescriptors(),
		byName:    byName,
	}
}

// Tools returns every advertised tool. The returned slice is read-only.
func (r *Registry) Tools() []types.ToolDescriptor {
	return r.tools
}

// Prompts returns every advertised prompt.
func (r *Registry) Prompts() []types.PromptDescriptor {
	return r.prompts
}

// Resources returns every advertised resource.
func (r *Registry) Resources() []types.ResourceDescriptor {
	return r.resources
}

// Tool looks up one tool descriptor by capability.
func (r *Registry) Tool(c types.Capability) (types.ToolDescriptor, bool) {
	t, ok := r.byName[c]
	return t, ok
}

func toolDescriptors() []types.ToolDescriptor {
	return []types.ToolDescriptor{
		{
			Name:        types.CapabilityCalculate.String(),
			Description: "Perform a basic arithmetic operation on two numbers.",
			InputSchema: types.InputSchema{
				Type: "object",
				Properties: map[string]types.Property{
					"operation": {
						Type:        "string",
						Description: "Arithmetic operation to perform",
						Enum:        []string{"add", "subtract", "multiply", "divide"},
					},
					"a": {
						Type:        "number",
						Description: "First operand",
					},
					"b": {
						Type:        "number",
						Description: "Second operand",
					},
				},
				Required: []string{"operation", "a", "b"},
			},
		},
		{
			Name:        types.CapabilityWeather.String(),
			Description: "Get a simulated weather reading for a location.",
			InputSchema: types.InputSchema{
				Type: "object",
				Properties: map[string]types.Property{
					"location": {
						Type:        "string",
						Description: "City or place name",
					},
					"unit": {
						Type:        "string",
						Description: "Temperature unit",
						Enum:        []string{"celsius", "fahrenheit"},
						Default:     "celsius",
					},
				},
				Required: []string{"location"},
			},
		},
		{
			Name:        types.CapabilityEcho.String(),
			Description: "Echo a message back to the caller.",
			InputSchema: types.InputSchema{
				Type: "object",
				Properties: map[string]types.Property{
					"message": {
						Type:        "string",
						Description: "Message to echo",
					},
				},
				Required: []string{"message"},
			},
		},
		{
			Name:        types.CapabilityTimestamp.String(),
			Description: "Get the current server time in the requested format.",
			InputSchema: types.InputSchema{
				Type: "object",
				Properties: map[string]types.Property{
					"format": {
						Type:        "string",
						Description: "Timestamp format; unknown values fall back to iso",
						Enum:        []string{"iso", "unix", "locale"},
						Default:     "iso",
					},
				},
			},
		},
	}
}

func promptDescriptors() []types.PromptDescriptor {
	return []types.PromptDescriptor{
		{
			Name:        "weather_report",
			Description: "Compose a short weather report for a location using the get_weather tool.",
			Arguments: []types.PromptArgument{
				{Name: "location", Description: "City or place name", Required: true},
			},
		},
	}
}

func resourceDescriptors() []types.ResourceDescriptor {
	return []types.ResourceDescriptor{
		{
			URI:         "mcpay://pricing",
			Name:        "pricing",
			Description: "Machine-readable price list for the paid tools.",
			MimeType:    "application/json",
		},
	}
}
