package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vitwit/mcpay/dispatch"
	"github.com/vitwit/mcpay/logger"
	"github.com/vitwit/mcpay/types"
)

// REST mirrors each tool on its own HTTP path. Every handler normalizes
// into the same tools/call invocation the JSON-RPC endpoint produces, so
// pricing, validation and execution are shared.
type REST struct {
	dispatcher *dispatch.Dispatcher
	log        logger.Logger
}

// NewREST creates the REST adapter.
func NewREST(d *dispatch.Dispatcher, log logger.Logger) *REST {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &REST{dispatcher: d, log: log}
}

// Register mounts one GET and one POST route per tool.
func (h *REST) Register(r gin.IRouter) {
	for _, capability := range types.Capabilities() {
		handler := h.handlerFor(capability)
		r.GET(capability.Path(), handler)
		r.POST(capability.Path(), handler)
	}
}

func (h *REST) handlerFor(capability types.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		args, f := restArguments(c)
		if f != nil {
			renderRESTFailure(c, f)
			return
		}

		inv := &types.Invocation{
			Method:       dispatch.MethodToolsCall,
			Capability:   capability.String(),
			Arguments:    args,
			RouteKey:     capability.RouteKey(),
			PaymentProof: c.GetHeader(types.PaymentHeader),
			RequestID:    uuid.NewString(),
		}

		h.log.Debug("rest request", map[string]any{
			"tool":       capability.String(),
			"request_id": inv.RequestID,
		})

		outcome := h.dispatcher.Dispatch(c.Request.Context(), inv)
		h.render(c, outcome)
	}
}

// restArguments decodes tool arguments from the request: JSON body on
// POST, query string on GET. Query values stay strings; the executor
// coerces numerics.
func restArguments(c *gin.Context) (map[string]interface{}, *types.Failure) {
	if c.Request.Method == http.MethodPost {
		args := map[string]interface{}{}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&args); err != nil {
				return nil, types.NewFailure(types.ErrInvalidRequest, "request body must be a JSON object")
			}
		}
		return args, nil
	}

	args := make(map[string]interface{})
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			args[key] = values[0]
		}
	}
	return args, nil
}

func (h *REST) render(c *gin.Context, outcome types.Outcome) {
	switch outcome.Kind {
	case types.OutcomeSuccess:
		body := map[string]interface{}{"success": true}
		for k, v := range outcome.Value {
			body[k] = v
		}
		c.JSON(http.StatusOK, body)

	case types.OutcomePaymentRequired:
		c.JSON(http.StatusPaymentRequired, outcome.Challenge)

	default:
		renderRESTFailure(c, outcome.Failure)
	}
}

// renderRESTFailure maps the failure taxonomy onto HTTP statuses and a
// flat error body.
func renderRESTFailure(c *gin.Context, f *types.Failure) {
	body := map[string]interface{}{
		"error":   string(f.Kind),
		"message": f.Message,
	}
	for k, v := range f.Data {
		body[k] = v
	}
	c.JSON(f.Kind.HTTPStatus(), body)
}
