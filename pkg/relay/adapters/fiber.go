package adapters

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/toyz/relay/pkg/relay"
)

// FiberAdapter wraps a Fiber app to implement relay.WebServer
type FiberAdapter struct {
	app *fiber.App
}

// NewFiberAdapter creates a new Fiber adapter instance
func NewFiberAdapter() *FiberAdapter {
	return &FiberAdapter{app: fiber.New()}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with panic recovery
// middleware installed
func NewDefaultFiberAdapter() *FiberAdapter {
	adapter := NewFiberAdapter()
	adapter.app.Use(recover.New())
	return adapter
}

// RegisterRoute registers a route with the Fiber app
func (fa *FiberAdapter) RegisterRoute(method string, path relay.PathPattern, handler relay.HandlerFunc, middlewares ...relay.MiddlewareFunc) {
	var handlers []fiber.Handler
	for _, mw := range middlewares {
		handlers = append(handlers, convertFiberMiddleware(mw))
	}
	handlers = append(handlers, convertFiberHandler(handler))

	fa.app.Add(strings.ToUpper(method), path.FiberPath(), handlers...)
}

// Use adds middleware to the Fiber app
func (fa *FiberAdapter) Use(middleware relay.MiddlewareFunc) {
	fa.app.Use(convertFiberMiddleware(middleware))
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}

// convertFiberHandler converts a relay handler to a Fiber handler
func convertFiberHandler(handler relay.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return handler(&FiberRequestContext{ctx: c})
	}
}

// convertFiberMiddleware converts a relay middleware to a Fiber middleware
func convertFiberMiddleware(middleware relay.MiddlewareFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		next := func(rc relay.RequestContext) error {
			return c.Next()
		}
		return middleware(next)(&FiberRequestContext{ctx: c})
	}
}

// FiberRequestContext wraps fiber.Ctx to implement relay.RequestContext
type FiberRequestContext struct {
	ctx *fiber.Ctx
}

// Method returns the HTTP method
func (frc *FiberRequestContext) Method() string {
	return frc.ctx.Method()
}

// Path returns the request path
func (frc *FiberRequestContext) Path() string {
	return frc.ctx.Path()
}

// RealIP returns the client IP address
func (frc *FiberRequestContext) RealIP() string {
	return frc.ctx.IP()
}

// Param returns a path parameter by name
func (frc *FiberRequestContext) Param(name string) string {
	return frc.ctx.Params(name)
}

// ParamNames returns the path parameter names
func (frc *FiberRequestContext) ParamNames() []string {
	route := frc.ctx.Route()
	if route == nil {
		return nil
	}
	return route.Params
}

// QueryParam returns a query parameter by name
func (frc *FiberRequestContext) QueryParam(name string) string {
	return frc.ctx.Query(name)
}

// QueryParams returns all query parameters
func (frc *FiberRequestContext) QueryParams() map[string][]string {
	params := make(map[string][]string)
	frc.ctx.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k := string(key)
		params[k] = append(params[k], string(value))
	})
	return params
}

// Header returns a request header value
func (frc *FiberRequestContext) Header(name string) string {
	return frc.ctx.Get(name)
}

// Body returns the raw request body. Fiber caches the body internally.
func (frc *FiberRequestContext) Body() ([]byte, error) {
	return frc.ctx.Body(), nil
}

// Get retrieves data from the context
func (frc *FiberRequestContext) Get(key string) any {
	return frc.ctx.Locals(key)
}

// Set stores data in the context
func (frc *FiberRequestContext) Set(key string, val any) {
	frc.ctx.Locals(key, val)
}

// JSON writes a JSON response
func (frc *FiberRequestContext) JSON(code int, v any) error {
	return frc.ctx.Status(code).JSON(v)
}
