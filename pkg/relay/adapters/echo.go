// Package adapters provides host framework implementations of the relay
// boundary interfaces for Echo v4, Gin and Fiber v2.
package adapters

import (
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/toyz/relay/pkg/relay"
)

// EchoAdapter implements relay.WebServer for Echo v4
type EchoAdapter struct {
	engine *echo.Echo
}

// NewEchoAdapter creates a new Echo adapter
func NewEchoAdapter(e *echo.Echo) *EchoAdapter {
	return &EchoAdapter{engine: e}
}

// NewDefaultEchoAdapter creates a new Echo adapter with a default Echo instance
func NewDefaultEchoAdapter() *EchoAdapter {
	return &EchoAdapter{engine: echo.New()}
}

// RegisterRoute registers a route with the Echo server
func (ea *EchoAdapter) RegisterRoute(method string, path relay.PathPattern, handler relay.HandlerFunc, middlewares ...relay.MiddlewareFunc) {
	echoMiddlewares := make([]echo.MiddlewareFunc, len(middlewares))
	for i, mw := range middlewares {
		echoMiddlewares[i] = ea.convertMiddleware(mw)
	}
	ea.engine.Add(method, path.EchoPath(), ea.convertHandler(handler), echoMiddlewares...)
}

// Use adds global middleware
func (ea *EchoAdapter) Use(middleware relay.MiddlewareFunc) {
	ea.engine.Use(ea.convertMiddleware(middleware))
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}

// convertHandler converts relay.HandlerFunc to echo.HandlerFunc
func (ea *EchoAdapter) convertHandler(handler relay.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handler(&EchoRequestContext{context: c})
	}
}

// convertMiddleware converts relay.MiddlewareFunc to echo.MiddlewareFunc
func (ea *EchoAdapter) convertMiddleware(middleware relay.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			relayNext := func(ctx relay.RequestContext) error {
				return next(c)
			}
			return middleware(relayNext)(&EchoRequestContext{context: c})
		}
	}
}

// EchoRequestContext implements relay.RequestContext for Echo
type EchoRequestContext struct {
	context  echo.Context
	body     []byte
	bodyRead bool
}

// Method returns the HTTP method
func (erc *EchoRequestContext) Method() string {
	return erc.context.Request().Method
}

// Path returns the request path
func (erc *EchoRequestContext) Path() string {
	return erc.context.Request().URL.Path
}

// RealIP returns the client IP address
func (erc *EchoRequestContext) RealIP() string {
	return erc.context.RealIP()
}

// Param returns a path parameter by name
func (erc *EchoRequestContext) Param(name string) string {
	return erc.context.Param(name)
}

// ParamNames returns the path parameter names
func (erc *EchoRequestContext) ParamNames() []string {
	return erc.context.ParamNames()
}

// QueryParam returns a query parameter by name
func (erc *EchoRequestContext) QueryParam(name string) string {
	return erc.context.QueryParam(name)
}

// QueryParams returns all query parameters
func (erc *EchoRequestContext) QueryParams() map[string][]string {
	return erc.context.QueryParams()
}

// Header returns a request header value
func (erc *EchoRequestContext) Header(name string) string {
	return erc.context.Request().Header.Get(name)
}

// Body returns the raw request body, reading it once and caching it
func (erc *EchoRequestContext) Body() ([]byte, error) {
	if erc.bodyRead {
		return erc.body, nil
	}
	b, err := io.ReadAll(erc.context.Request().Body)
	if err != nil {
		return nil, err
	}
	erc.body = b
	erc.bodyRead = true
	return b, nil
}

// Get retrieves data from the context
func (erc *EchoRequestContext) Get(key string) any {
	return erc.context.Get(key)
}

// Set stores data in the context
func (erc *EchoRequestContext) Set(key string, val any) {
	erc.context.Set(key, val)
}

// JSON writes a JSON response
func (erc *EchoRequestContext) JSON(code int, v any) error {
	return erc.context.JSON(code, v)
}
