// Package relay is a contract-enforcement layer that sits between a host
// web framework's routing machinery and application handlers. Handlers are
// registered together with an explicit contract describing their allowed
// methods, auth requirement, named typed parameters and status-to-schema
// response map; relay validates inbound parameters, invokes the handler,
// validates the outbound result against the declared schema for the returned
// status, and derives an OpenAPI 3.1 document from the same metadata.
package relay

import "context"

// WebServer defines the contract for host web framework implementations.
// Adapters for Echo, Gin and Fiber live in the adapters package.
type WebServer interface {
	// RegisterRoute registers a handler for a method and path pattern
	RegisterRoute(method string, path PathPattern, handler HandlerFunc, middlewares ...MiddlewareFunc)

	// Use adds global middleware
	Use(middleware MiddlewareFunc)

	// Server lifecycle
	Start(addr string) error
	Stop(ctx context.Context) error

	// Name returns the adapter name
	Name() string
}

// RequestContext provides a framework-agnostic view of one HTTP request.
// The contract pipeline only ever reads from it, except for JSON which
// writes the terminal response.
type RequestContext interface {
	// Request data
	Method() string
	Path() string
	RealIP() string

	// Path parameters
	Param(name string) string
	ParamNames() []string

	// Query parameters
	QueryParam(name string) string
	QueryParams() map[string][]string

	// Headers
	Header(name string) string

	// Body returns the raw request body. Implementations cache the body so
	// repeated calls are safe.
	Body() ([]byte, error)

	// Context data
	Get(key string) any
	Set(key string, val any)

	// JSON writes a JSON response with the given status code
	JSON(code int, v any) error
}

// HandlerFunc defines the signature for HTTP handlers at the framework boundary
type HandlerFunc func(RequestContext) error

// MiddlewareFunc defines the signature for middleware
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// identityKey is the context key under which authentication middleware
// stores the request's principal.
const identityKey = "relay.identity"

// WithIdentity attaches an authenticated principal to the request context.
// Authentication middleware calls this; contracts with LoginRequired reject
// requests that have no identity attached.
func WithIdentity(c RequestContext, principal any) {
	c.Set(identityKey, principal)
}

// Identity returns the principal attached to the request context, or nil if
// the request is unauthenticated.
func Identity(c RequestContext) any {
	return c.Get(identityKey)
}
