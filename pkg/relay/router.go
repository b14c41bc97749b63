package relay

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// Route is one registered leaf of the routing tree: the pattern the host
// framework dispatches on, the composed pipeline, and the contract the
// pipeline enforces. The contract pointer doubles as the introspection
// side-table for the document generator.
type Route struct {
	// Method is the HTTP verb the route was registered under
	Method string

	// Pattern is the full path pattern including group prefixes
	Pattern PathPattern

	// Contract is the handler's attached contract metadata
	Contract *Contract

	// Handler is the composed contract pipeline
	Handler HandlerFunc
}

// routeNode is one level of the routing tree. Group nodes hold children;
// leaves hang off the node they were registered on.
type routeNode struct {
	prefix   string
	children []*routeNode
	routes   []*Route
}

// Router owns the routing tree and composes contract pipelines onto a host
// framework adapter. Registration is not safe for concurrent use; once
// registration is done, any number of in-flight requests may read the tree
// and its contracts without synchronization.
type Router struct {
	server    WebServer
	log       *slog.Logger
	validator *Validator
	errors    *ErrorRegistry
	root      *routeNode
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithLogger sets the structured logger used for operator-facing failures
func WithLogger(log *slog.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

// WithErrorRegistry injects the error-handler registry
func WithErrorRegistry(reg *ErrorRegistry) RouterOption {
	return func(r *Router) { r.errors = reg }
}

// WithValidator replaces the default validator
func WithValidator(v *Validator) RouterOption {
	return func(r *Router) { r.validator = v }
}

// New creates a Router on top of a host framework adapter
func New(server WebServer, opts ...RouterOption) *Router {
	r := &Router{
		server: server,
		log:    slog.Default(),
		root:   &routeNode{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.validator == nil {
		r.validator = NewValidator()
	}
	if r.errors == nil {
		r.errors = NewErrorRegistry()
	}
	if r.errors.overLimit() {
		r.log.Warn("error registry exceeds the recommended handler count",
			slog.Int("entries", r.errors.Len()),
			slog.Int("limit", r.errors.limit))
	}
	return r
}

// Server returns the underlying host framework adapter
func (r *Router) Server() WebServer {
	return r.server
}

// Use adds global middleware on the host framework
func (r *Router) Use(middleware MiddlewareFunc) {
	r.server.Use(middleware)
}

// Handle registers a contract-wrapped handler at the router root
func (r *Router) Handle(method, path string, handler any, opts ...Option) error {
	return r.handle(r.root, "", method, path, handler, opts)
}

// GET registers a GET handler
func (r *Router) GET(path string, handler any, opts ...Option) error {
	return r.Handle(http.MethodGet, path, handler, opts...)
}

// POST registers a POST handler
func (r *Router) POST(path string, handler any, opts ...Option) error {
	return r.Handle(http.MethodPost, path, handler, opts...)
}

// PUT registers a PUT handler
func (r *Router) PUT(path string, handler any, opts ...Option) error {
	return r.Handle(http.MethodPut, path, handler, opts...)
}

// PATCH registers a PATCH handler
func (r *Router) PATCH(path string, handler any, opts ...Option) error {
	return r.Handle(http.MethodPatch, path, handler, opts...)
}

// DELETE registers a DELETE handler
func (r *Router) DELETE(path string, handler any, opts ...Option) error {
	return r.Handle(http.MethodDelete, path, handler, opts...)
}

// Group creates a routing subtree under the given prefix
func (r *Router) Group(prefix string) *Group {
	node := &routeNode{prefix: prefix}
	r.root.children = append(r.root.children, node)
	return &Group{router: r, node: node, base: prefix}
}

// Group is a routing subtree with a common path prefix
type Group struct {
	router *Router
	node   *routeNode
	base   string
}

// Group creates a nested subtree
func (g *Group) Group(prefix string) *Group {
	node := &routeNode{prefix: prefix}
	g.node.children = append(g.node.children, node)
	return &Group{router: g.router, node: node, base: g.base + prefix}
}

// Handle registers a contract-wrapped handler inside the group
func (g *Group) Handle(method, path string, handler any, opts ...Option) error {
	return g.router.handle(g.node, g.base, method, path, handler, opts)
}

// GET registers a GET handler inside the group
func (g *Group) GET(path string, handler any, opts ...Option) error {
	return g.Handle(http.MethodGet, path, handler, opts...)
}

// POST registers a POST handler inside the group
func (g *Group) POST(path string, handler any, opts ...Option) error {
	return g.Handle(http.MethodPost, path, handler, opts...)
}

// PUT registers a PUT handler inside the group
func (g *Group) PUT(path string, handler any, opts ...Option) error {
	return g.Handle(http.MethodPut, path, handler, opts...)
}

// PATCH registers a PATCH handler inside the group
func (g *Group) PATCH(path string, handler any, opts ...Option) error {
	return g.Handle(http.MethodPatch, path, handler, opts...)
}

// DELETE registers a DELETE handler inside the group
func (g *Group) DELETE(path string, handler any, opts ...Option) error {
	return g.Handle(http.MethodDelete, path, handler, opts...)
}

// handle validates everything registration-time so request-time work is pure
// lookups: pattern syntax, handler shape, parameter arity and the response
// map are all checked here.
func (r *Router) handle(node *routeNode, base, method, path string, handler any, opts []Option) error {
	method = strings.ToUpper(method)
	pattern := PathPattern(base + path)
	if err := pattern.Validate(); err != nil {
		return err
	}

	ct, err := buildContract(method, handler, opts)
	if err != nil {
		return fmt.Errorf("register %s %s: %w", method, pattern, err)
	}

	if err := checkPathParams(pattern, ct); err != nil {
		return fmt.Errorf("register %s %s: %w", method, pattern, err)
	}

	pipeline := buildPipeline(ct, r.errors, r.validator, r.log)

	route := &Route{
		Method:   method,
		Pattern:  pattern,
		Contract: ct,
		Handler:  pipeline,
	}
	node.routes = append(node.routes, route)

	for _, m := range ct.AllowedMethods {
		r.server.RegisterRoute(m, pattern, pipeline)
	}
	return nil
}

// checkPathParams verifies every path capture maps to a declared parameter
func checkPathParams(pattern PathPattern, ct *Contract) error {
	declared := make(map[string]bool, len(ct.RequiredParams))
	for _, p := range ct.RequiredParams {
		declared[p.Name] = true
	}
	for _, name := range pattern.ParamNames() {
		if !declared[name] {
			return fmt.Errorf("path parameter %q is not a declared handler parameter", name)
		}
	}
	return nil
}

// Routes returns a flattened copy of every registered route, in
// registration order within each subtree.
func (r *Router) Routes() []*Route {
	var out []*Route
	var walk func(n *routeNode)
	walk = func(n *routeNode) {
		out = append(out, n.routes...)
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(r.root)
	return out
}
