package adapters

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/toyz/relay/pkg/relay"
)

// GinAdapter implements relay.WebServer for the Gin framework
type GinAdapter struct {
	engine *gin.Engine
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter
func NewGinAdapter(g *gin.Engine) *GinAdapter {
	return &GinAdapter{engine: g}
}

// NewDefaultGinAdapter creates a new Gin adapter with a default Gin instance
func NewDefaultGinAdapter() *GinAdapter {
	return &GinAdapter{engine: gin.Default()}
}

// RegisterRoute registers a route with the Gin server
func (ga *GinAdapter) RegisterRoute(method string, path relay.PathPattern, handler relay.HandlerFunc, middlewares ...relay.MiddlewareFunc) {
	var handlers []gin.HandlerFunc
	for _, mw := range middlewares {
		handlers = append(handlers, ga.convertMiddleware(mw))
	}
	handlers = append(handlers, ga.convertHandler(handler))
	ga.engine.Handle(method, path.GinPath(), handlers...)
}

// Use adds global middleware
func (ga *GinAdapter) Use(middleware relay.MiddlewareFunc) {
	ga.engine.Use(ga.convertMiddleware(middleware))
}

// Start starts the Gin server wrapped in an http.Server so Stop can shut it
// down gracefully
func (ga *GinAdapter) Start(addr string) error {
	ga.server = &http.Server{Addr: addr, Handler: ga.engine}
	return ga.server.ListenAndServe()
}

// Stop stops the Gin server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	if ga.server == nil {
		return nil
	}
	return ga.server.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}

// convertHandler converts relay.HandlerFunc to gin.HandlerFunc. The contract
// pipeline never returns an error for request failures, so anything that
// surfaces here is a transport-level write failure.
func (ga *GinAdapter) convertHandler(handler relay.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(&GinRequestContext{ctx: c}); err != nil {
			_ = c.Error(err)
		}
	}
}

// convertMiddleware converts relay.MiddlewareFunc to gin.HandlerFunc
func (ga *GinAdapter) convertMiddleware(middleware relay.MiddlewareFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := func(rc relay.RequestContext) error {
			c.Next()
			return nil
		}
		if err := middleware(next)(&GinRequestContext{ctx: c}); err != nil {
			_ = c.Error(err)
		}
	}
}

// GinRequestContext implements relay.RequestContext for Gin
type GinRequestContext struct {
	ctx      *gin.Context
	body     []byte
	bodyRead bool
}

// Method returns the HTTP method
func (grc *GinRequestContext) Method() string {
	return grc.ctx.Request.Method
}

// Path returns the request path
func (grc *GinRequestContext) Path() string {
	return grc.ctx.Request.URL.Path
}

// RealIP returns the client IP address
func (grc *GinRequestContext) RealIP() string {
	return grc.ctx.ClientIP()
}

// Param returns a path parameter by name
func (grc *GinRequestContext) Param(name string) string {
	if name == "*" {
		return grc.ctx.Param("path")
	}
	return grc.ctx.Param(name)
}

// ParamNames returns the path parameter names
func (grc *GinRequestContext) ParamNames() []string {
	names := make([]string, 0, len(grc.ctx.Params))
	for _, p := range grc.ctx.Params {
		names = append(names, p.Key)
	}
	return names
}

// QueryParam returns a query parameter by name
func (grc *GinRequestContext) QueryParam(name string) string {
	return grc.ctx.Query(name)
}

// QueryParams returns all query parameters
func (grc *GinRequestContext) QueryParams() map[string][]string {
	return grc.ctx.Request.URL.Query()
}

// Header returns a request header value
func (grc *GinRequestContext) Header(name string) string {
	return grc.ctx.GetHeader(name)
}

// Body returns the raw request body, reading it once and caching it
func (grc *GinRequestContext) Body() ([]byte, error) {
	if grc.bodyRead {
		return grc.body, nil
	}
	b, err := io.ReadAll(grc.ctx.Request.Body)
	if err != nil {
		return nil, err
	}
	grc.body = b
	grc.bodyRead = true
	return b, nil
}

// Get retrieves data from the context
func (grc *GinRequestContext) Get(key string) any {
	val, _ := grc.ctx.Get(key)
	return val
}

// Set stores data in the context
func (grc *GinRequestContext) Set(key string, val any) {
	grc.ctx.Set(key, val)
}

// JSON writes a JSON response
func (grc *GinRequestContext) JSON(code int, v any) error {
	grc.ctx.JSON(code, v)
	return nil
}
