package relay

import (
	"context"
	"encoding/json"
)

// mockContext is an in-memory RequestContext for exercising the contract
// pipeline without a host framework.
type mockContext struct {
	method  string
	path    string
	params  map[string]string
	query   map[string][]string
	headers map[string]string
	body    []byte
	store   map[string]any

	// captured response
	statusCode int
	response   any
	raw        []byte
}

func newMockContext(method, path string) *mockContext {
	return &mockContext{
		method:  method,
		path:    path,
		params:  make(map[string]string),
		query:   make(map[string][]string),
		headers: make(map[string]string),
		store:   make(map[string]any),
	}
}

func (m *mockContext) withParam(name, value string) *mockContext {
	m.params[name] = value
	return m
}

func (m *mockContext) withQuery(name, value string) *mockContext {
	m.query[name] = append(m.query[name], value)
	return m
}

func (m *mockContext) withBody(body string) *mockContext {
	m.body = []byte(body)
	return m
}

func (m *mockContext) Method() string { return m.method }
func (m *mockContext) Path() string   { return m.path }
func (m *mockContext) RealIP() string { return "127.0.0.1" }

func (m *mockContext) Param(name string) string { return m.params[name] }

func (m *mockContext) ParamNames() []string {
	names := make([]string, 0, len(m.params))
	for name := range m.params {
		names = append(names, name)
	}
	return names
}

func (m *mockContext) QueryParam(name string) string {
	if vs := m.query[name]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (m *mockContext) QueryParams() map[string][]string { return m.query }

func (m *mockContext) Header(name string) string { return m.headers[name] }

func (m *mockContext) Body() ([]byte, error) { return m.body, nil }

func (m *mockContext) Get(key string) any      { return m.store[key] }
func (m *mockContext) Set(key string, val any) { m.store[key] = val }

func (m *mockContext) JSON(code int, v any) error {
	m.statusCode = code
	m.response = v
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.raw = raw
	return nil
}

// stubServer records registrations so router tests can run without a real
// framework.
type stubServer struct {
	registered []stubRoute
}

type stubRoute struct {
	method  string
	pattern PathPattern
	handler HandlerFunc
}

func (s *stubServer) RegisterRoute(method string, path PathPattern, handler HandlerFunc, middlewares ...MiddlewareFunc) {
	s.registered = append(s.registered, stubRoute{method: method, pattern: path, handler: handler})
}

func (s *stubServer) Use(middleware MiddlewareFunc) {}
func (s *stubServer) Start(addr string) error       { return nil }
func (s *stubServer) Stop(ctx context.Context) error {
	return nil
}
func (s *stubServer) Name() string { return "Stub" }
