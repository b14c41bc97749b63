package relay

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ParamSpec describes one required, named, typed handler parameter. The
// sequence of specs on a contract follows the handler's declaration order
// after the implicit leading RequestContext argument.
type ParamSpec struct {
	Name string
	Type reflect.Type
}

// Contract is the metadata attached to a registered handler: what inputs it
// requires and what shaped output it produces per status code. A contract is
// created once at registration time and never mutated afterwards, so any
// number of in-flight requests may read it without synchronization.
type Contract struct {
	// AllowedMethods is the ordered set of HTTP verbs the handler accepts
	AllowedMethods []string

	// LoginRequired rejects unauthenticated requests with a 401 before any
	// parameter extraction runs
	LoginRequired bool

	// Responses maps each status code the handler may produce to the type
	// its body must satisfy. Producing an undeclared status is a contract
	// violation.
	Responses map[int]reflect.Type

	// RequiredParams are the handler's contract-validated inputs
	RequiredParams []ParamSpec

	// IncludeInDocument opts the handler into the generated API document
	IncludeInDocument bool

	// Tags label the handler's operations in the generated document
	Tags []string

	// MessageResponse replaces the default 401/405 message body when set
	MessageResponse map[string]any

	// HandlerName is the handler function's declared name, used as the
	// document operation id
	HandlerName string

	fn reflect.Value
}

type contractConfig struct {
	methods         []string
	loginRequired   bool
	responses       map[int]reflect.Type
	paramNames      []string
	excludeFromDocs bool
	tags            []string
	message         map[string]any
	name            string
}

// Option configures a handler contract at registration time
type Option func(*contractConfig)

// Methods overrides the allowed method set. Without it, the single method the
// route was registered under is the only allowed one.
func Methods(methods ...string) Option {
	return func(cfg *contractConfig) {
		for _, m := range methods {
			cfg.methods = append(cfg.methods, strings.ToUpper(m))
		}
	}
}

// LoginRequired rejects unauthenticated requests before parameter extraction
func LoginRequired() Option {
	return func(cfg *contractConfig) { cfg.loginRequired = true }
}

// Responses declares the status-to-schema map from prototype values, e.g.
// Responses(map[int]any{200: User{}, 404: map[string]string{}})
func Responses(byStatus map[int]any) Option {
	return func(cfg *contractConfig) {
		if cfg.responses == nil {
			cfg.responses = make(map[int]reflect.Type, len(byStatus))
		}
		for status, proto := range byStatus {
			if proto == nil {
				cfg.responses[status] = nil
				continue
			}
			cfg.responses[status] = reflect.TypeOf(proto)
		}
	}
}

// ResponseSchema declares a bare schema for status 200 only
func ResponseSchema(proto any) Option {
	return Responses(map[int]any{200: proto})
}

// ParamNames names the handler's contract parameters in declaration order,
// excluding the leading RequestContext. Go reflection cannot recover argument
// names from a function signature, so registration requires them explicitly.
func ParamNames(names ...string) Option {
	return func(cfg *contractConfig) { cfg.paramNames = names }
}

// ExcludeFromDocument keeps the handler out of the generated API document
func ExcludeFromDocument() Option {
	return func(cfg *contractConfig) { cfg.excludeFromDocs = true }
}

// Tags labels the handler's operations in the generated document
func Tags(tags ...string) Option {
	return func(cfg *contractConfig) { cfg.tags = tags }
}

// MessageResponse replaces the default 401/405 message body for this handler
func MessageResponse(body map[string]any) Option {
	return func(cfg *contractConfig) { cfg.message = body }
}

// Named overrides the handler name derived from the function symbol
func Named(name string) Option {
	return func(cfg *contractConfig) { cfg.name = name }
}

var (
	requestContextType = reflect.TypeOf((*RequestContext)(nil)).Elem()
	anyType            = reflect.TypeOf((*any)(nil)).Elem()
	errorType          = reflect.TypeOf((*error)(nil)).Elem()
)

// buildContract validates the handler shape and derives its contract.
// Handlers are plain functions of the form
//
//	func(relay.RequestContext, <params...>) (any, error)
func buildContract(method string, handler any, opts []Option) (*Contract, error) {
	cfg := contractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	fn := reflect.ValueOf(handler)
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("handler must be a function, got %T", handler)
	}
	ft := fn.Type()

	if ft.NumIn() < 1 || ft.In(0) != requestContextType {
		return nil, fmt.Errorf("handler %s must take relay.RequestContext as its first parameter", funcName(fn))
	}
	if ft.NumOut() != 2 || ft.Out(0) != anyType || ft.Out(1) != errorType {
		return nil, fmt.Errorf("handler %s must return (any, error)", funcName(fn))
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("handler %s must not be variadic", funcName(fn))
	}

	params, err := deriveParams(ft, cfg.paramNames)
	if err != nil {
		return nil, fmt.Errorf("handler %s: %w", funcName(fn), err)
	}

	if len(cfg.responses) == 0 {
		return nil, fmt.Errorf("handler %s declares no response schema; use ResponseSchema or Responses", funcName(fn))
	}

	methods := cfg.methods
	if len(methods) == 0 {
		methods = []string{strings.ToUpper(method)}
	}

	name := cfg.name
	if name == "" {
		name = funcName(fn)
	}

	return &Contract{
		AllowedMethods:    methods,
		LoginRequired:     cfg.loginRequired,
		Responses:         cfg.responses,
		RequiredParams:    params,
		IncludeInDocument: !cfg.excludeFromDocs,
		Tags:              cfg.tags,
		MessageResponse:   cfg.message,
		HandlerName:       name,
		fn:                fn,
	}, nil
}

// messageOr returns the handler's configured message body, or the default
func (ct *Contract) messageOr(def map[string]any) map[string]any {
	if len(ct.MessageResponse) > 0 {
		return ct.MessageResponse
	}
	return def
}

// allowsMethod reports whether the method passes the contract's gate
func (ct *Contract) allowsMethod(method string) bool {
	for _, m := range ct.AllowedMethods {
		if m == method {
			return true
		}
	}
	return false
}

// funcName returns the bare declared name of a function value
func funcName(fn reflect.Value) string {
	rf := runtime.FuncForPC(fn.Pointer())
	if rf == nil {
		return "<anonymous>"
	}
	name := rf.Name()
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
