package relay

import (
	"reflect"
)

// DefaultMaxErrorHandlers is the soft maximum number of registry entries.
// Crossing it only logs a warning at construction time; large registries
// usually mean error handling has drifted into a catch-all module.
const DefaultMaxErrorHandlers = 8

// ErrorHandlerEntry maps one exact error type to its translation function.
// Build entries with OnError.
type ErrorHandlerEntry struct {
	// Type is the runtime error type the entry matches
	Type reflect.Type

	// Handle translates the error into a response body, or nil to decline
	Handle func(c RequestContext, err error) map[string]any
}

// OnError creates a registry entry for the exact error type E. The entry
// matches only when the handler's returned error has runtime type E; wrapped
// or derived errors do not match.
func OnError[E error](fn func(c RequestContext, err E) map[string]any) ErrorHandlerEntry {
	return ErrorHandlerEntry{
		Type: reflect.TypeOf((*E)(nil)).Elem(),
		Handle: func(c RequestContext, err error) map[string]any {
			e, ok := err.(E)
			if !ok {
				return nil
			}
			return fn(c, e)
		},
	}
}

// ErrorRegistry translates application errors returned by handlers into
// structured 400 bodies. Entries are walked in registration order and the
// first entry whose type exactly matches the error's runtime type wins. The
// registry is immutable after construction and safe for concurrent reads. An
// empty registry is valid: every error then falls through to the generic
// server-error path.
type ErrorRegistry struct {
	entries []ErrorHandlerEntry
	limit   int
}

// NewErrorRegistry builds a registry from explicit entries with the default
// soft maximum
func NewErrorRegistry(entries ...ErrorHandlerEntry) *ErrorRegistry {
	return NewErrorRegistryWithLimit(DefaultMaxErrorHandlers, entries...)
}

// NewErrorRegistryWithLimit builds a registry with a custom soft maximum.
// The limit never blocks construction; the router warns through its injected
// logger when the registry exceeds it.
func NewErrorRegistryWithLimit(limit int, entries ...ErrorHandlerEntry) *ErrorRegistry {
	return &ErrorRegistry{
		entries: append([]ErrorHandlerEntry(nil), entries...),
		limit:   limit,
	}
}

// overLimit reports whether the registry exceeds its soft maximum
func (r *ErrorRegistry) overLimit() bool {
	return r.limit > 0 && len(r.entries) > r.limit
}

// Len returns the number of registered entries
func (r *ErrorRegistry) Len() int {
	return len(r.entries)
}

// Lookup walks the entries in registration order and invokes the first one
// matching the error's exact runtime type. It reports false when no entry
// matches or every matching entry declined with a nil body.
func (r *ErrorRegistry) Lookup(c RequestContext, err error) (map[string]any, bool) {
	errType := reflect.TypeOf(err)
	for _, entry := range r.entries {
		if entry.Type != errType {
			continue
		}
		if body := entry.Handle(c, err); body != nil {
			return body, true
		}
	}
	return nil, false
}
