package relay

// Response represents a handler result with a custom status code and body.
// Handlers return it when they need a non-default success status; the status
// must be a key of the contract's response map.
//
// Example usage:
//
//	func createUser(c relay.RequestContext, payload CreateUser) (any, error) {
//	    // ... create user logic ...
//	    return relay.Created(user), nil
//	}
type Response struct {
	// StatusCode is the HTTP status code to return (e.g., 200, 201, 404)
	StatusCode int `json:"-"`

	// Body is the response value checked against the contract's schema for
	// StatusCode before serialization
	Body any `json:"body,omitempty"`
}

// NewResponse creates a new Response with the specified status code and body
func NewResponse(statusCode int, body any) *Response {
	return &Response{StatusCode: statusCode, Body: body}
}

// OK creates a 200 OK response with the given body
func OK(body any) *Response {
	return NewResponse(200, body)
}

// Created creates a 201 Created response with the given body
func Created(body any) *Response {
	return NewResponse(201, body)
}

// NoContent creates a 204 No Content response
func NoContent() *Response {
	return NewResponse(204, nil)
}
