package relay

// Document is the aggregated API description of every contract-bearing
// route, in the OpenAPI 3.1 shape. Instances are ephemeral: each generation
// performs a fresh walk and the caller owns the result.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`

	// Defs is always emitted empty: named schemas hoist into
	// components.schemas instead. The key is kept so consumers expecting
	// the $defs slot in generated documents still find it.
	Defs map[string]*Schema `json:"$defs"`
}

// Info holds API metadata
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Components carries the deduplicated shared schema table
type Components struct {
	Schemas map[string]*Schema `json:"schemas"`
}

// PathItem maps lowercase HTTP methods to operations
type PathItem map[string]*Operation

// Operation describes a single API operation on a path
type Operation struct {
	Summary     string                    `json:"summary"`
	OperationID string                    `json:"operationId"`
	Tags        []string                  `json:"tags,omitempty"`
	Parameters  []Parameter               `json:"parameters"`
	RequestBody *RequestBody              `json:"requestBody,omitempty"`
	Responses   map[string]ResponseObject `json:"responses"`
}

// Parameter describes a single operation parameter
type Parameter struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema"`
}

// RequestBody describes an operation's request body
type RequestBody struct {
	Content map[string]Media `json:"content"`
}

// Media is a media type object carrying a schema
type Media struct {
	Schema *Schema `json:"schema,omitempty"`
}

// ResponseObject describes one response by status
type ResponseObject struct {
	Description string           `json:"description"`
	Content     map[string]Media `json:"content,omitempty"`
}
