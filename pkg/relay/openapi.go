package relay

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// OpenAPIVersion is the version string stamped on generated documents
const OpenAPIVersion = "3.1.0"

// Generator assembles one API document by walking a router's routing tree
// and reading the contract attached to every included leaf. Generation is
// side-effect-free and deterministic: generating twice against an unchanged
// tree yields byte-identical documents. The tree must be stable while a walk
// runs.
type Generator struct {
	Info Info
}

// NewGenerator creates a Generator, filling unset Info fields with defaults
func NewGenerator(info Info) *Generator {
	if info.Title == "" {
		info.Title = "My API"
	}
	if info.Version == "" {
		info.Version = "1.0.0"
	}
	return &Generator{Info: info}
}

// Generate performs a fresh recursive walk of the routing tree. Leaves that
// are not contract-wrapped or did not opt into the document are skipped. Two
// leaves rendering the same path and method is an error, never a silent
// overwrite.
func (g *Generator) Generate(r *Router) (*Document, error) {
	doc := &Document{
		OpenAPI:    OpenAPIVersion,
		Info:       g.Info,
		Paths:      make(map[string]PathItem),
		Components: Components{Schemas: make(map[string]*Schema)},
		Defs:       make(map[string]*Schema),
	}
	renderer := NewSchemaRenderer()

	if err := g.walk(r.root, renderer, doc); err != nil {
		return nil, err
	}

	doc.Components.Schemas = renderer.Components()
	return doc, nil
}

func (g *Generator) walk(node *routeNode, renderer *SchemaRenderer, doc *Document) error {
	for _, route := range node.routes {
		ct := route.Contract
		if ct == nil || !ct.IncludeInDocument {
			continue
		}
		if err := g.addRoute(route, renderer, doc); err != nil {
			return err
		}
	}
	for _, child := range node.children {
		if err := g.walk(child, renderer, doc); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) addRoute(route *Route, renderer *SchemaRenderer, doc *Document) error {
	ct := route.Contract
	docPath := route.Pattern.DocPath()

	op, err := g.buildOperation(route, renderer)
	if err != nil {
		return fmt.Errorf("document %s %s: %w", route.Method, route.Pattern, err)
	}

	item := doc.Paths[docPath]
	if item == nil {
		item = make(PathItem)
		doc.Paths[docPath] = item
	}
	for _, method := range ct.AllowedMethods {
		key := strings.ToLower(method)
		if _, exists := item[key]; exists {
			return fmt.Errorf("document path collision: %s %s is produced by more than one handler", method, docPath)
		}
		item[key] = op
	}
	return nil
}

// buildOperation renders one contract into an operation. Required params
// named by a path capture become path parameters; the rest are synthesized
// into an anonymous request-body object.
func (g *Generator) buildOperation(route *Route, renderer *SchemaRenderer) (*Operation, error) {
	ct := route.Contract

	op := &Operation{
		Summary:     "Handled by " + ct.HandlerName,
		OperationID: ct.HandlerName,
		Tags:        ct.Tags,
		Parameters:  []Parameter{},
		Responses:   make(map[string]ResponseObject),
	}

	inPath := make(map[string]bool)
	for _, name := range route.Pattern.ParamNames() {
		inPath[name] = true
	}

	bodySchema := &Schema{Type: "object", Properties: make(map[string]*Schema)}
	for _, param := range ct.RequiredParams {
		rendered, err := renderer.Render(param.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", param.Name, err)
		}
		if inPath[param.Name] {
			op.Parameters = append(op.Parameters, Parameter{
				Name:     param.Name,
				In:       "path",
				Required: true,
				Schema:   rendered,
			})
			continue
		}
		bodySchema.Properties[param.Name] = rendered
		bodySchema.Required = append(bodySchema.Required, param.Name)
	}
	if len(bodySchema.Properties) > 0 {
		op.RequestBody = &RequestBody{
			Content: map[string]Media{"application/json": {Schema: bodySchema}},
		}
	}

	// Statuses render in sorted order so component hoisting, and with it
	// collision qualification, is stable across walks.
	statuses := make([]int, 0, len(ct.Responses))
	for status := range ct.Responses {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)

	for _, status := range statuses {
		t := ct.Responses[status]
		rendered, err := renderer.Render(t)
		if err != nil {
			return nil, fmt.Errorf("response %d: %w", status, err)
		}
		resp := ResponseObject{Description: statusDescription(status)}
		if t != nil {
			resp.Content = map[string]Media{"application/json": {Schema: rendered}}
		}
		op.Responses[strconv.Itoa(status)] = resp
	}

	return op, nil
}

func statusDescription(status int) string {
	if status == http.StatusOK {
		return "OK"
	}
	return "Else 200"
}

// MountDocument registers a GET endpoint serving a freshly generated
// document per request. The endpoint itself bypasses the contract layer and
// never appears in the document.
func (r *Router) MountDocument(path string, info Info) error {
	pattern := PathPattern(path)
	if err := pattern.Validate(); err != nil {
		return err
	}

	gen := NewGenerator(info)
	handler := func(c RequestContext) error {
		doc, err := gen.Generate(r)
		if err != nil {
			r.log.Error("api document generation failed", "error", err)
			return c.JSON(http.StatusInternalServerError, serverErrorMessage)
		}
		return c.JSON(http.StatusOK, doc)
	}

	r.server.RegisterRoute(http.MethodGet, pattern, handler)
	return nil
}
