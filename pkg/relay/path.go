package relay

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	ParameterPart
	WildcardPart
)

// PathPart represents a single part of a path pattern
type PathPart struct {
	Type      PathPartType
	Value     string // For static parts: the literal text, for parameters: the parameter name
	ParamType string // For parameters: the declared type (e.g., "int", "uuid"), empty for untyped
}

// PathPattern represents a route path in relay syntax and provides parsed
// parts plus conversions into the host frameworks' native syntaxes.
//
// Syntax: /users/{id:int}/posts/{slug}/files/{*}
type PathPattern string

// pathLexer tokenizes path patterns. Brace contents are lexed in their own
// state so parameter names and types can be split by the grammar.
var pathLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Slash", Pattern: `/`},
		{Name: "LBrace", Pattern: `\{`, Action: lexer.Push("Param")},
		{Name: "Text", Pattern: `[^/{]+`},
	},
	"Param": {
		{Name: "RBrace", Pattern: `\}`, Action: lexer.Pop()},
		{Name: "Colon", Pattern: `:`},
		{Name: "Star", Pattern: `\*`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	},
})

type pathGrammar struct {
	Tokens []pathToken `parser:"@@*"`
}

type pathToken struct {
	Slash bool        `parser:"  @Slash"`
	Text  string      `parser:"| @Text"`
	Param *paramToken `parser:"| LBrace @@ RBrace"`
}

type paramToken struct {
	Star bool   `parser:"  @Star"`
	Name string `parser:"| @Ident"`
	Type string `parser:"  ( Colon @Ident )?"`
}

var pathParser = participle.MustBuild[pathGrammar](
	participle.Lexer(pathLexer),
)

// NewPathPattern creates a new PathPattern from a string
func NewPathPattern(path string) PathPattern {
	return PathPattern(path)
}

// Raw returns the original pattern string
func (p PathPattern) Raw() string {
	return string(p)
}

// Parse parses the pattern and returns its parts. Consecutive static
// characters are collapsed into a single static part.
func (p PathPattern) Parse() ([]PathPart, error) {
	ast, err := pathParser.ParseString("", string(p))
	if err != nil {
		return nil, fmt.Errorf("invalid path pattern %q: %w", string(p), err)
	}

	var parts []PathPart
	appendStatic := func(s string) {
		if len(parts) > 0 && parts[len(parts)-1].Type == StaticPart {
			parts[len(parts)-1].Value += s
			return
		}
		parts = append(parts, PathPart{Type: StaticPart, Value: s})
	}

	for _, tok := range ast.Tokens {
		switch {
		case tok.Slash:
			appendStatic("/")
		case tok.Text != "":
			appendStatic(tok.Text)
		case tok.Param != nil:
			if tok.Param.Star {
				parts = append(parts, PathPart{Type: WildcardPart, Value: "*"})
				continue
			}
			parts = append(parts, PathPart{
				Type:      ParameterPart,
				Value:     tok.Param.Name,
				ParamType: tok.Param.Type,
			})
		}
	}
	return parts, nil
}

// Validate reports whether the pattern is well-formed
func (p PathPattern) Validate() error {
	if !strings.HasPrefix(string(p), "/") {
		return fmt.Errorf("path pattern %q must start with '/'", string(p))
	}
	parts, err := p.Parse()
	if err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, part := range parts {
		if part.Type != ParameterPart {
			continue
		}
		if seen[part.Value] {
			return fmt.Errorf("duplicate path parameter %q in pattern %q", part.Value, string(p))
		}
		seen[part.Value] = true
	}
	return nil
}

// ParamNames returns the parameter names in declaration order. Malformed
// patterns yield no names.
func (p PathPattern) ParamNames() []string {
	parts, err := p.Parse()
	if err != nil {
		return nil
	}
	var names []string
	for _, part := range parts {
		if part.Type == ParameterPart {
			names = append(names, part.Value)
		}
	}
	return names
}

// convert rewrites the pattern using the supplied placeholder renderers,
// falling back to the raw string when the pattern does not parse.
func (p PathPattern) convert(param func(PathPart) string, wildcard string) string {
	parts, err := p.Parse()
	if err != nil {
		return string(p)
	}
	var b strings.Builder
	for _, part := range parts {
		switch part.Type {
		case StaticPart:
			b.WriteString(part.Value)
		case ParameterPart:
			b.WriteString(param(part))
		case WildcardPart:
			b.WriteString(wildcard)
		}
	}
	return b.String()
}

// EchoPath converts the pattern to Echo syntax: /users/{id:int} -> /users/:id
func (p PathPattern) EchoPath() string {
	return p.convert(func(part PathPart) string { return ":" + part.Value }, "*")
}

// GinPath converts the pattern to Gin syntax: /users/{id:int} -> /users/:id,
// trailing wildcards become a named catch-all.
func (p PathPattern) GinPath() string {
	return p.convert(func(part PathPart) string { return ":" + part.Value }, "*path")
}

// FiberPath converts the pattern to Fiber syntax: /users/{id:int} -> /users/:id
func (p PathPattern) FiberPath() string {
	return p.convert(func(part PathPart) string { return ":" + part.Value }, "*")
}

// DocPath converts the pattern to the API document's placeholder syntax:
// /users/{id:int} -> /users/{id}
func (p PathPattern) DocPath() string {
	return p.convert(func(part PathPart) string { return "{" + part.Value + "}" }, "{wildcard}")
}
