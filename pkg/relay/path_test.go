package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathPattern_EchoPath(t *testing.T) {
	testCases := []struct {
		name     string
		pattern  string
		expected string
	}{
		{
			name:     "simple int parameter",
			pattern:  "/users/{id:int}",
			expected: "/users/:id",
		},
		{
			name:     "simple string parameter",
			pattern:  "/users/{name:string}",
			expected: "/users/:name",
		},
		{
			name:     "multiple parameters",
			pattern:  "/users/{id:int}/posts/{slug:string}",
			expected: "/users/:id/posts/:slug",
		},
		{
			name:     "no parameters",
			pattern:  "/users",
			expected: "/users",
		},
		{
			name:     "untyped parameter",
			pattern:  "/users/{id}",
			expected: "/users/:id",
		},
		{
			name:     "parameter at start",
			pattern:  "/{category}/items",
			expected: "/:category/items",
		},
		{
			name:     "wildcard",
			pattern:  "/files/{*}",
			expected: "/files/*",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PathPattern(tc.pattern).EchoPath())
		})
	}
}

func TestPathPattern_GinPath(t *testing.T) {
	assert.Equal(t, "/users/:id", PathPattern("/users/{id:int}").GinPath())
	assert.Equal(t, "/files/*path", PathPattern("/files/{*}").GinPath())
}

func TestPathPattern_FiberPath(t *testing.T) {
	assert.Equal(t, "/users/:id/posts/:slug", PathPattern("/users/{id:int}/posts/{slug}").FiberPath())
	assert.Equal(t, "/files/*", PathPattern("/files/{*}").FiberPath())
}

func TestPathPattern_DocPath(t *testing.T) {
	testCases := []struct {
		name     string
		pattern  string
		expected string
	}{
		{
			name:     "typed capture loses its type",
			pattern:  "/users/{id:int}",
			expected: "/users/{id}",
		},
		{
			name:     "untyped capture unchanged",
			pattern:  "/users/{id}",
			expected: "/users/{id}",
		},
		{
			name:     "static only",
			pattern:  "/health",
			expected: "/health",
		},
		{
			name:     "mixed",
			pattern:  "/api/v1/users/{userId:int}/posts/{postId:uuid}",
			expected: "/api/v1/users/{userId}/posts/{postId}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, PathPattern(tc.pattern).DocPath())
		})
	}
}

func TestPathPattern_Parse(t *testing.T) {
	parts, err := PathPattern("/users/{id:int}/files/{*}").Parse()
	require.NoError(t, err)

	require.Len(t, parts, 4)
	assert.Equal(t, PathPart{Type: StaticPart, Value: "/users/"}, parts[0])
	assert.Equal(t, PathPart{Type: ParameterPart, Value: "id", ParamType: "int"}, parts[1])
	assert.Equal(t, PathPart{Type: StaticPart, Value: "/files/"}, parts[2])
	assert.Equal(t, PathPart{Type: WildcardPart, Value: "*"}, parts[3])
}

func TestPathPattern_ParamNames(t *testing.T) {
	assert.Equal(t, []string{"userId", "postId"}, PathPattern("/users/{userId:int}/posts/{postId}").ParamNames())
	assert.Nil(t, PathPattern("/static/path").ParamNames())
}

func TestPathPattern_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{name: "valid", pattern: "/users/{id:int}", wantErr: false},
		{name: "valid untyped", pattern: "/users/{id}", wantErr: false},
		{name: "missing leading slash", pattern: "users/{id}", wantErr: true},
		{name: "unclosed brace", pattern: "/users/{id", wantErr: true},
		{name: "empty parameter", pattern: "/users/{}", wantErr: true},
		{name: "duplicate parameter", pattern: "/users/{id}/posts/{id}", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := PathPattern(tc.pattern).Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
