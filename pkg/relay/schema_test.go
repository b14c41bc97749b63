package relay

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaRenderer_Primitives(t *testing.T) {
	testCases := []struct {
		name     string
		target   reflect.Type
		expected *Schema
	}{
		{name: "string", target: reflect.TypeOf((*string)(nil)).Elem(), expected: &Schema{Type: "string"}},
		{name: "int", target: reflect.TypeOf((*int)(nil)).Elem(), expected: &Schema{Type: "integer"}},
		{name: "uint32", target: reflect.TypeOf((*uint32)(nil)).Elem(), expected: &Schema{Type: "integer"}},
		{name: "float64", target: reflect.TypeOf((*float64)(nil)).Elem(), expected: &Schema{Type: "number"}},
		{name: "bool", target: reflect.TypeOf((*bool)(nil)).Elem(), expected: &Schema{Type: "boolean"}},
		{name: "time", target: reflect.TypeOf((*time.Time)(nil)).Elem(), expected: &Schema{Type: "string", Format: "date-time"}},
		{name: "duration", target: reflect.TypeOf((*time.Duration)(nil)).Elem(), expected: &Schema{Type: "string", Format: "duration"}},
		{name: "uuid", target: reflect.TypeOf((*uuid.UUID)(nil)).Elem(), expected: &Schema{Type: "string", Format: "uuid"}},
		{name: "bytes", target: reflect.TypeOf((*[]byte)(nil)).Elem(), expected: &Schema{Type: "string", Format: "byte"}},
		{name: "nil renders as any", target: nil, expected: &Schema{}},
		{name: "interface renders as any", target: reflect.TypeOf((*any)(nil)).Elem(), expected: &Schema{}},
		{
			name:     "slice",
			target:   reflect.TypeOf((*[]string)(nil)).Elem(),
			expected: &Schema{Type: "array", Items: &Schema{Type: "string"}},
		},
		{
			name:     "string map",
			target:   reflect.TypeOf((*map[string]int)(nil)).Elem(),
			expected: &Schema{Type: "object", AdditionalProperties: &Schema{Type: "integer"}},
		},
		{
			name:     "pointer unwraps",
			target:   reflect.TypeOf((**string)(nil)).Elem(),
			expected: &Schema{Type: "string"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			schema, err := NewSchemaRenderer().Render(tc.target)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, schema)
		})
	}
}

func TestSchemaRenderer_UnsupportedType(t *testing.T) {
	_, err := NewSchemaRenderer().Render(reflect.TypeOf((*chan int)(nil)).Elem())
	assert.Error(t, err)
}

type account struct {
	ID      uuid.UUID `json:"id"`
	Email   string    `json:"email" doc:"The account's login email"`
	Nick    *string   `json:"nick,omitempty"`
	private string
	Skipped string    `json:"-"`
}

func TestSchemaRenderer_NamedStructHoists(t *testing.T) {
	r := NewSchemaRenderer()

	schema, err := r.Render(reflect.TypeOf((*account)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/account", schema.Ref)

	component := r.Components()["account"]
	require.NotNil(t, component)
	assert.Equal(t, "object", component.Type)
	assert.Equal(t, []string{"id", "email"}, component.Required, "pointer fields are optional")
	assert.Equal(t, "The account's login email", component.Properties["email"].Description)
	assert.NotContains(t, component.Properties, "private")
	assert.NotContains(t, component.Properties, "Skipped")
}

func TestSchemaRenderer_HoistsOnce(t *testing.T) {
	r := NewSchemaRenderer()

	first, err := r.Render(reflect.TypeOf((*account)(nil)).Elem())
	require.NoError(t, err)
	second, err := r.Render(reflect.TypeOf((*account)(nil)).Elem())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, r.Components(), 1)
}

type treeEntry struct {
	Name     string       `json:"name"`
	Children []*treeEntry `json:"children,omitempty"`
}

func TestSchemaRenderer_SelfReference(t *testing.T) {
	r := NewSchemaRenderer()

	schema, err := r.Render(reflect.TypeOf((*treeEntry)(nil)).Elem())
	require.NoError(t, err)
	assert.Equal(t, "#/components/schemas/treeEntry", schema.Ref)

	component := r.Components()["treeEntry"]
	require.NotNil(t, component)
	assert.Equal(t, "#/components/schemas/treeEntry", component.Properties["children"].Items.Ref)
}

type timestamped struct {
	CreatedAt time.Time `json:"created_at"`
}

type article struct {
	timestamped
	Title string `json:"title"`
}

func TestSchemaRenderer_EmbeddedFieldsFlatten(t *testing.T) {
	r := NewSchemaRenderer()

	_, err := r.Render(reflect.TypeOf((*article)(nil)).Elem())
	require.NoError(t, err)

	component := r.Components()["article"]
	require.NotNil(t, component)
	assert.Contains(t, component.Properties, "created_at")
	assert.Contains(t, component.Properties, "title")
	assert.ElementsMatch(t, []string{"created_at", "title"}, component.Required)
}

func TestSchemaRenderer_AnonymousStructInlines(t *testing.T) {
	r := NewSchemaRenderer()

	schema, err := r.Render(reflect.TypeOf(struct {
		Count int `json:"count"`
	}{}))
	require.NoError(t, err)

	assert.Empty(t, schema.Ref)
	assert.Equal(t, "object", schema.Type)
	assert.Contains(t, schema.Properties, "count")
	assert.Empty(t, r.Components())
}
