package relay

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveParams(t *testing.T) {
	ft := reflect.TypeOf(func(c RequestContext, id int, name string) (any, error) { return nil, nil })

	params, err := deriveParams(ft, []string{"id", "name"})
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, ParamSpec{Name: "id", Type: reflect.TypeOf((*int)(nil)).Elem()}, params[0])
	assert.Equal(t, ParamSpec{Name: "name", Type: reflect.TypeOf((*string)(nil)).Elem()}, params[1])
}

func TestDeriveParams_Mismatches(t *testing.T) {
	withParams := reflect.TypeOf(func(c RequestContext, id int) (any, error) { return nil, nil })
	withoutParams := reflect.TypeOf(func(c RequestContext) (any, error) { return nil, nil })

	_, err := deriveParams(withParams, nil)
	assert.Error(t, err, "names are required when the handler takes parameters")

	_, err = deriveParams(withoutParams, []string{"id"})
	assert.Error(t, err, "names without parameters is a registration mistake")

	_, err = deriveParams(withParams, []string{""})
	assert.Error(t, err)

	twoParams := reflect.TypeOf(func(c RequestContext, a, b int) (any, error) { return nil, nil })
	_, err = deriveParams(twoParams, []string{"id", "id"})
	assert.Error(t, err)
}

func TestExtractParams_Precedence(t *testing.T) {
	specs := []ParamSpec{{Name: "id", Type: reflect.TypeOf((*int)(nil)).Elem()}}
	v := NewValidator()

	t.Run("path wins over query", func(t *testing.T) {
		c := newMockContext("GET", "/widgets/1").withParam("id", "1").withQuery("id", "2")
		args, vf := extractParams(c, specs, v)
		require.Nil(t, vf)
		require.Len(t, args, 1)
		assert.Equal(t, 1, args[0].Interface())
	})

	t.Run("query wins over body", func(t *testing.T) {
		c := newMockContext("GET", "/widgets").withQuery("id", "2").withBody(`{"id": 3}`)
		args, vf := extractParams(c, specs, v)
		require.Nil(t, vf)
		assert.Equal(t, 2, args[0].Interface())
	})

	t.Run("body is the last resort", func(t *testing.T) {
		c := newMockContext("POST", "/widgets").withBody(`{"id": 3}`)
		args, vf := extractParams(c, specs, v)
		require.Nil(t, vf)
		assert.Equal(t, 3, args[0].Interface())
	})
}

func TestExtractParams_AggregatesAllFailures(t *testing.T) {
	specs := []ParamSpec{
		{Name: "id", Type: reflect.TypeOf((*int)(nil)).Elem()},
		{Name: "count", Type: reflect.TypeOf((*int)(nil)).Elem()},
		{Name: "name", Type: reflect.TypeOf((*string)(nil)).Elem()},
	}
	c := newMockContext("GET", "/widgets").
		withQuery("id", "abc").
		withQuery("name", "ok")

	_, vf := extractParams(c, specs, NewValidator())
	require.NotNil(t, vf)
	require.Len(t, vf.Fields, 2)

	byField := make(map[string]string, len(vf.Fields))
	for _, fe := range vf.Fields {
		byField[fe.Field] = fe.Message
	}
	assert.Contains(t, byField["id"], "invalid integer")
	assert.Equal(t, "missing required parameter", byField["count"])
}

func TestExtractParams_BodyObject(t *testing.T) {
	type createInput struct {
		Name  string `json:"name" validate:"required,min=2"`
		Count int    `json:"count" validate:"gte=0"`
	}
	specs := []ParamSpec{{Name: "input", Type: reflect.TypeOf((*createInput)(nil)).Elem()}}
	v := NewValidator()

	t.Run("valid body object", func(t *testing.T) {
		c := newMockContext("POST", "/widgets").withBody(`{"input": {"name": "gear", "count": 2}}`)
		args, vf := extractParams(c, specs, v)
		require.Nil(t, vf)
		assert.Equal(t, createInput{Name: "gear", Count: 2}, args[0].Interface())
	})

	t.Run("validation tags are enforced", func(t *testing.T) {
		c := newMockContext("POST", "/widgets").withBody(`{"input": {"name": "g", "count": -1}}`)
		_, vf := extractParams(c, specs, v)
		require.NotNil(t, vf)
		require.Len(t, vf.Fields, 2)
		assert.Equal(t, "input.name", vf.Fields[0].Field)
		assert.Contains(t, vf.Fields[0].Message, "min")
		assert.Equal(t, "input.count", vf.Fields[1].Field)
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newMockContext("POST", "/widgets").withBody(`{broken`)
		_, vf := extractParams(c, specs, v)
		require.NotNil(t, vf)
		assert.Contains(t, vf.Fields[0].Message, "not a JSON object")
	})
}

func TestExtractParams_NoSpecs(t *testing.T) {
	args, vf := extractParams(newMockContext("GET", "/health"), nil, NewValidator())
	assert.Nil(t, vf)
	assert.Nil(t, args)
}
