package relay

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// deriveParams pairs the handler's reflected parameter types, excluding the
// leading RequestContext, with their explicitly supplied names.
func deriveParams(ft reflect.Type, names []string) ([]ParamSpec, error) {
	want := ft.NumIn() - 1
	if want == 0 {
		if len(names) != 0 {
			return nil, fmt.Errorf("ParamNames lists %d names but the handler takes no contract parameters", len(names))
		}
		return nil, nil
	}
	if len(names) != want {
		return nil, fmt.Errorf("handler takes %d contract parameters but ParamNames lists %d names", want, len(names))
	}

	seen := make(map[string]bool, want)
	params := make([]ParamSpec, 0, want)
	for i := 0; i < want; i++ {
		name := names[i]
		if name == "" {
			return nil, fmt.Errorf("parameter %d has an empty name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate parameter name %q", name)
		}
		seen[name] = true
		params = append(params, ParamSpec{Name: name, Type: ft.In(i + 1)})
	}
	return params, nil
}

// bodyFields lazily parses the request body into its top-level JSON object
// fields. A missing, empty or non-object body resolves every lookup to
// absent; malformed JSON in an otherwise present body is reported once.
type bodyFields struct {
	c      RequestContext
	loaded bool
	fields map[string]json.RawMessage
	err    error
}

func (b *bodyFields) lookup(name string) (json.RawMessage, bool, error) {
	if !b.loaded {
		b.loaded = true
		raw, err := b.c.Body()
		if err != nil {
			b.err = fmt.Errorf("read request body: %w", err)
		} else if len(raw) > 0 {
			if err := json.Unmarshal(raw, &b.fields); err != nil {
				b.err = fmt.Errorf("request body is not a JSON object: %w", err)
			}
		}
	}
	if b.err != nil {
		return nil, false, b.err
	}
	v, ok := b.fields[name]
	return v, ok, nil
}

// extractParams resolves every required parameter for one request. Raw values
// are looked up by name in the path captures, then the query string, then the
// parsed body, in that precedence. All failing fields are aggregated into a
// single ValidationFailed; the handler is never invoked when any parameter
// fails.
func extractParams(c RequestContext, specs []ParamSpec, v *Validator) ([]reflect.Value, *ValidationFailed) {
	if len(specs) == 0 {
		return nil, nil
	}

	body := &bodyFields{c: c}
	args := make([]reflect.Value, 0, len(specs))
	var fields []FieldError

	for _, spec := range specs {
		val, ferr := resolveParam(c, body, spec, v)
		if ferr != nil {
			fields = append(fields, ferr...)
			continue
		}
		args = append(args, val)
	}

	if len(fields) > 0 {
		return nil, &ValidationFailed{Fields: fields}
	}
	return args, nil
}

func resolveParam(c RequestContext, body *bodyFields, spec ParamSpec, v *Validator) (reflect.Value, []FieldError) {
	if raw := c.Param(spec.Name); raw != "" {
		return coerceRaw(raw, spec, v)
	}
	if raw := c.QueryParam(spec.Name); raw != "" {
		return coerceRaw(raw, spec, v)
	}

	frag, ok, err := body.lookup(spec.Name)
	if err != nil {
		return reflect.Value{}, []FieldError{{Field: spec.Name, Message: err.Error()}}
	}
	if !ok {
		return reflect.Value{}, []FieldError{{Field: spec.Name, Message: "missing required parameter"}}
	}

	val, err := DecodeJSON(frag, spec.Type)
	if err != nil {
		return reflect.Value{}, []FieldError{{Field: spec.Name, Message: fmt.Sprintf("cannot decode into %s: %v", spec.Type, err)}}
	}
	if ferrs := v.Check(spec.Name, val.Interface()); len(ferrs) > 0 {
		return reflect.Value{}, ferrs
	}
	return val, nil
}

func coerceRaw(raw string, spec ParamSpec, v *Validator) (reflect.Value, []FieldError) {
	val, err := CoerceString(raw, spec.Type)
	if err != nil {
		return reflect.Value{}, []FieldError{{Field: spec.Name, Message: err.Error()}}
	}
	if ferrs := v.Check(spec.Name, val.Interface()); len(ferrs) > 0 {
		return reflect.Value{}, ferrs
	}
	return val, nil
}
