package relay

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"runtime/debug"
)

// panicError wraps a recovered handler panic so it travels the same error
// path as a returned error.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("handler panicked: %v", e.value)
}

// buildPipeline composes the contract's request pipeline into a single
// HandlerFunc. Stage order is fixed: method gate, auth gate, parameter
// validation, handler invocation, response resolution. Every stage is a pure
// decision point with a single terminal outcome; no failure escapes to the
// host framework.
func buildPipeline(ct *Contract, reg *ErrorRegistry, v *Validator, log *slog.Logger) HandlerFunc {
	return func(c RequestContext) error {
		if !ct.allowsMethod(c.Method()) {
			return c.JSON(http.StatusMethodNotAllowed, ct.messageOr(defaultMethodNotAllowedMessage))
		}

		if ct.LoginRequired && Identity(c) == nil {
			return c.JSON(http.StatusUnauthorized, ct.messageOr(defaultAuthRequiredMessage))
		}

		args, vf := extractParams(c, ct.RequiredParams, v)
		if vf != nil {
			return c.JSON(http.StatusBadRequest, vf.Fields)
		}

		out, err := invokeHandler(ct, c, args)
		if err != nil {
			return dispatchError(ct, c, err, reg, log)
		}

		status, value := http.StatusOK, out
		if resp, ok := out.(*Response); ok {
			status, value = resp.StatusCode, resp.Body
		}

		target, declared := ct.Responses[status]
		if !declared {
			log.Error("handler produced a status code absent from its response map",
				slog.String("handler", ct.HandlerName),
				slog.String("path", c.Path()),
				slog.Int("status", status))
			return c.JSON(http.StatusInternalServerError, serverErrorMessage)
		}

		body, ferrs := resolveResponse(value, target, v)
		if len(ferrs) > 0 {
			// The handler's own output broke its declared schema. This is a
			// server-side bug, not a caller error, and is logged distinctly
			// from input validation.
			log.Error("handler response failed its declared schema",
				slog.String("handler", ct.HandlerName),
				slog.String("path", c.Path()),
				slog.Int("status", status),
				slog.Any("fields", ferrs))
			return c.JSON(http.StatusInternalServerError, serverErrorMessage)
		}

		return c.JSON(status, body)
	}
}

// invokeHandler reflect-calls the handler, converting panics into errors
func invokeHandler(ct *Contract, c RequestContext, args []reflect.Value) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: debug.Stack()}
		}
	}()

	in := make([]reflect.Value, 0, len(args)+1)
	in = append(in, reflect.ValueOf(c))
	in = append(in, args...)

	results := ct.fn.Call(in)
	out = results[0].Interface()
	if e, ok := results[1].Interface().(error); ok && e != nil {
		err = e
	}
	return out, err
}

// dispatchError routes a handler failure through the error registry, falling
// back to a validation body for deliberate validation errors and finally to
// the fixed generic 500.
func dispatchError(ct *Contract, c RequestContext, err error, reg *ErrorRegistry, log *slog.Logger) error {
	if body, ok := reg.Lookup(c, err); ok {
		if _, merr := json.Marshal(body); merr != nil {
			log.Error("error handler returned an unserializable body",
				slog.String("handler", ct.HandlerName),
				slog.String("error_type", fmt.Sprintf("%T", err)),
				slog.Any("error", merr))
			return c.JSON(http.StatusInternalServerError, serverErrorMessage)
		}
		return c.JSON(http.StatusBadRequest, body)
	}

	var vf *ValidationFailed
	if errors.As(err, &vf) {
		return c.JSON(http.StatusBadRequest, vf.Fields)
	}

	var pe *panicError
	if errors.As(err, &pe) {
		log.Error("panic in handler",
			slog.String("handler", ct.HandlerName),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Any("panic", pe.value),
			slog.String("stack", string(pe.stack)))
		return c.JSON(http.StatusInternalServerError, serverErrorMessage)
	}

	log.Error("unhandled error in handler",
		slog.String("handler", ct.HandlerName),
		slog.String("method", c.Method()),
		slog.String("path", c.Path()),
		slog.Any("error", err))
	return c.JSON(http.StatusInternalServerError, serverErrorMessage)
}

// resolveResponse checks the handler's returned value against the declared
// type for the resolved status. Struct targets are coerced and validated
// against their tags; primitive, map and slice targets are plain conversions
// with no structured validation. A nil target declares a bodyless status.
func resolveResponse(value any, target reflect.Type, v *Validator) (any, []FieldError) {
	if target == nil {
		return nil, nil
	}

	base := target
	for base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	coerced, err := coerceResponse(value, target)
	if err != nil {
		return nil, []FieldError{{Field: "response", Message: err.Error()}}
	}

	if base.Kind() == reflect.Struct && base != typeTime && base != typeUUID {
		if ferrs := v.Check("response", coerced); len(ferrs) > 0 {
			return nil, ferrs
		}
	}
	return coerced, nil
}

// coerceResponse brings a handler's return value into the declared type,
// using a JSON round-trip when the runtime type differs.
func coerceResponse(value any, target reflect.Type) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("handler returned nil but the contract declares %s", target)
	}

	vt := reflect.TypeOf(value)
	if vt == target {
		return value, nil
	}
	if vt.Kind() == reflect.Pointer && vt.Elem() == target {
		return reflect.ValueOf(value).Elem().Interface(), nil
	}
	if vt.ConvertibleTo(target) && compatibleKinds(vt, target) {
		return reflect.ValueOf(value).Convert(target).Interface(), nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize %T: %v", value, err)
	}
	coerced, err := DecodeJSON(raw, target)
	if err != nil {
		return nil, fmt.Errorf("cannot coerce %T into %s: %v", value, target, err)
	}
	return coerced.Interface(), nil
}

// compatibleKinds guards reflect conversions that would silently change the
// value's shape, like int to string.
func compatibleKinds(from, to reflect.Type) bool {
	fk, tk := from.Kind(), to.Kind()
	switch {
	case fk == reflect.String && tk != reflect.String:
		return false
	case fk != reflect.String && tk == reflect.String:
		return false
	}
	return true
}
