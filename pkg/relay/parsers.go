package relay

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Well-known types with dedicated parsers and schema formats
var (
	typeUUID     = reflect.TypeOf((*uuid.UUID)(nil)).Elem()
	typeTime     = reflect.TypeOf((*time.Time)(nil)).Elem()
	typeDuration = reflect.TypeOf((*time.Duration)(nil)).Elem()
)

// ParseInt parses a raw parameter value to int64
func ParseInt(raw string, bits int) (int64, error) {
	return strconv.ParseInt(raw, 10, bits)
}

// ParseUint parses a raw parameter value to uint64
func ParseUint(raw string, bits int) (uint64, error) {
	return strconv.ParseUint(raw, 10, bits)
}

// ParseFloat parses a raw parameter value to float64
func ParseFloat(raw string, bits int) (float64, error) {
	return strconv.ParseFloat(raw, bits)
}

// ParseBool parses a raw parameter value to bool
func ParseBool(raw string) (bool, error) {
	return strconv.ParseBool(raw)
}

// ParseUUID parses a raw parameter value to uuid.UUID
func ParseUUID(raw string) (uuid.UUID, error) {
	return uuid.Parse(raw)
}

// ParseTime parses a raw parameter value to time.Time (RFC 3339)
func ParseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

// CoerceString converts a raw path or query string into a value of the
// target type. Pointer targets allocate and coerce into the element type.
func CoerceString(raw string, t reflect.Type) (reflect.Value, error) {
	if t.Kind() == reflect.Pointer {
		elem, err := CoerceString(raw, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	switch t {
	case typeUUID:
		id, err := ParseUUID(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid uuid: %w", err)
		}
		return reflect.ValueOf(id), nil
	case typeTime:
		ts, err := ParseTime(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid timestamp: %w", err)
		}
		return reflect.ValueOf(ts), nil
	case typeDuration:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid duration: %w", err)
		}
		return reflect.ValueOf(d), nil
	}

	switch t.Kind() {
	case reflect.String:
		v := reflect.New(t).Elem()
		v.SetString(raw)
		return v, nil
	case reflect.Bool:
		b, err := ParseBool(raw)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid boolean: %w", err)
		}
		v := reflect.New(t).Elem()
		v.SetBool(b)
		return v, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := ParseInt(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer: %w", err)
		}
		v := reflect.New(t).Elem()
		v.SetInt(i)
		return v, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := ParseUint(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid integer: %w", err)
		}
		v := reflect.New(t).Elem()
		v.SetUint(u)
		return v, nil
	case reflect.Float32, reflect.Float64:
		f, err := ParseFloat(raw, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid number: %w", err)
		}
		v := reflect.New(t).Elem()
		v.SetFloat(f)
		return v, nil
	}

	// Types with their own text representation parse themselves.
	if reflect.PointerTo(t).Implements(reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()) {
		ptr := reflect.New(t)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, fmt.Errorf("invalid value: %w", err)
		}
		return ptr.Elem(), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot parse %q into %s", raw, t)
}

// DecodeJSON unmarshals a raw JSON fragment into a value of the target type
func DecodeJSON(raw json.RawMessage, t reflect.Type) (reflect.Value, error) {
	ptr := reflect.New(t)
	if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}
