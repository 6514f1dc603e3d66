// Package codec converts config values to and from the text stored in the
// config table.
//
// Containers (maps, slices, arrays, structs) are stored as JSON. Scalars are
// stored as JSON literals so they read back with their type: booleans as
// true/false, integers in decimal, floats always carrying a fractional part
// or exponent. Strings are stored verbatim unless the string is itself valid
// JSON, in which case it is stored quoted so reading it back yields the same
// string rather than the JSON value it resembles.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Null is the stored form of a nil value.
const Null = "null"

var byteSliceType = reflect.TypeOf([]byte(nil))

// Encode returns the stored text for v.
func Encode(v any) (string, error) {
	if v == nil {
		return Null, nil
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Null, nil
		}
		rv = rv.Elem()
	}

	if rv.Type() == byteSliceType {
		return encodeString(string(rv.Bytes())), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return encodeFloat(rv.Float(), 32), nil
	case reflect.Float64:
		return encodeFloat(rv.Float(), 64), nil
	case reflect.String:
		return encodeString(rv.String()), nil
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return "", fmt.Errorf("encode %T: %w", v, err)
		}
		return string(data), nil
	default:
		return encodeString(fmt.Sprint(v)), nil
	}
}

func encodeFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		// not representable in JSON, kept as plain text
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func encodeString(s string) string {
	if !json.Valid([]byte(s)) {
		return s
	}
	data, _ := json.Marshal(s)
	return string(data)
}

// Decoded is the result of reading a stored value.
type Decoded struct {
	// Value is the decoded value, or Raw when Fallback is set.
	Value any

	// Raw is the stored text.
	Raw string

	// Fallback reports that Raw was not valid structured text and Value is
	// the raw string.
	Fallback bool
}

// Decode interprets stored text. It never fails: text that is not a single
// valid JSON document is returned as a string with Fallback set.
//
// JSON numbers decode to int64 when integral and in range, otherwise float64.
// Objects decode to map[string]any and arrays to []any.
func Decode(raw string) Decoded {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Decoded{Value: raw, Raw: raw, Fallback: true}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		// trailing data after the first document
		return Decoded{Value: raw, Raw: raw, Fallback: true}
	}

	return Decoded{Value: Normalize(v), Raw: raw}
}

// Normalize replaces json.Number values (as produced by a decoder with
// UseNumber) with int64 when integral and in range, otherwise float64.
// Slices and maps are rewritten in place.
func Normalize(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = Normalize(x[i])
		}
		return x
	case map[string]any:
		for k, elem := range x {
			x[k] = Normalize(elem)
		}
		return x
	default:
		return v
	}
}

// Supported reports whether v is one of the value shapes accepted from a
// definition source: mapping, sequence, string, integer, float or boolean.
func Supported(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
