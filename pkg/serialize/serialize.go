// Package serialize converts arbitrary result values into JSON-compatible
// structures.
//
// The conversion is total: every input produces something encodable. Values
// with no JSON shape collapse to a fallback record carrying their textual
// representation instead of failing. Recognized shapes, in precedence order:
//
//  1. Primitives (strings, booleans, integers, floats, nil) pass through.
//  2. Slices and arrays become ordered sequences.
//  3. Maps become string-keyed objects; keys are coerced with fmt.Sprint and
//     collisions after coercion silently overwrite (last write wins).
//  4. Set-like maps (empty-struct values) become sequences of their keys, in
//     native iteration order, which is not stable across runs.
//  5. time.Time becomes an ISO-8601 string.
//  6. Everything else becomes {"type": "not serializable", "repr": ...}.
//
// Pointers and interfaces are dereferenced along the way; nil becomes JSON
// null. Recursion depth is bounded: the walk does no cycle detection, so a
// self-referential value terminates only by exhausting the depth budget,
// which is reported as a DEPTH_EXCEEDED error rather than a stack overflow.
package serialize

import (
	"fmt"
	"reflect"
	"time"

	"github.com/n-sviridenko/pyprep/pkg/errors"
)

// DefaultMaxDepth bounds recursion when no explicit limit is configured.
// It mirrors the recursion limit configured in the hosted runtime.
const DefaultMaxDepth = 400

// Serializer converts values with a configurable depth budget.
// The zero value uses [DefaultMaxDepth].
type Serializer struct {
	MaxDepth int
}

// Robust converts v using the default depth budget.
func Robust(v any) (any, error) {
	return Serializer{}.Serialize(v)
}

// Serialize converts v into a JSON-compatible value.
// Exceeding the depth budget is the only failure mode.
func (s Serializer) Serialize(v any) (any, error) {
	return s.walk(v, s.maxDepth())
}

func (s Serializer) maxDepth() int {
	if s.MaxDepth > 0 {
		return s.MaxDepth
	}
	return DefaultMaxDepth
}

var emptyStruct = reflect.TypeOf(struct{}{})

func (s Serializer) walk(v any, depth int) (any, error) {
	if depth <= 0 {
		return nil, errors.New(errors.ErrCodeDepthExceeded, "serialization exceeded max depth %d", s.maxDepth())
	}
	if v == nil {
		return nil, nil
	}

	// Temporal values before the struct fallback: time.Time is a struct too.
	if t, ok := v.(time.Time); ok {
		return isoFormat(t), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		// Dereferencing consumes depth so that self-referential pointer
		// chains terminate instead of recursing forever.
		return s.walk(rv.Elem().Interface(), depth-1)

	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			item, err := s.walk(rv.Index(i).Interface(), depth-1)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil

	case reflect.Map:
		if rv.Type().Elem() == emptyStruct {
			return s.walkSet(rv, depth)
		}
		return s.walkMap(rv, depth)

	default:
		return fallback(v), nil
	}
}

// walkMap coerces every key to a string and serializes every value. A key
// collision after coercion keeps whichever entry the map iterated last.
func (s Serializer) walkMap(rv reflect.Value, depth int) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		value, err := s.walk(iter.Value().Interface(), depth-1)
		if err != nil {
			return nil, err
		}
		out[fmt.Sprint(iter.Key().Interface())] = value
	}
	return out, nil
}

// walkSet converts a set-like map (empty-struct values) into a sequence of
// its keys, in native iteration order.
func (s Serializer) walkSet(rv reflect.Value, depth int) (any, error) {
	out := make([]any, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		item, err := s.walk(iter.Key().Interface(), depth-1)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// isoFormat renders a temporal value as ISO-8601. A value with a zero clock
// in UTC is a plain date.
func isoFormat(t time.Time) string {
	h, m, sec := t.Clock()
	if h == 0 && m == 0 && sec == 0 && t.Nanosecond() == 0 && t.Location() == time.UTC {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}

func fallback(v any) map[string]any {
	return map[string]any{
		"type": "not serializable",
		"repr": fmt.Sprintf("%#v", v),
	}
}
