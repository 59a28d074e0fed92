// Package codec defines the byte format exchanged between the console and its
// worker process: length-prefixed msgpack frames carrying requests and
// responses whose payloads are plain nested values.
//
// The value model is deliberately small: nil, bool, int64, uint64 (only above
// math.MaxInt64), float64, string, []byte, []any and map[string]any. Normalize
// maps Go values onto it and Decode always returns it, so
// Decode(Encode(v)) equals Normalize(v).
package codec

import (
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/tinylib/msgp/msgp"

	"github.com/conn-castle/upgrade-console/internal/messages"
)

// Normalize converts v into the codec value model.
func Normalize(v any) (any, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return value, nil
	case int:
		return int64(value), nil
	case int8:
		return int64(value), nil
	case int16:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case uint:
		return normalizeUint(uint64(value)), nil
	case uint8:
		return int64(value), nil
	case uint16:
		return int64(value), nil
	case uint32:
		return int64(value), nil
	case uint64:
		return normalizeUint(value), nil
	case float32:
		return float64(value), nil
	case []byte:
		return append([]byte(nil), value...), nil
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			normalized, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, item := range value {
			normalized, err := Normalize(item)
			if err != nil {
				return nil, err
			}
			out[key] = normalized
		}
		return out, nil
	case map[string]string:
		out := make(map[string]any, len(value))
		for key, item := range value {
			out[key] = item
		}
		return out, nil
	case []string:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = item
		}
		return out, nil
	}
	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeUint(v uint64) any {
	if v <= math.MaxInt64 {
		return int64(v)
	}
	return v
}

// normalizeReflect covers typed slices and string-keyed maps not listed above.
func normalizeReflect(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			normalized, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = normalized
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf(messages.CodecUnsupportedMapKeyFmt, rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			normalized, err := Normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = normalized
		}
		return out, nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return normalizeUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf(messages.CodecUnsupportedTypeFmt, rv.Type())
}

// Encode serializes v (after Normalize) as a msgpack document.
func Encode(v any) ([]byte, error) {
	normalized, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return appendValue(nil, normalized)
}

// appendValue writes maps with sorted keys so equal values encode identically.
func appendValue(b []byte, v any) ([]byte, error) {
	switch value := v.(type) {
	case nil:
		return msgp.AppendNil(b), nil
	case bool:
		return msgp.AppendBool(b, value), nil
	case int64:
		return msgp.AppendInt64(b, value), nil
	case uint64:
		return msgp.AppendUint64(b, value), nil
	case float64:
		return msgp.AppendFloat64(b, value), nil
	case string:
		return msgp.AppendString(b, value), nil
	case []byte:
		return msgp.AppendBytes(b, value), nil
	case []any:
		b = msgp.AppendArrayHeader(b, uint32(len(value)))
		for _, item := range value {
			var err error
			if b, err = appendValue(b, item); err != nil {
				return nil, err
			}
		}
		return b, nil
	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		b = msgp.AppendMapHeader(b, uint32(len(value)))
		for _, key := range keys {
			b = msgp.AppendString(b, key)
			var err error
			if b, err = appendValue(b, value[key]); err != nil {
				return nil, err
			}
		}
		return b, nil
	}
	return nil, fmt.Errorf(messages.CodecUnsupportedTypeFmt, reflect.TypeOf(v))
}

// Decode parses a msgpack document produced by Encode. Trailing bytes are an error.
func Decode(data []byte) (any, error) {
	value, rest, err := msgp.ReadIntfBytes(data)
	if err != nil {
		return nil, fmt.Errorf(messages.CodecDecodeFailedFmt, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf(messages.CodecTrailingBytesFmt, len(rest))
	}
	return canonical(value)
}

// canonical folds msgp's decoded representation onto the codec value model.
func canonical(v any) (any, error) {
	switch value := v.(type) {
	case nil, bool, int64, float64, string, []byte:
		return value, nil
	case uint64:
		return normalizeUint(value), nil
	case float32:
		return float64(value), nil
	case []any:
		for i, item := range value {
			c, err := canonical(item)
			if err != nil {
				return nil, err
			}
			value[i] = c
		}
		return value, nil
	case map[string]any:
		for key, item := range value {
			c, err := canonical(item)
			if err != nil {
				return nil, err
			}
			value[key] = c
		}
		return value, nil
	}
	return nil, fmt.Errorf(messages.CodecUnsupportedTypeFmt, reflect.TypeOf(v))
}
