package configuration

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Optional is a generic container for optional configuration values.
type Optional[T any] struct {
	// Value holds the actual as unmarshalled.
	Value T
	// Present indicates if the value was present in the configuration.
	Present bool
	// RuntimeOverride indicates if the value was overridden at runtime.
	RuntimeOverride bool
}

// Get returns the value if present or overridden, otherwise the zero value of T.
func (o *Optional[T]) Get() T {
	return o.Value
}

// SetOverride sets the value and marks it as overridden at runtime.
func (o *Optional[T]) SetOverride(value T) {
	o.RuntimeOverride = true
	o.Value = value
}

// DefaultTrueBool is a boolean type that defaults to true if not present and not overridden.
type DefaultTrueBool struct {
	Optional[bool]
}

// Get returns the boolean value, defaulting to true if not present and not overridden.
func (b *DefaultTrueBool) Get() bool {
	if !b.Present && !b.RuntimeOverride {
		return true
	}
	return b.Value
}

// gainsHookFunc returns a mapstructure decode hook that allows GainsConfig
// to be written as a [p, i, d] list. Maps are left to the default decoder.
func gainsHookFunc() mapstructure.DecodeHookFuncType {
	gainsType := reflect.TypeOf(GainsConfig{})

	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != gainsType {
			return data, nil
		}

		var values []interface{}
		switch v := data.(type) {
		case []interface{}:
			values = v
		case []float64:
			for _, value := range v {
				values = append(values, value)
			}
		default:
			return data, nil
		}

		if len(values) != 3 {
			return nil, fmt.Errorf("gains: expected 3 values [p, i, d], got %d", len(values))
		}

		var parsed [3]float64
		for idx, value := range values {
			parsedValue, err := anyToFloat(value)
			if err != nil {
				return nil, fmt.Errorf("gains: invalid value at index %d: %w", idx, err)
			}
			parsed[idx] = parsedValue
		}

		return GainsConfig{P: parsed[0], I: parsed[1], D: parsed[2]}, nil
	}
}

// anyToFloat converts numeric and string values to float64.
func anyToFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as float: %w", val, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float", v)
	}
}

// defaultTrueBoolHookFunc returns a mapstructure decode hook function for DefaultTrueBool.
func defaultTrueBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		// Only target our specific named type
		if t != reflect.TypeOf(DefaultTrueBool{}) {
			return data, nil
		}

		var val bool
		switch v := data.(type) {
		case bool:
			val = v
		case string:
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return data, nil
			}
			val = parsed
		default:
			return data, nil
		}

		// Return the specific type with the inner Optional initialized
		return DefaultTrueBool{
			Optional: Optional[bool]{
				Value:   val,
				Present: true,
			},
		}, nil
	}
}
