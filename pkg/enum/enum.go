package enum

import (
	"fmt"
	"reflect"
)

// registry maps an enum type to its known values. Values are registered
// with New from package-level var blocks, so no locking is needed.
var registry = map[reflect.Type]any{}

func New[T comparable](value T) T {
	t := reflect.TypeOf(value)
	values, ok := registry[t].(map[string]T)
	if !ok {
		values = make(map[string]T)
		registry[t] = values
	}

	values[reflect.ValueOf(value).String()] = value
	return value
}

// ToEnum converts a string back to a registered value of T. Unregistered
// types and unknown values yield an error.
func ToEnum[T comparable](s string) (T, error) {
	var zero T
	values, ok := registry[reflect.TypeOf(zero)].(map[string]T)
	if !ok {
		return zero, fmt.Errorf("not found enum type %T", zero)
	}

	value, ok := values[s]
	if !ok {
		return zero, fmt.Errorf("not found value %s in enum %T", s, zero)
	}

	return value, nil
}
