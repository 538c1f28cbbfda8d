// Package optional provides a field wrapper for partial-update payloads that
// tells apart a key that was left out, a key sent as null, and a key sent
// with a value.
package optional

import (
	"bytes"
	"encoding/json"
)

// Value is the zero value when the key was absent.
type Value[T any] struct {
	set   bool
	null  bool
	value T
}

// Of returns a present, non-null value.
func Of[T any](v T) Value[T] {
	return Value[T]{set: true, value: v}
}

// Null returns a present value explicitly set to null.
func Null[T any]() Value[T] {
	return Value[T]{set: true, null: true}
}

// IsSet reports whether the key was present, including as null.
func (o Value[T]) IsSet() bool { return o.set }

// IsNull reports whether the key was present with a null value.
func (o Value[T]) IsNull() bool { return o.set && o.null }

// Get returns the value and true when the key was present and not null.
func (o Value[T]) Get() (T, bool) {
	if !o.set || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// Apply writes the field into a nullable destination. Absent leaves dst
// untouched, null clears it.
func (o Value[T]) Apply(dst **T) {
	if !o.set {
		return
	}
	if o.null {
		*dst = nil
		return
	}
	v := o.value
	*dst = &v
}

// ApplyValue writes the field into a non-nullable destination. Null is
// ignored here; callers reject it during validation.
func (o Value[T]) ApplyValue(dst *T) {
	if v, ok := o.Get(); ok {
		*dst = v
	}
}

// UnmarshalJSON is only invoked when the key is present in the payload.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.null = true
		var zero T
		o.value = zero
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}

// MarshalJSON encodes absent and null both as null.
func (o Value[T]) MarshalJSON() ([]byte, error) {
	if v, ok := o.Get(); ok {
		return json.Marshal(v)
	}
	return []byte("null"), nil
}
