package models

import (
	"bytes"
	"encoding/json"
)

// Optional is a tristate field of a partial update: absent, explicit null,
// or a value. The zero value is absent.
type Optional[T any] struct {
	value   T
	present bool
	null    bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

// Present reports whether the field was supplied at all, null included.
func (o Optional[T]) Present() bool { return o.present }

// IsNull reports whether the field was supplied as an explicit null.
func (o Optional[T]) IsNull() bool { return o.present && o.null }

// Get returns the value and whether one was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present && !o.null
}

// UnmarshalJSON is only invoked by encoding/json for keys that are present,
// which is what makes the absent state distinguishable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value = zero
		o.null = true
		return nil
	}
	o.null = false
	return json.Unmarshal(data, &o.value)
}
