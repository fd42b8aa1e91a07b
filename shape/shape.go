// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package shape holds the slot types imported by code that buildergen emits.
//
// A typed builder carries one type parameter per field. The parameter is
// instantiated with Unset until the field's setter runs, and with Set[T]
// afterwards, so the compiler tracks which fields have been assigned.
package shape

// Unset marks a builder slot whose field has not been assigned.
type Unset struct{}

// Set is a builder slot holding the value assigned to its field.
type Set[T any] struct {
	value T
}

// Of wraps v in a Set slot.
func Of[T any](v T) Set[T] {
	return Set[T]{value: v}
}

// Value returns the held value.
func (s Set[T]) Value() T {
	return s.value
}
