// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package shape

import (
	"fmt"
	"slices"
	"strings"
)

// Maybe is the slot type of runtime-checked builders.
type Maybe[T any] struct {
	value T
	ok    bool
}

// Some returns a Maybe holding v.
func Some[T any](v T) Maybe[T] {
	return Maybe[T]{value: v, ok: true}
}

// IsSet reports whether a value has been assigned.
func (m Maybe[T]) IsSet() bool {
	return m.ok
}

// Get returns the held value, or the zero value of T when unset.
func (m Maybe[T]) Get() T {
	return m.value
}

// Or returns the held value, calling fallback only when unset.
func (m Maybe[T]) Or(fallback func() T) T {
	if m.ok {
		return m.value
	}
	return fallback()
}

// Presence records fields assigned more than once on a runtime-checked
// builder. The zero value is ready to use. Mark never mutates its receiver,
// so builder copies taken before a duplicate assignment stay valid.
type Presence struct {
	repeated []string
}

// Mark returns the tracker updated for an assignment to field.
// already reports whether the field held a value before the assignment.
func (p Presence) Mark(field string, already bool) Presence {
	if !already {
		return p
	}
	return Presence{repeated: append(slices.Clip(p.repeated), field)}
}

// Requirement pairs a required field with its presence.
type Requirement struct {
	Field   string
	Present bool
}

// Require is shorthand for a Requirement literal.
func Require(field string, present bool) Requirement {
	return Requirement{Field: field, Present: present}
}

// Check returns an *IncompleteError listing every missing required field and
// every field assigned more than once, or nil when there is neither.
func (p Presence) Check(record string, reqs ...Requirement) error {
	var missing []string
	for _, r := range reqs {
		if !r.Present {
			missing = append(missing, r.Field)
		}
	}
	if len(missing) == 0 && len(p.repeated) == 0 {
		return nil
	}
	return &IncompleteError{
		Record:   record,
		Missing:  missing,
		Repeated: slices.Clone(p.repeated),
	}
}

// IncompleteError is returned by Build on runtime-checked builders.
type IncompleteError struct {
	Record   string
	Missing  []string
	Repeated []string
}

func (e *IncompleteError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing fields {"+strings.Join(e.Missing, ", ")+"}")
	}
	if len(e.Repeated) > 0 {
		parts = append(parts, "fields set more than once {"+strings.Join(e.Repeated, ", ")+"}")
	}
	return fmt.Sprintf("%s builder incomplete: %s", e.Record, strings.Join(parts, "; "))
}
