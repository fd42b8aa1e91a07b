// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package typestate encodes per-field "set yet?" state into builder type parameters.
//
// Every included field owns one type parameter of the builder. The parameter
// is instantiated with the unset shape until the field is assigned and with
// the set shape afterwards. Slots are independent: rewriting one slot's
// argument never touches another slot, which is what lets setters run in any
// order.
package typestate

import (
	"strings"

	"github.com/dacolabs/buildergen/internal/schema"
)

// ShapeImport is the import path of the slot types referenced by generated code.
const ShapeImport = "github.com/dacolabs/buildergen/shape"

// ShapePackage is the name the runtime import binds in generated files.
const ShapePackage = "shape"

// UnsetShape is the shared marker for unassigned slots.
const UnsetShape = "shape.Unset"

// Identifiers used inside generated function bodies.
const (
	BuilderParam = "b"
	ValueParam   = "value"
)

// Conversion selects how a setter turns its argument into the field type.
type Conversion int

const (
	// Assign gives the field one setter, taking values assignable to the field type.
	Assign Conversion = iota
	// Convert adds a From setter accepting any type whose underlying type is
	// the field type.
	Convert
)

// Slot is the state encoding of one included field.
type Slot struct {
	Field      *schema.Field
	Generic    string // type parameter carrying the slot's current shape
	Storage    string // builder struct field holding the slot
	Unset      string // unset shape
	Set        string // set shape
	Conversion Conversion
}

// ValueConstraint is the constraint on the From setter's value type parameter.
func (s Slot) ValueConstraint() string {
	if s.Conversion == Convert {
		return "~" + s.Field.Type
	}
	return s.Field.Type
}

// Plan is the state encoding of one record.
type Plan struct {
	Record  *schema.Record
	Slots   []Slot // one per included field, in ordinal order
	Phantom string // zero-size carrier for the record's type parameters, empty without any
}

// RecordArgs returns the record's type parameter names as type arguments.
func (p *Plan) RecordArgs() []string {
	return p.Record.TypeParamNames()
}

// RecordParams returns the record's type parameter declarations.
func (p *Plan) RecordParams() []string {
	params := make([]string, len(p.Record.TypeParams))
	for i, tp := range p.Record.TypeParams {
		params[i] = tp.Name + " " + tp.Constraint
	}
	return params
}

// RecordType is the record type instantiated with its own parameters.
func (p *Plan) RecordType() string {
	return p.Record.Name + TypeList(p.RecordArgs())
}

// BuilderParams returns the builder's full type parameter declarations: the
// record's own parameters followed by one unconstrained parameter per slot.
func (p *Plan) BuilderParams() []string {
	params := p.RecordParams()
	for _, s := range p.Slots {
		params = append(params, s.Generic+" any")
	}
	return params
}

// BuilderType renders the builder type with each slot argument chosen by
// shapeOf. Record parameters always pass through unchanged.
func (p *Plan) BuilderType(shapeOf func(Slot) string) string {
	args := p.RecordArgs()
	for _, s := range p.Slots {
		args = append(args, shapeOf(s))
	}
	return p.Record.BuilderName() + TypeList(args)
}

// Generic returns each slot's own type parameter, for use with BuilderType.
func Generic(s Slot) string { return s.Generic }

// Unset returns each slot's unset shape, for use with BuilderType.
func Unset(s Slot) string { return s.Unset }

// With returns a BuilderType callback that rewrites only the slot at ordinal
// to shape and leaves every other slot to rest.
func With(ordinal int, shape func(Slot) string, rest func(Slot) string) func(Slot) string {
	return func(s Slot) string {
		if s.Field.Ordinal == ordinal {
			return shape(s)
		}
		return rest(s)
	}
}

// TypeList renders a type parameter or argument list, or nothing when empty.
func TypeList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return "[" + strings.Join(items, ", ") + "]"
}
