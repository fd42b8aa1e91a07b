// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

// Field describes one record field.
type Field struct {
	Index      int    // declaration position among all fields
	Ordinal    int    // position among included fields, -1 when excluded
	Name       string // Go field name
	Type       string // Go type expression
	HasDefault bool
	Default    string // default expression; empty with HasDefault means the zero value
	Exclude    bool   // no builder slot, always resolved from Default
	Doc        string // setter doc override
	Tag        string // struct tag for emitted records, without backquotes
	Pos        Position
}

// Required reports whether the field must be set before finalizing.
func (f *Field) Required() bool {
	return !f.HasDefault
}

// GenericIdent is the type parameter carrying this field's slot shape.
func (f *Field) GenericIdent() string {
	return "_" + f.Name
}

// StorageName is the builder struct field holding this field's slot.
func (f *Field) StorageName() string {
	return lowerFirst(f.Name)
}

// DefaultExpr returns the expression evaluated when the field is not set.
func (f *Field) DefaultExpr() string {
	if f.Default == "" {
		return "*new(" + f.Type + ")"
	}
	return f.Default
}
