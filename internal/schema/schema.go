// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package schema defines the normalized record descriptions the generators consume.
package schema

import (
	"unicode"
	"unicode/utf8"
)

// Unit is one generation unit: the records that land in a single output file.
type Unit struct {
	Source      string    // path of the description the unit was read from
	Package     string    // Go package of the output file
	Imports     []Import  // imports available to default expressions
	Records     []*Record // in source order
	EmitRecords bool      // also emit the record declarations (non-Go inputs)

	// Dependencies are the absolute paths of other documents the description
	// pulled records from, such as files reached through a JSON Schema $ref.
	Dependencies []string
}

// Import is a Go import visible to default expressions.
type Import struct {
	Name string // explicit alias, empty for none
	Path string
}

// Record describes one data record and how its builder is named and documented.
type Record struct {
	Name       string
	Doc        string
	TypeParams []TypeParam
	Fields     []*Field
	Options    Options
	Pos        Position
}

// TypeParam is one of the record's own type parameters.
type TypeParam struct {
	Name       string
	Constraint string
}

// Options holds record-level overrides.
type Options struct {
	BuilderName    string // replaces <Name>Builder
	NoDoc          bool   // emit one-line docs only
	BuilderDoc     string // constructor doc override
	BuilderTypeDoc string // builder type doc override
	BuildDoc       string // finalizer doc override
}

// Exported reports whether the record is visible outside its package.
func (r *Record) Exported() bool {
	c, _ := utf8.DecodeRuneInString(r.Name)
	return unicode.IsUpper(c)
}

// Included returns the fields that get a builder slot, in ordinal order.
func (r *Record) Included() []*Field {
	fields := make([]*Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if !f.Exclude {
			fields = append(fields, f)
		}
	}
	return fields
}

// BuilderName returns the builder type name.
func (r *Record) BuilderName() string {
	if r.Options.BuilderName != "" {
		return r.Options.BuilderName
	}
	return r.Name + "Builder"
}

// PresenceName is the constraint interface of the presence-resolution helper.
func (r *Record) PresenceName() string {
	return "presence" + upperFirst(r.Name)
}

// ResolveName is the function of the presence-resolution helper.
func (r *Record) ResolveName() string {
	return "resolve" + upperFirst(r.Name)
}

// ConstructorName returns the zero-state constructor name.
func (r *Record) ConstructorName() string {
	return r.visible("new") + upperFirst(r.BuilderName())
}

// SetterName returns the name of the setter for f.
func (r *Record) SetterName(f *Field) string {
	return r.visible("set") + upperFirst(r.Name) + upperFirst(f.Name)
}

// ConvertSetterName returns the name of the setter for f that converts its
// argument.
func (r *Record) ConvertSetterName(f *Field) string {
	return r.SetterName(f) + "From"
}

// FinalizerName returns the name of the finalizing function.
func (r *Record) FinalizerName() string {
	return r.visible("build") + upperFirst(r.Name)
}

// TypeParamNames returns the names of the record's own type parameters.
func (r *Record) TypeParamNames() []string {
	names := make([]string, len(r.TypeParams))
	for i, p := range r.TypeParams {
		names[i] = p.Name
	}
	return names
}

func (r *Record) visible(prefix string) string {
	if r.Exported() {
		return upperFirst(prefix)
	}
	return prefix
}

func upperFirst(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(c)) + s[size:]
}

func lowerFirst(s string) string {
	c, size := utf8.DecodeRuneInString(s)
	if c == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(c)) + s[size:]
}
