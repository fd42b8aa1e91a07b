// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"go/parser"
	"go/token"
)

// Normalize assigns declaration indexes and slot ordinals and validates the
// record. All problems are reported together.
func (r *Record) Normalize() error {
	var diags Diagnostics

	if !token.IsIdentifier(r.Name) || r.Name == "_" {
		diags.Add(r.Pos, "invalid record name %q", r.Name)
	}
	if r.Options.BuilderName != "" && !token.IsIdentifier(r.Options.BuilderName) {
		diags.Add(r.Pos, "invalid builder name %q", r.Options.BuilderName)
	}

	params := make(map[string]struct{}, len(r.TypeParams))
	for _, p := range r.TypeParams {
		if !token.IsIdentifier(p.Name) || p.Name == "_" {
			diags.Add(r.Pos, "record %s: invalid type parameter %q", r.Name, p.Name)
			continue
		}
		if _, dup := params[p.Name]; dup {
			diags.Add(r.Pos, "record %s: duplicate type parameter %q", r.Name, p.Name)
		}
		params[p.Name] = struct{}{}
		if p.Constraint == "" {
			diags.Add(r.Pos, "record %s: type parameter %s has no constraint", r.Name, p.Name)
		} else if _, err := ParseType(p.Constraint); err != nil {
			diags.Add(r.Pos, "record %s: type parameter %s: %v", r.Name, p.Name, err)
		}
	}

	names := make(map[string]struct{}, len(r.Fields))
	ordinal := 0
	for i, f := range r.Fields {
		f.Index = i
		f.Ordinal = -1
		if !f.Exclude {
			f.Ordinal = ordinal
			ordinal++
		}

		if !token.IsIdentifier(f.Name) || f.Name == "_" {
			diags.Add(f.Pos, "record %s: invalid field name %q", r.Name, f.Name)
		} else if _, dup := names[f.Name]; dup {
			diags.Add(f.Pos, "record %s: duplicate field %q", r.Name, f.Name)
		}
		names[f.Name] = struct{}{}

		if f.Type == "" {
			diags.Add(f.Pos, "record %s: field %s has no type", r.Name, f.Name)
		} else if _, err := ParseType(f.Type); err != nil {
			diags.Add(f.Pos, "record %s: field %s: %v", r.Name, f.Name, err)
		}

		if f.Default != "" {
			if _, err := parser.ParseExpr(f.Default); err != nil {
				diags.Add(f.Pos, "record %s: field %s: invalid default %q: %v", r.Name, f.Name, f.Default, err)
			}
		}

		if f.Exclude && !f.HasDefault {
			diags.Add(f.Pos, "record %s: excluded field %s needs a default", r.Name, f.Name)
		}
	}

	return diags.Err()
}

// Normalize normalizes every record and rejects duplicate record names.
func (u *Unit) Normalize() error {
	var diags Diagnostics
	if u.Package != "" && !token.IsIdentifier(u.Package) {
		diags.Add(Position{File: u.Source}, "invalid package name %q", u.Package)
	}
	seen := make(map[string]struct{}, len(u.Records))
	for _, r := range u.Records {
		if _, dup := seen[r.Name]; dup {
			diags.Add(r.Pos, "duplicate record %q", r.Name)
		}
		seen[r.Name] = struct{}{}
		if err := r.Normalize(); err != nil {
			diags = append(diags, err.(Diagnostics)...)
		}
	}
	return diags.Err()
}
