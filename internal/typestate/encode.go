// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typestate

import (
	"go/ast"
	"strings"

	"github.com/dacolabs/buildergen/internal/schema"
)

// Encode computes the state encoding of a normalized record.
// Encoding is deterministic: equal records give equal plans.
func Encode(r *schema.Record) (*Plan, error) {
	plan := &Plan{Record: r}

	if len(r.TypeParams) > 0 {
		plan.Phantom = "[0]func(" + strings.Join(r.TypeParamNames(), ", ") + ")"
	}

	params := make(map[string]struct{}, len(r.TypeParams))
	for _, name := range r.TypeParamNames() {
		params[name] = struct{}{}
	}

	for _, f := range r.Included() {
		expr, err := schema.ParseType(f.Type)
		if err != nil {
			return nil, schema.Errorf(f.Pos, "record %s: field %s: %v", r.Name, f.Name, err)
		}
		plan.Slots = append(plan.Slots, Slot{
			Field:      f,
			Generic:    f.GenericIdent(),
			Storage:    f.StorageName(),
			Unset:      UnsetShape,
			Set:        "shape.Set[" + f.Type + "]",
			Conversion: conversionOf(expr, params),
		})
	}

	if err := checkIdentifiers(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

var convertible = map[string]bool{
	"bool": true, "string": true, "byte": true, "rune": true, "uintptr": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"float32": true, "float64": true, "complex64": true, "complex128": true,
}

// conversionOf picks Convert when T is its own underlying type and is not a
// bare type parameter, the two conditions for a ~T constraint. Named types
// are left to assignability since their underlying type is unknown here.
func conversionOf(expr ast.Expr, params map[string]struct{}) Conversion {
	switch t := expr.(type) {
	case *ast.ParenExpr:
		return conversionOf(t.X, params)
	case *ast.Ident:
		if _, ok := params[t.Name]; ok {
			return Assign
		}
		if convertible[t.Name] {
			return Convert
		}
		return Assign
	case *ast.ArrayType, *ast.MapType, *ast.StarExpr, *ast.FuncType, *ast.ChanType, *ast.StructType:
		return Convert
	default:
		return Assign
	}
}

// ConvertExpr renders the conversion of the setter argument into the field type.
func (s Slot) ConvertExpr() string {
	if s.Conversion != Convert {
		return ValueParam
	}
	typ := s.Field.Type
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "<-") || strings.HasPrefix(typ, "func") {
		typ = "(" + typ + ")"
	}
	return typ + "(" + ValueParam + ")"
}
