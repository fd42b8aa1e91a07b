// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userRecord() *Record {
	return &Record{
		Name: "User",
		Fields: []*Field{
			{Name: "Name", Type: "string"},
			{Name: "ID", Type: "string", HasDefault: true, Default: "newID()", Exclude: true},
			{Name: "Age", Type: "int", HasDefault: true, Default: "18"},
			{Name: "Tags", Type: "[]string", HasDefault: true},
		},
	}
}

func TestRecord_Names(t *testing.T) {
	r := userRecord()

	assert.True(t, r.Exported())
	assert.Equal(t, "UserBuilder", r.BuilderName())
	assert.Equal(t, "NewUserBuilder", r.ConstructorName())
	assert.Equal(t, "SetUserAge", r.SetterName(r.Fields[2]))
	assert.Equal(t, "BuildUser", r.FinalizerName())
	assert.Equal(t, "presenceUser", r.PresenceName())
	assert.Equal(t, "resolveUser", r.ResolveName())

	r.Options.BuilderName = "UserFactory"
	assert.Equal(t, "NewUserFactory", r.ConstructorName())
}

func TestRecord_UnexportedNames(t *testing.T) {
	r := &Record{Name: "point", Fields: []*Field{{Name: "x", Type: "int"}}}

	assert.False(t, r.Exported())
	assert.Equal(t, "pointBuilder", r.BuilderName())
	assert.Equal(t, "newPointBuilder", r.ConstructorName())
	assert.Equal(t, "setPointX", r.SetterName(r.Fields[0]))
	assert.Equal(t, "buildPoint", r.FinalizerName())
	assert.Equal(t, "presencePoint", r.PresenceName())
}

func TestRecord_NormalizeOrdinals(t *testing.T) {
	r := userRecord()
	require.NoError(t, r.Normalize())

	var got [][2]int
	for _, f := range r.Fields {
		got = append(got, [2]int{f.Index, f.Ordinal})
	}
	assert.Equal(t, [][2]int{{0, 0}, {1, -1}, {2, 1}, {3, 2}}, got)

	included := r.Included()
	require.Len(t, included, 3)
	for i, f := range included {
		assert.Equal(t, i, f.Ordinal)
	}
}

func TestRecord_NormalizeDiagnostics(t *testing.T) {
	r := &Record{
		Name: "Bad",
		Pos:  Position{File: "bad.go", Line: 3, Column: 6},
		TypeParams: []TypeParam{
			{Name: "T", Constraint: "any"},
			{Name: "T", Constraint: "any"},
		},
		Fields: []*Field{
			{Name: "A", Type: "int", Pos: Position{File: "bad.go", Line: 4, Column: 2}},
			{Name: "A", Type: "int", Pos: Position{File: "bad.go", Line: 5, Column: 2}},
			{Name: "B", Type: "map[string", Pos: Position{File: "bad.go", Line: 6, Column: 2}},
			{Name: "C", Type: "int", Exclude: true, Pos: Position{File: "bad.go", Line: 7, Column: 2}},
		},
	}

	err := r.Normalize()
	require.Error(t, err)

	diags, ok := err.(Diagnostics)
	require.True(t, ok)
	require.Len(t, diags, 4)
	assert.Contains(t, diags[0].Error(), `bad.go:3:6: record Bad: duplicate type parameter "T"`)
	assert.Contains(t, diags[1].Error(), `bad.go:5:2: record Bad: duplicate field "A"`)
	assert.Contains(t, diags[2].Error(), "bad.go:6:2: record Bad: field B: invalid type")
	assert.Contains(t, diags[3].Error(), "bad.go:7:2: record Bad: excluded field C needs a default")
}

func TestUnit_NormalizeDuplicateRecords(t *testing.T) {
	u := &Unit{
		Package: "models",
		Records: []*Record{userRecord(), userRecord()},
	}
	err := u.Normalize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate record "User"`)
}

func TestField_DefaultExpr(t *testing.T) {
	assert.Equal(t, "*new([]string)", (&Field{Type: "[]string", HasDefault: true}).DefaultExpr())
	assert.Equal(t, "18", (&Field{Type: "int", HasDefault: true, Default: "18"}).DefaultExpr())
	assert.Equal(t, "_Name", (&Field{Name: "Name"}).GenericIdent())
	assert.Equal(t, "name", (&Field{Name: "Name"}).StorageName())
}

func TestTypeIdents(t *testing.T) {
	tests := []struct {
		typ  string
		want []string
	}{
		{"string", []string{"string"}},
		{"time.Time", []string{"time"}},
		{"map[K][]*V", []string{"K", "V"}},
		{"func(ctx context.Context, n int) error", []string{"context", "int", "error"}},
		{"struct{ Name string }", []string{"string"}},
		{"Pair[K, V]", []string{"Pair", "K", "V"}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			expr, err := ParseType(tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, TypeIdents(expr))
		})
	}
}

func TestParseType_Rejects(t *testing.T) {
	for _, s := range []string{"1", `"x"`, "f()", "a + b", "map["} {
		_, err := ParseType(s)
		assert.Error(t, err, s)
	}
}

func TestPosition_String(t *testing.T) {
	assert.Equal(t, "-", Position{}.String())
	assert.Equal(t, "a.yaml", Position{File: "a.yaml"}.String())
	assert.Equal(t, "a.yaml:3", Position{File: "a.yaml", Line: 3}.String())
	assert.Equal(t, "a.yaml:3:4", Position{File: "a.yaml", Line: 3, Column: 4}.String())
}
