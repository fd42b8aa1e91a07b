// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"testing"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsedImports(t *testing.T) {
	unit := &schema.Unit{
		Package: "events",
		Imports: []schema.Import{
			{Path: "time"},
			{Path: "net/url"},
			{Path: "strings"},
			{Name: "pb", Path: "example.com/proto/events"},
			{Path: "fmt"},
		},
		Records: []*schema.Record{{
			Name:       "Event",
			TypeParams: []schema.TypeParam{{Name: "P", Constraint: "pb.Message"}},
			Fields: []*schema.Field{
				{Name: "At", Type: "time.Time"},
				{Name: "Link", Type: "*url.URL", HasDefault: true, Default: "nil", Exclude: true},
				{Name: "Key", Type: "string", HasDefault: true, Default: `strings.ToLower("K")`},
			},
		}},
	}

	var paths []string
	for _, imp := range UsedImports(unit) {
		paths = append(paths, imp.Path)
	}
	assert.Equal(t, []string{"time", "net/url", "strings", "example.com/proto/events"}, paths)

	unit.EmitRecords = true
	assert.Len(t, UsedImports(unit), 4)
}

func TestRenderFile_GoSourceImportsFieldTypes(t *testing.T) {
	unit := &schema.Unit{
		Source:  "models/event.go",
		Package: "models",
		Imports: []schema.Import{{Path: "time"}},
		Records: []*schema.Record{{
			Name:   "Event",
			Fields: []*schema.Field{{Name: "At", Type: "time.Time"}},
		}},
	}

	out, err := RenderFile(unit, []byte("func f(value time.Time) {}\n"), schema.Import{Path: "github.com/dacolabs/buildergen/shape"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "// source: event.go")
	assert.Contains(t, string(out), "\t\"time\"\n")
	assert.NotContains(t, string(out), "type Event struct")
}

func TestRenderFile_ReservedShapeName(t *testing.T) {
	tests := []struct {
		name string
		imp  schema.Import
	}{
		{name: "package named shape", imp: schema.Import{Path: "example.com/geometry/shape"}},
		{name: "alias", imp: schema.Import{Name: "shape", Path: "example.com/geometry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unit := &schema.Unit{
				Source:  "figure.go",
				Package: "figures",
				Imports: []schema.Import{tt.imp},
				Records: []*schema.Record{{
					Name: "Figure",
					Fields: []*schema.Field{
						{Name: "Outline", Type: "int", HasDefault: true, Default: "shape.Sides"},
					},
				}},
			}
			_, err := RenderFile(unit, nil, schema.Import{Path: "github.com/dacolabs/buildergen/shape"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "which generated builders reserve for github.com/dacolabs/buildergen/shape")
		})
	}
}
