// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testdata(name string) string {
	return filepath.Join("testdata", name)
}

func fieldNames(r *schema.Record) []string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return names
}

func recordNames(u *schema.Unit) []string {
	names := make([]string, len(u.Records))
	for i, r := range u.Records {
		names[i] = r.Name
	}
	return names
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"models/user.go", FormatGo},
		{"records.yaml", FormatDocument},
		{"records.yml", FormatDocument},
		{"records.json", FormatDocument},
		{"person.schema.json", FormatJSONSchema},
		{"person.Schema.YAML", FormatJSONSchema},
		{"records.hcl", FormatHCL},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := DetectFormat(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DetectFormat("records.toml")
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("HCL")
	require.NoError(t, err)
	assert.Equal(t, FormatHCL, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_GoSource(t *testing.T) {
	unit, err := Load(testdata("user.go"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "models", unit.Package)
	assert.False(t, unit.EmitRecords)
	assert.Equal(t, []schema.Import{{Path: "strings"}, {Path: "time"}}, unit.Imports)
	assert.Equal(t, []string{"User", "Pair"}, recordNames(unit))

	user := unit.Records[0]
	assert.Equal(t, "User is a registered account.", user.Doc)
	assert.Equal(t, "UserMaker", user.Options.BuilderName)
	assert.Equal(t, []string{"Name", "Email", "Timeout", "Tags", "Created"}, fieldNames(user))

	name := user.Fields[0]
	assert.True(t, name.Required())
	assert.Equal(t, 13, name.Pos.Line)

	email := user.Fields[1]
	assert.Equal(t, `strings.ToLower(Name) + "@example.com"`, email.Default)

	timeout := user.Fields[2]
	assert.Equal(t, "time.Duration", timeout.Type)
	assert.Equal(t, "time.Second", timeout.Default)
	assert.Equal(t, "How long requests may take.", timeout.Doc)

	tags := user.Fields[3]
	assert.Equal(t, `[]string{"a", "b"}`, tags.Default)

	created := user.Fields[4]
	assert.True(t, created.Exclude)
	assert.True(t, created.HasDefault)
	assert.Empty(t, created.Default)
	assert.Equal(t, -1, created.Ordinal)

	pair := unit.Records[1]
	assert.True(t, pair.Options.NoDoc)
	assert.Equal(t, []schema.TypeParam{{Name: "K", Constraint: "comparable"}, {Name: "V", Constraint: "any"}}, pair.TypeParams)
	assert.False(t, pair.Fields[1].Required())
}

func TestLoad_GoSourceSelection(t *testing.T) {
	unit, err := Load(testdata("user.go"), Options{Types: []string{"Ignored"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ignored"}, recordNames(unit))

	unit, err = Load(testdata("user.go"), Options{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"User", "Pair", "Ignored"}, recordNames(unit))

	_, err = Load(testdata("user.go"), Options{Types: []string{"Missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "struct Missing not found")
}

func TestParseGo_Diagnostics(t *testing.T) {
	src := []byte(`package models

//buildergen:generate
//buildergen:generate
//buildergen:colour=blue
type Bad struct {
	Embedded
	A int ` + "`builder:\"default=1,default=2\"`" + `
	B int ` + "`builder:\"exclude\"`" + `
	C int ` + "`builder:\"shiny\"`" + `
}
`)
	_, err := Parse("bad.go", src, Options{})
	require.Error(t, err)

	var diags schema.Diagnostics
	require.ErrorAs(t, err, &diags)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Error()
	}
	assert.Equal(t, []string{
		"bad.go:4:1: record Bad: duplicate directive generate",
		"bad.go:5:1: record Bad: unknown directive colour",
		"bad.go:7:2: record Bad: embedded field Embedded is not supported",
		"bad.go:8:8: record Bad: field A: duplicate tag key default",
		"bad.go:10:8: record Bad: field C: unknown tag key shiny",
	}, msgs)
}

func TestParseGo_ExcludeNeedsDefault(t *testing.T) {
	src := []byte("package models\n\n//buildergen:generate\ntype R struct {\n\tB int `builder:\"exclude\"`\n}\n")
	_, err := Parse("r.go", src, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excluded field B needs a default")
}

func TestParseGo_NoRecords(t *testing.T) {
	_, err := Parse("empty.go", []byte("package models\n\ntype X struct{}\n"), Options{})
	assert.ErrorIs(t, err, ErrNoRecords)
}

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{`default=f(1, 2),exclude`, []string{"default=f(1, 2)", "exclude"}},
		{`default=map[string]int{"a": 1, "b": 2}`, []string{`default=map[string]int{"a": 1, "b": 2}`}},
		{`default="x,y",doc=z`, []string{`default="x,y"`, "doc=z"}},
		{`default="a\",b",doc`, []string{`default="a\",b"`, "doc"}},
		{"default='a',exclude", []string{"default='a'", "exclude"}},
		{"default=`a,b`", []string{"default=`a,b`"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTopLevel(tt.in, ','))
		})
	}
}

func TestLoad_YAMLDocument(t *testing.T) {
	unit, err := Load(testdata("records.yaml"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "accounts", unit.Package)
	assert.True(t, unit.EmitRecords)
	assert.Equal(t, []schema.Import{{Path: "time"}}, unit.Imports)
	require.Equal(t, []string{"User", "Pair"}, recordNames(unit))

	user := unit.Records[0]
	assert.Equal(t, schema.Position{File: testdata("records.yaml"), Line: 5, Column: 5}, user.Pos)
	assert.Equal(t, []string{"Name", "Age", "Nick", "Tags", "Created"}, fieldNames(user))
	assert.Equal(t, "18", user.Fields[1].Default)
	assert.Equal(t, `Name + "!"`, user.Fields[2].Default)
	assert.True(t, user.Fields[3].HasDefault)
	assert.Empty(t, user.Fields[3].Default)
	assert.True(t, user.Fields[4].Exclude)
	assert.Equal(t, 8, user.Fields[0].Pos.Line)

	pair := unit.Records[1]
	assert.Len(t, pair.TypeParams, 2)
	assert.True(t, pair.Fields[0].Required())
}

func TestLoad_JSONDocument(t *testing.T) {
	unit, err := Load(testdata("records.json"), Options{})
	require.NoError(t, err)

	require.Len(t, unit.Records, 1)
	point := unit.Records[0]
	assert.Equal(t, "PointMaker", point.Options.BuilderName)
	assert.Equal(t, "X", point.Fields[1].Default)
	assert.Equal(t, 4, point.Pos.Line)
}

func TestParse_InvalidJSONDocument(t *testing.T) {
	_, err := Parse("bad.json", []byte("package: x"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestLoad_DuplicateKeys(t *testing.T) {
	_, err := Load(testdata("duplicate.yaml"), Options{})
	require.Error(t, err)

	var diags schema.Diagnostics
	require.ErrorAs(t, err, &diags)
	require.Len(t, diags, 1)
	assert.Equal(t, schema.Position{File: testdata("duplicate.yaml"), Line: 7, Column: 9}, diags[0].Pos)
	assert.Contains(t, diags[0].Msg, `duplicate key "type"`)
}

func TestParse_UnknownDocumentKey(t *testing.T) {
	_, err := Parse("x.yaml", []byte("package: x\nrecordz: []\n"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recordz")
}

func TestLoad_JSONSchema(t *testing.T) {
	unit, err := Load(testdata("person.schema.json"), Options{Package: "people"})
	require.NoError(t, err)

	assert.Equal(t, "people", unit.Package)
	assert.Equal(t, []schema.Import{{Path: "time"}}, unit.Imports)
	require.Equal(t, []string{"Address", "Geo", "Person"}, recordNames(unit))

	person := unit.Records[2]
	assert.Equal(t, "A person.", person.Doc)
	assert.Equal(t, []string{"Name", "Age", "EmailAddress", "Address", "BornAt", "Nicknames", "Active"}, fieldNames(person))

	byName := make(map[string]*schema.Field)
	for _, f := range person.Fields {
		byName[f.Name] = f
	}
	assert.True(t, byName["Name"].Required())
	assert.Equal(t, `json:"name"`, byName["Name"].Tag)
	assert.Equal(t, "int64", byName["Age"].Type)
	assert.Equal(t, "21", byName["Age"].Default)
	assert.Equal(t, `json:"email_address,omitempty"`, byName["EmailAddress"].Tag)
	assert.Equal(t, "Contact email.", byName["EmailAddress"].Doc)
	assert.Equal(t, "Address", byName["Address"].Type)
	assert.True(t, byName["Address"].Required())
	assert.Equal(t, "time.Time", byName["BornAt"].Type)
	assert.Equal(t, "[]string", byName["Nicknames"].Type)
	assert.Equal(t, "bool", byName["Active"].Type)
	assert.Equal(t, "true", byName["Active"].Default)

	address := unit.Records[0]
	assert.Equal(t, []string{"Street", "Zip", "Geo"}, fieldNames(address))
	assert.Equal(t, `"00000"`, address.Fields[1].Default)
	assert.Equal(t, "Geo", address.Fields[2].Type)
}

func TestLoad_JSONSchemaYAML(t *testing.T) {
	unit, err := Load(testdata("order.schema.yaml"), Options{Package: "orders"})
	require.NoError(t, err)

	require.Equal(t, []string{"Order"}, recordNames(unit))
	order := unit.Records[0]
	assert.Equal(t, []string{"Sku", "Quantity", "Price"}, fieldNames(order))
	assert.Equal(t, "1", order.Fields[1].Default)
	assert.Equal(t, "float64", order.Fields[2].Type)
	assert.Empty(t, unit.Imports)
}

func TestLoad_JSONSchemaFileRefs(t *testing.T) {
	unit, err := Load(testdata("refs/customer.schema.json"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "refs", unit.Package)
	require.Equal(t, []string{"Customer", "Address", "GeoPoint"}, recordNames(unit))

	customer := unit.Records[0]
	assert.Equal(t, []string{"Name", "Billing", "Location", "Referrals"}, fieldNames(customer))
	assert.Equal(t, "Address", customer.Fields[1].Type)
	assert.Equal(t, "GeoPoint", customer.Fields[2].Type)
	assert.Equal(t, "[]Customer", customer.Fields[3].Type)

	address := unit.Records[1]
	assert.Equal(t, `"Lisbon"`, address.Fields[1].Default)
	assert.Equal(t, testdata("refs/address.schema.json"), address.Pos.File)

	geo := unit.Records[2]
	assert.Equal(t, []string{"Lat", "Lon"}, fieldNames(geo))
	assert.True(t, geo.Fields[0].Required())

	addressDoc, err := filepath.Abs(testdata("refs/address.schema.json"))
	require.NoError(t, err)
	geoDoc, err := filepath.Abs(testdata("refs/common/geo.schema.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{addressDoc, geoDoc}, unit.Dependencies)
}

func TestLoad_JSONSchemaMissingRef(t *testing.T) {
	_, err := Load(testdata("refs/broken.schema.json"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "$ref nowhere.schema.json")
}

func TestGoLiteral(t *testing.T) {
	tests := []struct {
		raw     string
		typ     string
		want    string
		wantErr bool
	}{
		{`"x"`, "string", `"x"`, false},
		{`3`, "int64", "3", false},
		{`3.5`, "int64", "", true},
		{`3.5`, "float64", "3.5", false},
		{`false`, "bool", "false", false},
		{`null`, "string", "", false},
		{`"2020-01-01"`, "time.Time", "", true},
		{`[1]`, "[]int64", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw+"/"+tt.typ, func(t *testing.T) {
			got, err := goLiteral([]byte(tt.raw), tt.typ)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_HCL(t *testing.T) {
	unit, err := Load(testdata("records.hcl"), Options{})
	require.NoError(t, err)

	assert.Equal(t, "inventory", unit.Package)
	assert.Equal(t, []schema.Import{{Path: "time"}}, unit.Imports)
	require.Equal(t, []string{"Item", "Box"}, recordNames(unit))

	item := unit.Records[0]
	assert.Equal(t, "Item is a stock item.", item.Doc)
	assert.Equal(t, []string{"SKU", "Quantity", "Fragile", "TTL", "Label"}, fieldNames(item))
	assert.True(t, item.Fields[0].Required())
	assert.Equal(t, "1", item.Fields[1].Default)
	assert.Equal(t, "true", item.Fields[2].Default)
	assert.True(t, item.Fields[3].HasDefault)
	assert.Empty(t, item.Fields[3].Default)
	assert.True(t, item.Fields[4].Exclude)
	assert.Equal(t, `SKU + "-label"`, item.Fields[4].Default)
	assert.Equal(t, testdata("records.hcl"), item.Pos.File)
	assert.Positive(t, item.Fields[0].Pos.Line)

	box := unit.Records[1]
	assert.Equal(t, "BoxMaker", box.Options.BuilderName)
	assert.Equal(t, []schema.TypeParam{{Name: "T", Constraint: "any"}}, box.TypeParams)
}

func TestParse_HCLUnknownAttribute(t *testing.T) {
	src := []byte(`record "A" {
  field "X" {
    type  = "int"
    color = "red"
  }
}
`)
	_, err := Parse("a.hcl", src, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "color")
}

func TestParse_HCLDefaults(t *testing.T) {
	src := []byte(`record "A" {
  field "Ratio" {
    type    = "float64"
    default = 0.25
  }
  field "Name" {
    type    = "string"
    default = "\"anonymous\""
  }
}
`)
	unit, err := Parse("a.hcl", src, Options{})
	require.NoError(t, err)
	assert.Equal(t, "0.25", unit.Records[0].Fields[0].Default)
	assert.Equal(t, `"anonymous"`, unit.Records[0].Fields[1].Default)

	_, err = Parse("b.hcl", []byte(`record "B" {
  field "Tags" {
    type    = "[]string"
    default = ["a"]
  }
}
`), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unsupported default")
}

func TestParse_SelectRecords(t *testing.T) {
	unit, err := Load(testdata("records.hcl"), Options{Types: []string{"Box"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Box"}, recordNames(unit))

	_, err = Load(testdata("records.hcl"), Options{Types: []string{"Nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `record "Nope" not found`)
}

func TestParse_ExplicitFormat(t *testing.T) {
	src := []byte(`record "A" {
  field "X" {
    type = "int"
  }
}
`)
	unit, err := Parse("records.txt", src, Options{Format: FormatHCL, Package: "things"})
	require.NoError(t, err)
	assert.Equal(t, "things", unit.Package)
}

func TestPackageFromDir(t *testing.T) {
	assert.Equal(t, "testdata", packageFromDir(testdata("records.yaml")))
	assert.Equal(t, "myapi", packageFromDir(filepath.Join("/tmp", "my-api", "x.hcl")))
	assert.Equal(t, "records", packageFromDir(filepath.Join("/tmp", "9lives", "x.hcl")))
}
