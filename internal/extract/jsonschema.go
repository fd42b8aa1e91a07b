// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/google/jsonschema-go/jsonschema"
	"gopkg.in/yaml.v3"
)

// parseJSONSchema turns every object schema of a JSON Schema document into a
// record: each entry of $defs (or definitions) and the root itself. Documents
// reached through file $refs contribute their records too.
func parseJSONSchema(path string, src []byte) (*schema.Unit, error) {
	c := &schemaConverter{
		resolver: goTypeResolver{},
		loaded:   make(map[string]string),
	}
	if _, err := c.document(path, src); err != nil {
		return nil, err
	}
	if err := c.diags.Err(); err != nil {
		return nil, err
	}

	unit := &schema.Unit{Records: c.records, EmitRecords: true}
	input, _ := filepath.Abs(path)
	for doc := range c.loaded {
		if doc != input {
			unit.Dependencies = append(unit.Dependencies, doc)
		}
	}
	sort.Strings(unit.Dependencies)
	if c.needsTime {
		unit.Imports = append(unit.Imports, schema.Import{Path: "time"})
	}
	return unit, nil
}

// document converts the schema document at path and returns the name of its
// root record, empty when the root declares no properties.
func (c *schemaConverter) document(path string, src []byte) (string, error) {
	s, keyOrder, err := loadJSONSchema(path, src)
	if err != nil {
		return "", err
	}

	rootName := ""
	if len(s.Properties) > 0 {
		rootName = s.Title
		if rootName == "" {
			rootName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			rootName = strings.TrimSuffix(rootName, ".schema")
		}
		rootName = toPascalCase(rootName)
	}
	if abs, err := filepath.Abs(path); err == nil {
		c.loaded[abs] = rootName
	}

	prevPath, prevOrder := c.path, c.keyOrder
	c.path, c.keyOrder = path, keyOrder
	defer func() { c.path, c.keyOrder = prevPath, prevOrder }()

	for _, group := range []struct {
		prefix string
		defs   map[string]*jsonschema.Schema
	}{
		{"$defs", s.Defs},
		{"definitions", s.Definitions},
	} {
		names := make([]string, 0, len(group.defs))
		for name := range group.defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c.object(toPascalCase(name), group.defs[name], group.prefix+"."+name)
		}
	}

	if rootName != "" {
		c.object(rootName, s, "")
	}
	return rootName, nil
}

// external resolves a $ref into another file, such as "address.schema.json"
// or "common.schema.yaml#/$defs/geo", relative to the current document.
// Every file is converted once.
func (c *schemaConverter) external(ref string) string {
	file, fragment, _ := strings.Cut(ref, "#")
	full := filepath.Join(filepath.Dir(c.path), filepath.FromSlash(file))

	rootName, seen := "", false
	if abs, err := filepath.Abs(full); err == nil {
		rootName, seen = c.loaded[abs]
	}
	if !seen {
		src, err := os.ReadFile(full) //nolint:gosec // ref is relative to the input
		if err != nil {
			c.diags.Add(schema.Position{File: c.path}, "$ref %s: %v", ref, err)
			return "any"
		}
		if rootName, err = c.document(full, src); err != nil {
			c.diags.Add(schema.Position{File: c.path}, "$ref %s: %v", ref, err)
			return "any"
		}
	}

	if fragment != "" {
		return c.resolver.RefType(refDefName("#" + fragment))
	}
	if rootName == "" {
		c.diags.Add(schema.Position{File: c.path}, "$ref %s: document has no properties", ref)
		return "any"
	}
	return rootName
}

// loadJSONSchema decodes a JSON or YAML schema and records property order,
// which the decoded maps lose.
func loadJSONSchema(path string, src []byte) (*jsonschema.Schema, map[string][]string, error) {
	raw := src
	var keyOrder map[string][]string

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var root yaml.Node
		if err := yaml.Unmarshal(src, &root); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		keyOrder = keyOrderFromYAML(&root)

		var v any
		if err := root.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	default:
		keyOrder = keyOrderFromJSON(src)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, nil, fmt.Errorf("%s: invalid JSON Schema: %w", path, err)
	}
	return &s, keyOrder, nil
}

type schemaConverter struct {
	path      string              // document being converted
	keyOrder  map[string][]string // property order of that document
	loaded    map[string]string   // absolute document path to root record name
	resolver  goTypeResolver
	records   []*schema.Record
	needsTime bool
	diags     schema.Diagnostics
}

// object converts an object schema found at path into a record named name.
// Inline objects in its properties become records of their own.
func (c *schemaConverter) object(name string, s *jsonschema.Schema, path string) {
	r := &schema.Record{
		Name: name,
		Doc:  s.Description,
		Pos:  schema.Position{File: c.path},
	}
	c.records = append(c.records, r)

	required := make(map[string]bool, len(s.Required))
	for _, req := range s.Required {
		required[req] = true
	}

	for _, prop := range c.orderedKeys(s, path) {
		ps := s.Properties[prop]
		propPath := joinPath(joinPath(path, "properties"), prop)

		f := &schema.Field{
			Name: toPascalCase(prop),
			Type: c.resolveType(ps, prop, propPath),
			Doc:  ps.Description,
			Pos:  schema.Position{File: c.path},
		}
		tag := prop
		if !required[prop] {
			tag += ",omitempty"
		}
		f.Tag = `json:"` + tag + `"`

		if !required[prop] {
			f.HasDefault = true
			if len(ps.Default) > 0 {
				lit, err := goLiteral(ps.Default, f.Type)
				if err != nil {
					c.diags.Add(f.Pos, "record %s: property %s: %v", name, prop, err)
				}
				f.Default = lit
			}
		}
		r.Fields = append(r.Fields, f)
	}
}

func (c *schemaConverter) resolveType(s *jsonschema.Schema, prop, path string) string {
	if isFileRef(s.Ref) {
		return c.external(s.Ref)
	}
	if s.Ref != "" {
		return c.resolver.RefType(refDefName(s.Ref))
	}

	typ := schemaType(s)
	switch {
	case typ == "array":
		if s.Items != nil {
			return c.resolver.ArrayType(c.resolveType(s.Items, prop, joinPath(path, "items")))
		}
		return c.resolver.ArrayType("any")
	case typ == "object" || (typ == "" && len(s.Properties) > 0):
		if len(s.Properties) == 0 {
			return "map[string]any"
		}
		name := toPascalCase(prop)
		c.object(name, s, path)
		return name
	}

	t := c.resolver.PrimitiveType(typ, s.Format)
	if t == "time.Time" {
		c.needsTime = true
	}
	return t
}

// orderedKeys returns the property names of s in document order.
func (c *schemaConverter) orderedKeys(s *jsonschema.Schema, path string) []string {
	order := c.keyOrder[joinPath(path, "properties")]
	seen := make(map[string]bool, len(s.Properties))
	keys := make([]string, 0, len(s.Properties))
	for _, key := range order {
		if _, ok := s.Properties[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	var rest []string
	for key := range s.Properties {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// schemaType returns the single non-null type of s.
func schemaType(s *jsonschema.Schema) string {
	if s.Type != "" {
		return s.Type
	}
	for _, t := range s.Types {
		if t != "null" {
			return t
		}
	}
	return ""
}

// isFileRef reports whether ref points into another file.
func isFileRef(ref string) bool {
	return ref != "" && !strings.HasPrefix(ref, "#")
}

func refDefName(ref string) string {
	for _, prefix := range []string{"#/$defs/", "#/definitions/", "#/components/schemas/"} {
		if name, ok := strings.CutPrefix(ref, prefix); ok {
			return name
		}
	}
	return ref
}

// goLiteral renders a JSON default as a Go expression of type typ.
func goLiteral(raw json.RawMessage, typ string) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case nil:
		return "", nil
	case string:
		if typ != "string" {
			return "", fmt.Errorf("string default for %s is not supported", typ)
		}
		return strconv.Quote(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		if typ == "int64" && v != float64(int64(v)) {
			return "", fmt.Errorf("default %v is not an integer", v)
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("default of kind %T is not supported", v)
	}
}

// goTypeResolver maps JSON Schema types to Go types.
type goTypeResolver struct{}

func (goTypeResolver) PrimitiveType(schemaType, format string) string {
	switch format {
	case "date", "date-time":
		return "time.Time"
	}

	switch schemaType {
	case "string":
		return "string"
	case "integer":
		return "int64"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	default:
		return "any"
	}
}

func (goTypeResolver) ArrayType(elemType string) string {
	return "[]" + elemType
}

func (goTypeResolver) RefType(defName string) string {
	return toPascalCase(defName)
}

// toPascalCase converts a snake_case, kebab-case or camelCase name to
// PascalCase, upper-casing common Go initialisms.
func toPascalCase(s string) string {
	acronyms := map[string]string{
		"id":   "ID",
		"url":  "URL",
		"http": "HTTP",
		"api":  "API",
		"json": "JSON",
		"xml":  "XML",
		"sql":  "SQL",
		"html": "HTML",
		"ip":   "IP",
		"uri":  "URI",
		"uuid": "UUID",
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})

	var sb strings.Builder
	for _, part := range parts {
		if acronym, ok := acronyms[strings.ToLower(part)]; ok {
			sb.WriteString(acronym)
		} else if part != "" {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return sb.String()
}
