// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/dacolabs/buildergen/internal/schema"
)

const (
	directivePrefix = "//buildergen:"
	tagKey          = "builder"
)

// parseGo extracts records from the struct declarations of one Go file.
func parseGo(path string, src []byte, opts Options) (*schema.Unit, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	x := &goExtractor{fset: fset, opts: opts}
	unit := &schema.Unit{Package: file.Name.Name}
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		var name string
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		unit.Imports = append(unit.Imports, schema.Import{Name: name, Path: p})
	}

	found := make(map[string]bool)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			st, ok := ts.Type.(*ast.StructType)
			if !ok {
				continue
			}
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			mark := len(x.diags)
			r, annotated := x.record(ts, st, doc)
			if !x.wanted(ts.Name.Name, annotated) {
				// problems in structs nobody asked for are not reported
				x.diags = x.diags[:mark]
				continue
			}
			found[ts.Name.Name] = true
			unit.Records = append(unit.Records, r)
		}
	}

	for _, name := range opts.Types {
		if !found[name] {
			x.diags.Add(schema.Position{File: path}, "struct %s not found", name)
		}
	}
	if err := x.diags.Err(); err != nil {
		return nil, err
	}
	return unit, nil
}

type goExtractor struct {
	fset  *token.FileSet
	opts  Options
	diags schema.Diagnostics
}

func (x *goExtractor) pos(p token.Pos) schema.Position {
	position := x.fset.Position(p)
	return schema.Position{File: position.Filename, Line: position.Line, Column: position.Column}
}

func (x *goExtractor) wanted(name string, annotated bool) bool {
	if len(x.opts.Types) > 0 {
		return slices.Contains(x.opts.Types, name)
	}
	return x.opts.All || annotated
}

// record converts one struct declaration. annotated reports whether its doc
// comment carries a //buildergen:generate directive.
func (x *goExtractor) record(ts *ast.TypeSpec, st *ast.StructType, doc *ast.CommentGroup) (*schema.Record, bool) {
	r := &schema.Record{
		Name: ts.Name.Name,
		Pos:  x.pos(ts.Name.Pos()),
	}
	if ts.TypeParams != nil {
		for _, field := range ts.TypeParams.List {
			constraint := types.ExprString(field.Type)
			for _, name := range field.Names {
				r.TypeParams = append(r.TypeParams, schema.TypeParam{Name: name.Name, Constraint: constraint})
			}
		}
	}

	annotated := x.directives(r, doc)

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			x.diags.Add(x.pos(field.Pos()), "record %s: embedded field %s is not supported", r.Name, types.ExprString(field.Type))
			continue
		}
		typ := types.ExprString(field.Type)
		var tag string
		tagPos := x.pos(field.Pos())
		if field.Tag != nil {
			tag, _ = strconv.Unquote(field.Tag.Value)
			tagPos = x.pos(field.Tag.Pos())
		}
		for _, name := range field.Names {
			f := &schema.Field{
				Name: name.Name,
				Type: typ,
				Tag:  tag,
				Pos:  x.pos(name.Pos()),
			}
			x.modifiers(r, f, tag, tagPos)
			r.Fields = append(r.Fields, f)
		}
	}
	return r, annotated
}

// directives applies the //buildergen: lines of a struct's doc comment and
// keeps the remaining text as the record doc.
func (x *goExtractor) directives(r *schema.Record, doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	annotated := false
	seen := make(map[string]bool)
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, directivePrefix)
		if !ok {
			continue
		}
		key, value, hasValue := strings.Cut(strings.TrimSpace(text), "=")
		pos := x.pos(c.Slash)
		if seen[key] {
			x.diags.Add(pos, "record %s: duplicate directive %s", r.Name, key)
			continue
		}
		seen[key] = true

		switch key {
		case "generate":
			annotated = true
		case "nodoc":
			r.Options.NoDoc = true
		case "name":
			r.Options.BuilderName = value
		case "builder-doc":
			r.Options.BuilderDoc = value
		case "type-doc":
			r.Options.BuilderTypeDoc = value
		case "build-doc":
			r.Options.BuildDoc = value
		default:
			x.diags.Add(pos, "record %s: unknown directive %s", r.Name, key)
			continue
		}
		switch {
		case (key == "generate" || key == "nodoc") && hasValue:
			x.diags.Add(pos, "record %s: directive %s takes no value", r.Name, key)
		case key != "generate" && key != "nodoc" && value == "":
			x.diags.Add(pos, "record %s: directive %s needs a value", r.Name, key)
		}
	}

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if !strings.HasPrefix(line, "buildergen:") {
			lines = append(lines, line)
		}
	}
	r.Doc = strings.TrimSpace(strings.Join(lines, "\n"))
	return annotated
}

// modifiers applies the builder:"..." struct tag of a field.
func (x *goExtractor) modifiers(r *schema.Record, f *schema.Field, tag string, pos schema.Position) {
	value, ok := reflect.StructTag(tag).Lookup(tagKey)
	if !ok {
		return
	}
	seen := make(map[string]bool)
	for _, item := range SplitTopLevel(value, ',') {
		key, arg, hasArg := strings.Cut(strings.TrimSpace(item), "=")
		if key == "" {
			continue
		}
		if seen[key] {
			x.diags.Add(pos, "record %s: field %s: duplicate tag key %s", r.Name, f.Name, key)
			continue
		}
		seen[key] = true

		switch key {
		case "default":
			f.HasDefault = true
			f.Default = strings.TrimSpace(arg)
		case "exclude":
			if hasArg {
				x.diags.Add(pos, "record %s: field %s: exclude takes no value", r.Name, f.Name)
			}
			f.Exclude = true
		case "doc":
			f.Doc = strings.TrimSpace(arg)
		default:
			x.diags.Add(pos, "record %s: field %s: unknown tag key %s", r.Name, f.Name, key)
		}
	}
}

// SplitTopLevel splits s at sep, ignoring separators nested in brackets,
// braces, parentheses or string and rune literals.
func SplitTopLevel(s string, sep rune) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)
	for i, c := range s {
		switch {
		case quote != 0:
			if c == quote && (quote == '`' || !escaped(s, i)) {
				quote = 0
			}
		case c == '"' || c == '\'' || c == '`':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + len(string(sep))
		}
	}
	return append(parts, s[start:])
}

// escaped reports whether the byte at i is preceded by an odd number of backslashes.
func escaped(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
