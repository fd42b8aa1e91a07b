// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package generate

import (
	"bytes"
	"embed"
	"fmt"
	"go/ast"
	"go/parser"
	"path"
	"strings"
	"text/template"

	"github.com/dacolabs/buildergen/internal/schema"
	"github.com/dacolabs/buildergen/internal/typestate"
	"golang.org/x/tools/imports"
)

//go:embed file.go.tmpl
var tmplFS embed.FS

// Funcs are the template helpers shared by all generators.
var Funcs = template.FuncMap{
	"comment": Comment,
	"indent": func(s string) string {
		if s == "" {
			return s
		}
		return "\t" + strings.ReplaceAll(s, "\n", "\n\t")
	},
}

var fileTmpl = template.Must(template.New("file.go.tmpl").Funcs(Funcs).ParseFS(tmplFS, "file.go.tmpl"))

// Comment renders text as a // comment block. Empty text renders nothing.
func Comment(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			lines[i] = "//"
		} else {
			lines[i] = "// " + l
		}
	}
	return strings.Join(lines, "\n")
}

type fileData struct {
	Source  string
	Package string
	Imports []schema.Import
	Records []recordData
	Body    []byte
}

type recordData struct {
	Doc    string
	Name   string
	Params string
	Fields []*schema.Field
}

// RenderFile wraps a generator's body in a file: header, package clause, the
// imports the unit actually refers to and, for non-Go inputs, the record
// declarations themselves.
func RenderFile(unit *schema.Unit, body []byte, extra ...schema.Import) ([]byte, error) {
	used := UsedImports(unit)
	for _, imp := range used {
		if imp.Path != typestate.ShapeImport && ImportName(imp) == typestate.ShapePackage {
			return nil, schema.Errorf(schema.Position{File: unit.Source},
				"import %q binds %s, which generated builders reserve for %s", imp.Path, typestate.ShapePackage, typestate.ShapeImport)
		}
	}
	data := fileData{
		Source:  path.Base(unit.Source),
		Package: unit.Package,
		Imports: mergeImports(extra, used),
		Body:    body,
	}
	if unit.Source == "" {
		data.Source = ""
	}
	if data.Package == "" {
		return nil, fmt.Errorf("unit %s has no package name", unit.Source)
	}

	if unit.EmitRecords {
		for _, r := range unit.Records {
			params := make([]string, len(r.TypeParams))
			for i, p := range r.TypeParams {
				params[i] = p.Name + " " + p.Constraint
			}
			data.Records = append(data.Records, recordData{
				Doc:    r.Doc,
				Name:   r.Name,
				Params: typestate.TypeList(params),
				Fields: r.Fields,
			})
		}
	}

	var buf bytes.Buffer
	if err := fileTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// UsedImports returns the unit imports the output refers to through field
// types, default expressions and type parameter constraints. Builders spell
// out every field type, so these are used whether or not the record
// declarations are emitted.
func UsedImports(unit *schema.Unit) []schema.Import {
	used := make(map[string]struct{})
	for _, r := range unit.Records {
		for _, f := range r.Fields {
			collectQualifiers(f.Type, used)
			if f.Default != "" {
				collectQualifiers(f.Default, used)
			}
		}
		for _, p := range r.TypeParams {
			collectQualifiers(p.Constraint, used)
		}
	}

	var result []schema.Import
	for _, imp := range unit.Imports {
		if _, ok := used[ImportName(imp)]; ok {
			result = append(result, imp)
		}
	}
	return result
}

func mergeImports(lists ...[]schema.Import) []schema.Import {
	var result []schema.Import
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, imp := range list {
			if _, dup := seen[imp.Path]; dup {
				continue
			}
			seen[imp.Path] = struct{}{}
			result = append(result, imp)
		}
	}
	return result
}

func collectQualifiers(src string, into map[string]struct{}) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return
	}
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if id, ok := sel.X.(*ast.Ident); ok {
				into[id.Name] = struct{}{}
			}
		}
		return true
	})
}

// ImportName returns the identifier an import binds: its alias, or a guess
// from the path for unaliased imports ("gopkg.in/yaml.v3" binds yaml,
// "github.com/hashicorp/hcl/v2" binds hcl).
func ImportName(imp schema.Import) string {
	if imp.Name != "" {
		return imp.Name
	}
	p := imp.Path
	base := path.Base(p)
	if isMajorVersion(base) && path.Dir(p) != "." {
		base = path.Base(path.Dir(p))
	}
	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "")
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, c := range s[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Format gofmts src and groups its imports. With fixImports, imports the
// source uses but does not declare are added and unused ones removed.
func Format(filename string, src []byte, fixImports bool) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: !fixImports,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code: %w", err)
	}
	return out, nil
}
