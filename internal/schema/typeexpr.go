// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package schema

import (
	"fmt"
	"go/ast"
	"go/parser"
)

// ParseType parses a Go type expression.
func ParseType(s string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(s)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", s, err)
	}
	switch expr.(type) {
	case *ast.BasicLit, *ast.CompositeLit, *ast.CallExpr, *ast.BinaryExpr, *ast.FuncLit, *ast.UnaryExpr:
		return nil, fmt.Errorf("invalid type %q: not a type expression", s)
	}
	return expr, nil
}

// TypeIdents returns the identifiers a type expression refers to, including
// package qualifiers, in first-seen order.
func TypeIdents(expr ast.Expr) []string {
	c := identCollector{seen: make(map[string]struct{})}
	c.collect(expr)
	return c.idents
}

type identCollector struct {
	idents []string
	seen   map[string]struct{}
}

func (c *identCollector) collect(node ast.Node) {
	ast.Inspect(node, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.SelectorExpr:
			c.collect(n.X)
			return false
		case *ast.Field:
			// names in struct, func and interface literals declare rather than refer
			c.collect(n.Type)
			return false
		case *ast.Ident:
			if _, ok := c.seen[n.Name]; !ok && n.Name != "_" {
				c.seen[n.Name] = struct{}{}
				c.idents = append(c.idents, n.Name)
			}
		}
		return true
	})
}
